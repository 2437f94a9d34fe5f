package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/johnrirwin/headlinehub/internal/aggregator"
	"github.com/johnrirwin/headlinehub/internal/models"
)

const rootMessage = "News aggregator API is running! go to /trending to see news"

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type notFoundResponse struct {
	Status             string   `json:"status"`
	Message            string   `json:"message"`
	AvailableEndpoints []string `json:"available_endpoints"`
}

type trendingResponse struct {
	Status string `json:"status"`
	models.TrendingResult
}

type categoryResponse struct {
	Status string `json:"status"`
	models.CategoryResult
}

type searchResponse struct {
	Status string `json:"status"`
	models.SearchResult
}

type statsResponse struct {
	Status string `json:"status"`
	models.StatsResult
}

type analyticsResponse struct {
	Status string `json:"status"`
	models.AnalyticsResult
}

type summaryResponse struct {
	Status    string `json:"status"`
	ArticleID string `json:"article_id"`
	Summary   string `json:"summary"`
	Note      string `json:"note"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(rootMessage))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, notFoundResponse{
		Status:             "error",
		Message:            "Endpoint not found",
		AvailableEndpoints: AvailableEndpoints(),
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	result, err := s.agg.Trending(r.Context())
	if err != nil {
		s.writeFault(w, r, "trending", err)
		return
	}
	s.writeJSON(w, http.StatusOK, trendingResponse{Status: "ok", TrendingResult: result})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))

	result, err := s.agg.ByCategory(r.Context(), category)
	if err != nil {
		s.writeFault(w, r, "news", err)
		return
	}
	s.writeJSON(w, http.StatusOK, categoryResponse{Status: "ok", CategoryResult: result})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.agg.Search(r.Context(), r.URL.Query().Get("q"))
	if errors.Is(err, aggregator.ErrEmptyQuery) {
		s.writeError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}
	if err != nil {
		s.writeFault(w, r, "search", err)
		return
	}
	s.writeJSON(w, http.StatusOK, searchResponse{Status: "ok", SearchResult: result})
}

// handleStats is the one route that reports the failure cause to the client.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.agg.Stats(r.Context())
	if err != nil {
		s.logFault(r, "stats", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, statsResponse{Status: "ok", StatsResult: result})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := s.agg.Analytics(r.Context())
	if err != nil {
		s.writeFault(w, r, "analytics", err)
		return
	}
	s.writeJSON(w, http.StatusOK, analyticsResponse{Status: "ok", AnalyticsResult: result})
}

// handleSummary returns a fixed placeholder; no summarization happens.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/summary/")
	if id == "" || strings.Contains(id, "/") {
		s.handleNotFound(w, r)
		return
	}

	s.writeJSON(w, http.StatusOK, summaryResponse{
		Status:    "ok",
		ArticleID: id,
		Summary:   "AI-powered summaries are not available yet. Open the original article for the full story.",
		Note:      "placeholder response",
	})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Documentation())
}
