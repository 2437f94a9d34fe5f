package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/johnrirwin/headlinehub/internal/aggregator"
	"github.com/johnrirwin/headlinehub/internal/logging"
	"github.com/johnrirwin/headlinehub/internal/metrics"
)

// Options tunes the inbound side of the server. A zero RequestRPS disables the
// per-client limiter.
type Options struct {
	RequestRPS   float64
	RequestBurst int
}

type Server struct {
	agg     *aggregator.Aggregator
	logger  *logging.Logger
	limiter *clientLimiter
	server  *http.Server
}

func New(agg *aggregator.Aggregator, logger *logging.Logger, opts Options) *Server {
	s := &Server{
		agg:    agg,
		logger: logger,
	}
	if opts.RequestRPS > 0 {
		s.limiter = newClientLimiter(opts.RequestRPS, opts.RequestBurst)
	}
	// Built up front so a Shutdown that lands before Start still stops it.
	s.server = &http.Server{
		Handler: s.Handler(),
		// Provider fetches are sequential, so a request can take a while.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	return s
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// News routes
	mux.HandleFunc("/trending", s.route("/trending", s.handleTrending))
	mux.HandleFunc("/news", s.route("/news", s.handleNews))
	mux.HandleFunc("/search", s.route("/search", s.handleSearch))
	mux.HandleFunc("/stats", s.route("/stats", s.handleStats))
	mux.HandleFunc("/analytics", s.route("/analytics", s.handleAnalytics))
	mux.HandleFunc("/summary/", s.route("/summary", s.handleSummary))
	mux.HandleFunc("/docs", s.route("/docs", s.handleDocs))

	// Everything unmatched lands here; only the exact root is a real page.
	// Unknown paths answer 404 whatever the method.
	root := s.route("/", s.handleRoot)
	notFound := s.instrument("not_found", s.corsMiddleware(s.handleNotFound))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			notFound(w, r)
			return
		}
		root(w, r)
	})

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())

	var h http.Handler = mux
	h = s.rateLimitMiddleware(h)
	h = s.recoverMiddleware(h)
	h = s.requestIDMiddleware(h)
	return h
}

// Start listens on addr until Shutdown, returning http.ErrServerClosed then.
func (s *Server) Start(addr string) error {
	s.server.Addr = addr

	s.logger.Info("HTTP API server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// route applies the per-route wrappers: CORS, GET-only and metrics.
func (s *Server) route(name string, next http.HandlerFunc) http.HandlerFunc {
	return s.instrument(name, s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Failed to encode response", logging.WithField("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Status:  "error",
		Message: message,
	})
}

// writeFault hides the cause behind a plain 500.
func (s *Server) writeFault(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logFault(r, op, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) logFault(r *http.Request, op string, err error) {
	s.logger.Error("Request failed", logging.WithFields(map[string]interface{}{
		"op":         op,
		"path":       r.URL.Path,
		"request_id": RequestID(r.Context()),
		"error":      err.Error(),
	}))
}
