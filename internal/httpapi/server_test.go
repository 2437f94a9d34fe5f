package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnrirwin/headlinehub/internal/aggregator"
	"github.com/johnrirwin/headlinehub/internal/models"
	"github.com/johnrirwin/headlinehub/internal/sources"
	"github.com/johnrirwin/headlinehub/internal/tagging"
	"github.com/johnrirwin/headlinehub/internal/testutil"
)

type fakeFetcher struct {
	tag     models.SourceTag
	records []models.RawRecord
	err     error
	panics  bool
}

func (f *fakeFetcher) Name() string          { return string(f.tag) }
func (f *fakeFetcher) Tag() models.SourceTag { return f.tag }
func (f *fakeFetcher) SourceInfo() models.SourceInfo {
	return models.SourceInfo{ID: string(f.tag), Name: string(f.tag), Tag: f.tag}
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	if f.panics {
		panic("fetcher exploded")
	}
	return f.records, f.err
}

func newTestServer(t *testing.T, hnErr error, opts Options) (*Server, []*fakeFetcher) {
	t.Helper()

	fetchers := []*fakeFetcher{
		{tag: models.SourceNewsAPI, records: []models.RawRecord{{
			Title:       models.StringPtr("Stock market rallies"),
			Description: models.StringPtr("Investors cheer"),
			Source:      &models.RawSource{Name: models.StringPtr("Reuters")},
		}}},
		{tag: models.SourceHackerNews, err: hnErr, records: []models.RawRecord{{
			Title: models.StringPtr("AI chip breakthrough"),
			Type:  models.StringPtr("story"),
			Time:  models.Int64Ptr(1700000000),
			By:    models.StringPtr("alice"),
			Score: models.IntPtr(42),
		}}},
		{tag: models.SourceReddit, records: []models.RawRecord{{
			Title:       models.StringPtr("Football final tonight"),
			Score:       models.IntPtr(7),
			Subreddit:   models.StringPtr("news"),
			NumComments: models.IntPtr(3),
		}}},
	}
	list := make([]sources.Fetcher, len(fetchers))
	for i, f := range fetchers {
		list[i] = f
	}

	agg := aggregator.New(list, tagging.New(), testutil.NullLogger())
	return New(agg, testutil.NullLogger(), opts), fetchers
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func TestRoot(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	w := do(t, s.Handler(), http.MethodGet, "/")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.HasPrefix(w.Body.String(), "News aggregator API is running!") {
		t.Errorf("body = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %s, want text/plain", ct)
	}
}

func TestTrending(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	w := do(t, s.Handler(), http.MethodGet, "/trending")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := decode(t, w)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["total_articles"] != float64(3) {
		t.Errorf("total_articles = %v, want 3", body["total_articles"])
	}
	articles := body["articles"].([]interface{})
	first := articles[0].(map[string]interface{})
	if first["source"] != "NewsAPI - Reuters" {
		t.Errorf("articles[0].source = %v", first["source"])
	}
	if _, ok := first["category"]; ok {
		t.Error("trending articles should not carry a category")
	}
}

func TestNews_CategoryFilter(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	w := do(t, s.Handler(), http.MethodGet, "/news?category=Technology")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := decode(t, w)
	if body["category"] != "technology" {
		t.Errorf("category = %v", body["category"])
	}
	articles := body["articles"].([]interface{})
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}
	if articles[0].(map[string]interface{})["title"] != "AI chip breakthrough" {
		t.Errorf("articles[0] = %v", articles[0])
	}
	if cats := body["available_categories"].([]interface{}); len(cats) != 5 {
		t.Errorf("available_categories = %v", cats)
	}
}

func TestNews_DefaultsToAll(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	body := decode(t, do(t, s.Handler(), http.MethodGet, "/news"))

	if body["category"] != "all" {
		t.Errorf("category = %v, want all", body["category"])
	}
	if body["total_articles"] != float64(3) {
		t.Errorf("total_articles = %v, want 3", body["total_articles"])
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	w := do(t, s.Handler(), http.MethodGet, "/search?q=football")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := decode(t, w)
	if body["query"] != "football" || body["total_results"] != float64(1) {
		t.Errorf("body = %v", body)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	for _, target := range []string{"/search", "/search?q="} {
		w := do(t, s.Handler(), http.MethodGet, target)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want %d", target, w.Code, http.StatusBadRequest)
		}
		body := decode(t, w)
		if body["status"] != "error" || body["message"] == "" {
			t.Errorf("%s body = %v", target, body)
		}
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	body := decode(t, do(t, s.Handler(), http.MethodGet, "/stats"))

	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
	sources := body["source_distribution"].(map[string]interface{})
	if sources["NewsAPI"] != float64(1) || sources["Reddit"] != float64(1) {
		t.Errorf("source_distribution = %v", sources)
	}
	sentiment := body["sentiment_distribution"].(map[string]interface{})
	if sentiment["neutral"] != float64(3) {
		t.Errorf("sentiment_distribution = %v", sentiment)
	}
	if _, ok := body["trending_keywords"].([]interface{}); !ok {
		t.Errorf("trending_keywords = %v", body["trending_keywords"])
	}
}

func TestStats_FaultIsReported(t *testing.T) {
	s, _ := newTestServer(t, errors.New("hackernews returned status 503"), Options{})

	w := do(t, s.Handler(), http.MethodGet, "/stats")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	body := decode(t, w)
	if body["status"] != "error" {
		t.Errorf("status = %v, want error", body["status"])
	}
	if body["message"] != "hackernews returned status 503" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestFaultIsOpaqueOutsideStats(t *testing.T) {
	s, _ := newTestServer(t, errors.New("secret upstream detail"), Options{})

	for _, target := range []string{"/trending", "/news", "/search?q=x", "/analytics"} {
		w := do(t, s.Handler(), http.MethodGet, target)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", target, w.Code)
		}
		if strings.Contains(w.Body.String(), "secret") {
			t.Errorf("%s leaked the cause: %q", target, w.Body.String())
		}
	}
}

func TestPanicIsRecovered(t *testing.T) {
	s, fetchers := newTestServer(t, nil, Options{})
	fetchers[0].panics = true

	w := do(t, s.Handler(), http.MethodGet, "/trending")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestAnalytics(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	body := decode(t, do(t, s.Handler(), http.MethodGet, "/analytics"))

	trends := body["trends"].(map[string]interface{})
	ratio := trends["sentiment_ratio"].(map[string]interface{})
	if ratio["neutral"] != float64(100) || ratio["positive"] != float64(0) {
		t.Errorf("sentiment_ratio = %v", ratio)
	}
	top := body["top_articles"].([]interface{})
	if top[0].(map[string]interface{})["title"] != "AI chip breakthrough" {
		t.Errorf("top_articles[0] = %v", top[0])
	}
	overview := body["overview"].(map[string]interface{})
	if overview["total_articles"] != float64(3) {
		t.Errorf("overview = %v", overview)
	}
}

func TestSummary(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	w := do(t, s.Handler(), http.MethodGet, "/summary/abc123")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["article_id"] != "abc123" || body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}

	if w := do(t, s.Handler(), http.MethodGet, "/summary/"); w.Code != http.StatusNotFound {
		t.Errorf("/summary/ status = %d, want 404", w.Code)
	}
}

func TestDocs(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	body := decode(t, do(t, s.Handler(), http.MethodGet, "/docs"))

	if body["name"] != APIName || body["version"] != APIVersion {
		t.Errorf("body = %v", body)
	}
	if eps := body["endpoints"].([]interface{}); len(eps) != len(AvailableEndpoints()) {
		t.Errorf("endpoints = %v", eps)
	}
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	w := do(t, s.Handler(), http.MethodGet, "/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	body := decode(t, w)
	if body["status"] != "error" {
		t.Errorf("status = %v", body["status"])
	}
	endpoints := body["available_endpoints"].([]interface{})
	found := false
	for _, e := range endpoints {
		if e == "/trending" {
			found = true
		}
	}
	if !found {
		t.Errorf("available_endpoints = %v, missing /trending", endpoints)
	}
}

func TestNotFound_AnyMethod(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		w := do(t, s.Handler(), method, "/nope")
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s /nope status = %d, want 404", method, w.Code)
		}
		if body := decode(t, w); body["message"] != "Endpoint not found" {
			t.Errorf("%s /nope body = %v", method, body)
		}
	}

	if w := do(t, s.Handler(), http.MethodPost, "/"); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / status = %d, want 405", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	w := do(t, s.Handler(), http.MethodPost, "/trending")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestCORSMiddleware(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	h := s.Handler()

	t.Run("OPTIONS request", func(t *testing.T) {
		w := do(t, h, http.MethodOptions, "/trending")

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if w.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("Missing Access-Control-Allow-Origin header")
		}
	})

	t.Run("GET request", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/docs")

		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Missing Access-Control-Allow-Origin header")
		}
	})
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/health")
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("generated request id = %q", w.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) != "client-supplied" {
		t.Errorf("request id = %q, want client-supplied", rec.Header().Get(RequestIDHeader))
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{RequestRPS: 0.001, RequestBurst: 2})
	h := s.Handler()

	for i := 0; i < 2; i++ {
		if w := do(t, h, http.MethodGet, "/health"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}

	w := do(t, h, http.MethodGet, "/health")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if body := decode(t, w); body["status"] != "error" {
		t.Errorf("body = %v", body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	h := s.Handler()

	if body := decode(t, do(t, h, http.MethodGet, "/health")); body["status"] != "healthy" {
		t.Errorf("health = %v", body)
	}

	do(t, h, http.MethodGet, "/docs")
	w := do(t, h, http.MethodGet, "/metrics")
	if !strings.Contains(w.Body.String(), "headlinehub_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}
