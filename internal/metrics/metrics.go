// Package metrics provides Prometheus metrics for headlinehub.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpstreamRequestsTotal counts provider fetches by outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "headlinehub",
			Name:      "upstream_requests_total",
			Help:      "Total number of provider fetches",
		},
		[]string{"provider", "status"},
	)

	// UpstreamRequestDuration measures how long a full provider fetch takes.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "headlinehub",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of provider fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// ArticlesFetched observes how many raw records each fetch returned.
	ArticlesFetched = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "headlinehub",
			Name:      "articles_fetched",
			Help:      "Distribution of records returned per provider fetch",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"provider"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "headlinehub",
			Name:      "http_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "headlinehub",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// CacheLookupsTotal counts raw-record cache hits and misses.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "headlinehub",
			Name:      "cache_lookups_total",
			Help:      "Total number of raw-record cache lookups",
		},
		[]string{"provider", "result"},
	)
)

// RecordFetch records one provider fetch.
func RecordFetch(provider, status string, duration time.Duration, count int) {
	UpstreamRequestsTotal.WithLabelValues(provider, status).Inc()
	UpstreamRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if status == "ok" {
		ArticlesFetched.WithLabelValues(provider).Observe(float64(count))
	}
}

// RecordHTTP records one served API request.
func RecordHTTP(route string, code int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func RecordCacheHit(provider string) {
	CacheLookupsTotal.WithLabelValues(provider, "hit").Inc()
}

func RecordCacheMiss(provider string) {
	CacheLookupsTotal.WithLabelValues(provider, "miss").Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
