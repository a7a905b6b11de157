// Package monitoring exposes Prometheus metrics for the scoring engine.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus metrics on a private registry, so the
// /metrics endpoint exposes only what this service defines.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	rankingPasses   prometheus.Counter
	rankingDuration prometheus.Histogram

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewManager creates a Manager with all metrics registered.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	m := &Manager{registry: registry}

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parlametro",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parlametro",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	m.rankingPasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "parlametro",
		Name:      "ranking_passes_total",
		Help:      "Total number of full chamber scoring passes",
	})

	m.rankingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "parlametro",
		Name:      "ranking_pass_duration_seconds",
		Help:      "Duration of a full chamber scoring pass in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "parlametro",
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "parlametro",
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses",
	})

	return m
}

// ObserveRankingPass records one full scoring pass.
func (m *Manager) ObserveRankingPass(d time.Duration) {
	m.rankingPasses.Inc()
	m.rankingDuration.Observe(d.Seconds())
}

// CacheHit increments the cache hit counter.
func (m *Manager) CacheHit() {
	m.cacheHits.Inc()
}

// CacheMiss increments the cache miss counter.
func (m *Manager) CacheMiss() {
	m.cacheMisses.Inc()
}

// RecordHTTPRequest records one finished HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, duration time.Duration) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// Handler serves the /metrics endpoint from the private registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
