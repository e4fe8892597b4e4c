// Package metrics exposes Prometheus metrics for matching, bulk analysis, the HTTP API and the queue worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Manager owns every collector and the registry they are registered on.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	matchesTotal        *prometheus.CounterVec
	matchDuration       prometheus.Histogram
	similarityFallbacks prometheus.Counter
	bulkItemErrors      prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	queueMessages *prometheus.CounterVec
}

// Option configures a Manager
type Option func(*Manager)

// WithNamespace sets the metric namespace
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		m.namespace = namespace
	}
}

// WithHistogramBuckets sets the duration buckets, in seconds
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers collectors on registry instead of a fresh one
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a Manager with its own registry
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "resume_matcher",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "matches_total",
		Help:      "Total number of resume/job matches by category",
	}, []string{"category"})

	m.matchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "match_duration_seconds",
		Help:      "Time spent scoring one resume against one job description",
		Buckets:   m.histogramBuckets,
	})

	m.similarityFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "similarity_fallbacks_total",
		Help:      "Matches that scored keyword similarity as zero after a similarity error",
	})

	m.bulkItemErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "bulk_item_errors_total",
		Help:      "Resumes that failed inside a bulk analysis",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.queueMessages = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "queue_messages_total",
		Help:      "Analysis jobs consumed from the queue by outcome",
	}, []string{"outcome"})
}

// ObserveMatch records one completed match
func (m *Manager) ObserveMatch(category types.Category, d time.Duration) {
	m.matchesTotal.WithLabelValues(string(category)).Inc()
	m.matchDuration.Observe(d.Seconds())
}

// SimilarityFallback records a match that fell back to zero keyword similarity
func (m *Manager) SimilarityFallback() {
	m.similarityFallbacks.Inc()
}

// BulkItemFailed records one failed resume in a bulk analysis
func (m *Manager) BulkItemFailed() {
	m.bulkItemErrors.Inc()
}

// ObserveHTTP records one served request
func (m *Manager) ObserveHTTP(endpoint, method string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(d.Seconds())
}

// QueueMessage records a consumed queue message. Outcome is one of ok, failed, dropped or requeued.
func (m *Manager) QueueMessage(outcome string) {
	m.queueMessages.WithLabelValues(outcome).Inc()
}

// Registry returns the registry the collectors live on
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
