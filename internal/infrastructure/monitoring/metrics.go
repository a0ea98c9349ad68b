package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "fridgeraider"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// AI metrics
	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec
	aiThrottleWait    prometheus.Histogram

	// Kitchen metrics
	inventoryItems   prometheus.Gauge
	recipesCooked    prometheus.Counter
	prefetchSyncs    *prometheus.CounterVec
	prefetchDuration prometheus.Histogram
	eventsPublished  *prometheus.CounterVec
	cacheOperations  *prometheus.CounterVec
}

// NewMetricsCollector creates a collector backed by its own registry so that
// several instances can coexist in tests.
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger,
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_requests_total",
				Help:      "Total number of AI requests",
			},
			[]string{"provider", "operation", "status"},
		),
		aiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_request_duration_seconds",
				Help:      "AI request duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "operation"},
		),
		aiThrottleWait: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_throttle_wait_seconds",
				Help:      "Time spent waiting for the AI rate limiter",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
			},
		),
		inventoryItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "inventory_items",
				Help:      "Number of items currently in the fridge",
			},
		),
		recipesCooked: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipes_cooked_total",
				Help:      "Total number of recipes cooked",
			},
		),
		prefetchSyncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prefetch_syncs_total",
				Help:      "Background generation rounds by outcome",
			},
			[]string{"outcome"},
		),
		prefetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "prefetch_sync_duration_seconds",
				Help:      "Duration of background generation rounds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Domain events published on the message bus",
			},
			[]string{"topic", "type"},
		),
		cacheOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Verdict cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus exposition format
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request metric
func (m *MetricsCollector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAIRequest records an AI request metric
func (m *MetricsCollector) RecordAIRequest(provider, operation, status string, duration time.Duration) {
	m.aiRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	m.aiRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordThrottleWait records time spent in the AI rate limiter
func (m *MetricsCollector) RecordThrottleWait(wait time.Duration) {
	m.aiThrottleWait.Observe(wait.Seconds())
}

// SetInventoryItems updates the fridge size gauge
func (m *MetricsCollector) SetInventoryItems(n int) {
	m.inventoryItems.Set(float64(n))
}

// RecordRecipeCooked counts a cooked recipe
func (m *MetricsCollector) RecordRecipeCooked() {
	m.recipesCooked.Inc()
}

// RecordPrefetchSync records a background generation round
func (m *MetricsCollector) RecordPrefetchSync(outcome string, duration time.Duration) {
	m.prefetchSyncs.WithLabelValues(outcome).Inc()
	m.prefetchDuration.Observe(duration.Seconds())
}

// RecordEventPublished counts an event sent on the bus
func (m *MetricsCollector) RecordEventPublished(topic, eventType string) {
	m.eventsPublished.WithLabelValues(topic, eventType).Inc()
}

// RecordCacheResult counts a cache hit or miss
func (m *MetricsCollector) RecordCacheResult(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheOperations.WithLabelValues(result).Inc()
}
