package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// HTTP Request Metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Call Metrics
	callsTotal    *prometheus.CounterVec
	callsActive   prometheus.Gauge
	callsDuration prometheus.Histogram

	// Translation Metrics
	translationsTotal          *prometheus.CounterVec
	translationCacheHitsTotal  prometheus.Counter
	translationCacheMissTotal  prometheus.Counter
	translationCacheErrsTotal  *prometheus.CounterVec
	translationProviderLatency prometheus.Histogram
	providerBreakerState       prometheus.Gauge
}

// NewMetrics creates a Metrics instance with its own registry
func NewMetrics(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "endpoint", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		httpRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being served",
			ConstLabels: constLabels,
		}),

		callsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "calls_total",
			Help:        "Total number of call sessions by terminal status",
			ConstLabels: constLabels,
		}, []string{"status"}),

		callsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "calls_active",
			Help:        "Number of currently active call sessions",
			ConstLabels: constLabels,
		}),

		callsDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "call_duration_seconds",
			Help:        "Duration of ended call sessions",
			ConstLabels: constLabels,
			Buckets:     []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
		}),

		translationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "translations_total",
			Help:        "Total translation requests by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		translationCacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "translation_cache_hits_total",
			Help:        "Translation cache hits",
			ConstLabels: constLabels,
		}),

		translationCacheMissTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "translation_cache_misses_total",
			Help:        "Translation cache misses",
			ConstLabels: constLabels,
		}),

		translationCacheErrsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "translation_cache_errors_total",
			Help:        "Translation cache backend failures by operation",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		translationProviderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "translation_provider_duration_seconds",
			Help:        "Latency of external translation provider calls",
			ConstLabels: constLabels,
			Buckets:     []float64{0.1, 0.25, 0.5, 1, 2, 5},
		}),

		providerBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "translation_provider_breaker_state",
			Help:        "Circuit breaker state for the translation provider (0=closed, 1=half_open, 2=open)",
			ConstLabels: constLabels,
		}),
	}
}

// GetRegistry returns the metrics registry for the /metrics endpoint
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request with its duration
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments in-flight request gauge
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.httpRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight request gauge
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.httpRequestsInFlight.Dec()
}

// RecordCallStarted tracks a newly claimed active call
func (m *Metrics) RecordCallStarted() {
	m.callsActive.Inc()
}

// RecordCallFinished tracks a call reaching a terminal status
func (m *Metrics) RecordCallFinished(status string, duration time.Duration) {
	m.callsActive.Dec()
	m.callsTotal.WithLabelValues(status).Inc()
	if duration > 0 {
		m.callsDuration.Observe(duration.Seconds())
	}
}

// RecordTranslation records a translation request outcome ("ok", "invalid", "unavailable")
func (m *Metrics) RecordTranslation(result string) {
	m.translationsTotal.WithLabelValues(result).Inc()
}

// RecordCacheHit records a translation cache hit
func (m *Metrics) RecordCacheHit() {
	m.translationCacheHitsTotal.Inc()
}

// RecordCacheMiss records a translation cache miss
func (m *Metrics) RecordCacheMiss() {
	m.translationCacheMissTotal.Inc()
}

// RecordCacheError records a cache backend failure for the given operation ("get", "setex")
func (m *Metrics) RecordCacheError(operation string) {
	m.translationCacheErrsTotal.WithLabelValues(operation).Inc()
}

// RecordProviderLatency records a provider round trip
func (m *Metrics) RecordProviderLatency(duration time.Duration) {
	m.translationProviderLatency.Observe(duration.Seconds())
}

// RecordBreakerState records the translation provider circuit breaker state
// (0=closed, 1=half_open, 2=open)
func (m *Metrics) RecordBreakerState(state float64) {
	m.providerBreakerState.Set(state)
}
