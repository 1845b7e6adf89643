// Package metrics provides Prometheus metrics for the Indira match
// recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	scoresComputed    prometheus.Counter
	scoringErrors     prometheus.Counter
	scoringLatency    prometheus.Histogram
	candidatesSkipped prometheus.Counter

	// Cache metrics
	cacheUpserts      prometheus.Counter
	cacheUpsertErrors prometheus.Counter
	cacheSweepDeleted prometheus.Counter
	cacheEntries      prometheus.Gauge

	// Discovery metrics
	discoveryRequests prometheus.Counter
	discoveryLatency  prometheus.Histogram

	// Scheduled job metrics
	jobRuns     *prometheus.CounterVec
	jobFailures *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "indira",
		subsystem:        "match",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoresComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_computed_total",
		Help:      "Total number of compatibility scores computed",
	})

	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of per-candidate scoring or cache-write failures",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-pair scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.candidatesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_skipped_total",
		Help:      "Total number of candidates removed by exclusion filtering",
	})

	m.cacheUpserts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_upserts_total",
		Help:      "Total number of score cache upserts",
	})

	m.cacheUpsertErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_upsert_errors_total",
		Help:      "Total number of failed score cache upserts",
	})

	m.cacheSweepDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_sweep_deleted_total",
		Help:      "Total number of expired entries removed by sweeps",
	})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Current number of cached score entries",
	})

	m.discoveryRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discovery_requests_total",
		Help:      "Total number of candidate discovery invocations",
	})

	m.discoveryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discovery_latency_milliseconds",
		Help:      "Histogram of end-to-end discovery latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.jobRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "job_runs_total",
			Help:      "Total number of scheduled job runs",
		},
		[]string{"job"},
	)

	m.jobFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "job_failures_total",
			Help:      "Total number of scheduled job runs that ended in error",
		},
		[]string{"job"},
	)

	m.jobDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "job_duration_milliseconds",
			Help:      "Histogram of scheduled job run duration in milliseconds",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 15000, 60000, 300000},
		},
		[]string{"job"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordScoreComputed increments the computed scores counter.
func RecordScoreComputed() {
	globalManager.scoresComputed.Inc()
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordScoringLatency records per-pair scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordCandidateSkipped increments the exclusion-filter counter.
func RecordCandidateSkipped() {
	globalManager.candidatesSkipped.Inc()
}

// RecordCacheUpsert increments the cache upserts counter.
func RecordCacheUpsert() {
	globalManager.cacheUpserts.Inc()
}

// RecordCacheUpsertError increments the cache upsert errors counter.
func RecordCacheUpsertError() {
	globalManager.cacheUpsertErrors.Inc()
}

// RecordCacheSweepDeleted adds to the swept entries counter.
func RecordCacheSweepDeleted(count int) {
	globalManager.cacheSweepDeleted.Add(float64(count))
}

// UpdateCacheEntries sets the current cache size gauge.
func UpdateCacheEntries(count int) {
	globalManager.cacheEntries.Set(float64(count))
}

// RecordDiscoveryRequest increments the discovery invocations counter.
func RecordDiscoveryRequest() {
	globalManager.discoveryRequests.Inc()
}

// RecordDiscoveryLatency records discovery latency in milliseconds.
func RecordDiscoveryLatency(latencyMs float64) {
	globalManager.discoveryLatency.Observe(latencyMs)
}

// RecordJobRun increments the run counter for a scheduled job.
func RecordJobRun(job string) {
	globalManager.jobRuns.WithLabelValues(job).Inc()
}

// RecordJobFailure increments the failure counter for a scheduled job.
func RecordJobFailure(job string) {
	globalManager.jobFailures.WithLabelValues(job).Inc()
}

// RecordJobDuration records a scheduled job's run duration.
func RecordJobDuration(job string, durationMs float64) {
	globalManager.jobDuration.WithLabelValues(job).Observe(durationMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent increments the per-component error counter.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
