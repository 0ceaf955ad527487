// Package metrics provides Prometheus metrics for the herostats service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets covers fast local lookups through slow upstream calls, in ms.
var latencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Manager owns every Prometheus collector used by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Level engine
	levelComputations prometheus.Counter
	scaleFallbacks    *prometheus.CounterVec
	playerViews       prometheus.Counter
	leaderboardPages  prometheus.Counter
	poolSize          prometheus.Gauge

	// Upstream services
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	// Name resolution
	nameResolutions  *prometheus.CounterVec
	namesKnown       prometheus.Gauge
	resolveDuplicate prometheus.Counter

	// Resolution queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics singleton

// customRegistry keeps the default Go collectors out of the exposition.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "herostats",
		subsystem:        "api",
		histogramBuckets: latencyBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.levelComputations = m.counter("level_computations_total", "Total number of hero and ability levels derived")
	m.scaleFallbacks = m.counterVec("level_scale_fallbacks_total", "Lookups that fell back to the default level scale", "reason")
	m.playerViews = m.counter("player_views_total", "Total number of player detail views built")
	m.leaderboardPages = m.counter("leaderboard_pages_total", "Total number of leaderboard pages fetched")
	m.poolSize = m.gauge("pool_size", "Number of players in the rank comparison pool")

	m.upstreamRequests = m.counterVec("upstream_requests_total", "Requests made to upstream services", "service", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_request_duration_milliseconds", "Upstream request latency in milliseconds", "service")

	m.nameResolutions = m.counterVec("name_resolutions_total", "Display name resolutions by source and outcome", "source", "outcome")
	m.namesKnown = m.gauge("names_known", "Number of resolved display names held in memory")
	m.resolveDuplicate = m.counter("resolve_duplicate_total", "Resolution requests skipped because the id was already queued")

	m.queueSize = m.gauge("resolve_queue_size", "Current number of queued name resolution jobs")
	m.queueCapacity = m.gauge("resolve_queue_capacity", "Capacity of the name resolution queue")
	m.queueUtilization = m.gauge("resolve_queue_utilization", "Fraction of the resolution queue in use")
	m.queueEnqueueRate = m.counter("resolve_queue_enqueue_total", "Jobs accepted by the resolution queue")
	m.queueDequeueRate = m.counter("resolve_queue_dequeue_total", "Jobs taken off the resolution queue")
	m.queueEnqueueErrors = m.counter("resolve_queue_enqueue_errors_total", "Jobs rejected by the resolution queue")

	m.workerCount = m.gauge("resolve_worker_count", "Number of running name resolution workers")
	m.workerProcessingLatency = m.histogram("resolve_worker_latency_milliseconds", "Time spent resolving one job in milliseconds")
	m.workerErrors = m.counter("resolve_worker_errors_total", "Jobs that failed to resolve")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of failed HTTP responses by error type", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds")
}

// RecordLevelComputation counts one derived level.
func RecordLevelComputation() {
	globalManager.levelComputations.Inc()
}

// RecordScaleFallback counts a lookup that used the default scale.
func RecordScaleFallback(reason string) {
	globalManager.scaleFallbacks.WithLabelValues(reason).Inc()
}

// RecordPlayerView counts one player detail view.
func RecordPlayerView() {
	globalManager.playerViews.Inc()
}

// RecordLeaderboardPage counts one fetched leaderboard page.
func RecordLeaderboardPage() {
	globalManager.leaderboardPages.Inc()
}

// UpdatePoolSize sets the size of the comparison pool.
func UpdatePoolSize(n int) {
	globalManager.poolSize.Set(float64(n))
}

// RecordUpstreamRequest counts an upstream call and observes its latency.
func RecordUpstreamRequest(service, outcome string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(service, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(service).Observe(latencyMs)
}

// RecordNameResolution counts a resolution attempt by source and outcome.
func RecordNameResolution(source, outcome string) {
	globalManager.nameResolutions.WithLabelValues(source, outcome).Inc()
}

// UpdateNamesKnown sets the number of resolved names held.
func UpdateNamesKnown(n int) {
	globalManager.namesKnown.Set(float64(n))
}

// RecordResolveDuplicate counts a skipped duplicate resolution request.
func RecordResolveDuplicate() {
	globalManager.resolveDuplicate.Inc()
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization (0..1).
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records how long one job took.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency observes how long a failed response took, by error type.
func RecordErrorLatency(errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
