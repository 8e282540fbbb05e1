// Package metrics provides Prometheus metrics for the dribble detection pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector of the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Detection
	framesProcessed   prometheus.Counter
	framesRejected    prometheus.Counter
	episodesEmitted   *prometheus.CounterVec
	episodesDiscarded prometheus.Counter
	episodesMerged    prometheus.Counter

	// Videos
	videosProcessed   prometheus.Counter
	videosSkipped     *prometheus.CounterVec
	videosDuplicate   prometheus.Counter
	videoLatency      prometheus.Histogram
	videosStored      prometheus.Gauge
	videoFramesPerRun prometheus.Histogram

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter
	queueRejected    prometheus.Counter

	// Workers
	workerCount  prometheus.Gauge
	workerBusy   prometheus.Gauge
	workerErrors prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dribble",
		subsystem:        "detector",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// RefreshInterval returns how often gauges should be refreshed by pollers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RefreshInterval returns the polling interval of the package-level manager.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.framesProcessed = m.counter("frames_processed_total", "Frames fed to detectors")
	m.framesRejected = m.counter("frames_rejected_total", "Frames rejected for arriving out of order")
	m.episodesEmitted = m.counterVec("episodes_emitted_total", "Accepted episodes by class", "class")
	m.episodesDiscarded = m.counter("episodes_discarded_total", "Episodes below the outer-zone threshold")
	m.episodesMerged = m.counter("episodes_merged_total", "Episodes absorbed by the merge pass")

	m.videosProcessed = m.counter("videos_processed_total", "Videos run to completion")
	m.videosSkipped = m.counterVec("videos_skipped_total", "Videos skipped before detection", "reason")
	m.videosDuplicate = m.counter("videos_duplicate_total", "Video submissions ignored as duplicates")
	m.videoLatency = m.histogram("video_latency_milliseconds", "Detection time per video in milliseconds",
		[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000})
	m.videosStored = m.gauge("videos_stored", "Videos with results in the store")
	m.videoFramesPerRun = m.histogram("video_frames", "Frames per processed video",
		[]float64{50, 100, 250, 500, 750, 1000, 2000, 5000})

	m.queueSize = m.gauge("queue_size", "Current number of queued videos")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued videos")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Videos enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Videos dequeued by workers")
	m.queueRejected = m.counter("queue_rejected_total", "Enqueue attempts rejected")

	m.workerCount = m.gauge("worker_count", "Configured detection workers")
	m.workerBusy = m.gauge("worker_busy", "Workers currently processing a video")
	m.workerErrors = m.counter("worker_errors_total", "Videos that ended with an error")

	auto := promauto.With(m.registry)
	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordFrameProcessed increments the processed frame counter.
func RecordFrameProcessed() {
	globalManager.framesProcessed.Inc()
}

// RecordFrameRejected increments the out-of-order frame counter.
func RecordFrameRejected() {
	globalManager.framesRejected.Inc()
}

// RecordEpisodeEmitted counts an accepted episode of the given class.
func RecordEpisodeEmitted(class string) {
	globalManager.episodesEmitted.WithLabelValues(class).Inc()
}

// RecordEpisodesDiscarded adds n episodes rejected by the acceptance test.
func RecordEpisodesDiscarded(n int) {
	globalManager.episodesDiscarded.Add(float64(n))
}

// RecordEpisodesMerged adds n episodes absorbed by merging.
func RecordEpisodesMerged(n int) {
	globalManager.episodesMerged.Add(float64(n))
}

// RecordVideoProcessed records a completed video with its frame count and latency.
func RecordVideoProcessed(frames int, latencyMs float64) {
	globalManager.videosProcessed.Inc()
	globalManager.videoFramesPerRun.Observe(float64(frames))
	globalManager.videoLatency.Observe(latencyMs)
}

// RecordVideoSkipped counts a video skipped for reason.
func RecordVideoSkipped(reason string) {
	globalManager.videosSkipped.WithLabelValues(reason).Inc()
}

// RecordVideoDuplicate counts a duplicate submission.
func RecordVideoDuplicate() {
	globalManager.videosDuplicate.Inc()
}

// UpdateVideosStored sets the number of stored videos.
func UpdateVideosStored(count int) {
	globalManager.videosStored.Set(float64(count))
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejected increments the rejected enqueue counter.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// WorkerBusy adjusts the busy worker gauge by delta.
func WorkerBusy(delta int) {
	globalManager.workerBusy.Add(float64(delta))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
