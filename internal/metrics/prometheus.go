// Package metrics provides Prometheus-based metrics collection for reconkit.
// This replaces the custom metrics implementation with industry-standard
// Prometheus client library for proper observability and monitoring integration.
package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all reconkit metrics
	namespace = "reconkit"

	// Subsystems
	subsystemTool   = "tool"
	subsystemProbe  = "probe"
	subsystemSystem = "system"
	subsystemAPI    = "api"
)

// PrometheusMetrics holds all Prometheus metric collectors
type PrometheusMetrics struct {
	// Tool execution metrics
	toolRunsTotal   *prometheus.CounterVec
	toolRunDuration *prometheus.HistogramVec
	toolErrors      *prometheus.CounterVec
	toolTimeouts    *prometheus.CounterVec
	toolFallbacks   *prometheus.CounterVec
	activeRuns      prometheus.Gauge

	// Probe batch metrics
	probesTotal   *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	batchesTotal  *prometheus.CounterVec
	activeProbes  prometheus.Gauge

	// API metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec

	// System metrics
	memoryUsage prometheus.Gauge
	goroutines  prometheus.Gauge
	uptime      prometheus.Gauge

	// Performance tracking
	startTime  time.Time
	lastUpdate time.Time
	mu         sync.RWMutex
	registry   *prometheus.Registry
}

// NewPrometheusMetrics creates a new Prometheus metrics instance with all collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		startTime: time.Now(),
		registry:  registry,
	}

	// Initialize all metrics
	pm.initToolMetrics()
	pm.initProbeMetrics()
	pm.initAPIMetrics()
	pm.initSystemMetrics()

	// Register all metrics with the registry
	pm.registerMetrics()

	// Register standard Go and process collectors for runtime visibility
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return pm
}

// initToolMetrics initializes tool-execution metrics
func (pm *PrometheusMetrics) initToolMetrics() {
	pm.toolRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemTool,
			Name:      "runs_total",
			Help:      "Total number of tool invocations by tool and status",
		},
		[]string{"tool", "status"},
	)

	pm.toolRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemTool,
			Name:      "run_duration_seconds",
			Help:      "Duration of tool invocations in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 120.0, 300.0},
		},
		[]string{"tool"},
	)

	pm.toolErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemTool,
			Name:      "errors_total",
			Help:      "Total number of tool errors by tool and error type",
		},
		[]string{"tool", "error_type"},
	)

	pm.toolTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemTool,
			Name:      "timeouts_total",
			Help:      "Total number of tool invocations killed on timeout",
		},
		[]string{"tool"},
	)

	pm.toolFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemTool,
			Name:      "fallbacks_total",
			Help:      "Total number of native fallbacks taken for missing tools",
		},
		[]string{"tool"},
	)

	pm.activeRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemTool,
			Name:      "runs_active",
			Help:      "Number of currently running tool invocations",
		},
	)
}

// initProbeMetrics initializes batch-probe metrics
func (pm *PrometheusMetrics) initProbeMetrics() {
	pm.probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "total",
			Help:      "Total number of concurrent probes by kind and status",
		},
		[]string{"kind", "status"},
	)

	pm.probeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "duration_seconds",
			Help:      "Duration of individual probes in seconds",
			Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 15.0},
		},
		[]string{"kind"},
	)

	pm.batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "batches_total",
			Help:      "Total number of completed probe batches by kind",
		},
		[]string{"kind"},
	)

	pm.activeProbes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "active",
			Help:      "Number of currently running probes",
		},
	)
}

// initAPIMetrics initializes API-related metrics
func (pm *PrometheusMetrics) initAPIMetrics() {
	pm.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAPI,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	pm.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemAPI,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"method", "path"},
	)

	pm.httpErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAPI,
			Name:      "errors_total",
			Help:      "Total number of HTTP errors by method, path and error type",
		},
		[]string{"method", "path", "error_type"},
	)
}

// initSystemMetrics initializes system-related metrics
func (pm *PrometheusMetrics) initSystemMetrics() {
	pm.memoryUsage = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "memory_bytes",
			Help:      "Current memory usage in bytes",
		},
	)

	pm.goroutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	pm.uptime = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSystem,
			Name:      "uptime_seconds",
			Help:      "Application uptime in seconds",
		},
	)
}

// registerMetrics registers all metrics with the Prometheus registry
func (pm *PrometheusMetrics) registerMetrics() {
	// Tool metrics
	pm.registry.MustRegister(pm.toolRunsTotal)
	pm.registry.MustRegister(pm.toolRunDuration)
	pm.registry.MustRegister(pm.toolErrors)
	pm.registry.MustRegister(pm.toolTimeouts)
	pm.registry.MustRegister(pm.toolFallbacks)
	pm.registry.MustRegister(pm.activeRuns)

	// Probe metrics
	pm.registry.MustRegister(pm.probesTotal)
	pm.registry.MustRegister(pm.probeDuration)
	pm.registry.MustRegister(pm.batchesTotal)
	pm.registry.MustRegister(pm.activeProbes)

	// API metrics
	pm.registry.MustRegister(pm.httpRequests)
	pm.registry.MustRegister(pm.httpDuration)
	pm.registry.MustRegister(pm.httpErrors)

	// System metrics
	pm.registry.MustRegister(pm.memoryUsage)
	pm.registry.MustRegister(pm.goroutines)
	pm.registry.MustRegister(pm.uptime)
}

// GetRegistry returns the Prometheus registry for HTTP handler
func (pm *PrometheusMetrics) GetRegistry() *prometheus.Registry {
	return pm.registry
}

// Tool Metrics Methods

// IncrementToolRuns increments the tool run counter
func (pm *PrometheusMetrics) IncrementToolRuns(tool, status string) {
	pm.toolRunsTotal.WithLabelValues(tool, status).Inc()
}

// RecordToolRunDuration records a tool invocation duration
func (pm *PrometheusMetrics) RecordToolRunDuration(tool string, duration time.Duration) {
	pm.toolRunDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// IncrementToolErrors increments the tool error counter
func (pm *PrometheusMetrics) IncrementToolErrors(tool, errorType string) {
	pm.toolErrors.WithLabelValues(tool, errorType).Inc()
}

// IncrementToolTimeouts increments the tool timeout counter
func (pm *PrometheusMetrics) IncrementToolTimeouts(tool string) {
	pm.toolTimeouts.WithLabelValues(tool).Inc()
}

// IncrementToolFallbacks increments the fallback counter
func (pm *PrometheusMetrics) IncrementToolFallbacks(tool string) {
	pm.toolFallbacks.WithLabelValues(tool).Inc()
}

// SetActiveRuns sets the number of currently running tools
func (pm *PrometheusMetrics) SetActiveRuns(count int) {
	pm.activeRuns.Set(float64(count))
}

// Probe Metrics Methods

// IncrementProbes increments the probe counter by count
func (pm *PrometheusMetrics) IncrementProbes(kind, status string, count int) {
	pm.probesTotal.WithLabelValues(kind, status).Add(float64(count))
}

// RecordProbeDuration records an individual probe duration
func (pm *PrometheusMetrics) RecordProbeDuration(kind string, duration time.Duration) {
	pm.probeDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// IncrementBatches increments the completed batch counter
func (pm *PrometheusMetrics) IncrementBatches(kind string) {
	pm.batchesTotal.WithLabelValues(kind).Inc()
}

// SetActiveProbes sets the number of currently running probes
func (pm *PrometheusMetrics) SetActiveProbes(count int) {
	pm.activeProbes.Set(float64(count))
}

// API Metrics Methods

// IncrementHTTPRequests increments HTTP request counter
func (pm *PrometheusMetrics) IncrementHTTPRequests(method, path, status string) {
	pm.httpRequests.WithLabelValues(method, path, status).Inc()
}

// RecordHTTPDuration records HTTP request duration
func (pm *PrometheusMetrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	pm.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementHTTPErrors increments HTTP error counter
func (pm *PrometheusMetrics) IncrementHTTPErrors(method, path, errorType string) {
	pm.httpErrors.WithLabelValues(method, path, errorType).Inc()
}

// System Metrics Methods

// UpdateSystemMetrics updates all system metrics with current values
func (pm *PrometheusMetrics) UpdateSystemMetrics() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// Update memory usage
	pm.memoryUsage.Set(float64(memStats.Alloc))

	// Update goroutine count
	pm.goroutines.Set(float64(runtime.NumGoroutine()))

	// Update uptime
	uptime := time.Since(pm.startTime).Seconds()
	pm.uptime.Set(uptime)

	// Update last update time
	pm.lastUpdate = time.Now()
}

// Utility Methods

// GetUptime returns the application uptime
func (pm *PrometheusMetrics) GetUptime() time.Duration {
	return time.Since(pm.startTime)
}

// GetLastUpdate returns the last metrics update time
func (pm *PrometheusMetrics) GetLastUpdate() time.Time {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.lastUpdate
}

// StartPeriodicUpdates starts a goroutine that periodically updates system metrics
func (pm *PrometheusMetrics) StartPeriodicUpdates(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Update immediately
	pm.UpdateSystemMetrics()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pm.UpdateSystemMetrics()
		}
	}
}

// Global instance for easy access
var globalMetrics *PrometheusMetrics
var metricsOnce sync.Once

// GetGlobalMetrics returns the global Prometheus metrics instance
func GetGlobalMetrics() *PrometheusMetrics {
	metricsOnce.Do(func() {
		globalMetrics = NewPrometheusMetrics()
	})
	return globalMetrics
}

// Convenience functions using global instance

// RecordToolRunDurationPrometheus records a tool duration using global metrics
func RecordToolRunDurationPrometheus(tool string, duration time.Duration) {
	GetGlobalMetrics().RecordToolRunDuration(tool, duration)
}

// IncrementToolRunsPrometheus increments tool runs using global metrics
func IncrementToolRunsPrometheus(tool, status string) {
	GetGlobalMetrics().IncrementToolRuns(tool, status)
}

// IncrementToolErrorsPrometheus increments tool errors using global metrics
func IncrementToolErrorsPrometheus(tool, errorType string) {
	GetGlobalMetrics().IncrementToolErrors(tool, errorType)
}

// IncrementToolFallbacksPrometheus increments fallbacks using global metrics
func IncrementToolFallbacksPrometheus(tool string) {
	GetGlobalMetrics().IncrementToolFallbacks(tool)
}
