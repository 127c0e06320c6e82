package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeTransportError  = "transport_error"
)

// PrometheusMetrics contains all Prometheus metrics for the evaluation logger
type PrometheusMetrics struct {
	// Log submission metrics
	LogSubmissionsTotal     *prometheus.CounterVec
	LogSubmissionDuration   *prometheus.HistogramVec
	EvaluationRequestsTotal *prometheus.CounterVec

	// API metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Application health metrics
	ApplicationUptime prometheus.Gauge
	ComponentHealth   *prometheus.GaugeVec
	MemoryUsage       prometheus.Gauge
	GoroutineCount    prometheus.Gauge
}

// NewPrometheusMetrics creates all metrics and registers them with reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		LogSubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evallogger_log_submissions_total",
				Help: "Total number of log submissions by record triple and outcome",
			},
			[]string{"stack", "level", "package", "outcome"},
		),

		LogSubmissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evallogger_log_submission_duration_seconds",
				Help:    "Round trip time of log submissions to the remote sink",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),

		EvaluationRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evallogger_evaluation_requests_total",
				Help: "Total number of register/auth/health calls to the evaluation service",
			},
			[]string{"endpoint", "status"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evallogger_http_requests_total",
				Help: "Total number of HTTP requests received",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evallogger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		ApplicationUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "evallogger_application_uptime_seconds",
				Help: "Application uptime in seconds",
			},
		),

		ComponentHealth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "evallogger_component_health",
				Help: "Health status of application components (1=healthy, 0=unhealthy)",
			},
			[]string{"component"},
		),

		MemoryUsage: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "evallogger_memory_usage_bytes",
				Help: "Current memory usage in bytes",
			},
		),

		GoroutineCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "evallogger_goroutines",
				Help: "Number of running goroutines",
			},
		),
	}
}

// RecordLogSubmission records one submission attempt
func (m *PrometheusMetrics) RecordLogSubmission(stack, level, pkg, outcome string, duration time.Duration) {
	m.LogSubmissionsTotal.WithLabelValues(stack, level, pkg, outcome).Inc()
	m.LogSubmissionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordEvaluationRequest records a call to the evaluation service
func (m *PrometheusMetrics) RecordEvaluationRequest(endpoint, status string) {
	m.EvaluationRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *PrometheusMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UpdateApplicationUptime updates the application uptime metric
func (m *PrometheusMetrics) UpdateApplicationUptime(startTime time.Time) {
	m.ApplicationUptime.Set(time.Since(startTime).Seconds())
}

// UpdateComponentHealth updates the health status of a component
func (m *PrometheusMetrics) UpdateComponentHealth(component string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	m.ComponentHealth.WithLabelValues(component).Set(value)
}

// UpdateMemoryUsage updates the memory usage metric
func (m *PrometheusMetrics) UpdateMemoryUsage(bytes uint64) {
	m.MemoryUsage.Set(float64(bytes))
}

// UpdateGoroutineCount updates the goroutine count metric
func (m *PrometheusMetrics) UpdateGoroutineCount(count int) {
	m.GoroutineCount.Set(float64(count))
}
