package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Pipeline metrics
	PipelineRunsTotal      *prometheus.CounterVec
	PipelineRunDuration    *prometheus.HistogramVec
	PipelineRunsInProgress prometheus.Gauge
	ReportRowsProcessed    *prometheus.CounterVec
	ReportRowsDropped      *prometheus.CounterVec

	// External API metrics
	ExternalAPICalls    *prometheus.CounterVec
	ExternalAPIDuration *prometheus.HistogramVec
	ExternalAPIFailures *prometheus.CounterVec

	// Object store metrics
	ObjectsUploaded *prometheus.CounterVec
	UploadedBytes   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		PipelineRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_runs_total",
				Help: "Total number of per-date pipeline runs",
			},
			[]string{"status", "stage"},
		),

		PipelineRunDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipeline_run_duration_seconds",
				Help:    "Per-date pipeline run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"stage"},
		),

		PipelineRunsInProgress: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipeline_runs_in_progress",
				Help: "Number of pipeline runs currently in progress",
			},
		),

		ReportRowsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_rows_processed_total",
				Help: "Total number of report rows consumed by the transformer",
			},
			[]string{"status"},
		),

		ReportRowsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_rows_dropped_total",
				Help: "Total number of report rows excluded by parsing or business filters",
			},
			[]string{"reason"},
		),

		ExternalAPICalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of external API calls",
			},
			[]string{"api", "status"},
		),

		ExternalAPIDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_duration_seconds",
				Help:    "External API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api"},
		),

		ExternalAPIFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_failures_total",
				Help: "Total number of external API failures",
			},
			[]string{"api", "error_type"},
		),

		ObjectsUploaded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "objects_uploaded_total",
				Help: "Total number of objects uploaded to the object store",
			},
			[]string{"status"},
		),

		UploadedBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "uploaded_bytes_total",
				Help: "Total bytes uploaded to the object store",
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Pipeline run metrics
func (m *Metrics) RecordPipelineRun(status, stage string, duration time.Duration) {
	m.PipelineRunsTotal.WithLabelValues(status, stage).Inc()
	m.PipelineRunDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// Transformer row metrics
func (m *Metrics) RecordReportRows(status string, count int) {
	m.ReportRowsProcessed.WithLabelValues(status).Add(float64(count))
}

// Transformer row exclusion metrics
func (m *Metrics) RecordReportRowsDropped(reason string, count int) {
	m.ReportRowsDropped.WithLabelValues(reason).Add(float64(count))
}

// External API call metrics
func (m *Metrics) RecordExternalAPICall(api, status string, duration time.Duration) {
	m.ExternalAPICalls.WithLabelValues(api, status).Inc()
	m.ExternalAPIDuration.WithLabelValues(api).Observe(duration.Seconds())
}

// External API failure metrics
func (m *Metrics) RecordExternalAPIFailure(api, errorType string) {
	m.ExternalAPIFailures.WithLabelValues(api, errorType).Inc()
}

// Object upload metrics
func (m *Metrics) RecordObjectUpload(status string, size int) {
	m.ObjectsUploaded.WithLabelValues(status).Inc()
	if status == "success" {
		m.UploadedBytes.Add(float64(size))
	}
}

// Pipeline runs in progress counter
func (m *Metrics) IncPipelineRunsInProgress() {
	m.PipelineRunsInProgress.Inc()
}

// Pipeline runs in progress counter
func (m *Metrics) DecPipelineRunsInProgress() {
	m.PipelineRunsInProgress.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
