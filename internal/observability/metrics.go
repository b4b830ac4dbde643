package observability

import (
	"github.com/azurelens/backend-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric instruments
type Metrics struct {
	AssessmentsTotal          *prometheus.CounterVec
	AssessmentDurationSeconds prometheus.Histogram
	ActiveAssessments         prometheus.Gauge
	FindingsTotal             *prometheus.CounterVec
	HTTPRequestsTotal         *prometheus.CounterVec
	HTTPRequestDuration       *prometheus.HistogramVec
}

// NewMetrics registers and returns all metrics. A nil registerer uses the
// default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		AssessmentsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "azurelens_assessments_total",
			Help: "Total number of assessments run",
		}, []string{"type", "status"}),

		AssessmentDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "azurelens_assessment_duration_seconds",
			Help:    "Duration of assessment runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		ActiveAssessments: f.NewGauge(prometheus.GaugeOpts{
			Name: "azurelens_active_assessments",
			Help: "Number of currently running assessments",
		}),

		FindingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "azurelens_findings_total",
			Help: "Total findings emitted by analyzers",
		}, []string{"category", "severity"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "azurelens_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "azurelens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
		}, []string{"method", "path"}),
	}
}

// RecordAssessmentStart increments the active assessments gauge
func (m *Metrics) RecordAssessmentStart() {
	m.ActiveAssessments.Inc()
}

// RecordAssessmentEnd records assessment completion
func (m *Metrics) RecordAssessmentEnd(assessmentType, status string, duration float64) {
	m.ActiveAssessments.Dec()
	m.AssessmentsTotal.WithLabelValues(assessmentType, status).Inc()
	m.AssessmentDurationSeconds.Observe(duration)
}

// RecordFindings counts the findings emitted by one run
func (m *Metrics) RecordFindings(findings []domain.Finding) {
	for _, f := range findings {
		m.FindingsTotal.WithLabelValues(string(f.Category), string(f.Severity)).Inc()
	}
}
