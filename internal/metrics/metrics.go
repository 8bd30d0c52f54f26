package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks audit outcomes and stage health
type Metrics struct {
	AuditsTotal        *prometheus.CounterVec
	AuditDuration      prometheus.Histogram
	SummariesTotal     *prometheus.CounterVec
	ExtractionFailures prometheus.Counter
	BaselineFailures   *prometheus.CounterVec
	ChangesDetected    prometheus.Counter
	EventsPublished    *prometheus.CounterVec
}

// New registers the audit metrics with reg; nil uses the default registry
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		AuditsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "echoaudit_audits_total",
			Help: "Total number of audits by resulting severity",
		}, []string{"severity"}),
		AuditDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "echoaudit_audit_duration_seconds",
			Help:    "Duration of a full audit including extraction and summarization",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SummariesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "echoaudit_summaries_total",
			Help: "Total number of summaries by producing strategy",
		}, []string{"source"}),
		ExtractionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "echoaudit_extraction_failures_total",
			Help: "Total number of audits aborted because no page text was available",
		}),
		BaselineFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "echoaudit_baseline_failures_total",
			Help: "Total number of baseline store failures by operation",
		}, []string{"op"}),
		ChangesDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "echoaudit_changes_detected_total",
			Help: "Total number of audits that found text differing from the baseline",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "echoaudit_events_published_total",
			Help: "Total number of events published by name",
		}, []string{"event"}),
	}
}

// ObserveAudit records a finished audit. Call with time.Now() at the start of the audit
func (m *Metrics) ObserveAudit(severity string, start time.Time) {
	if m == nil {
		return
	}

	m.AuditsTotal.WithLabelValues(severity).Inc()
	m.AuditDuration.Observe(time.Since(start).Seconds())
}

// IncrementSummary records which strategy produced a summary
func (m *Metrics) IncrementSummary(source string) {
	if m == nil {
		return
	}

	m.SummariesTotal.WithLabelValues(source).Inc()
}

// IncrementExtractionFailure records an audit without page text
func (m *Metrics) IncrementExtractionFailure() {
	if m == nil {
		return
	}

	m.ExtractionFailures.Inc()
}

// IncrementBaselineFailure records a failed baseline operation
func (m *Metrics) IncrementBaselineFailure(op string) {
	if m == nil {
		return
	}

	m.BaselineFailures.WithLabelValues(op).Inc()
}

// IncrementChange records a detected policy change
func (m *Metrics) IncrementChange() {
	if m == nil {
		return
	}

	m.ChangesDetected.Inc()
}

// IncrementEvent records a published event
func (m *Metrics) IncrementEvent(name string) {
	if m == nil {
		return
	}

	m.EventsPublished.WithLabelValues(name).Inc()
}
