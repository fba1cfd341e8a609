// Package telemetry provides Prometheus metrics for the reminder service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPath = "/metrics"

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so tests can pass nil.
type Metrics struct {
	RemindersSent       *prometheus.CounterVec
	RecordsCreated      prometheus.Counter
	CompletionsRecorded prometheus.Counter
	ScansCompleted      prometheus.Counter
	ScanErrors          prometheus.Counter
}

// NewMetrics initializes and registers all collectors on the default
// registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		RemindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_reminders_sent_total",
			Help: "Reminder notifications delivered, partitioned by severity.",
		}, []string{"severity"}),
		RecordsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_reminder_records_created_total",
			Help: "Reminder tracking records created.",
		}),
		CompletionsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_completions_recorded_total",
			Help: "Evaluation comments recorded against open reminder records.",
		}),
		ScansCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_scans_completed_total",
			Help: "Reminder scans run to completion.",
		}),
		ScanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evaluation_scan_errors_total",
			Help: "Per-assignment failures during reminder scans.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.RemindersSent, m.RecordsCreated, m.CompletionsRecorded, m.ScansCompleted, m.ScanErrors,
	} {
		if err := prometheus.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RegisterMetricsHandlers adds the metrics route to the provided mux.
func RegisterMetricsHandlers(mux *http.ServeMux) {
	mux.Handle(metricsPath, promhttp.Handler())
}

func (m *Metrics) AddReminderSent(severity string) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(severity).Inc()
}

func (m *Metrics) AddRecordCreated() {
	if m == nil {
		return
	}
	m.RecordsCreated.Inc()
}

func (m *Metrics) AddCompletionRecorded() {
	if m == nil {
		return
	}
	m.CompletionsRecorded.Inc()
}

func (m *Metrics) AddScanCompleted() {
	if m == nil {
		return
	}
	m.ScansCompleted.Inc()
}

func (m *Metrics) AddScanError() {
	if m == nil {
		return
	}
	m.ScanErrors.Inc()
}
