package pipeline

import (
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/report"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of the report pipeline.
type Metrics struct {
	jobs        *prometheus.CounterVec
	records     *prometheus.CounterVec
	rowsSkipped prometheus.Counter
	duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktax",
			Name:      "report_jobs_total",
			Help:      "Report jobs finished, by final status.",
		}, []string{"status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktax",
			Name:      "records_extracted_total",
			Help:      "Records extracted from statements, by section.",
		}, []string{"section"}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stocktax",
			Name:      "rows_skipped_total",
			Help:      "Data rows that matched no schema and were skipped.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stocktax",
			Name:      "report_duration_seconds",
			Help:      "Time from dequeue to finished report.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.jobs, m.records, m.rowsSkipped, m.duration)
	}
	return m
}

// ObserveJob records the outcome of one job.
func (m *Metrics) ObserveJob(status JobStatus, seconds float64) {
	m.jobs.WithLabelValues(string(status)).Inc()
	m.duration.Observe(seconds)
}

// ObserveReport counts the records and skipped rows of a finished report.
func (m *Metrics) ObserveReport(r *report.Report) {
	for _, row := range r.Records() {
		m.records.WithLabelValues(row.Section).Inc()
	}
	if r.Vesting != nil {
		m.rowsSkipped.Add(float64(r.Vesting.RowsSkipped))
	}
	if r.Sales != nil {
		m.rowsSkipped.Add(float64(r.Sales.RowsSkipped))
	}
}
