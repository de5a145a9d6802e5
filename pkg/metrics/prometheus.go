package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tasksTotal  *prometheus.CounterVec
	rowsTotal   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg,
// or on the default registry when reg is nil.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		tasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincrawl_tasks_total",
				Help: "Fetch tasks finished, by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		rowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincrawl_rows_total",
				Help: "Rows kept or dropped by schema validation",
			},
			[]string{"source", "result"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincrawl_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincrawl_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTask counts a finished task.
func (r *Recorder) RecordTask(source, outcome string) {
	r.tasksTotal.WithLabelValues(source, outcome).Inc()
}

// RecordRows counts validated and rejected rows.
func (r *Recorder) RecordRows(source string, kept, dropped int) {
	r.rowsTotal.WithLabelValues(source, "kept").Add(float64(kept))
	r.rowsTotal.WithLabelValues(source, "dropped").Add(float64(dropped))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
