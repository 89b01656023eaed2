package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors for the ledger API.
type Metrics struct {
	Registry *prometheus.Registry

	EntriesAdded        *prometheus.CounterVec
	EntriesRemoved      prometheus.Counter
	CalculationDuration *prometheus.HistogramVec
	RequestsRejected    *prometheus.CounterVec
}

// NewMetrics registers every collector on a private registry along with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		EntriesAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slicer_entries_added_total",
				Help: "Total number of ledger entries added by category",
			},
			[]string{"category"},
		),

		EntriesRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "slicer_entries_removed_total",
				Help: "Total number of ledger entries removed",
			},
		),

		CalculationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slicer_calculation_duration_seconds",
				Help:    "Duration of slice calculations in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"scope"},
		),

		RequestsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slicer_entries_rejected_total",
				Help: "Total number of entry requests rejected by validation",
			},
			[]string{"reason"},
		),
	}

	m.Registry.MustRegister(
		m.EntriesAdded,
		m.EntriesRemoved,
		m.CalculationDuration,
		m.RequestsRejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCalculation records how long a calculation for scope took.
func (m *Metrics) ObserveCalculation(scope string, start time.Time) {
	m.CalculationDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
}
