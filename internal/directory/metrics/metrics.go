// Package metrics provides Prometheus metrics for the people directory.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the directory load and filter metrics.
type Metrics struct {
	// Load metrics
	LoadsTotal          *prometheus.CounterVec // Load attempts by outcome (success, or failure category)
	LoadDurationSeconds prometheus.Histogram   // Duration of the upstream fetch
	RecordsLoaded       prometheus.Gauge       // Records held in memory
	Nationalities       prometheus.Gauge       // Distinct nationalities in the index

	// Filter metrics
	FilterEvaluationsTotal *prometheus.CounterVec // Filter evaluations by surface (page, api)
	VisibleRecords         prometheus.Histogram   // Size of the visible set per evaluation
}

// New creates a new Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates the metrics on the given registerer.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "userdir_directory_loads_total",
			Help: "Total number of directory load attempts by outcome",
		}, []string{"outcome"}),

		LoadDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "userdir_directory_load_duration_seconds",
			Help:    "Duration of the upstream directory fetch",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		RecordsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "userdir_directory_records",
			Help: "Current number of user records held in memory",
		}),

		Nationalities: factory.NewGauge(prometheus.GaugeOpts{
			Name: "userdir_directory_nationalities",
			Help: "Current number of distinct nationalities in the loaded records",
		}),

		FilterEvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "userdir_directory_filter_evaluations_total",
			Help: "Total number of filter evaluations by surface",
		}, []string{"surface"}),

		VisibleRecords: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "userdir_directory_visible_records",
			Help:    "Number of records visible after filtering",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
		}),
	}
}

// OutcomeSuccess labels a successful load.
const OutcomeSuccess = "success"

// RecordLoad records the outcome and duration of a load attempt.
// outcome is OutcomeSuccess or a failure category.
func (m *Metrics) RecordLoad(outcome string, duration time.Duration) {
	m.LoadsTotal.WithLabelValues(outcome).Inc()
	m.LoadDurationSeconds.Observe(duration.Seconds())
}

// SetLoaded updates the in-memory state gauges.
func (m *Metrics) SetLoaded(records, nationalities int) {
	m.RecordsLoaded.Set(float64(records))
	m.Nationalities.Set(float64(nationalities))
}

// ObserveFilter records one filter evaluation and the size of its result.
func (m *Metrics) ObserveFilter(surface string, visible int) {
	m.FilterEvaluationsTotal.WithLabelValues(surface).Inc()
	m.VisibleRecords.Observe(float64(visible))
}
