// Package metrics provides Prometheus collectors for the category loader.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes used as the outcome label.
const (
	OutcomeDone        = "done"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeSaveFailed  = "save_failed"
)

// InitializerMetrics contains Prometheus metrics for remote category loads.
// A nil *InitializerMetrics records nothing.
type InitializerMetrics struct {
	runsTotal            *prometheus.CounterVec
	fetchDuration        prometheus.Histogram
	categoriesSavedTotal prometheus.Counter
}

// NewInitializerMetrics creates and registers the initializer metrics.
func NewInitializerMetrics(registry prometheus.Registerer) (*InitializerMetrics, error) {
	m := &InitializerMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locations_initializer_runs_total",
				Help: "Total number of category load runs by outcome",
			},
			[]string{"outcome"}, // outcome: done, fetch_failed, save_failed
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "locations_initializer_fetch_duration_seconds",
				Help:    "Time from submitting the fetch until a response body or a failure was obtained",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
			},
		),
		categoriesSavedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "locations_initializer_categories_saved_total",
				Help: "Total number of categories persisted by load runs",
			},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordRun counts one finished run.
func (m *InitializerMetrics) RecordRun(outcome string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records how long the fetch phase took.
func (m *InitializerMetrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

// RecordSaved counts one persisted category.
func (m *InitializerMetrics) RecordSaved() {
	if m == nil {
		return
	}
	m.categoriesSavedTotal.Inc()
}

// Describe implements prometheus.Collector.
func (m *InitializerMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.runsTotal.Describe(ch)
	m.fetchDuration.Describe(ch)
	m.categoriesSavedTotal.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *InitializerMetrics) Collect(ch chan<- prometheus.Metric) {
	m.runsTotal.Collect(ch)
	m.fetchDuration.Collect(ch)
	m.categoriesSavedTotal.Collect(ch)
}
