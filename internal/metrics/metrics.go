// Package metrics exposes live run progress over Prometheus during long
// matrix runs. Entirely optional; the benchmarks never depend on it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the harness's instrument set on its own registry, keeping
// default collectors out of the scrape.
type Metrics struct {
	registry *prometheus.Registry

	TrialsStarted   *prometheus.CounterVec
	TrialsCompleted *prometheus.CounterVec
	TrialsPruned    *prometheus.CounterVec
	TrialErrors     *prometheus.CounterVec
	StudyDuration   *prometheus.HistogramVec
}

// New builds and registers the instrument set.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	labels := []string{"sampler", "objective", "pruner"}

	m := &Metrics{
		registry: reg,
		TrialsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optbench_trials_started_total",
			Help: "Trials started, by configuration axes.",
		}, labels),
		TrialsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optbench_trials_completed_total",
			Help: "Trials that ran to completion.",
		}, labels),
		TrialsPruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optbench_trials_pruned_total",
			Help: "Trials stopped early by the pruner.",
		}, labels),
		TrialErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optbench_trial_errors_total",
			Help: "Trials skipped because the provider errored.",
		}, labels),
		StudyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "optbench_study_duration_seconds",
			Help:    "Wall-clock duration of one study (one configuration cell).",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		}, labels),
	}

	reg.MustRegister(m.TrialsStarted, m.TrialsCompleted, m.TrialsPruned, m.TrialErrors, m.StudyDuration)
	return m
}

// Registry returns the backing registry for scrape handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
