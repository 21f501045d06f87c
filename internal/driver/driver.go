// Package driver executes one optimization study for one benchmark
// configuration against an optimization provider, producing a single
// benchmark result with convergence checkpoints and pruning statistics.
package driver

import (
	"fmt"
	"math"
	"time"

	"github.com/copyleftdev/optbench/internal/errors"
	"github.com/copyleftdev/optbench/internal/logging"
	"github.com/copyleftdev/optbench/internal/matrix"
	"github.com/copyleftdev/optbench/internal/metrics"
	"github.com/copyleftdev/optbench/internal/objective"
	"github.com/copyleftdev/optbench/internal/provider"
	"github.com/copyleftdev/optbench/internal/result"
)

// Feature selects the problem variant a study exercises.
type Feature string

const (
	// FeatureSingle is the canonical scalar-objective matrix cell.
	FeatureSingle Feature = "single"
	// FeatureMulti runs the two-objective variant; best_value becomes the
	// Pareto front size since no scalar totally orders vector results.
	FeatureMulti Feature = "multi"
	// FeatureConstrained adds a penalty for constraint violation so plain
	// minimization disfavors infeasible regions.
	FeatureConstrained Feature = "constrained"
)

// ParseFeature validates a feature name.
func ParseFeature(s string) (Feature, error) {
	switch Feature(s) {
	case FeatureSingle, FeatureMulti, FeatureConstrained, "":
		if s == "" {
			return FeatureSingle, nil
		}
		return Feature(s), nil
	}
	return "", errors.Errorf("unknown feature: %q", s).WithComponent("driver")
}

// Constraint-handling and feasibility constants for the constrained variant.
const (
	penaltyCoefficient   = 100.0
	feasibilityThreshold = 1e-6
)

// checkpointFractions are the trial marks at which best-value-so-far is
// snapshotted into the convergence sequence.
var checkpointFractions = [result.ConvergencePoints]float64{0.2, 0.4, 0.6, 0.8, 1.0}

// Options carries the per-run settings that are not part of the
// configuration's canonical identity.
type Options struct {
	Framework string
	Seed      int64
	Feature   Feature
	Logger    *logging.Logger
	// Metrics is optional live instrumentation; nil disables it.
	Metrics *metrics.Metrics
}

// Run executes exactly cfg.NTrials trials of cfg and returns the resulting
// record. An error here means the study could not be constructed at all;
// per-trial provider failures are absorbed, logged, and skipped.
func Run(cfg matrix.Config, opts Options) (*result.BenchmarkResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	feature, err := ParseFeature(string(opts.Feature))
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger, _ = logging.NewLogger(nil)
	}
	logger = logger.WithFields(map[string]interface{}{
		"configuration": cfg.Key().String(),
		"framework":     opts.Framework,
	})

	obj, err := objective.ByName(cfg.Objective)
	if err != nil {
		return nil, err
	}

	study, err := provider.NewStudy(provider.Config{
		Sampler:   cfg.Sampler,
		Pruner:    cfg.Pruner,
		Direction: provider.Minimize,
		Seed:      opts.Seed,
		Logger:    logging.NewZapLogger(logger.WithField("component", "provider")),
	})
	if err != nil {
		return nil, errors.Wrap(err, "constructing study").WithComponent("driver")
	}

	d := &run{
		cfg:     cfg,
		opts:    opts,
		feature: feature,
		obj:     obj,
		study:   study,
		logger:  logger,
	}
	return d.execute()
}

type run struct {
	cfg     matrix.Config
	opts    Options
	feature Feature
	obj     objective.Objective
	study   *provider.Study
	logger  *logging.Logger

	pruned   int
	feasible int
}

func (d *run) execute() (*result.BenchmarkResult, error) {
	n := d.cfg.NTrials

	boundaries := make([]int, result.ConvergencePoints)
	for i, f := range checkpointFractions {
		boundaries[i] = int(math.Floor(float64(n) * f))
	}

	var convergence []result.Float
	checkpoint := 0
	start := time.Now()

	for t := 0; t < n; t++ {
		d.countTrial("started")
		err := errors.Recovered(func() error {
			return d.runTrial(t)
		})
		if err != nil {
			// Non-fatal: the trial is not counted toward best_value.
			d.logger.Warn("trial failed", map[string]interface{}{"trial": t, "error": err.Error()})
			d.countTrial("error")
		}

		// Snapshot best-so-far at the 20/40/60/80/100% marks. Coinciding
		// boundaries on small trial counts record once; trailing gaps are
		// padded after the loop.
		executed := t + 1
		if checkpoint < len(boundaries) && executed >= boundaries[checkpoint] {
			convergence = append(convergence, result.Float(d.study.BestValue()))
			checkpoint++
		}
	}

	elapsed := time.Since(start)
	for len(convergence) < result.ConvergencePoints {
		convergence = append(convergence, result.Float(d.study.BestValue()))
	}
	convergence = convergence[:result.ConvergencePoints]

	res := &result.BenchmarkResult{
		Framework:    d.opts.Framework,
		Config:       d.cfg,
		BestValue:    result.Float(d.study.BestValue()),
		ElapsedMS:    float64(elapsed.Milliseconds()),
		PrunedTrials: d.pruned,
		PruningRate:  float64(d.pruned) / float64(n),
		Convergence:  convergence,
		Seed:         d.opts.Seed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		res.TrialsPerSecond = float64(n) / secs
	}

	switch d.feature {
	case FeatureMulti:
		res.Feature = string(FeatureMulti)
		res.ParetoFrontSize = len(d.study.ParetoFront())
		res.BestValue = result.Float(res.ParetoFrontSize)
	case FeatureConstrained:
		res.Feature = string(FeatureConstrained)
		res.FeasibleFraction = float64(d.feasible) / float64(n)
	}

	if d.opts.Metrics != nil {
		d.opts.Metrics.StudyDuration.
			WithLabelValues(string(d.cfg.Sampler), string(d.cfg.Objective), string(d.cfg.Pruner)).
			Observe(elapsed.Seconds())
	}
	d.logger.Info("study finished", map[string]interface{}{
		"best_value":    d.study.BestValue(),
		"elapsed_ms":    res.ElapsedMS,
		"pruned_trials": d.pruned,
	})
	return res, nil
}

// runTrial executes the per-trial protocol: suggest, evaluate, report
// intermediates while pruning is enabled, then report the final value.
func (d *run) runTrial(t int) error {
	x := make([]float64, d.cfg.NParams)
	for i := range x {
		x[i] = d.study.Suggest(t, fmt.Sprintf("x%d", i), d.obj.Low, d.obj.High)
	}

	values := d.evaluate(x)

	if d.cfg.Pruner != matrix.PrunerNone {
		// Ten intermediate checkpoints; the last one is exact by contract.
		for step := 0; step <= 9; step++ {
			iv := objective.IntermediateValue(values[0], step, t, d.opts.Seed)
			d.study.ReportIntermediate(t, iv, step)
			if d.study.ShouldPrune(t) {
				d.pruned++
				d.countTrial("pruned")
				return nil
			}
		}
	}

	d.study.ReportFinal(t, values...)
	d.countTrial("completed")
	return nil
}

func (d *run) evaluate(x []float64) []float64 {
	switch d.feature {
	case FeatureMulti:
		return objective.MultiObjective(x)
	case FeatureConstrained:
		value := d.obj.Eval(x)
		violation := objective.ConstraintViolation(x)
		if violation <= feasibilityThreshold {
			d.feasible++
		}
		if violation > 0 {
			// Infeasible points are penalized, not pruned; minimization
			// then naturally steers away from them.
			value += violation * penaltyCoefficient
		}
		return []float64{value}
	default:
		return []float64{d.obj.Eval(x)}
	}
}

func (d *run) countTrial(kind string) {
	if d.opts.Metrics == nil {
		return
	}
	labels := []string{string(d.cfg.Sampler), string(d.cfg.Objective), string(d.cfg.Pruner)}
	switch kind {
	case "started":
		d.opts.Metrics.TrialsStarted.WithLabelValues(labels...).Inc()
	case "completed":
		d.opts.Metrics.TrialsCompleted.WithLabelValues(labels...).Inc()
	case "pruned":
		d.opts.Metrics.TrialsPruned.WithLabelValues(labels...).Inc()
	case "error":
		d.opts.Metrics.TrialErrors.WithLabelValues(labels...).Inc()
	}
}
