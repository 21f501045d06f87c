// Package provider implements the optimization provider contract the trial
// driver talks to: parameter suggestion, live intermediate reporting, pruning
// queries, and study-level best-value tracking. The driver never inspects
// sampling internals; any sampler or pruner satisfying the interfaces below
// can be substituted.
package provider

import (
	"go.uber.org/zap"

	"github.com/copyleftdev/optbench/internal/errors"
	"github.com/copyleftdev/optbench/internal/matrix"
)

// Direction tells the study which way "better" points.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// TrialState is the lifecycle state of one trial.
type TrialState int

const (
	StateRunning TrialState = iota
	StateComplete
	StatePruned
)

// Trial is the per-trial record the study keeps: the suggested parameters in
// suggestion order, intermediate reports by step, and the final value vector.
type Trial struct {
	ID           int
	Names        []string
	Params       []float64
	Intermediate map[int]float64
	LastStep     int
	Values       []float64
	State        TrialState
}

// Sampler proposes the next value for one dimension of one trial, given the
// study's history so far.
type Sampler interface {
	Suggest(s *Study, t *Trial, name string, low, high float64) float64
}

// Pruner decides, from partial evaluation results, whether the given running
// trial should be stopped early.
type Pruner interface {
	ShouldPrune(s *Study, t *Trial) bool
}

// finalObserver is implemented by samplers that learn from completed trials.
type finalObserver interface {
	observeFinal(s *Study, t *Trial)
}

// Config selects the concrete sampler and pruner for a study.
type Config struct {
	Sampler   matrix.Sampler
	Pruner    matrix.Pruner
	Direction Direction
	Seed      int64
	// Logger receives sampler/pruner diagnostics at debug level. Nil means
	// silent; providers emit no incidental output by default.
	Logger *zap.Logger
}

// NewStudy builds a study for the named sampler and pruner. Unknown names are
// configuration errors and fail before any trial runs.
func NewStudy(cfg Config) (*Study, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var sampler Sampler
	switch cfg.Sampler {
	case matrix.SamplerRandom:
		sampler = newRandomSampler(cfg.Seed)
	case matrix.SamplerTPE:
		sampler = newTPESampler(cfg.Seed, logger)
	case matrix.SamplerCMAES:
		sampler = newCMASampler(cfg.Seed, logger)
	default:
		return nil, errors.Errorf("unknown sampler: %q", cfg.Sampler).WithComponent("provider")
	}

	var pruner Pruner
	switch cfg.Pruner {
	case matrix.PrunerNone:
		pruner = nopPruner{}
	case matrix.PrunerMedian:
		pruner = newMedianPruner()
	case matrix.PrunerSHA:
		pruner = newSHAPruner()
	default:
		return nil, errors.Errorf("unknown pruner: %q", cfg.Pruner).WithComponent("provider")
	}

	return newStudy(cfg.Direction, sampler, pruner, logger), nil
}
