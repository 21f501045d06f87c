package provider

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

// Study owns the state of one optimization run: trial records, the running
// best value, and (for vector objectives) the Pareto front. It is not safe
// for concurrent use; the trial driver is sequential by design.
type Study struct {
	direction Direction
	sampler   Sampler
	pruner    Pruner
	logger    *zap.Logger

	trials    map[int]*Trial
	completed []int // IDs in completion order
	best      float64
	hasBest   bool
}

func newStudy(direction Direction, sampler Sampler, pruner Pruner, logger *zap.Logger) *Study {
	return &Study{
		direction: direction,
		sampler:   sampler,
		pruner:    pruner,
		logger:    logger,
		trials:    make(map[int]*Trial),
	}
}

// Direction returns the study's optimization direction.
func (s *Study) Direction() Direction { return s.direction }

// Suggest returns the next value for the named dimension of the given trial,
// drawn from [low, high). It is called once per dimension per trial, in
// dimension order.
func (s *Study) Suggest(trial int, name string, low, high float64) float64 {
	t := s.trial(trial)
	v := s.sampler.Suggest(s, t, name, low, high)
	t.Names = append(t.Names, name)
	t.Params = append(t.Params, v)
	return v
}

// ReportIntermediate records the value observed at checkpoint step of a
// running trial. Only used when pruning is enabled.
func (s *Study) ReportIntermediate(trial int, value float64, step int) {
	t := s.trial(trial)
	if t.Intermediate == nil {
		t.Intermediate = make(map[int]float64)
	}
	t.Intermediate[step] = value
	t.LastStep = step
}

// ShouldPrune asks the pruner whether the trial should stop now, based on
// the intermediate values reported so far. A pruned trial is recorded in the
// history but contributes nothing to the best value.
func (s *Study) ShouldPrune(trial int) bool {
	t := s.trial(trial)
	if t.State != StateRunning {
		return false
	}
	if !s.pruner.ShouldPrune(s, t) {
		return false
	}
	t.State = StatePruned
	s.completed = append(s.completed, t.ID)
	s.logger.Debug("trial pruned", zap.Int("trial", t.ID), zap.Int("step", t.LastStep))
	return true
}

// ReportFinal records the finalized value (or value vector) of a non-pruned
// trial and updates the study's best-value tracking. Called exactly once per
// completed trial.
func (s *Study) ReportFinal(trial int, values ...float64) {
	t := s.trial(trial)
	t.Values = append([]float64(nil), values...)
	t.State = StateComplete
	s.completed = append(s.completed, t.ID)

	if len(values) == 1 {
		if !s.hasBest || s.better(values[0], s.best) {
			s.best = values[0]
			s.hasBest = true
		}
	}

	if obs, ok := s.sampler.(finalObserver); ok {
		obs.observeFinal(s, t)
	}
}

// BestValue returns the best scalar value observed so far. With no completed
// trial it returns the direction's worst sentinel (+Inf when minimizing).
func (s *Study) BestValue() float64 {
	if !s.hasBest {
		if s.direction == Maximize {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return s.best
}

// ParetoFront returns the IDs of completed vector-valued trials not weakly
// dominated by any other. Ordering of the returned slice is not meaningful.
func (s *Study) ParetoFront() []int {
	var candidates []*Trial
	for _, id := range s.completed {
		t := s.trials[id]
		if t.State == StateComplete && len(t.Values) > 1 {
			candidates = append(candidates, t)
		}
	}

	var front []int
	for _, t := range candidates {
		dominated := false
		for _, o := range candidates {
			if o.ID != t.ID && dominates(o.Values, t.Values) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, t.ID)
		}
	}
	return front
}

// dominates reports whether a dominates b: no worse on every objective and
// strictly better on at least one. All objectives minimize.
func dominates(a, b []float64) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

func (s *Study) better(a, b float64) bool {
	if s.direction == Maximize {
		return a > b
	}
	return a < b
}

func (s *Study) trial(id int) *Trial {
	t, ok := s.trials[id]
	if !ok {
		t = &Trial{ID: id, LastStep: -1}
		s.trials[id] = t
	}
	return t
}

// completedTrials returns trials in completion order, optionally restricted
// to fully completed (non-pruned) ones.
func (s *Study) completedTrials(includePruned bool) []*Trial {
	out := make([]*Trial, 0, len(s.completed))
	for _, id := range s.completed {
		t := s.trials[id]
		if t.State == StatePruned && !includePruned {
			continue
		}
		out = append(out, t)
	}
	return out
}

// intermediatesAt collects the values every trial except exclude reported at
// the given step, sorted ascending.
func (s *Study) intermediatesAt(step, exclude int) []float64 {
	var vals []float64
	for _, t := range s.trials {
		if t.ID == exclude || t.Intermediate == nil {
			continue
		}
		if v, ok := t.Intermediate[step]; ok {
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)
	return vals
}

// observations returns, for one dimension name, the (param, scalar value)
// pairs of completed trials that suggested that dimension.
func (s *Study) observations(name string) (params, values []float64) {
	for _, t := range s.completedTrials(false) {
		if len(t.Values) != 1 {
			continue
		}
		for i, n := range t.Names {
			if n == name {
				params = append(params, t.Params[i])
				values = append(values, t.Values[0])
				break
			}
		}
	}
	return params, values
}
