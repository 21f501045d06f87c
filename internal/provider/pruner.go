package provider

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// nopPruner never prunes. Used for pruner "none" so the driver's reporting
// path stays uniform.
type nopPruner struct{}

func (nopPruner) ShouldPrune(*Study, *Trial) bool { return false }

// medianPruner stops a trial whose latest intermediate value is worse than
// the median of what other trials reported at the same step. It stays
// inactive until warmupTrials trials have reported at that step and never
// fires before warmupSteps checkpoints of the current trial.
type medianPruner struct {
	warmupTrials int
	warmupSteps  int
}

func newMedianPruner() *medianPruner {
	return &medianPruner{warmupTrials: 5, warmupSteps: 1}
}

func (p *medianPruner) ShouldPrune(s *Study, t *Trial) bool {
	step := t.LastStep
	if step < p.warmupSteps {
		return false
	}
	value, ok := t.Intermediate[step]
	if !ok {
		return false
	}

	others := s.intermediatesAt(step, t.ID)
	if len(others) < p.warmupTrials {
		return false
	}
	median := stat.Quantile(0.5, stat.Empirical, others, nil)

	if s.Direction() == Maximize {
		return value < median
	}
	return value > median
}

// shaPruner implements successive halving on a geometric rung schedule: a
// trial survives a rung only if its value there ranks within the top 1/eta
// of everything reported at that rung.
type shaPruner struct {
	eta   float64
	rungs []int
}

func newSHAPruner() *shaPruner {
	// Rungs after checkpoints 1, 3 and 9 of the 10-step evaluation.
	return &shaPruner{eta: 3, rungs: []int{0, 2, 8}}
}

func (p *shaPruner) ShouldPrune(s *Study, t *Trial) bool {
	step := t.LastStep
	if !p.isRung(step) {
		return false
	}
	value, ok := t.Intermediate[step]
	if !ok {
		return false
	}

	others := s.intermediatesAt(step, t.ID)
	if len(others)+1 < int(p.eta) {
		return false
	}

	all := append(append([]float64(nil), others...), value)
	keep := int(math.Ceil(float64(len(all)) / p.eta))

	rank := 0
	for _, v := range all {
		if s.Direction() == Maximize {
			if v > value {
				rank++
			}
		} else if v < value {
			rank++
		}
	}
	return rank >= keep
}

func (p *shaPruner) isRung(step int) bool {
	for _, r := range p.rungs {
		if r == step {
			return true
		}
	}
	return false
}
