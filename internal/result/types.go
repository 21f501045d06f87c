// Package result defines the on-disk benchmark result record shared between
// framework runners, and the store that persists and reloads it.
package result

import (
	"bytes"
	"math"
	"strconv"

	"github.com/copyleftdev/optbench/internal/errors"
	"github.com/copyleftdev/optbench/internal/matrix"
)

// Float is a float64 whose JSON encoding survives non-finite values. The
// "no feasible trial" sentinel is +Inf, which encoding/json rejects, so
// non-finite values are written as the strings "inf", "-inf" and "nan" and
// accepted back in either form (including Python's bare Infinity token).
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	switch s {
	case "inf", "Infinity":
		*f = Float(math.Inf(1))
		return nil
	case "-inf", "-Infinity":
		*f = Float(math.Inf(-1))
		return nil
	case "nan", "NaN":
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid numeric value %q", s)
	}
	*f = Float(v)
	return nil
}

// ConvergencePoints is the fixed number of best-value snapshots every result
// carries, at the 20/40/60/80/100% trial marks.
const ConvergencePoints = 5

// BenchmarkResult is the output of one trial-driver run. Field names are the
// compatibility contract between independently run frameworks and the shared
// aggregator.
type BenchmarkResult struct {
	Framework string `json:"framework"`
	matrix.Config
	BestValue       Float   `json:"best_value"`
	ElapsedMS       float64 `json:"elapsed_ms"`
	TrialsPerSecond float64 `json:"trials_per_second"`
	PrunedTrials    int     `json:"pruned_trials"`
	PruningRate     float64 `json:"pruning_rate"`
	Convergence     []Float `json:"convergence"`
	Seed            int64   `json:"seed"`

	// Optional extras for the supplemental feature runs. Absent from the
	// canonical matrix records; unknown to older readers, which ignore them.
	Feature          string  `json:"feature,omitempty"`
	ParetoFrontSize  int     `json:"pareto_front_size,omitempty"`
	FeasibleFraction float64 `json:"feasible_fraction,omitempty"`
}

// Validate checks that a loaded record carries everything the aggregator
// depends on; incomplete records are skipped at load time.
func (r *BenchmarkResult) Validate() error {
	if r.Framework == "" {
		return errors.New("missing framework").WithComponent("result")
	}
	if err := r.Config.Validate(); err != nil {
		return err
	}
	if len(r.Convergence) != ConvergencePoints {
		return errors.Errorf("convergence must have %d points, got %d", ConvergencePoints, len(r.Convergence)).WithComponent("result")
	}
	if r.ElapsedMS < 0 {
		return errors.Errorf("elapsed_ms must be non-negative, got %v", r.ElapsedMS).WithComponent("result")
	}
	if r.PrunedTrials < 0 || r.PrunedTrials > r.NTrials {
		return errors.Errorf("pruned_trials %d out of range for %d trials", r.PrunedTrials, r.NTrials).WithComponent("result")
	}
	return nil
}
