// Package objective holds the fixed mathematical test functions the
// benchmark matrix optimizes, together with their canonical search ranges.
// All functions minimize; the global minimum of each is 0.
package objective

import (
	"math"

	"github.com/copyleftdev/optbench/internal/errors"
	"github.com/copyleftdev/optbench/internal/matrix"
)

// Func maps an ordered parameter vector to a scalar value. Implementations
// are pure: equal inputs give bit-identical outputs.
type Func func(x []float64) float64

// Objective bundles a test function with its canonical input range. Supplying
// parameters outside [Low, High] is a caller error.
type Objective struct {
	Name matrix.Objective
	Eval Func
	Low  float64
	High float64
}

// Sphere computes Σ xᵢ².
func Sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Rosenbrock computes Σ [100(xᵢ₊₁ - xᵢ²)² + (1 - xᵢ)²].
func Rosenbrock(x []float64) float64 {
	total := 0.0
	for i := 0; i+1 < len(x); i++ {
		t1 := x[i+1] - x[i]*x[i]
		t2 := 1 - x[i]
		total += 100*t1*t1 + t2*t2
	}
	return total
}

// Rastrigin computes 10n + Σ [xᵢ² - 10·cos(2π·xᵢ)]. Highly multimodal.
func Rastrigin(x []float64) float64 {
	total := 0.0
	for _, v := range x {
		total += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return 10*float64(len(x)) + total
}

// Ackley computes -20·exp(-0.2·√(Σxᵢ²/n)) - exp(Σcos(2πxᵢ)/n) + 20 + e.
func Ackley(x []float64) float64 {
	n := float64(len(x))
	sumSq := 0.0
	sumCos := 0.0
	for _, v := range x {
		sumSq += v * v
		sumCos += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sumSq/n)) - math.Exp(sumCos/n) + 20 + math.E
}

// ByName resolves an objective and its canonical range.
func ByName(name matrix.Objective) (Objective, error) {
	switch name {
	case matrix.ObjectiveSphere:
		return Objective{Name: name, Eval: Sphere, Low: -5, High: 5}, nil
	case matrix.ObjectiveRosenbrock:
		return Objective{Name: name, Eval: Rosenbrock, Low: -2, High: 2}, nil
	case matrix.ObjectiveRastrigin:
		return Objective{Name: name, Eval: Rastrigin, Low: -5.12, High: 5.12}, nil
	case matrix.ObjectiveAckley:
		return Objective{Name: name, Eval: Ackley, Low: -32.768, High: 32.768}, nil
	}
	return Objective{}, errors.Errorf("unknown objective: %q", name).WithComponent("objective")
}

// MultiObjective evaluates the two-objective variant: sphere over the whole
// vector, and Rosenbrock over the first min(n-1, 10) coordinates.
func MultiObjective(x []float64) []float64 {
	n := len(x) - 1
	if n > 10 {
		n = 10
	}
	if n < 0 {
		n = 0
	}
	return []float64{Sphere(x), Rosenbrock(x[:n+1])}
}

// ConstraintViolation returns sum(|xᵢ|) - 2n. The point is feasible when the
// returned amount is <= 0.
func ConstraintViolation(x []float64) float64 {
	sumAbs := 0.0
	for _, v := range x {
		sumAbs += math.Abs(v)
	}
	return sumAbs - 2*float64(len(x))
}
