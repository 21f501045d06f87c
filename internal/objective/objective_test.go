package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/optbench/internal/matrix"
)

func TestObjectivesAtGlobalMinimum(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		x    []float64
	}{
		{"sphere", Sphere, []float64{0, 0, 0}},
		{"rosenbrock", Rosenbrock, []float64{1, 1, 1}},
		{"rastrigin", Rastrigin, []float64{0, 0}},
		{"ackley", Ackley, []float64{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, 0.0, tt.fn(tt.x), 1e-9)
		})
	}
}

func TestObjectiveValues(t *testing.T) {
	assert.InDelta(t, 14.0, Sphere([]float64{1, 2, 3}), 1e-12)

	// 100*(y - x^2)^2 + (1 - x)^2 at (0, 0) is 1.
	assert.InDelta(t, 1.0, Rosenbrock([]float64{0, 0}), 1e-12)

	// 10n + sum(x^2 - 10 cos(2 pi x)), x = (1, 1): cos terms are 1.
	assert.InDelta(t, 2.0, Rastrigin([]float64{1, 1}), 1e-9)
}

func TestByNameRanges(t *testing.T) {
	tests := []struct {
		name      matrix.Objective
		low, high float64
	}{
		{matrix.ObjectiveSphere, -5, 5},
		{matrix.ObjectiveRosenbrock, -2, 2},
		{matrix.ObjectiveRastrigin, -5.12, 5.12},
		{matrix.ObjectiveAckley, -32.768, 32.768},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			obj, err := ByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.low, obj.Low)
			assert.Equal(t, tt.high, obj.High)
			assert.NotNil(t, obj.Eval)
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("himmelblau")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown objective")
}

func TestMultiObjective(t *testing.T) {
	vals := MultiObjective([]float64{0, 0, 0})
	require.Len(t, vals, 2)
	assert.InDelta(t, 0.0, vals[0], 1e-12)

	// Rosenbrock part only spans the first min(n-1, 10) coordinates.
	long := make([]float64, 50)
	for i := range long {
		long[i] = 1
	}
	vals = MultiObjective(long)
	assert.InDelta(t, 50.0, vals[0], 1e-12)
	assert.InDelta(t, 0.0, vals[1], 1e-12)
}

func TestConstraintViolation(t *testing.T) {
	// sum(|x|) = 2, threshold = 2n = 4: feasible by 2.
	assert.InDelta(t, -2.0, ConstraintViolation([]float64{1, -1}), 1e-12)
	// sum(|x|) = 10, threshold = 4: violated by 6.
	assert.InDelta(t, 6.0, ConstraintViolation([]float64{5, -5}), 1e-12)
}

func TestIntermediateValueFinalStepExact(t *testing.T) {
	for _, v := range []float64{0, 1.5, -3.25, 1e6} {
		for trial := 0; trial < 5; trial++ {
			assert.Equal(t, v, IntermediateValue(v, 9, trial, 42))
		}
	}
}

func TestIntermediateValueDeterministic(t *testing.T) {
	a := IntermediateValue(10.0, 5, 7, 42)
	b := IntermediateValue(10.0, 5, 7, 42)
	assert.Equal(t, a, b, "same (value, step, trial, seed) must be bit-identical")

	// Different step, trial, or seed should perturb the noise.
	assert.NotEqual(t, a, IntermediateValue(10.0, 4, 7, 42))
	assert.NotEqual(t, a, IntermediateValue(10.0, 5, 8, 42))
	assert.NotEqual(t, a, IntermediateValue(10.0, 5, 7, 43))
}

func TestIntermediateValueInflation(t *testing.T) {
	// For a positive true value the noise factor is >= 1 and bounded by
	// 1 + (9-step)*0.5.
	const trueValue = 4.0
	for step := 0; step < 9; step++ {
		v := IntermediateValue(trueValue, step, 3, 42)
		assert.GreaterOrEqual(t, v, trueValue)
		assert.Less(t, v, trueValue*(1+float64(9-step)*0.5))
	}
}

func TestAckleyLargeInput(t *testing.T) {
	// Stays finite across its whole canonical range.
	v := Ackley([]float64{32.768, -32.768})
	assert.False(t, math.IsNaN(v))
	assert.False(t, math.IsInf(v, 0))
}
