package driver

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/optbench/internal/logging"
	"github.com/copyleftdev/optbench/internal/matrix"
	"github.com/copyleftdev/optbench/internal/result"
)

func testOptions() Options {
	return Options{
		Framework: "optbench",
		Seed:      42,
		Logger:    logging.New(logging.ErrorLevel, "json", os.Stderr),
	}
}

func sphereConfig(sampler matrix.Sampler, pruner matrix.Pruner, trials int) matrix.Config {
	return matrix.Config{
		Sampler:   sampler,
		Objective: matrix.ObjectiveSphere,
		NParams:   2,
		NTrials:   trials,
		Pruner:    pruner,
		Tier:      matrix.TierFast,
	}
}

func TestRunProducesValidResult(t *testing.T) {
	cfg := sphereConfig(matrix.SamplerRandom, matrix.PrunerNone, 30)

	res, err := Run(cfg, testOptions())
	require.NoError(t, err)
	require.NoError(t, res.Validate())

	assert.Equal(t, "optbench", res.Framework)
	assert.Equal(t, cfg, res.Config)
	assert.Equal(t, int64(42), res.Seed)
	assert.Empty(t, res.Feature)

	// With no pruning every trial completes; the sphere on [-5,5]^2 always
	// yields a finite non-negative best.
	assert.Zero(t, res.PrunedTrials)
	assert.Zero(t, res.PruningRate)
	best := float64(res.BestValue)
	assert.False(t, math.IsInf(best, 0))
	assert.GreaterOrEqual(t, best, 0.0)
	assert.Less(t, best, 50.0)
}

func TestConvergenceInvariants(t *testing.T) {
	for _, sampler := range []matrix.Sampler{matrix.SamplerRandom, matrix.SamplerTPE, matrix.SamplerCMAES} {
		t.Run(string(sampler), func(t *testing.T) {
			res, err := Run(sphereConfig(sampler, matrix.PrunerNone, 40), testOptions())
			require.NoError(t, err)

			require.Len(t, res.Convergence, result.ConvergencePoints)

			// Best-so-far under minimization never rises.
			for i := 1; i < len(res.Convergence); i++ {
				assert.LessOrEqual(t, float64(res.Convergence[i]), float64(res.Convergence[i-1]))
			}

			// The final snapshot is the final best value.
			assert.Equal(t, res.BestValue, res.Convergence[len(res.Convergence)-1])
		})
	}
}

func TestConvergencePaddedForTinyRuns(t *testing.T) {
	// With fewer trials than checkpoints, trailing points repeat the final
	// best value and the sequence keeps its fixed length.
	res, err := Run(sphereConfig(matrix.SamplerRandom, matrix.PrunerNone, 2), testOptions())
	require.NoError(t, err)

	require.Len(t, res.Convergence, result.ConvergencePoints)
	last := res.Convergence[len(res.Convergence)-1]
	assert.Equal(t, last, res.Convergence[len(res.Convergence)-2])
	assert.Equal(t, res.BestValue, last)
}

func TestRunDeterministicBySeed(t *testing.T) {
	cfg := sphereConfig(matrix.SamplerRandom, matrix.PrunerMedian, 30)

	a, err := Run(cfg, testOptions())
	require.NoError(t, err)
	b, err := Run(cfg, testOptions())
	require.NoError(t, err)

	assert.Equal(t, a.BestValue, b.BestValue)
	assert.Equal(t, a.Convergence, b.Convergence)
	assert.Equal(t, a.PrunedTrials, b.PrunedTrials)

	opts := testOptions()
	opts.Seed = 7
	c, err := Run(cfg, opts)
	require.NoError(t, err)
	assert.NotEqual(t, a.BestValue, c.BestValue)
}

func TestPruningAccounting(t *testing.T) {
	for _, pruner := range []matrix.Pruner{matrix.PrunerMedian, matrix.PrunerSHA} {
		t.Run(string(pruner), func(t *testing.T) {
			cfg := sphereConfig(matrix.SamplerRandom, pruner, 50)
			res, err := Run(cfg, testOptions())
			require.NoError(t, err)

			assert.GreaterOrEqual(t, res.PrunedTrials, 0)
			assert.LessOrEqual(t, res.PrunedTrials, cfg.NTrials)
			assert.InDelta(t, float64(res.PrunedTrials)/float64(cfg.NTrials), res.PruningRate, 1e-12)

			// Pruned trials never contribute to best_value, so the best stays
			// finite as long as anything completed.
			if res.PrunedTrials < cfg.NTrials {
				assert.False(t, math.IsInf(float64(res.BestValue), 0))
			}
		})
	}
}

func TestMultiObjectiveFeature(t *testing.T) {
	opts := testOptions()
	opts.Feature = FeatureMulti

	res, err := Run(sphereConfig(matrix.SamplerRandom, matrix.PrunerNone, 30), opts)
	require.NoError(t, err)

	assert.Equal(t, "multi", res.Feature)
	assert.Greater(t, res.ParetoFrontSize, 0)
	assert.LessOrEqual(t, res.ParetoFrontSize, 30)
	// best_value carries the front size for vector objectives.
	assert.Equal(t, float64(res.ParetoFrontSize), float64(res.BestValue))
}

func TestConstrainedFeature(t *testing.T) {
	opts := testOptions()
	opts.Feature = FeatureConstrained

	res, err := Run(sphereConfig(matrix.SamplerRandom, matrix.PrunerNone, 30), opts)
	require.NoError(t, err)

	assert.Equal(t, "constrained", res.Feature)
	assert.GreaterOrEqual(t, res.FeasibleFraction, 0.0)
	assert.LessOrEqual(t, res.FeasibleFraction, 1.0)
	assert.False(t, math.IsInf(float64(res.BestValue), 0))
}

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature("")
	require.NoError(t, err)
	assert.Equal(t, FeatureSingle, f)

	f, err = ParseFeature("multi")
	require.NoError(t, err)
	assert.Equal(t, FeatureMulti, f)

	_, err = ParseFeature("bayesian")
	assert.Error(t, err)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := sphereConfig(matrix.SamplerRandom, matrix.PrunerNone, 30)
	cfg.NParams = 0
	_, err := Run(cfg, testOptions())
	assert.Error(t, err)

	cfg = sphereConfig("grid", matrix.PrunerNone, 30)
	_, err = Run(cfg, testOptions())
	assert.Error(t, err)
}
