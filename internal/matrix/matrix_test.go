package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSampler(t *testing.T) {
	for _, name := range []string{"tpe", "random", "cmaes"} {
		s, err := ParseSampler(name)
		require.NoError(t, err)
		assert.Equal(t, Sampler(name), s)
	}

	_, err := ParseSampler("grid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sampler")
}

func TestParseObjective(t *testing.T) {
	for _, name := range []string{"sphere", "rosenbrock", "rastrigin", "ackley"} {
		o, err := ParseObjective(name)
		require.NoError(t, err)
		assert.Equal(t, Objective(name), o)
	}

	_, err := ParseObjective("Sphere")
	assert.Error(t, err, "names are case sensitive")
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Sampler:   SamplerTPE,
		Objective: ObjectiveSphere,
		NParams:   5,
		NTrials:   50,
		Pruner:    PrunerNone,
		Tier:      TierFast,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad sampler", func(c *Config) { c.Sampler = "annealing" }},
		{"bad objective", func(c *Config) { c.Objective = "" }},
		{"bad pruner", func(c *Config) { c.Pruner = "hyperband" }},
		{"bad tier", func(c *Config) { c.Tier = "slow" }},
		{"zero params", func(c *Config) { c.NParams = 0 }},
		{"negative trials", func(c *Config) { c.NTrials = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestKeyString(t *testing.T) {
	k := Key{
		Sampler:   SamplerTPE,
		Objective: ObjectiveSphere,
		NParams:   5,
		NTrials:   50,
		Pruner:    PrunerMedian,
		Tier:      TierFast,
	}
	assert.Equal(t, "tpe_sphere_5p_50t_median_fast", k.String())
}

func TestKeyEqualityAcrossSources(t *testing.T) {
	a := Config{Sampler: SamplerRandom, Objective: ObjectiveAckley, NParams: 2, NTrials: 30, Pruner: PrunerNone, Tier: TierFast}
	b := Config{Sampler: SamplerRandom, Objective: ObjectiveAckley, NParams: 2, NTrials: 30, Pruner: PrunerNone, Tier: TierFast}
	assert.Equal(t, a.Key(), b.Key())

	b.NTrials = 31
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestKeyLessTotalOrder(t *testing.T) {
	a := Key{Sampler: SamplerCMAES, Objective: ObjectiveSphere, NParams: 2, NTrials: 30, Pruner: PrunerNone, Tier: TierFast}
	b := a
	b.NParams = 5

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestEnumerate(t *testing.T) {
	req := Request{
		Samplers:   []string{"tpe", "random"},
		Objectives: []string{"sphere", "rastrigin"},
		Params:     []int{2, 5},
		Trials:     []int{30},
		Pruners:    []string{"none", "median"},
		Tiers:      []string{"fast"},
	}

	configs, err := Enumerate(req)
	require.NoError(t, err)
	assert.Len(t, configs, 16)

	// Request order: samplers vary slowest.
	assert.Equal(t, SamplerTPE, configs[0].Sampler)
	assert.Equal(t, SamplerRandom, configs[8].Sampler)

	seen := make(map[Key]struct{})
	for _, c := range configs {
		require.NoError(t, c.Validate())
		seen[c.Key()] = struct{}{}
	}
	assert.Len(t, seen, 16)
}

func TestEnumerateEmptyAxis(t *testing.T) {
	req := Request{
		Samplers:   []string{"tpe"},
		Objectives: []string{"sphere"},
		Params:     []int{2},
		Trials:     []int{30},
		Pruners:    nil,
		Tiers:      []string{"fast"},
	}
	_, err := Enumerate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one value per axis")
}

func TestEnumerateRejectsDuplicates(t *testing.T) {
	req := Request{
		Samplers:   []string{"tpe", "tpe"},
		Objectives: []string{"sphere"},
		Params:     []int{2},
		Trials:     []int{30},
		Pruners:    []string{"none"},
		Tiers:      []string{"fast"},
	}
	_, err := Enumerate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate configuration")
}

func TestEnumerateRejectsInvalidValue(t *testing.T) {
	req := Request{
		Samplers:   []string{"tpe"},
		Objectives: []string{"sphere"},
		Params:     []int{0},
		Trials:     []int{30},
		Pruners:    []string{"none"},
		Tiers:      []string{"fast"},
	}
	_, err := Enumerate(req)
	assert.Error(t, err)
}
