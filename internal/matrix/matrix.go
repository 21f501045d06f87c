// Package matrix enumerates benchmark configurations and defines their
// canonical identity across frameworks.
package matrix

import (
	"fmt"

	"github.com/copyleftdev/optbench/internal/errors"
)

// Sampler identifies a parameter-suggestion strategy.
type Sampler string

const (
	SamplerTPE    Sampler = "tpe"
	SamplerRandom Sampler = "random"
	SamplerCMAES  Sampler = "cmaes"
)

// Objective identifies one of the fixed test functions.
type Objective string

const (
	ObjectiveSphere     Objective = "sphere"
	ObjectiveRosenbrock Objective = "rosenbrock"
	ObjectiveRastrigin  Objective = "rastrigin"
	ObjectiveAckley     Objective = "ackley"
)

// Pruner identifies an early-stopping policy.
type Pruner string

const (
	PrunerNone   Pruner = "none"
	PrunerMedian Pruner = "median"
	PrunerSHA    Pruner = "sha"
)

// Tier labels how expensive a configuration is expected to be.
type Tier string

const (
	TierFast     Tier = "fast"
	TierExtended Tier = "extended"
)

// ParseSampler validates a sampler name.
func ParseSampler(s string) (Sampler, error) {
	switch Sampler(s) {
	case SamplerTPE, SamplerRandom, SamplerCMAES:
		return Sampler(s), nil
	}
	return "", errors.Errorf("unknown sampler: %q", s).WithComponent("matrix")
}

// ParseObjective validates an objective name.
func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case ObjectiveSphere, ObjectiveRosenbrock, ObjectiveRastrigin, ObjectiveAckley:
		return Objective(s), nil
	}
	return "", errors.Errorf("unknown objective: %q", s).WithComponent("matrix")
}

// ParsePruner validates a pruner name.
func ParsePruner(s string) (Pruner, error) {
	switch Pruner(s) {
	case PrunerNone, PrunerMedian, PrunerSHA:
		return Pruner(s), nil
	}
	return "", errors.Errorf("unknown pruner: %q", s).WithComponent("matrix")
}

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFast, TierExtended:
		return Tier(s), nil
	}
	return "", errors.Errorf("unknown tier: %q", s).WithComponent("matrix")
}

// Config describes one benchmark cell. It is immutable once built and its
// six fields identify the same experiment regardless of which framework
// produced the result.
type Config struct {
	Sampler   Sampler   `json:"sampler" yaml:"sampler"`
	Objective Objective `json:"objective" yaml:"objective"`
	NParams   int       `json:"n_params" yaml:"n_params"`
	NTrials   int       `json:"n_trials" yaml:"n_trials"`
	Pruner    Pruner    `json:"pruner" yaml:"pruner"`
	Tier      Tier      `json:"tier" yaml:"tier"`
}

// Validate checks the config for fail-fast configuration errors.
func (c Config) Validate() error {
	if _, err := ParseSampler(string(c.Sampler)); err != nil {
		return err
	}
	if _, err := ParseObjective(string(c.Objective)); err != nil {
		return err
	}
	if _, err := ParsePruner(string(c.Pruner)); err != nil {
		return err
	}
	if _, err := ParseTier(string(c.Tier)); err != nil {
		return err
	}
	if c.NParams <= 0 {
		return errors.Errorf("n_params must be positive, got %d", c.NParams).WithComponent("matrix")
	}
	if c.NTrials <= 0 {
		return errors.Errorf("n_trials must be positive, got %d", c.NTrials).WithComponent("matrix")
	}
	return nil
}

// Key is the canonical identity of a configuration. It is a comparable value
// type so it can be used directly as a map key; equality is structural.
type Key struct {
	Sampler   Sampler
	Objective Objective
	NParams   int
	NTrials   int
	Pruner    Pruner
	Tier      Tier
}

// Key returns the canonical key of this configuration.
func (c Config) Key() Key {
	return Key{
		Sampler:   c.Sampler,
		Objective: c.Objective,
		NParams:   c.NParams,
		NTrials:   c.NTrials,
		Pruner:    c.Pruner,
		Tier:      c.Tier,
	}
}

// Less defines a total order over keys so reports render deterministically.
func (k Key) Less(o Key) bool {
	if k.Sampler != o.Sampler {
		return k.Sampler < o.Sampler
	}
	if k.Objective != o.Objective {
		return k.Objective < o.Objective
	}
	if k.NParams != o.NParams {
		return k.NParams < o.NParams
	}
	if k.NTrials != o.NTrials {
		return k.NTrials < o.NTrials
	}
	if k.Pruner != o.Pruner {
		return k.Pruner < o.Pruner
	}
	return k.Tier < o.Tier
}

// String renders the key in the form used for result file names.
func (k Key) String() string {
	return fmt.Sprintf("%s_%s_%dp_%dt_%s_%s", k.Sampler, k.Objective, k.NParams, k.NTrials, k.Pruner, k.Tier)
}

// Request describes the Cartesian space to enumerate. It is the YAML shape
// consumed by the matrix command.
type Request struct {
	Samplers   []string `yaml:"samplers"`
	Objectives []string `yaml:"objectives"`
	Params     []int    `yaml:"params"`
	Trials     []int    `yaml:"trials"`
	Pruners    []string `yaml:"pruners"`
	Tiers      []string `yaml:"tiers"`
}

// Enumerate expands a request into the full list of configurations. The
// enumeration is a pure function of its input: cells appear in request order,
// and a request that would produce two cells with the same canonical key is
// rejected rather than deduplicated.
func Enumerate(req Request) ([]Config, error) {
	if len(req.Samplers) == 0 || len(req.Objectives) == 0 || len(req.Params) == 0 ||
		len(req.Trials) == 0 || len(req.Pruners) == 0 || len(req.Tiers) == 0 {
		return nil, errors.New("matrix request must list at least one value per axis").WithComponent("matrix")
	}

	var configs []Config
	seen := make(map[Key]struct{})
	for _, s := range req.Samplers {
		sampler, err := ParseSampler(s)
		if err != nil {
			return nil, err
		}
		for _, o := range req.Objectives {
			objective, err := ParseObjective(o)
			if err != nil {
				return nil, err
			}
			for _, np := range req.Params {
				for _, nt := range req.Trials {
					for _, p := range req.Pruners {
						pruner, err := ParsePruner(p)
						if err != nil {
							return nil, err
						}
						for _, t := range req.Tiers {
							tier, err := ParseTier(t)
							if err != nil {
								return nil, err
							}
							cfg := Config{
								Sampler:   sampler,
								Objective: objective,
								NParams:   np,
								NTrials:   nt,
								Pruner:    pruner,
								Tier:      tier,
							}
							if err := cfg.Validate(); err != nil {
								return nil, err
							}
							key := cfg.Key()
							if _, dup := seen[key]; dup {
								return nil, errors.Errorf("duplicate configuration requested: %s", key).WithComponent("matrix")
							}
							seen[key] = struct{}{}
							configs = append(configs, cfg)
						}
					}
				}
			}
		}
	}
	return configs, nil
}
