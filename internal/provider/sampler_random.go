package provider

import (
	"math/rand"
)

// randomSampler draws every dimension uniformly from its range. It is the
// baseline the adaptive samplers are compared against.
type randomSampler struct {
	rng *rand.Rand
}

func newRandomSampler(seed int64) *randomSampler {
	return &randomSampler{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomSampler) Suggest(_ *Study, _ *Trial, _ string, low, high float64) float64 {
	return low + r.rng.Float64()*(high-low)
}
