package objective

import (
	"math/rand"
)

// IntermediateValue simulates a metric observed at checkpoint step in [0, 9]
// of a trial whose true final value is trueValue. The model is a value that
// starts inflated and converges to the truth as evaluation progresses:
//
//	value = trueValue * (1 + (9-step) * 0.5 * noise)
//
// where noise is uniform in [0, 1), derived deterministically from
// seed ^ trial ^ step. Repeated calls with the same arguments are
// bit-identical. Step 9 always returns trueValue exactly so pruning decisions
// at completion see the real value.
func IntermediateValue(trueValue float64, step, trial int, seed int64) float64 {
	if step >= 9 {
		return trueValue
	}
	rng := rand.New(rand.NewSource(seed ^ int64(trial) ^ int64(step)))
	noise := rng.Float64()
	return trueValue * (1 + float64(9-step)*0.5*noise)
}
