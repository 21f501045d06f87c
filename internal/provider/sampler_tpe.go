package provider

import (
	"math"
	"sort"

	rand "golang.org/x/exp/rand"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"
)

// tpeSampler is a tree-structured Parzen estimator style sampler. Completed
// trials are split at the gamma quantile of their objective values into a
// "good" and a "bad" set; candidates are drawn from a Parzen mixture over the
// good set and ranked by the ratio of good to bad density. Until nStartup
// trials have completed it falls back to uniform sampling.
type tpeSampler struct {
	rng         *rand.Rand
	logger      *zap.Logger
	nStartup    int
	nCandidates int
	gamma       float64
}

func newTPESampler(seed int64, logger *zap.Logger) *tpeSampler {
	return &tpeSampler{
		rng:         rand.New(rand.NewSource(uint64(seed))),
		logger:      logger,
		nStartup:    10,
		nCandidates: 24,
		gamma:       0.25,
	}
}

func (t *tpeSampler) Suggest(s *Study, _ *Trial, name string, low, high float64) float64 {
	params, values := s.observations(name)
	if len(params) < t.nStartup {
		return low + t.rng.Float64()*(high-low)
	}

	good, bad := t.split(s, params, values)

	// Parzen bandwidths shrink as evidence accumulates.
	span := high - low
	goodBW := span / math.Sqrt(float64(len(good))+1)
	badBW := span / math.Sqrt(float64(len(bad))+1)

	bestX := 0.0
	bestScore := math.Inf(-1)
	for i := 0; i < t.nCandidates; i++ {
		center := good[t.rng.Intn(len(good))]
		x := distuv.Normal{Mu: center, Sigma: goodBW, Src: t.rng}.Rand()
		x = clamp(x, low, high)

		score := logDensity(good, goodBW, x) - logDensity(bad, badBW, x)
		if score > bestScore {
			bestScore = score
			bestX = x
		}
	}

	t.logger.Debug("tpe suggestion",
		zap.String("dimension", name),
		zap.Int("good", len(good)),
		zap.Int("bad", len(bad)),
		zap.Float64("value", bestX))
	return bestX
}

// split partitions observed params by objective quality. The good set holds
// the params of the best ceil(gamma*n) trials for this dimension.
func (t *tpeSampler) split(s *Study, params, values []float64) (good, bad []float64) {
	idx := make([]int, len(params))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if s.Direction() == Maximize {
			return values[idx[a]] > values[idx[b]]
		}
		return values[idx[a]] < values[idx[b]]
	})

	nGood := int(math.Ceil(t.gamma * float64(len(params))))
	if nGood < 1 {
		nGood = 1
	}
	for i, j := range idx {
		if i < nGood {
			good = append(good, params[j])
		} else {
			bad = append(bad, params[j])
		}
	}
	if len(bad) == 0 {
		bad = good
	}
	return good, bad
}

// logDensity evaluates the log of a uniform-weight Gaussian mixture at x.
func logDensity(centers []float64, bw, x float64) float64 {
	sum := 0.0
	for _, c := range centers {
		sum += distuv.Normal{Mu: c, Sigma: bw}.Prob(x)
	}
	if sum <= 0 {
		return math.Inf(-1)
	}
	return math.Log(sum / float64(len(centers)))
}

func clamp(x, low, high float64) float64 {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}
