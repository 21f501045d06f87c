package provider

import (
	"math"
	"math/rand"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// cmaSampler is a covariance-adaptive evolution strategy. Full parameter
// vectors are drawn from N(mean, sigma^2 * C); after each generation of
// lambda completed trials the mean moves to the weighted recombination of the
// best mu vectors and C receives a rank-mu update. The scheme is a simplified
// (mu/mu_w, lambda) CMA-ES without evolution paths, which is enough for the
// low-dimensional benchmark spaces it is exercised on.
//
// Suggest is a per-dimension call, so the sampler presamples the whole vector
// on a trial's first dimension and hands out components in suggestion order.
type cmaSampler struct {
	rng    *rand.Rand
	logger *zap.Logger

	names []string
	low   []float64
	high  []float64

	initialized bool
	mean        []float64
	sigma       float64
	cov         *mat.SymDense
	lower       *mat.TriDense
	lambda      int
	mu          int
	weights     []float64

	generation []cmaEntry
	pending    map[int][]float64
}

type cmaEntry struct {
	x     []float64
	value float64
}

func newCMASampler(seed int64, logger *zap.Logger) *cmaSampler {
	return &cmaSampler{
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
		pending: make(map[int][]float64),
	}
}

func (c *cmaSampler) Suggest(_ *Study, t *Trial, name string, low, high float64) float64 {
	idx := len(t.Params)

	// The dimension registry fills in suggestion order during the first
	// trial; every trial suggests the same dimensions in the same order.
	if idx == len(c.names) {
		c.names = append(c.names, name)
		c.low = append(c.low, low)
		c.high = append(c.high, high)
	}

	if !c.initialized {
		return low + c.rng.Float64()*(high-low)
	}

	vec, ok := c.pending[t.ID]
	if !ok {
		vec = c.sampleVector()
		c.pending[t.ID] = vec
	}
	if idx >= len(vec) {
		return low + c.rng.Float64()*(high-low)
	}
	return clamp(vec[idx], low, high)
}

// observeFinal feeds a completed trial back into the strategy state.
func (c *cmaSampler) observeFinal(s *Study, t *Trial) {
	delete(c.pending, t.ID)
	if len(t.Values) == 0 || len(t.Params) == 0 {
		return
	}

	if !c.initialized {
		c.initialize(t.Params)
	}
	if len(t.Params) != len(c.mean) {
		return
	}

	value := t.Values[0]
	if s.Direction() == Maximize {
		value = -value
	}
	c.generation = append(c.generation, cmaEntry{
		x:     append([]float64(nil), t.Params...),
		value: value,
	})
	if len(c.generation) >= c.lambda {
		c.update()
	}
}

func (c *cmaSampler) initialize(first []float64) {
	d := len(first)
	c.mean = append([]float64(nil), first...)

	span := 0.0
	for i := 0; i < d; i++ {
		span += c.high[i] - c.low[i]
	}
	c.sigma = 0.3 * span / float64(d)

	c.cov = identity(d)
	c.refreshCholesky()

	c.lambda = 4 + int(3*math.Log(float64(d)))
	c.mu = c.lambda / 2
	c.weights = make([]float64, c.mu)
	total := 0.0
	for i := 0; i < c.mu; i++ {
		c.weights[i] = math.Log(float64(c.mu)+0.5) - math.Log(float64(i+1))
		total += c.weights[i]
	}
	for i := range c.weights {
		c.weights[i] /= total
	}
	c.initialized = true
}

// update performs the generation step: weighted mean recombination, a rank-mu
// covariance update, and a path-free step-size adjustment driven by how far
// the mean moved relative to the current scale.
func (c *cmaSampler) update() {
	d := len(c.mean)
	gen := c.generation
	c.generation = nil

	// Best first.
	for i := 1; i < len(gen); i++ {
		for j := i; j > 0 && gen[j].value < gen[j-1].value; j-- {
			gen[j], gen[j-1] = gen[j-1], gen[j]
		}
	}

	oldMean := c.mean
	newMean := make([]float64, d)
	for i := 0; i < c.mu && i < len(gen); i++ {
		for j := 0; j < d; j++ {
			newMean[j] += c.weights[i] * gen[i].x[j]
		}
	}

	cmu := math.Min(1, 2*(float64(c.mu)-1)/(math.Pow(float64(d)+2, 2)+float64(c.mu)))
	updated := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			rank := 0.0
			for k := 0; k < c.mu && k < len(gen); k++ {
				yi := (gen[k].x[i] - oldMean[i]) / c.sigma
				yj := (gen[k].x[j] - oldMean[j]) / c.sigma
				rank += c.weights[k] * yi * yj
			}
			updated.SetSym(i, j, (1-cmu)*c.cov.At(i, j)+cmu*rank)
		}
	}
	c.cov = updated

	shift := 0.0
	for j := 0; j < d; j++ {
		delta := newMean[j] - oldMean[j]
		shift += delta * delta
	}
	shift = math.Sqrt(shift) / (c.sigma * math.Sqrt(float64(d)))
	c.sigma *= math.Exp(0.3 * (shift - 0.3))
	if c.sigma < 1e-12 {
		c.sigma = 1e-12
	}

	c.mean = newMean
	c.refreshCholesky()

	c.logger.Debug("cma generation update",
		zap.Float64("sigma", c.sigma),
		zap.Float64("best", gen[0].value))
}

// refreshCholesky factors C for sampling, resetting to identity when the
// accumulated covariance has lost positive definiteness.
func (c *cmaSampler) refreshCholesky() {
	var chol mat.Cholesky
	if !chol.Factorize(c.cov) {
		c.cov = identity(len(c.mean))
		chol.Factorize(c.cov)
	}
	c.lower = mat.NewTriDense(len(c.mean), mat.Lower, nil)
	chol.LTo(c.lower)
}

// sampleVector draws mean + sigma * L z with z standard normal.
func (c *cmaSampler) sampleVector() []float64 {
	d := len(c.mean)
	z := make([]float64, d)
	for i := range z {
		z[i] = c.rng.NormFloat64()
	}
	x := make([]float64, d)
	for i := 0; i < d; i++ {
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += c.lower.At(i, j) * z[j]
		}
		x[i] = clamp(c.mean[i]+c.sigma*sum, c.low[i], c.high[i])
	}
	return x
}

func identity(d int) *mat.SymDense {
	m := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		m.SetSym(i, i, 1)
	}
	return m
}
