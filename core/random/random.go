// Package random provides the thread-safe randomness collaborator used by
// feature factories, threshold sampling, and vine refinement. Every draw is
// guarded by one mutex so any number of trial goroutines may share a single
// Rand; determinism holds for a fixed seed and a single drawing goroutine.
package random

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Rand is a mutex-guarded random source.
type Rand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// New returns a Rand seeded deterministically from seed.
func New(seed uint64) *Rand {
	return &Rand{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a uniform int in [0, n). Panics if n <= 0, matching the
// standard library convention.
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}

// Float64 returns a uniform float64 in [0, 1).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// IntRange returns a uniform int in [lo, hi]. Panics if hi < lo.
func (r *Rand) IntRange(lo, hi int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.src.IntN(hi-lo+1)
}

// FloatRange returns a uniform float64 in [lo, hi).
func (r *Rand) FloatRange(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.src.Float64()*(hi-lo)
}

// NormFloat64 draws from the Gaussian with the given mean and standard
// deviation via gonum's distuv.Normal.
func (r *Rand) NormFloat64(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: (*lockedSource)(r)}.Rand()
}

// Perm returns a random permutation of [0, n).
func (r *Rand) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Perm(n)
}

// WeightedIndex samples an index with probability proportional to its
// weight. Non-positive weights are treated as zero. Returns -1 when the
// total weight is zero.
func (r *Rand) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	target := r.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// lockedSource adapts Rand to the rand.Source distuv expects.
type lockedSource Rand

func (s *lockedSource) Uint64() uint64 {
	r := (*Rand)(s)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Uint64()
}
