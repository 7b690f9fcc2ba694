package forest

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/groveml/grove/feature"
)

// DirichletPrior is the additive smoothing constant applied (divided by
// the number of labels) to counts before normalizing to probabilities,
// preventing zero-probability and log(0) pathologies.
const DirichletPrior = 1e-4

// LabelCounter accumulates per-label weighted counts and derives
// Dirichlet-smoothed distributions and entropies from them.
type LabelCounter struct {
	counts []float64
	total  float64
}

// NewLabelCounter creates a counter over numLabels labels.
func NewLabelCounter(numLabels int) *LabelCounter {
	return &LabelCounter{counts: make([]float64, numLabels)}
}

// CountPoints tallies a point set. Unlabeled points (label -1) are
// skipped. Per-label weights from cfg are applied on top of point weights.
func CountPoints(points []feature.Point, numLabels int, cfg Config) *LabelCounter {
	c := NewLabelCounter(numLabels)
	for _, p := range points {
		if p.Label() < 0 {
			continue
		}
		c.Add(p.Label(), p.Weight()*cfg.labelWeight(p.Label()))
	}
	return c
}

// Add accumulates weight for one label.
func (c *LabelCounter) Add(label int, weight float64) {
	c.counts[label] += weight
	c.total += weight
}

// AddCounts adds another counter's per-label counts.
func (c *LabelCounter) AddCounts(counts []float64) {
	floats.Add(c.counts, counts)
	c.total += floats.Sum(counts)
}

// SubCounts subtracts per-label counts previously added via AddCounts.
func (c *LabelCounter) SubCounts(counts []float64) {
	floats.Sub(c.counts, counts)
	c.total -= floats.Sum(counts)
}

// Counts returns the raw per-label counts. Callers must not mutate.
func (c *LabelCounter) Counts() []float64 { return c.counts }

// Total returns the summed weight.
func (c *LabelCounter) Total() float64 { return c.total }

// NumLabels returns the size of the label space.
func (c *LabelCounter) NumLabels() int { return len(c.counts) }

// IsPure reports whether at most one label carries positive weight.
func (c *LabelCounter) IsPure() bool {
	seen := false
	for _, v := range c.counts {
		if v > 0 {
			if seen {
				return false
			}
			seen = true
		}
	}
	return true
}

// ArgMax returns the label with the largest count (lowest index on ties).
func (c *LabelCounter) ArgMax() int {
	best := 0
	for i, v := range c.counts {
		if v > c.counts[best] {
			best = i
		}
	}
	return best
}

// Distribution returns the Dirichlet-smoothed normalized probability
// vector. Every entry is strictly positive.
func (c *LabelCounter) Distribution() []float64 {
	return smoothedDistribution(c.counts)
}

// Entropy returns the base-2 Shannon entropy of the smoothed distribution.
func (c *LabelCounter) Entropy() float64 {
	return distributionEntropy(c.counts)
}

// smoothedDistribution normalizes counts with the Dirichlet prior.
func smoothedDistribution(counts []float64) []float64 {
	n := len(counts)
	prior := DirichletPrior / float64(n)
	total := floats.Sum(counts) + DirichletPrior
	dist := make([]float64, n)
	for i, v := range counts {
		dist[i] = (v + prior) / total
	}
	return dist
}

// distributionEntropy computes the base-2 Shannon entropy of the smoothed
// normalization of counts.
func distributionEntropy(counts []float64) float64 {
	n := len(counts)
	prior := DirichletPrior / float64(n)
	total := floats.Sum(counts) + DirichletPrior
	h := 0.0
	for _, v := range counts {
		p := (v + prior) / total
		h -= p * math.Log2(p)
	}
	return h
}

// argMax returns the index of the largest entry (lowest index on ties).
func argMax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// deltaDistribution returns a one-hot probability vector.
func deltaDistribution(numLabels, label int) []float64 {
	dist := make([]float64, numLabels)
	dist[label] = 1
	return dist
}
