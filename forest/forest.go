package forest

import (
	"gonum.org/v1/gonum/floats"

	"github.com/groveml/grove/core/parallel"
	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/feature"
	"github.com/groveml/grove/pkg/errors"
	"github.com/groveml/grove/pkg/log"
)

// Forest is an ensemble of independently trained trees over one shared
// label space. The tree slice is fixed at construction; the active-tree
// count selects a prefix sub-forest for evaluation without reallocation.
//
// Leaf count, max level, and feature usage are a derived cache: they are
// rebuilt wholesale by RefreshMetadata after any mutation, never patched.
type Forest struct {
	trees      []*Tree
	labelNames []string
	active     int

	leafCount    int
	maxLevel     int
	featureUsage map[string]int
}

// NewForest assembles trained trees into a forest. Every tree's label
// count must agree with the label names.
func NewForest(trees []*Tree, labelNames []string) (*Forest, error) {
	if len(trees) == 0 {
		return nil, errors.NewValidationError("trees", "forest needs at least one tree", 0)
	}
	for i, t := range trees {
		if t.NumLabels() != len(labelNames) {
			return nil, errors.NewValidationError("labelNames",
				"tree label count disagrees with forest label space", i)
		}
	}
	f := &Forest{trees: trees, labelNames: labelNames, active: len(trees)}
	f.RefreshMetadata()
	return f, nil
}

// Trees returns the underlying trees.
func (f *Forest) Trees() []*Tree { return f.trees }

// NumTrees returns the total number of trees.
func (f *Forest) NumTrees() int { return len(f.trees) }

// LabelNames returns the forest-wide label names.
func (f *Forest) LabelNames() []string { return f.labelNames }

// NumLabels returns the size of the label space.
func (f *Forest) NumLabels() int { return len(f.labelNames) }

// ActiveTrees returns the number of trees used in evaluation.
func (f *Forest) ActiveTrees() int { return f.active }

// SetActiveTrees restricts evaluation to the first n trees.
func (f *Forest) SetActiveTrees(n int) error {
	if n < 1 || n > len(f.trees) {
		return errors.NewValidationError("activeTrees", "must be in [1, NumTrees]", n)
	}
	f.active = n
	return nil
}

// ClassifySoft sums every active tree's leaf distribution for p into one
// accumulator and returns its Dirichlet-smoothed normalization.
func (f *Forest) ClassifySoft(p feature.Point) []float64 {
	acc := make([]float64, f.NumLabels())
	for _, t := range f.trees[:f.active] {
		floats.Add(acc, t.ClassifySoft(p))
	}
	return smoothedDistribution(acc)
}

// Classify returns the argmax label of ClassifySoft.
func (f *Forest) Classify(p feature.Point) int {
	return argMax(f.ClassifySoft(p))
}

// ComputeHistogram unions the per-tree histograms of the point set,
// normalized by point count.
func (f *Forest) ComputeHistogram(points []feature.Point) *Histogram {
	h := NewHistogram()
	for i, t := range f.trees[:f.active] {
		h.Merge(t.ComputeHistogram(points, i))
	}
	h.Normalize(len(points))
	return h
}

// SparseCode returns the per-tree leaf index vector for p. Trees are
// evaluated in parallel, each writing only its own slot; shared leaf
// indices between two points indicate structural similarity, so the
// vector suits Euclidean comparison.
func (f *Forest) SparseCode(p feature.Point) []int {
	code := make([]int, f.active)
	parallel.ForEach(f.active, func(i int) {
		code[i] = f.trees[i].Leaf(p).LeafIndex
	})
	return code
}

// Fill routes points through every tree, accumulating leaf label weights.
func (f *Forest) Fill(points []feature.Point) {
	for _, t := range f.trees {
		t.Fill(points)
	}
	f.RefreshMetadata()
}

// Clear zeroes every tree's leaf distributions.
func (f *Forest) Clear() {
	for _, t := range f.trees {
		t.Clear()
	}
	f.RefreshMetadata()
}

// Normalize renormalizes every tree's leaf distributions.
func (f *Forest) Normalize() {
	for _, t := range f.trees {
		t.Normalize()
	}
	f.RefreshMetadata()
}

// RefreshMetadata rebuilds the forest-wide derived cache: total leaf
// count, max level, and per-feature-name usage counts reduced over trees.
func (f *Forest) RefreshMetadata() {
	f.leafCount = 0
	f.maxLevel = 0
	f.featureUsage = make(map[string]int)
	for _, t := range f.trees {
		f.leafCount += t.LeafCount()
		if t.MaxDepth() > f.maxLevel {
			f.maxLevel = t.MaxDepth()
		}
		for name, n := range t.FeatureUsage() {
			f.featureUsage[name] += n
		}
	}
}

// LeafCount returns the total leaf count over all trees.
func (f *Forest) LeafCount() int { return f.leafCount }

// MaxLevel returns the deepest level over all trees.
func (f *Forest) MaxLevel() int { return f.maxLevel }

// FeatureUsage returns a copy of the per-feature-name branch counts.
func (f *Forest) FeatureUsage() map[string]int {
	out := make(map[string]int, len(f.featureUsage))
	for k, v := range f.featureUsage {
		out[k] = v
	}
	return out
}

// ComputeForestDepthFirst trains numTrees depth-first trees, assigning
// data splits round-robin (tree i trains on splits[i % len(splits)]).
// Trees train sequentially; parallelism lives inside each tree's
// per-node feature trials.
func ComputeForestDepthFirst(cfg Config, factory feature.Factory, splits [][]feature.Point, numTrees int, labelNames []string, rng *random.Rand, prog log.Progress) (*Forest, error) {
	return computeForest(cfg, factory, splits, numTrees, labelNames, rng, prog, ComputeDepthFirst)
}

// ComputeForestBreadthFirst is ComputeForestDepthFirst with breadth-first
// per-tree growth.
func ComputeForestBreadthFirst(cfg Config, factory feature.Factory, splits [][]feature.Point, numTrees int, labelNames []string, rng *random.Rand, prog log.Progress) (*Forest, error) {
	return computeForest(cfg, factory, splits, numTrees, labelNames, rng, prog, ComputeBreadthFirst)
}

type treeBuilder func(Config, feature.Factory, []feature.Point, int, *random.Rand, log.Progress) (*Tree, error)

func computeForest(cfg Config, factory feature.Factory, splits [][]feature.Point, numTrees int, labelNames []string, rng *random.Rand, prog log.Progress, build treeBuilder) (*Forest, error) {
	if numTrees < 1 {
		return nil, errors.NewValidationError("numTrees", "must be at least 1", numTrees)
	}
	if len(splits) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "forest: no data splits")
	}
	for i, split := range splits {
		if len(split) == 0 {
			return nil, errors.NewValidationError("splits", "data split is empty", i)
		}
	}
	if prog == nil {
		prog = log.NopProgress()
	}

	trees := make([]*Tree, numTrees)
	for i := range trees {
		prog.Printf("training tree %d/%d", i+1, numTrees)
		t, err := build(cfg, factory, splits[i%len(splits)], len(labelNames), rng, prog.Indent())
		if err != nil {
			return nil, errors.Wrapf(err, "forest: tree %d", i)
		}
		trees[i] = t
	}
	return NewForest(trees, labelNames)
}
