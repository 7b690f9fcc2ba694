package forest

import (
	"github.com/groveml/grove/core/parallel"
	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/feature"
	"github.com/groveml/grove/pkg/errors"
	"github.com/groveml/grove/pkg/log"
)

// Tree is a trained binary decision tree. The node structure is strictly
// owned (no sharing); the node-by-index map, leaf count, and max depth are
// a derived cache rebuilt by refreshMetadata after structural changes.
type Tree struct {
	root      *Node
	numLabels int

	nodeByIndex map[int]*Node
	leafCount   int
	maxDepth    int
}

// NewTree wraps a root node. Metadata is computed immediately.
func NewTree(root *Node, numLabels int) *Tree {
	t := &Tree{root: root, numLabels: numLabels}
	t.refreshMetadata()
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// NumLabels returns the size of the label space.
func (t *Tree) NumLabels() int { return t.numLabels }

// NodeByIndex returns the node at a tree-position index, or nil.
func (t *Tree) NodeByIndex(index int) *Node { return t.nodeByIndex[index] }

// LeafCount returns the number of leaves.
func (t *Tree) LeafCount() int { return t.leafCount }

// MaxDepth returns the depth of the deepest leaf (root is depth 0).
func (t *Tree) MaxDepth() int { return t.maxDepth }

// refreshMetadata recomputes node indices, depths, leaf numbering, and the
// index map by a full traversal.
func (t *Tree) refreshMetadata() {
	t.nodeByIndex = make(map[int]*Node)
	t.leafCount = 0
	t.maxDepth = 0
	var walk func(n *Node, index, depth int)
	walk = func(n *Node, index, depth int) {
		n.Index = index
		n.Depth = depth
		t.nodeByIndex[index] = n
		if depth > t.maxDepth {
			t.maxDepth = depth
		}
		if n.IsLeaf() {
			n.LeafIndex = t.leafCount
			t.leafCount++
			return
		}
		n.LeafIndex = -1
		walk(n.Left, 2*index, depth+1)
		walk(n.Right, 2*index+1, depth+1)
	}
	walk(t.root, 1, 0)
}

// Leaf routes a point root-to-leaf and returns the leaf reached.
func (t *Tree) Leaf(p feature.Point) *Node {
	n := t.root
	for !n.IsLeaf() {
		if n.Decider.Decide(p) == Left {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n
}

// Classify returns the argmax label of the leaf distribution.
func (t *Tree) Classify(p feature.Point) int {
	return argMax(t.Leaf(p).Distribution)
}

// ClassifySoft returns the leaf distribution reached by p. The returned
// slice is the leaf's own storage: callers accumulate from it and must
// not mutate it.
func (t *Tree) ClassifySoft(p feature.Point) []float64 {
	return t.Leaf(p).Distribution
}

// Fill routes every point to its leaf and accumulates label weights into
// the leaf distributions. Call Clear first for a fresh fill and Normalize
// afterwards for probabilities.
func (t *Tree) Fill(points []feature.Point) {
	for _, p := range points {
		leaf := t.Leaf(p)
		if p.Label() >= 0 {
			leaf.Distribution[p.Label()] += p.Weight()
		}
	}
}

// Clear zeroes every leaf distribution.
func (t *Tree) Clear() {
	t.eachLeaf(func(n *Node) {
		for i := range n.Distribution {
			n.Distribution[i] = 0
		}
	})
}

// Normalize renormalizes every leaf distribution with the Dirichlet floor:
// afterwards each sums to 1 and no entry is zero or negative.
func (t *Tree) Normalize() {
	t.eachLeaf(func(n *Node) {
		n.Distribution = smoothedDistribution(n.Distribution)
	})
}

func (t *Tree) eachLeaf(fn func(n *Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			fn(n)
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.root)
}

// FeatureUsage counts branch deciders by feature name.
func (t *Tree) FeatureUsage() map[string]int {
	usage := make(map[string]int)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			return
		}
		usage[n.Decider.Feature().Name()]++
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.root)
	return usage
}

// trial is one candidate split evaluated at a node.
type trial struct {
	decider *Decider
	split   Split
	err     error
}

// bestTrial runs cfg.NumFeatures independent candidate deciders against
// points in parallel and reduces to the max-gain result. Each trial owns
// private scratch state; the join is a reduction over per-trial slots.
func bestTrial(cfg Config, factory feature.Factory, points []feature.Point, numLabels int, rng *random.Rand) (*Decider, Split, error) {
	trials := make([]trial, cfg.NumFeatures)
	parallel.ForEach(cfg.NumFeatures, func(i int) {
		d := NewDecider(factory.Create())
		if err := d.LoadData(points); err != nil {
			trials[i] = trial{err: err}
			return
		}
		split, err := d.ChooseThreshold(rng, cfg.NumThresholds, numLabels, cfg.LabelWeights)
		trials[i] = trial{decider: d, split: split, err: err}
	})

	best := -1
	for i := range trials {
		if trials[i].err != nil {
			return nil, invalidSplit(), trials[i].err
		}
		if !trials[i].split.Valid {
			continue
		}
		if best < 0 || trials[i].split.Gain > trials[best].split.Gain {
			best = i
		}
	}
	if best < 0 {
		return nil, invalidSplit(), nil
	}
	return trials[best].decider, trials[best].split, nil
}

// ComputeDepthFirst trains a tree by greedy recursive construction: at
// each node the best of NumFeatures candidate splits is committed
// immediately and both sides recurse. Depth is capped exactly at
// cfg.MaximumDepth by force-terminating one level earlier.
func ComputeDepthFirst(cfg Config, factory feature.Factory, points []feature.Point, numLabels int, rng *random.Rand, prog log.Progress) (*Tree, error) {
	if err := cfg.Validate(numLabels); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "forest.ComputeDepthFirst")
	}
	if prog == nil {
		prog = log.NopProgress()
	}
	prog.Printf("depth-first tree: %d points, %d labels", len(points), numLabels)

	root, err := buildDepthFirst(cfg, factory, points, numLabels, rng, prog, 0)
	if err != nil {
		return nil, err
	}
	return NewTree(root, numLabels), nil
}

func buildDepthFirst(cfg Config, factory feature.Factory, points []feature.Point, numLabels int, rng *random.Rand, prog log.Progress, depth int) (*Node, error) {
	counter := CountPoints(points, numLabels, cfg)

	// Purity and support are normal termination conditions, not errors.
	if counter.IsPure() {
		prog.Printf("delta leaf at depth %d (%d points)", depth, len(points))
		return newLeaf(deltaDistribution(numLabels, counter.ArgMax())), nil
	}
	if len(points) < cfg.MinimumSupport || depth >= cfg.MaximumDepth {
		return newLeaf(counter.Distribution()), nil
	}

	winner, split, err := bestTrial(cfg, factory, points, numLabels, rng)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		errors.Warn(errors.NewDegenerateSplitWarning("depth_first", len(points), "no candidate produced a usable cut"))
		return newLeaf(counter.Distribution()), nil
	}
	prog.Printf("split at depth %d: %s gain=%.4f", depth, winner.Feature().Name(), split.Gain)

	// Second-to-last allowed depth: emit both children as leaves from the
	// winning split's side distributions, capping depth at MaximumDepth.
	if depth == cfg.MaximumDepth-1 {
		return newBranch(winner,
			newLeaf(smoothedDistribution(split.Left)),
			newLeaf(smoothedDistribution(split.Right)),
		), nil
	}

	left, right := winner.Partition(points)
	if len(left) == 0 || len(right) == 0 {
		// Threshold selection straddles the data whenever a cut is valid;
		// a one-sided partition is a bug, not an input condition.
		return nil, errors.NewTrainingInvariantError("depth_first",
			"winning split must route points to both sides",
			winner.Feature().Name())
	}

	child := prog.Indent()
	leftNode, err := buildDepthFirst(cfg, factory, left, numLabels, rng, child, depth+1)
	if err != nil {
		return nil, err
	}
	rightNode, err := buildDepthFirst(cfg, factory, right, numLabels, rng, child, depth+1)
	if err != nil {
		return nil, err
	}
	return newBranch(winner, leftNode, rightNode), nil
}
