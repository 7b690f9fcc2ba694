package forest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/groveml/grove/core/parallel"
	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/feature"
	"github.com/groveml/grove/pkg/errors"
	"github.com/groveml/grove/pkg/log"
)

// VineNode is one slot in a vine level. Child links are integer indices
// into the next level's slice, never pointers: several parents may point
// at the same child, so the structure is a level-indexed DAG, not a tree.
//
// During level construction the node's counter accumulates the side
// counts of every parent currently assigned to it; the accumulation is
// kept consistent across reassignment by the AddDistribution /
// RemoveDistribution pair. After the physical partition the counter is
// recomputed from the points that actually arrived.
type VineNode struct {
	Decider    *Decider
	LeftChild  int
	RightChild int
	Leaf       bool
	// Distribution is set once, after the last level completes.
	Distribution []float64

	counter *LabelCounter
	points  []feature.Point

	// the node's own side counts from its committed split, the exact
	// amounts it has added into its children
	splitLeft  []float64
	splitRight []float64
}

// NewVineNode creates an unassigned node with no children.
func NewVineNode(numLabels int) *VineNode {
	return &VineNode{
		LeftChild:  -1,
		RightChild: -1,
		counter:    NewLabelCounter(numLabels),
	}
}

// Counter returns the node's accumulated label counter.
func (n *VineNode) Counter() *LabelCounter { return n.counter }

// AddDistribution adds a parent's per-side contribution to the node's
// accumulated counter.
func (n *VineNode) AddDistribution(counts []float64) {
	n.counter.AddCounts(counts)
}

// RemoveDistribution subtracts a contribution previously added via
// AddDistribution. A remove/add cycle with the same counts restores the
// counter exactly (up to floating rounding).
func (n *VineNode) RemoveDistribution(counts []float64) {
	n.counter.SubCounts(counts)
}

// Vine is a trained decision DAG. Level k+1 holds at most
// min(2^(k+1), MaxChildren) nodes, so branching is tree-like until the
// cap is hit, after which parents share children.
type Vine struct {
	levels    [][]*VineNode
	numLabels int
}

// Levels returns the level-indexed node arena.
func (v *Vine) Levels() [][]*VineNode { return v.levels }

// NumLevels returns the number of levels, counting the root level.
func (v *Vine) NumLevels() int { return len(v.levels) }

// NumLabels returns the size of the label space.
func (v *Vine) NumLabels() int { return v.numLabels }

// LeafCount returns the number of leaf nodes over all levels.
func (v *Vine) LeafCount() int {
	n := 0
	for _, level := range v.levels {
		for _, node := range level {
			if node.Leaf {
				n++
			}
		}
	}
	return n
}

// walk routes a point level by level until a leaf is reached or the
// levels are exhausted.
func (v *Vine) walk(p feature.Point) *VineNode {
	n := v.levels[0][0]
	for lvl := 0; !n.Leaf && n.Decider != nil && lvl+1 < len(v.levels); lvl++ {
		if n.Decider.Decide(p) == Left {
			n = v.levels[lvl+1][n.LeftChild]
		} else {
			n = v.levels[lvl+1][n.RightChild]
		}
	}
	return n
}

// Classify returns the argmax label of the node reached by p.
func (v *Vine) Classify(p feature.Point) int {
	return argMax(v.walk(p).Distribution)
}

// ClassifySoft returns the distribution of the node reached by p. The
// returned slice is the node's own storage: callers must not mutate it.
func (v *Vine) ClassifySoft(p feature.Point) []float64 {
	return v.walk(p).Distribution
}

// ComputeResponses folds the decider responses along p's path through
// the vine: acc starts at init and each level's feature response is
// folded in via reduce. The result is a continuous path embedding
// rather than a hard classification.
func (v *Vine) ComputeResponses(p feature.Point, init float64, reduce func(acc, response float64) float64) float64 {
	acc := init
	n := v.levels[0][0]
	for lvl := 0; !n.Leaf && n.Decider != nil && lvl+1 < len(v.levels); lvl++ {
		dir := n.Decider.Decide(p)
		acc = reduce(acc, p.FeatureValue())
		if dir == Left {
			n = v.levels[lvl+1][n.LeftChild]
		} else {
			n = v.levels[lvl+1][n.RightChild]
		}
	}
	return acc
}

// ComputeVine trains a decision DAG level by level. Each level is built
// by LSearch: greedy seeding of new children in descending parent-energy
// order, best-fit assignment of overflow sides once the child cap is
// hit, a priors-aware re-split for late parents, and a bounded greedy
// refinement pass that reassigns random parents. Distributions are
// normalized once, after the last level completes.
func ComputeVine(cfg VineConfig, factory feature.Factory, points []feature.Point, numLabels int, rng *random.Rand, prog log.Progress) (*Vine, error) {
	if err := cfg.Validate(numLabels); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "forest.ComputeVine")
	}
	if prog == nil {
		prog = log.NopProgress()
	}
	prog.Printf("vine: %d points, %d labels, cap %d", len(points), numLabels, cfg.MaxChildren)

	root := NewVineNode(numLabels)
	root.points = points
	root.counter = CountPoints(points, numLabels, cfg.Config)
	if root.counter.IsPure() || len(points) < cfg.MinimumSupport || len(points) < 2 {
		root.Leaf = true
	}

	v := &Vine{levels: [][]*VineNode{{root}}, numLabels: numLabels}
	for lvl := 0; lvl < cfg.MaximumDepth; lvl++ {
		next, err := buildVineLevel(cfg, factory, v.levels[lvl], lvl, numLabels, rng, prog.Indent())
		if err != nil {
			return nil, err
		}
		if len(next) == 0 {
			break
		}
		if lvl+1 == cfg.MaximumDepth {
			for _, c := range next {
				c.Leaf = true
			}
		}
		v.levels = append(v.levels, next)
	}

	v.finalize()
	return v, nil
}

// levelWidth is the child cap for the level below levelIndex.
func levelWidth(cfg VineConfig, levelIndex int) int {
	width := cfg.MaxChildren
	if levelIndex+1 < 31 && 1<<(levelIndex+1) < width {
		width = 1 << (levelIndex + 1)
	}
	return width
}

// buildVineLevel runs LSearch over the branch parents of one level and
// returns the freshly built child level, empty when every parent is a
// leaf.
func buildVineLevel(cfg VineConfig, factory feature.Factory, level []*VineNode, levelIndex, numLabels int, rng *random.Rand, prog log.Progress) ([]*VineNode, error) {
	var parents []*VineNode
	for _, n := range level {
		if !n.Leaf {
			parents = append(parents, n)
		}
	}
	if len(parents) == 0 {
		return nil, nil
	}
	width := levelWidth(cfg, levelIndex)

	// Highest energy first: parents with many points and high entropy
	// claim fresh children before the cap forces sharing.
	sort.SliceStable(parents, func(i, j int) bool {
		return vineEnergy(parents[i]) > vineEnergy(parents[j])
	})

	var children []*VineNode
	allocChild := func(counts []float64) int {
		c := NewVineNode(numLabels)
		c.AddDistribution(counts)
		children = append(children, c)
		return len(children) - 1
	}

	// Greedy seeding, deferring parents once no new child can be
	// allocated for them.
	var deferred []*VineNode
	for _, parent := range parents {
		if len(children) >= width {
			deferred = append(deferred, parent)
			continue
		}
		d, split, err := vineBestTrial(cfg.Config, factory, parent.points, numLabels, rng, nil, nil)
		if err != nil {
			return nil, err
		}
		if d == nil {
			errors.Warn(errors.NewDegenerateSplitWarning("vine", len(parent.points), "no candidate produced a usable cut"))
			parent.Leaf = true
			continue
		}
		parent.Decider = d
		parent.splitLeft = split.Left
		parent.splitRight = split.Right
		parent.LeftChild = allocChild(split.Left)
		if len(children) < width {
			parent.RightChild = allocChild(split.Right)
		} else {
			// Cap reached mid-parent: the overflow side joins the
			// best-fitting existing child.
			parent.RightChild = findBestChild(children, split.Right)
			children[parent.RightChild].AddDistribution(split.Right)
		}
	}

	// Late parents never allocate: both sides are assigned by best fit,
	// then the cut is re-derived against the children it will feed.
	for _, parent := range deferred {
		d, split, err := vineBestTrial(cfg.Config, factory, parent.points, numLabels, rng, nil, nil)
		if err != nil {
			return nil, err
		}
		if d == nil {
			errors.Warn(errors.NewDegenerateSplitWarning("vine", len(parent.points), "no candidate produced a usable cut"))
			parent.Leaf = true
			continue
		}
		li := findBestChild(children, split.Left)
		ri := findBestChild(children, split.Right)
		resplit, err := d.ChooseThresholdWithPriors(rng, cfg.NumThresholds, numLabels, cfg.LabelWeights,
			children[li].counter.Counts(), children[ri].counter.Counts())
		if err != nil {
			return nil, err
		}
		if resplit.Valid {
			split = resplit
		}
		parent.Decider = d
		parent.splitLeft = split.Left
		parent.splitRight = split.Right
		parent.LeftChild = li
		parent.RightChild = ri
		children[li].AddDistribution(split.Left)
		children[ri].AddDistribution(split.Right)
	}

	// Refinement: detach a random branch parent, reassign both sides by
	// best fit, and re-derive its cut against the new assignment. A lone
	// parent is never refined: detaching it would leave every child empty
	// and the reassignment without signal.
	var branchParents []*VineNode
	for _, p := range parents {
		if p.Decider != nil {
			branchParents = append(branchParents, p)
		}
	}
	for it := 0; it < cfg.RefinementIterations && len(branchParents) > 1 && len(children) > 1; it++ {
		parent := branchParents[rng.Intn(len(branchParents))]
		children[parent.LeftChild].RemoveDistribution(parent.splitLeft)
		children[parent.RightChild].RemoveDistribution(parent.splitRight)
		li := findBestChild(children, parent.splitLeft)
		ri := findBestChild(children, parent.splitRight)
		resplit, err := parent.Decider.ChooseThresholdWithPriors(rng, cfg.NumThresholds, numLabels, cfg.LabelWeights,
			children[li].counter.Counts(), children[ri].counter.Counts())
		if err != nil {
			return nil, err
		}
		if resplit.Valid {
			parent.splitLeft = resplit.Left
			parent.splitRight = resplit.Right
		}
		parent.LeftChild = li
		parent.RightChild = ri
		children[li].AddDistribution(parent.splitLeft)
		children[ri].AddDistribution(parent.splitRight)
	}

	// Physical partition: route every parent's points into its assigned
	// children, then recompute each child's counter from what actually
	// arrived and mark the terminal ones.
	for _, parent := range parents {
		if parent.Decider == nil {
			continue
		}
		left, right := parent.Decider.Partition(parent.points)
		lc := children[parent.LeftChild]
		rc := children[parent.RightChild]
		lc.points = append(lc.points, left...)
		rc.points = append(rc.points, right...)
		parent.points = nil
	}
	for _, c := range children {
		c.counter = CountPoints(c.points, numLabels, cfg.Config)
		if c.counter.IsPure() || len(c.points) < cfg.MinimumSupport || len(c.points) < 2 {
			c.Leaf = true
		}
	}

	prog.Printf("level %d: %d parents, %d children (cap %d)", levelIndex, len(parents), len(children), width)
	return children, nil
}

// vineEnergy orders parents for greedy seeding.
func vineEnergy(n *VineNode) float64 {
	return float64(len(n.points)) * n.counter.Entropy()
}

// findBestChild returns the child whose total weighted entropy grows
// the least when counts are added to it (lowest index on ties).
func findBestChild(children []*VineNode, counts []float64) int {
	t := floats.Sum(counts)
	scratch := make([]float64, len(counts))
	best := 0
	bestDelta := math.Inf(1)
	for i, c := range children {
		ct := c.counter.Total()
		floats.AddTo(scratch, c.counter.Counts(), counts)
		delta := (ct+t)*distributionEntropy(scratch) - ct*distributionEntropy(c.counter.Counts())
		if delta < bestDelta {
			best = i
			bestDelta = delta
		}
	}
	return best
}

// vineBestTrial is bestTrial with per-side priors folded into the
// entropy scoring.
func vineBestTrial(cfg Config, factory feature.Factory, points []feature.Point, numLabels int, rng *random.Rand, leftPrior, rightPrior []float64) (*Decider, Split, error) {
	trials := make([]trial, cfg.NumFeatures)
	parallel.ForEach(cfg.NumFeatures, func(i int) {
		d := NewDecider(factory.Create())
		if err := d.LoadData(points); err != nil {
			trials[i] = trial{err: err}
			return
		}
		split, err := d.ChooseThresholdWithPriors(rng, cfg.NumThresholds, numLabels, cfg.LabelWeights, leftPrior, rightPrior)
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

// finalize sets every node's distribution exactly once: delta for pure
// nodes, Dirichlet-smoothed otherwise.
func (v *Vine) finalize() {
	for _, level := range v.levels {
		for _, n := range level {
			if n.counter.Total() > 0 && n.counter.IsPure() {
				n.Distribution = deltaDistribution(v.numLabels, n.counter.ArgMax())
			} else {
				n.Distribution = smoothedDistribution(n.counter.Counts())
			}
		}
	}
}
