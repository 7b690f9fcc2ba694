package forest

import (
	"math"

	"github.com/groveml/grove/core/parallel"
	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/feature"
	"github.com/groveml/grove/pkg/errors"
	"github.com/groveml/grove/pkg/log"
)

// candidate is one not-yet-split node in breadth-first growth.
type candidate struct {
	index   int // tree-position index
	points  []feature.Point
	level   int
	counter *LabelCounter
	entropy float64
	support int
	delta   bool
}

func newCandidate(index int, points []feature.Point, level, numLabels int, cfg Config) *candidate {
	counter := CountPoints(points, numLabels, cfg)
	return &candidate{
		index:   index,
		points:  points,
		level:   level,
		counter: counter,
		entropy: counter.Entropy(),
		support: len(points),
		delta:   counter.IsPure(),
	}
}

// splittable reports whether the candidate may still be split: not pure,
// not at the depth ceiling, and carrying enough support.
func (c *candidate) splittable(cfg Config) bool {
	return !c.delta && c.level < cfg.MaximumDepth && c.support >= cfg.MinimumSupport && c.support >= 2
}

// accepted records a candidate's best accepted split in the current round.
type acceptedSplit struct {
	decider     *Decider
	split       Split
	improvement float64
}

// ComputeBreadthFirst trains a tree by global level-synchronous growth
// with an adaptive acceptance threshold.
//
// Each round draws NumFeatures trial features and evaluates every one
// against every still-splittable candidate, keeping per candidate the
// best trial whose entropy improvement clears the acceptance threshold
// (candidates below MinimumDepth accept any usable split). Accepted
// splits are committed together after the feature loop. A round that
// commits nothing decays the threshold by threshold/NumberOfTries;
// NumberOfTries consecutive empty rounds end growth. Candidates still
// queued at the end — including permanently unsplittable ones at the
// depth ceiling — are drained into leaves.
func ComputeBreadthFirst(cfg Config, factory feature.Factory, points []feature.Point, numLabels int, rng *random.Rand, prog log.Progress) (*Tree, error) {
	if err := cfg.Validate(numLabels); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "forest.ComputeBreadthFirst")
	}
	if prog == nil {
		prog = log.NopProgress()
	}
	prog.Printf("breadth-first tree: %d points, %d labels", len(points), numLabels)

	pending := map[int]*candidate{1: newCandidate(1, points, 0, numLabels, cfg)}
	deciders := make(map[int]*Decider)
	acceptThreshold := math.Log2(float64(numLabels))

	emptyRounds := 0
	round := 0
	for emptyRounds < cfg.NumberOfTries {
		cands := make([]*candidate, 0, len(pending))
		for _, c := range pending {
			if c.splittable(cfg) {
				cands = append(cands, c)
			}
		}
		if len(cands) == 0 {
			break
		}

		best := make([]*acceptedSplit, len(cands))
		trialErrs := make([]error, len(cands))
		for f := 0; f < cfg.NumFeatures; f++ {
			// One trial feature per iteration, evaluated against every
			// candidate; features are immutable and candidate point sets
			// are disjoint, so the evaluation is data-parallel.
			feat := factory.Create()
			parallel.ForEach(len(cands), func(i int) {
				c := cands[i]
				d := NewDecider(feat)
				if err := d.LoadData(c.points); err != nil {
					trialErrs[i] = err
					return
				}
				split, err := d.ChooseThreshold(rng, cfg.NumThresholds, numLabels, cfg.LabelWeights)
				if err != nil {
					trialErrs[i] = err
					return
				}
				if !split.Valid {
					return
				}
				improvement := c.entropy + split.Gain
				if improvement <= acceptThreshold && c.level >= cfg.MinimumDepth {
					return
				}
				if best[i] == nil || improvement > best[i].improvement {
					best[i] = &acceptedSplit{decider: d, split: split, improvement: improvement}
				}
			})
			for _, err := range trialErrs {
				if err != nil {
					return nil, err
				}
			}
		}

		commits := 0
		for i, c := range cands {
			if best[i] == nil {
				continue
			}
			left, right := best[i].decider.Partition(c.points)
			if len(left) == 0 || len(right) == 0 {
				return nil, errors.NewTrainingInvariantError("breadth_first",
					"accepted split must route points to both sides",
					best[i].decider.Feature().Name())
			}
			deciders[c.index] = best[i].decider
			delete(pending, c.index)
			pending[2*c.index] = newCandidate(2*c.index, left, c.level+1, numLabels, cfg)
			pending[2*c.index+1] = newCandidate(2*c.index+1, right, c.level+1, numLabels, cfg)
			commits++
		}

		if commits == 0 {
			acceptThreshold -= acceptThreshold / float64(cfg.NumberOfTries)
			emptyRounds++
		} else {
			emptyRounds = 0
		}
		round++
		prog.Printf("round %d: %d candidates, %d commits, threshold=%.4f", round, len(cands), commits, acceptThreshold)
	}

	// Drain: every candidate still pending becomes a leaf, so the final
	// structure is a complete binary tree over the committed deciders.
	var build func(index int) *Node
	build = func(index int) *Node {
		if d, ok := deciders[index]; ok {
			return newBranch(d, build(2*index), build(2*index+1))
		}
		c := pending[index]
		if c.delta {
			return newLeaf(deltaDistribution(numLabels, c.counter.ArgMax()))
		}
		return newLeaf(c.counter.Distribution())
	}
	return NewTree(build(1), numLabels), nil
}
