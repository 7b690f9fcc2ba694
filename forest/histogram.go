package forest

import (
	"sort"

	"github.com/groveml/grove/feature"
)

// HistogramEntry records how many points passed through one tree node:
// (tree id, count, leaf index, tree-position index). LeafIndex is -1 for
// branch nodes.
type HistogramEntry struct {
	TreeIndex int
	Count     float64
	LeafIndex int
	NodeIndex int
}

type histKey struct {
	tree int
	node int
}

// Histogram is a sparse hierarchical code over tree nodes, used as a
// structural signature for similarity comparison between point sets.
type Histogram struct {
	entries map[histKey]*HistogramEntry
}

// NewHistogram creates an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{entries: make(map[histKey]*HistogramEntry)}
}

// Add accumulates count for a node.
func (h *Histogram) Add(treeIndex, nodeIndex, leafIndex int, count float64) {
	k := histKey{tree: treeIndex, node: nodeIndex}
	if e, ok := h.entries[k]; ok {
		e.Count += count
		return
	}
	h.entries[k] = &HistogramEntry{
		TreeIndex: treeIndex,
		NodeIndex: nodeIndex,
		LeafIndex: leafIndex,
		Count:     count,
	}
}

// Merge unions another histogram into this one, summing counts of
// matching (tree, node) pairs.
func (h *Histogram) Merge(other *Histogram) {
	for _, e := range other.entries {
		h.Add(e.TreeIndex, e.NodeIndex, e.LeafIndex, e.Count)
	}
}

// Normalize divides every count by the number of points, turning raw
// visit counts into a size-normalized signature.
func (h *Histogram) Normalize(points int) {
	if points == 0 {
		return
	}
	for _, e := range h.entries {
		e.Count /= float64(points)
	}
}

// Count returns the count recorded for a node, 0 if absent.
func (h *Histogram) Count(treeIndex, nodeIndex int) float64 {
	if e, ok := h.entries[histKey{tree: treeIndex, node: nodeIndex}]; ok {
		return e.Count
	}
	return 0
}

// Len returns the number of recorded nodes.
func (h *Histogram) Len() int { return len(h.entries) }

// Entries returns the entries sorted by (tree, node index).
func (h *Histogram) Entries() []HistogramEntry {
	out := make([]HistogramEntry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TreeIndex != out[j].TreeIndex {
			return out[i].TreeIndex < out[j].TreeIndex
		}
		return out[i].NodeIndex < out[j].NodeIndex
	})
	return out
}

// ComputeHistogram routes every point root-to-leaf and counts each node
// visited along the way, tagged with the given tree id.
func (t *Tree) ComputeHistogram(points []feature.Point, treeIndex int) *Histogram {
	h := NewHistogram()
	for _, p := range points {
		n := t.root
		for {
			h.Add(treeIndex, n.Index, n.LeafIndex, 1)
			if n.IsLeaf() {
				break
			}
			if n.Decider.Decide(p) == Left {
				n = n.Left
			} else {
				n = n.Right
			}
		}
	}
	return h
}
