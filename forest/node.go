package forest

// Node is one tree node: either a branch holding a Decider and two
// children, or a leaf holding a label distribution. Every branch has
// exactly two non-nil children.
//
// Index, Depth, and LeafIndex are derived metadata: Index is the
// tree-position index (root 1, left child 2i, right child 2i+1), LeafIndex
// numbers leaves in depth-first order. They are recomputed by a tree-wide
// pass after any structural change, never patched incrementally.
type Node struct {
	Decider *Decider
	Left    *Node
	Right   *Node

	// Distribution is the leaf's probability/count vector over labels.
	// Nil on branches.
	Distribution []float64

	Index     int
	Depth     int
	LeafIndex int
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool { return n.Decider == nil }

// newLeaf creates a leaf with the given distribution.
func newLeaf(distribution []float64) *Node {
	return &Node{Distribution: distribution, LeafIndex: -1}
}

// newBranch creates a branch. Both children must be non-nil.
func newBranch(d *Decider, left, right *Node) *Node {
	return &Node{Decider: d, Left: left, Right: right, LeafIndex: -1}
}
