// Standard attribute keys for grove logging. Using these keys keeps
// training and inference logs filterable across components.

package log

// Component and operation context.
const (
	// ComponentKey identifies the package or component emitting the record.
	// Examples: "forest.tree", "forest.vine", "feature"
	ComponentKey = "grove.component"

	// OperationKey names the operation being performed.
	// Standard values: "train", "classify", "histogram", "sparse_code"
	OperationKey = "grove.operation"

	// StrategyKey names the tree growth strategy.
	// Values: "depth_first", "breadth_first", "vine"
	StrategyKey = "train.strategy"
)

// Data and structure characteristics.
const (
	// PointsKey is the number of data points in play.
	PointsKey = "data.points"

	// LabelsKey is the number of labels in the label space.
	LabelsKey = "data.labels"

	// DepthKey is the current tree depth or vine level.
	DepthKey = "tree.depth"

	// NodeKey is the tree-position index of the node being processed.
	NodeKey = "tree.node"

	// LeavesKey is a leaf count.
	LeavesKey = "tree.leaves"

	// TreeKey is the index of a tree within a forest.
	TreeKey = "forest.tree"

	// TreesKey is the number of trees in a forest.
	TreesKey = "forest.trees"
)

// Training diagnostics.
const (
	// GainKey is an entropy gain value.
	GainKey = "train.gain"

	// EntropyKey is a node entropy value.
	EntropyKey = "train.entropy"

	// SupportKey is the number of points reaching a node.
	SupportKey = "train.support"

	// RoundKey is the breadth-first round or vine refinement iteration.
	RoundKey = "train.round"

	// ThresholdKey is the acceptance threshold in breadth-first growth.
	ThresholdKey = "train.accept_threshold"

	// SeedKey is the random seed, recorded for reproducibility.
	SeedKey = "config.random_seed"
)
