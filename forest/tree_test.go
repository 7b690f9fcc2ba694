package forest

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/feature"
)

func testConfig() Config {
	return Config{
		NumFeatures:   1,
		NumThresholds: 1,
		MaximumDepth:  2,
		NumberOfTries: 1,
	}
}

func identityFactory(rng *random.Rand) feature.Factory {
	return feature.NewComponentFactory(rng, 1)
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(2); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := cfg
	bad.MinimumDepth = 3
	if err := bad.Validate(2); err == nil {
		t.Error("MinimumDepth > MaximumDepth accepted")
	}

	bad = cfg
	bad.LabelWeights = []float64{1, 2, 3}
	if err := bad.Validate(2); err == nil {
		t.Error("label-weight length mismatch accepted")
	}

	if err := cfg.Validate(1); err == nil {
		t.Error("single-label training accepted")
	}
}

func TestComputeDepthFirst_SeparableScenario(t *testing.T) {
	rng := random.New(42)
	pts := identityPoints(
		[]float64{0.1, 0.2, 0.9, 0.95},
		[]int{0, 0, 1, 1},
	)

	tree, err := ComputeDepthFirst(testConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeDepthFirst: %v", err)
	}

	if tree.LeafCount() != 2 {
		t.Errorf("leaf count = %d, want 2", tree.LeafCount())
	}
	if tree.MaxDepth() != 1 {
		t.Errorf("max depth = %d, want 1", tree.MaxDepth())
	}
	root := tree.Root()
	if root.IsLeaf() {
		t.Fatal("root is a leaf; expected one split near 0.5")
	}
	if th := root.Decider.Threshold(); th < 0.2 || th > 0.9 {
		t.Errorf("threshold = %v, want a separator in (0.2, 0.9)", th)
	}

	// Pure sides get delta distributions.
	if !floats.EqualApprox(root.Left.Distribution, []float64{1, 0}, 1e-9) {
		t.Errorf("left leaf = %v, want [1 0]", root.Left.Distribution)
	}
	if !floats.EqualApprox(root.Right.Distribution, []float64{0, 1}, 1e-9) {
		t.Errorf("right leaf = %v, want [0 1]", root.Right.Distribution)
	}

	for i, p := range pts {
		if got := tree.Classify(p); got != p.Label() {
			t.Errorf("point %d classified %d, want %d", i, got, p.Label())
		}
	}
}

func TestComputeDepthFirst_PurityShortCircuit(t *testing.T) {
	rng := random.New(1)
	pts := identityPoints(
		[]float64{0.1, 0.4, 0.7},
		[]int{1, 1, 1},
	)
	tree, err := ComputeDepthFirst(testConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeDepthFirst: %v", err)
	}
	if tree.LeafCount() != 1 || !tree.Root().IsLeaf() {
		t.Fatalf("pure data grew %d leaves, want a single leaf", tree.LeafCount())
	}
	if !floats.EqualApprox(tree.Root().Distribution, []float64{0, 1}, 1e-12) {
		t.Errorf("pure leaf = %v, want [0 1]", tree.Root().Distribution)
	}
}

func TestComputeDepthFirst_DepthBound(t *testing.T) {
	rng := random.New(7)
	// Alternating labels along the line force deep splits.
	values := make([]float64, 64)
	labels := make([]int, 64)
	for i := range values {
		values[i] = float64(i) / 64
		labels[i] = i % 2
	}
	cfg := Config{NumFeatures: 3, NumThresholds: 8, MaximumDepth: 3, NumberOfTries: 1}
	tree, err := ComputeDepthFirst(cfg, identityFactory(rng), identityPoints(values, labels), 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeDepthFirst: %v", err)
	}
	if tree.MaxDepth() > 3 {
		t.Errorf("max depth = %d, exceeds ceiling 3", tree.MaxDepth())
	}
}

func TestComputeDepthFirst_EmptyData(t *testing.T) {
	rng := random.New(1)
	if _, err := ComputeDepthFirst(testConfig(), identityFactory(rng), nil, 2, rng, nil); err == nil {
		t.Error("empty data accepted")
	}
}

func TestTree_Metadata(t *testing.T) {
	rng := random.New(42)
	pts := identityPoints(
		[]float64{0.1, 0.2, 0.9, 0.95},
		[]int{0, 0, 1, 1},
	)
	tree, err := ComputeDepthFirst(testConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeDepthFirst: %v", err)
	}

	root := tree.Root()
	if root.Index != 1 || root.Depth != 0 {
		t.Errorf("root index/depth = %d/%d, want 1/0", root.Index, root.Depth)
	}
	if root.Left.Index != 2 || root.Right.Index != 3 {
		t.Errorf("child indices = %d/%d, want 2/3", root.Left.Index, root.Right.Index)
	}
	if root.Left.LeafIndex != 0 || root.Right.LeafIndex != 1 {
		t.Errorf("leaf numbering = %d/%d, want 0/1", root.Left.LeafIndex, root.Right.LeafIndex)
	}
	if tree.NodeByIndex(3) != root.Right {
		t.Error("NodeByIndex(3) does not resolve the right child")
	}
	if root.LeafIndex != -1 {
		t.Errorf("branch leaf index = %d, want -1", root.LeafIndex)
	}
}

func TestTree_FillClearNormalize(t *testing.T) {
	rng := random.New(42)
	pts := identityPoints(
		[]float64{0.1, 0.2, 0.9, 0.95},
		[]int{0, 0, 1, 1},
	)
	tree, err := ComputeDepthFirst(testConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeDepthFirst: %v", err)
	}

	tree.Clear()
	for _, n := range []*Node{tree.Root().Left, tree.Root().Right} {
		if floats.Sum(n.Distribution) != 0 {
			t.Fatalf("cleared leaf = %v", n.Distribution)
		}
	}

	tree.Fill(pts)
	if got := floats.Sum(tree.Root().Left.Distribution) + floats.Sum(tree.Root().Right.Distribution); got != 4 {
		t.Errorf("filled mass = %v, want 4", got)
	}

	tree.Normalize()
	tree.eachLeaf(func(n *Node) {
		if math.Abs(floats.Sum(n.Distribution)-1) > 1e-12 {
			t.Errorf("normalized leaf sums to %v", floats.Sum(n.Distribution))
		}
		for i, p := range n.Distribution {
			if p <= 0 {
				t.Errorf("normalized leaf entry %d = %v, want > 0", i, p)
			}
		}
	})
}

func TestTree_FeatureUsage(t *testing.T) {
	rng := random.New(42)
	pts := identityPoints(
		[]float64{0.1, 0.2, 0.9, 0.95},
		[]int{0, 0, 1, 1},
	)
	tree, err := ComputeDepthFirst(testConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeDepthFirst: %v", err)
	}
	usage := tree.FeatureUsage()
	total := 0
	for _, n := range usage {
		total += n
	}
	if total != tree.LeafCount()-1 {
		t.Errorf("usage total = %d, want %d branches", total, tree.LeafCount()-1)
	}
}

func TestBestTrial_NoUsableCut(t *testing.T) {
	rng := random.New(9)
	pts := identityPoints(
		[]float64{0.5, 0.5},
		[]int{0, 1},
	)
	d, split, err := bestTrial(testConfig(), identityFactory(rng), pts, 2, rng)
	if err != nil {
		t.Fatalf("bestTrial: %v", err)
	}
	if d != nil || split.Valid {
		t.Error("constant data produced a usable trial")
	}
}
