package forest

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/groveml/grove/core/random"
)

func testVineConfig() VineConfig {
	return VineConfig{
		Config: Config{
			NumFeatures:   2,
			NumThresholds: 3,
			MaximumDepth:  3,
			NumberOfTries: 1,
		},
		MaxChildren:          4,
		RefinementIterations: 4,
	}
}

func TestVineNode_DistributionConservation(t *testing.T) {
	n := NewVineNode(3)
	n.AddDistribution([]float64{1, 2, 3})
	before := append([]float64(nil), n.Counter().Counts()...)
	beforeTotal := n.Counter().Total()

	// A detach/reattach cycle must restore the accumulated counts.
	contribution := []float64{0.5, 0, 1.5}
	n.AddDistribution(contribution)
	n.RemoveDistribution(contribution)

	if !floats.EqualApprox(n.Counter().Counts(), before, 1e-12) {
		t.Errorf("counts after cycle = %v, want %v", n.Counter().Counts(), before)
	}
	if math.Abs(n.Counter().Total()-beforeTotal) > 1e-12 {
		t.Errorf("total after cycle = %v, want %v", n.Counter().Total(), beforeTotal)
	}
}

func TestVineConfig_Validate(t *testing.T) {
	cfg := testVineConfig()
	if err := cfg.Validate(2); err != nil {
		t.Fatalf("valid vine config rejected: %v", err)
	}
	bad := cfg
	bad.MaxChildren = 1
	if err := bad.Validate(2); err == nil {
		t.Error("MaxChildren = 1 accepted")
	}
	bad = cfg
	bad.RefinementIterations = -1
	if err := bad.Validate(2); err == nil {
		t.Error("negative refinement budget accepted")
	}
}

func TestComputeVine_SeparableScenario(t *testing.T) {
	rng := random.New(42)
	pts := identityPoints(
		[]float64{0.1, 0.15, 0.2, 0.85, 0.9, 0.95},
		[]int{0, 0, 0, 1, 1, 1},
	)
	v, err := ComputeVine(testVineConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeVine: %v", err)
	}

	if v.NumLevels() < 2 {
		t.Fatalf("vine has %d levels, expected a split below the root", v.NumLevels())
	}
	for i, p := range pts {
		if got := v.Classify(p); got != p.Label() {
			t.Errorf("point %d classified %d, want %d", i, got, p.Label())
		}
	}
	for _, p := range pts {
		dist := v.ClassifySoft(p)
		if math.Abs(floats.Sum(dist)-1) > 1e-12 {
			t.Errorf("soft distribution sums to %v", floats.Sum(dist))
		}
	}
}

func TestComputeVine_RespectsChildCap(t *testing.T) {
	rng := random.New(7)
	values := make([]float64, 80)
	labels := make([]int, 80)
	for i := range values {
		values[i] = float64(i) / 80
		labels[i] = (i / 10) % 3
	}
	cfg := VineConfig{
		Config: Config{
			NumFeatures:   3,
			NumThresholds: 5,
			MaximumDepth:  4,
			NumberOfTries: 1,
		},
		MaxChildren:          3,
		RefinementIterations: 8,
	}
	v, err := ComputeVine(cfg, identityFactory(rng), identityPoints(values, labels), 3, rng, nil)
	if err != nil {
		t.Fatalf("ComputeVine: %v", err)
	}

	if got := v.NumLevels(); got > cfg.MaximumDepth+1 {
		t.Errorf("vine has %d levels, ceiling is %d", got, cfg.MaximumDepth+1)
	}
	for lvl, nodes := range v.Levels() {
		if lvl == 0 {
			continue
		}
		if len(nodes) > cfg.MaxChildren {
			t.Errorf("level %d holds %d nodes, cap is %d", lvl, len(nodes), cfg.MaxChildren)
		}
		// Branch nodes must link into the next level.
		for _, n := range nodes {
			if n.Leaf || n.Decider == nil {
				continue
			}
			if lvl+1 >= v.NumLevels() {
				t.Fatalf("branch node at the last level %d", lvl)
			}
			width := len(v.Levels()[lvl+1])
			if n.LeftChild < 0 || n.LeftChild >= width || n.RightChild < 0 || n.RightChild >= width {
				t.Errorf("level %d child links (%d, %d) out of range [0, %d)", lvl, n.LeftChild, n.RightChild, width)
			}
		}
	}
}

func TestComputeVine_PureRoot(t *testing.T) {
	rng := random.New(1)
	pts := identityPoints([]float64{0.1, 0.2, 0.3}, []int{1, 1, 1})
	v, err := ComputeVine(testVineConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeVine: %v", err)
	}
	if v.NumLevels() != 1 {
		t.Errorf("pure data grew %d levels, want 1", v.NumLevels())
	}
	if !floats.EqualApprox(v.ClassifySoft(pts[0]), []float64{0, 1}, 1e-12) {
		t.Errorf("pure root distribution = %v, want [0 1]", v.ClassifySoft(pts[0]))
	}
}

func TestComputeVine_EmptyData(t *testing.T) {
	rng := random.New(1)
	if _, err := ComputeVine(testVineConfig(), identityFactory(rng), nil, 2, rng, nil); err == nil {
		t.Error("empty data accepted")
	}
}

func TestVine_ComputeResponses(t *testing.T) {
	rng := random.New(42)
	pts := identityPoints(
		[]float64{0.1, 0.15, 0.2, 0.85, 0.9, 0.95},
		[]int{0, 0, 0, 1, 1, 1},
	)
	v, err := ComputeVine(testVineConfig(), identityFactory(rng), pts, 2, rng, nil)
	if err != nil {
		t.Fatalf("ComputeVine: %v", err)
	}

	count := func(acc, response float64) float64 { return acc + 1 }
	for _, p := range pts {
		steps := v.ComputeResponses(p, 0, count)
		if steps < 1 || steps > float64(v.NumLevels()-1) {
			t.Errorf("path length %v outside [1, %d]", steps, v.NumLevels()-1)
		}
	}

	// With the identity feature, summing responses along a single-step
	// path reproduces the point's value.
	sum := func(acc, response float64) float64 { return acc + response }
	p := pts[0]
	if v.NumLevels() >= 2 {
		got := v.ComputeResponses(p, 0, sum)
		want := 0.1 * v.ComputeResponses(p, 0, count)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("summed responses = %v, want %v (value times path length)", got, want)
		}
	}
}
