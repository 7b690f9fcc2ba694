package random

import (
	"math"
	"sync"
	"testing"
)

func TestRand_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatalf("draw %d diverged for identical seeds", i)
		}
	}
}

func TestRand_IntRangeBounds(t *testing.T) {
	r := New(1)
	for i := 0; i < 1000; i++ {
		v := r.IntRange(-3, 3)
		if v < -3 || v > 3 {
			t.Fatalf("IntRange(-3, 3) = %d", v)
		}
	}
	// Degenerate range has a single outcome.
	if v := r.IntRange(5, 5); v != 5 {
		t.Errorf("IntRange(5, 5) = %d", v)
	}
}

func TestRand_FloatRanges(t *testing.T) {
	r := New(2)
	for i := 0; i < 1000; i++ {
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64 = %v", v)
		}
		if v := r.FloatRange(-1, 1); v < -1 || v >= 1 {
			t.Fatalf("FloatRange(-1, 1) = %v", v)
		}
	}
}

func TestRand_NormFloat64Finite(t *testing.T) {
	r := New(3)
	for i := 0; i < 1000; i++ {
		v := r.NormFloat64(10, 2)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("NormFloat64 = %v", v)
		}
	}
}

func TestRand_Perm(t *testing.T) {
	r := New(4)
	p := r.Perm(10)
	seen := make([]bool, 10)
	for _, v := range p {
		if v < 0 || v >= 10 || seen[v] {
			t.Fatalf("Perm(10) = %v is not a permutation", p)
		}
		seen[v] = true
	}
}

func TestRand_WeightedIndex(t *testing.T) {
	r := New(5)

	if got := r.WeightedIndex([]float64{0, 0, 0}); got != -1 {
		t.Errorf("zero-weight WeightedIndex = %d, want -1", got)
	}
	if got := r.WeightedIndex(nil); got != -1 {
		t.Errorf("empty WeightedIndex = %d, want -1", got)
	}
	for i := 0; i < 100; i++ {
		if got := r.WeightedIndex([]float64{0, 1, 0}); got != 1 {
			t.Fatalf("single-mass WeightedIndex = %d, want 1", got)
		}
	}
	// Negative weights carry no mass.
	for i := 0; i < 100; i++ {
		if got := r.WeightedIndex([]float64{-2, 0, 3}); got != 2 {
			t.Fatalf("WeightedIndex with negative weight = %d, want 2", got)
		}
	}
}

func TestRand_ConcurrentDraws(t *testing.T) {
	r := New(6)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = r.Intn(100)
				_ = r.Float64()
				_ = r.NormFloat64(0, 1)
			}
		}()
	}
	wg.Wait()
}
