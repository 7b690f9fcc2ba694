package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelize_CoversEveryItemOnce(t *testing.T) {
	const items = 1000
	counts := make([]int32, items)
	Parallelize(items, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&counts[i], 1)
		}
	})
	for i, c := range counts {
		if c != 1 {
			t.Fatalf("item %d visited %d times", i, c)
		}
	}
}

func TestParallelize_ZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) { called = true })
	if called {
		t.Error("worker invoked for zero items")
	}
}

func TestForEach_CoversEveryIndex(t *testing.T) {
	const items = 257
	hits := make([]int32, items)
	ForEach(items, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, c := range hits {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestParallelizeWithThreshold_SequentialBelow(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("sequential range = [%d, %d), want [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("sequential path ran %d times", calls)
	}
}
