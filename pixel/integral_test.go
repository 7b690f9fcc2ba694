package pixel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func testChannel(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, float64(i*7+j*3+1))
		}
	}
	return m
}

func bruteSum(m *mat.Dense, r0, c0, r1, c1 int) float64 {
	rows, cols := m.Dims()
	sum := 0.0
	for i := r0; i <= r1; i++ {
		for j := c0; j <= c1; j++ {
			if i < 0 || j < 0 || i >= rows || j >= cols {
				continue
			}
			sum += m.At(i, j)
		}
	}
	return sum
}

func TestIntegral_MatchesBruteForce(t *testing.T) {
	m := testChannel(5, 6)
	ii := NewIntegral(m)

	for r0 := 0; r0 < 5; r0++ {
		for c0 := 0; c0 < 6; c0++ {
			for r1 := r0; r1 < 5; r1++ {
				for c1 := c0; c1 < 6; c1++ {
					got := ii.Sum(r0, c0, r1, c1)
					want := bruteSum(m, r0, c0, r1, c1)
					if math.Abs(got-want) > 1e-9 {
						t.Fatalf("Sum(%d,%d,%d,%d) = %v, want %v", r0, c0, r1, c1, got, want)
					}
				}
			}
		}
	}
}

func TestIntegral_ClampsOutOfBounds(t *testing.T) {
	m := testChannel(4, 4)
	ii := NewIntegral(m)

	got := ii.Sum(-3, -3, 10, 10)
	want := bruteSum(m, 0, 0, 3, 3)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("clamped full sum = %v, want %v", got, want)
	}

	got = ii.Sum(-5, 1, -1, 2)
	if got != 0 {
		t.Errorf("fully out-of-bounds rectangle = %v, want 0", got)
	}
}

func TestIntegral_EmptyRectangle(t *testing.T) {
	ii := NewIntegral(testChannel(3, 3))
	if got := ii.Sum(2, 2, 1, 1); got != 0 {
		t.Errorf("inverted rectangle = %v, want 0", got)
	}
}
