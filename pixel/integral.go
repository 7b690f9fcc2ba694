package pixel

import (
	"gonum.org/v1/gonum/mat"
)

// Integral is a cumulative-sum table over one channel. Entry (i, j) holds
// the sum of all values in the rectangle [0, i) x [0, j), so any rectangle
// sum is four lookups.
type Integral struct {
	table *mat.Dense
}

// NewIntegral builds the integral table of a channel matrix.
func NewIntegral(channel mat.Matrix) *Integral {
	rows, cols := channel.Dims()
	table := mat.NewDense(rows+1, cols+1, nil)
	for i := 0; i < rows; i++ {
		rowSum := 0.0
		for j := 0; j < cols; j++ {
			rowSum += channel.At(i, j)
			table.Set(i+1, j+1, table.At(i, j+1)+rowSum)
		}
	}
	return &Integral{table: table}
}

// Sum returns the sum over the inclusive pixel rectangle
// [r0, r1] x [c0, c1]. Bounds are clamped to the table; an empty clamped
// rectangle sums to zero.
func (ii *Integral) Sum(r0, c0, r1, c1 int) float64 {
	rows, cols := ii.table.Dims()
	if r0 < 0 {
		r0 = 0
	}
	if c0 < 0 {
		c0 = 0
	}
	if r1 >= rows-1 {
		r1 = rows - 2
	}
	if c1 >= cols-1 {
		c1 = cols - 2
	}
	if r1 < r0 || c1 < c0 {
		return 0
	}
	return ii.table.At(r1+1, c1+1) - ii.table.At(r0, c1+1) -
		ii.table.At(r1+1, c0) + ii.table.At(r0, c0)
}
