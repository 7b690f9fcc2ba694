package pixel

import (
	"gonum.org/v1/gonum/mat"
)

// Dense is a concrete multichannel image backed by one mat.Dense per
// channel. Rectangle sums are served by integral tables built lazily on
// first query, once per channel.
//
// The lazy integral cache is not synchronized: a Dense must be confined to
// one goroutine while rectangle queries may still trigger cache fills.
// Concurrent multi-image inference should use one Dense per call rather
// than sharing a single instance.
type Dense struct {
	rows, cols int
	channels   []*mat.Dense
	integrals  []*Integral
}

// NewDense creates a zero-valued image with the given shape.
func NewDense(rows, cols, channels int) *Dense {
	chans := make([]*mat.Dense, channels)
	for c := range chans {
		chans[c] = mat.NewDense(rows, cols, nil)
	}
	return &Dense{
		rows:      rows,
		cols:      cols,
		channels:  chans,
		integrals: make([]*Integral, channels),
	}
}

// FromMatrices wraps existing channel matrices as an image. All matrices
// must share the same shape; the first one defines it.
func FromMatrices(channels ...*mat.Dense) *Dense {
	rows, cols := channels[0].Dims()
	return &Dense{
		rows:      rows,
		cols:      cols,
		channels:  channels,
		integrals: make([]*Integral, len(channels)),
	}
}

// Rows returns the number of pixel rows.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the number of pixel columns.
func (d *Dense) Cols() int { return d.cols }

// Channels returns the number of channels.
func (d *Dense) Channels() int { return len(d.channels) }

// At returns the value at (row, col) in the given channel.
func (d *Dense) At(row, col, channel int) float64 {
	return d.channels[channel].At(row, col)
}

// Set writes a value. Setting invalidates the channel's integral table.
func (d *Dense) Set(row, col, channel int, v float64) {
	d.channels[channel].Set(row, col, v)
	d.integrals[channel] = nil
}

// RectangleSum returns the sum of channel values over r positioned
// relative to (row, col). The rectangle is clamped to the image bounds.
func (d *Dense) RectangleSum(row, col, channel int, r Rect) float64 {
	ii := d.integrals[channel]
	if ii == nil {
		ii = NewIntegral(d.channels[channel])
		d.integrals[channel] = ii
	}
	r0 := row + r.Top
	c0 := col + r.Left
	return ii.Sum(r0, c0, r0+r.Height-1, c0+r.Width-1)
}

var _ Image = (*Dense)(nil)
