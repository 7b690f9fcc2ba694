// Package pixel provides the image collaborator consumed by image-based
// features: a narrow multichannel accessor with O(1) rectangle sums served
// by lazily built integral tables. Features never mutate images.
package pixel

// Rect is an axis-aligned rectangle expressed relative to a reference
// pixel: Top/Left offset the rectangle's upper-left corner from the pixel,
// Height/Width give its extent in pixels.
type Rect struct {
	Top    int
	Left   int
	Height int
	Width  int
}

// Image is the read-only multichannel image surface features compute on.
type Image interface {
	// Rows returns the number of pixel rows.
	Rows() int
	// Cols returns the number of pixel columns.
	Cols() int
	// Channels returns the number of channels.
	Channels() int
	// At returns the value at (row, col) in the given channel.
	At(row, col, channel int) float64
	// RectangleSum returns the sum of channel values over r positioned
	// relative to (row, col), clamped to the image bounds.
	RectangleSum(row, col, channel int, r Rect) float64
}
