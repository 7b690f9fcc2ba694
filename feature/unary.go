package feature

import (
	"fmt"

	"github.com/groveml/grove/core/random"
)

// UnaryPixel reads a single pixel at a fixed offset from the reference
// pixel, in one channel, with an optional transform. Offsets falling
// outside the image are clamped to the boundary.
type UnaryPixel struct {
	rowOffset int
	colOffset int
	channel   int
	transform Transform
}

// NewUnaryPixel creates a single-pixel readout feature.
func NewUnaryPixel(rowOffset, colOffset, channel int, transform Transform) *UnaryPixel {
	return &UnaryPixel{rowOffset: rowOffset, colOffset: colOffset, channel: channel, transform: transform}
}

func (u *UnaryPixel) Compute(p Point) float64 {
	s := mustImage(p, u.Name())
	img := s.Image()
	r := clampCoord(s.Row()+u.rowOffset, img.Rows())
	c := clampCoord(s.Col()+u.colOffset, img.Cols())
	return finite(u.transform.apply(img.At(r, c, u.channel)))
}

func (u *UnaryPixel) Name() string {
	return fmt.Sprintf("unary[%d,%d,ch%d,%s]", u.rowOffset, u.colOffset, u.channel, u.transform)
}

// Describe exports the drawn parameters.
func (u *UnaryPixel) Describe() map[string]any {
	return map[string]any{
		"row_offset": u.rowOffset,
		"col_offset": u.colOffset,
		"channel":    u.channel,
		"transform":  u.transform.String(),
	}
}

// UnaryPixelFactory draws UnaryPixel features with offsets uniform in
// [-offsetRange, offsetRange] and channels uniform in [0, channels).
type UnaryPixelFactory struct {
	rng         *random.Rand
	offsetRange int
	channels    int
	transforms  []Transform
}

// NewUnaryPixelFactory creates a unary pixel factory.
func NewUnaryPixelFactory(rng *random.Rand, offsetRange, channels int, transforms ...Transform) *UnaryPixelFactory {
	if len(transforms) == 0 {
		transforms = []Transform{TransformNone}
	}
	return &UnaryPixelFactory{rng: rng, offsetRange: offsetRange, channels: channels, transforms: transforms}
}

func (f *UnaryPixelFactory) Create() Feature {
	return &UnaryPixel{
		rowOffset: f.rng.IntRange(-f.offsetRange, f.offsetRange),
		colOffset: f.rng.IntRange(-f.offsetRange, f.offsetRange),
		channel:   f.rng.Intn(f.channels),
		transform: f.transforms[f.rng.Intn(len(f.transforms))],
	}
}

func (f *UnaryPixelFactory) IsProduct(ft Feature) bool {
	_, ok := ft.(*UnaryPixel)
	return ok
}

func (f *UnaryPixelFactory) Name() string { return "unary_pixel" }
