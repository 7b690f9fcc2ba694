package feature

import (
	"fmt"

	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/pixel"
)

// RectangleMean is the mean channel value over an offset rectangle, served
// in O(1) by the image's integral table. The rectangle is clamped to the
// image bounds by the image collaborator.
type RectangleMean struct {
	rect    pixel.Rect
	channel int
}

// NewRectangleMean creates a rectangle-mean feature.
func NewRectangleMean(rect pixel.Rect, channel int) *RectangleMean {
	return &RectangleMean{rect: rect, channel: channel}
}

func (r *RectangleMean) Compute(p Point) float64 {
	s := mustImage(p, r.Name())
	sum := s.Image().RectangleSum(s.Row(), s.Col(), r.channel, r.rect)
	area := float64(r.rect.Height * r.rect.Width)
	if area < 1 {
		area = 1
	}
	return finite(sum / area)
}

func (r *RectangleMean) Name() string {
	return fmt.Sprintf("rect[%dx%d,ch%d]", r.rect.Height, r.rect.Width, r.channel)
}

// Describe exports the drawn parameters.
func (r *RectangleMean) Describe() map[string]any {
	return map[string]any{
		"top": r.rect.Top, "left": r.rect.Left,
		"height": r.rect.Height, "width": r.rect.Width,
		"channel": r.channel,
	}
}

// RectangleFactory draws RectangleMean features with uniform offsets and
// extents.
type RectangleFactory struct {
	rng         *random.Rand
	offsetRange int
	maxExtent   int
	channels    int
}

// NewRectangleFactory creates a rectangle factory. Extents are drawn in
// [1, maxExtent], offsets in [-offsetRange, offsetRange].
func NewRectangleFactory(rng *random.Rand, offsetRange, maxExtent, channels int) *RectangleFactory {
	return &RectangleFactory{rng: rng, offsetRange: offsetRange, maxExtent: maxExtent, channels: channels}
}

func (f *RectangleFactory) Create() Feature {
	return &RectangleMean{
		rect: pixel.Rect{
			Top:    f.rng.IntRange(-f.offsetRange, f.offsetRange),
			Left:   f.rng.IntRange(-f.offsetRange, f.offsetRange),
			Height: f.rng.IntRange(1, f.maxExtent),
			Width:  f.rng.IntRange(1, f.maxExtent),
		},
		channel: f.rng.Intn(f.channels),
	}
}

func (f *RectangleFactory) IsProduct(ft Feature) bool {
	_, ok := ft.(*RectangleMean)
	return ok
}

func (f *RectangleFactory) Name() string { return "rectangle" }

// HaarLayout selects the alternating-sign rectangle arrangement.
type HaarLayout int

const (
	HaarLeftRight HaarLayout = iota
	HaarTopBottom
	HaarCenterSurround
)

func (l HaarLayout) String() string {
	switch l {
	case HaarLeftRight:
		return "left_right"
	case HaarTopBottom:
		return "top_bottom"
	case HaarCenterSurround:
		return "center_surround"
	default:
		return "?"
	}
}

// Haar is an alternating-sign sum of adjacent rectangles in one channel.
type Haar struct {
	rects   []pixel.Rect
	signs   []float64
	layout  HaarLayout
	channel int
}

// NewHaar creates a Haar-like feature from a base rectangle and a layout.
func NewHaar(base pixel.Rect, layout HaarLayout, channel int) *Haar {
	h := &Haar{layout: layout, channel: channel}
	switch layout {
	case HaarLeftRight:
		h.rects = []pixel.Rect{
			base,
			{Top: base.Top, Left: base.Left + base.Width, Height: base.Height, Width: base.Width},
		}
		h.signs = []float64{1, -1}
	case HaarTopBottom:
		h.rects = []pixel.Rect{
			base,
			{Top: base.Top + base.Height, Left: base.Left, Height: base.Height, Width: base.Width},
		}
		h.signs = []float64{1, -1}
	case HaarCenterSurround:
		// Outer rectangle 3x the extent of the center, center counted
		// positively twice to cancel its share of the surround.
		h.rects = []pixel.Rect{
			{Top: base.Top - base.Height, Left: base.Left - base.Width, Height: 3 * base.Height, Width: 3 * base.Width},
			base,
		}
		h.signs = []float64{-1, 2}
	}
	return h
}

func (h *Haar) Compute(p Point) float64 {
	s := mustImage(p, h.Name())
	img := s.Image()
	v := 0.0
	for i, r := range h.rects {
		v += h.signs[i] * img.RectangleSum(s.Row(), s.Col(), h.channel, r)
	}
	return finite(v)
}

func (h *Haar) Name() string {
	return fmt.Sprintf("haar[%s,ch%d]", h.layout, h.channel)
}

// HaarFactory draws Haar features with a uniformly chosen layout.
type HaarFactory struct {
	rng         *random.Rand
	offsetRange int
	maxExtent   int
	channels    int
}

// NewHaarFactory creates a Haar factory.
func NewHaarFactory(rng *random.Rand, offsetRange, maxExtent, channels int) *HaarFactory {
	return &HaarFactory{rng: rng, offsetRange: offsetRange, maxExtent: maxExtent, channels: channels}
}

func (f *HaarFactory) Create() Feature {
	base := pixel.Rect{
		Top:    f.rng.IntRange(-f.offsetRange, f.offsetRange),
		Left:   f.rng.IntRange(-f.offsetRange, f.offsetRange),
		Height: f.rng.IntRange(1, f.maxExtent),
		Width:  f.rng.IntRange(1, f.maxExtent),
	}
	layout := HaarLayout(f.rng.Intn(3))
	return NewHaar(base, layout, f.rng.Intn(f.channels))
}

func (f *HaarFactory) IsProduct(ft Feature) bool {
	_, ok := ft.(*Haar)
	return ok
}

func (f *HaarFactory) Name() string { return "haar" }
