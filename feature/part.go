package feature

import (
	"fmt"

	"github.com/groveml/grove/core/random"
)

// Tap is one weighted readout of a part feature.
type Tap struct {
	RowOffset int
	ColOffset int
	Channel   int
	Weight    float64
}

// Part is a weighted multi-tap feature: the weighted sum of K pixel
// readouts at fixed offsets. Offsets are clamped to image bounds.
type Part struct {
	taps []Tap
}

// NewPart creates a part feature from its taps.
func NewPart(taps []Tap) *Part {
	return &Part{taps: taps}
}

func (pt *Part) Compute(p Point) float64 {
	s := mustImage(p, pt.Name())
	img := s.Image()
	v := 0.0
	for _, t := range pt.taps {
		r := clampCoord(s.Row()+t.RowOffset, img.Rows())
		c := clampCoord(s.Col()+t.ColOffset, img.Cols())
		v += t.Weight * img.At(r, c, t.Channel)
	}
	return finite(v)
}

func (pt *Part) Name() string {
	return fmt.Sprintf("part[%d taps]", len(pt.taps))
}

// PartFactory draws Part features with numTaps taps, uniform offsets and
// channels, and weights uniform in [-1, 1).
type PartFactory struct {
	rng         *random.Rand
	numTaps     int
	offsetRange int
	channels    int
}

// NewPartFactory creates a part factory.
func NewPartFactory(rng *random.Rand, numTaps, offsetRange, channels int) *PartFactory {
	return &PartFactory{rng: rng, numTaps: numTaps, offsetRange: offsetRange, channels: channels}
}

func (f *PartFactory) Create() Feature {
	taps := make([]Tap, f.numTaps)
	for i := range taps {
		taps[i] = Tap{
			RowOffset: f.rng.IntRange(-f.offsetRange, f.offsetRange),
			ColOffset: f.rng.IntRange(-f.offsetRange, f.offsetRange),
			Channel:   f.rng.Intn(f.channels),
			Weight:    f.rng.FloatRange(-1, 1),
		}
	}
	return &Part{taps: taps}
}

func (f *PartFactory) IsProduct(ft Feature) bool {
	_, ok := ft.(*Part)
	return ok
}

func (f *PartFactory) Name() string { return "part" }
