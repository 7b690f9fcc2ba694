package feature

import (
	"fmt"
	"math"

	"github.com/groveml/grove/core/random"
)

// Transform is an optional post-transform applied to a raw readout.
type Transform int

const (
	TransformNone Transform = iota
	TransformAbs
	TransformLog
)

func (t Transform) apply(v float64) float64 {
	switch t {
	case TransformAbs:
		return math.Abs(v)
	case TransformLog:
		return math.Log2(math.Abs(v) + Epsilon)
	default:
		return v
	}
}

func (t Transform) String() string {
	switch t {
	case TransformAbs:
		return "abs"
	case TransformLog:
		return "log"
	default:
		return "none"
	}
}

// Component reads one component of a point's payload vector with an
// optional transform. The trivial identity family is
// NewComponent(i, TransformNone).
type Component struct {
	index     int
	transform Transform
}

// NewComponent creates a component readout feature.
func NewComponent(index int, transform Transform) *Component {
	return &Component{index: index, transform: transform}
}

func (c *Component) Compute(p Point) float64 {
	return finite(c.transform.apply(p.Data()[c.index]))
}

func (c *Component) Name() string {
	return fmt.Sprintf("component[%d,%s]", c.index, c.transform)
}

// Describe exports the drawn parameters.
func (c *Component) Describe() map[string]any {
	return map[string]any{"index": c.index, "transform": c.transform.String()}
}

// ComponentFactory draws Component features uniformly over the payload
// dimensions and the given transforms.
type ComponentFactory struct {
	rng        *random.Rand
	dimensions int
	transforms []Transform
}

// NewComponentFactory creates a factory over dimensions payload entries.
// With no transforms given, only the identity readout is drawn.
func NewComponentFactory(rng *random.Rand, dimensions int, transforms ...Transform) *ComponentFactory {
	if len(transforms) == 0 {
		transforms = []Transform{TransformNone}
	}
	return &ComponentFactory{rng: rng, dimensions: dimensions, transforms: transforms}
}

func (f *ComponentFactory) Create() Feature {
	return &Component{
		index:     f.rng.Intn(f.dimensions),
		transform: f.transforms[f.rng.Intn(len(f.transforms))],
	}
}

func (f *ComponentFactory) IsProduct(ft Feature) bool {
	_, ok := ft.(*Component)
	return ok
}

func (f *ComponentFactory) Name() string { return "component" }
