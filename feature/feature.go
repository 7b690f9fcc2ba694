// Package feature defines the feature-test abstraction of grove: a Feature
// computes one scalar response from a data point, a Factory manufactures
// randomly parameterized features of one family. Concrete families cover
// vector components, single- and two-pixel readouts, rectangle and
// Haar-like sums over integral images, filter-bank lookups, and weighted
// multi-tap part features.
package feature

import (
	"fmt"
	"math"

	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/pkg/errors"
)

// Epsilon floors denominators and log arguments so responses stay finite.
const Epsilon = 1e-4

// Feature computes a scalar response from a point. Implementations are
// immutable after construction, deterministic in their parameters and the
// point payload, and must never return NaN or +-Inf.
type Feature interface {
	Compute(p Point) float64
	Name() string
}

// Describer is the optional metadata capability: features implementing it
// export their drawn parameters for diagnostics.
type Describer interface {
	Describe() map[string]any
}

// Describe returns a feature's parameter metadata, or a NotSupportedError
// for families without the capability.
func Describe(f Feature) (map[string]any, error) {
	if d, ok := f.(Describer); ok {
		return d.Describe(), nil
	}
	return nil, errors.NewNotSupportedError(f.Name(), "metadata export")
}

// Factory manufactures randomized features of one family.
type Factory interface {
	// Create draws a new randomly parameterized feature.
	Create() Feature
	// IsProduct reports whether f belongs to this factory's family.
	// Diagnostics only; never consulted during training.
	IsProduct(f Feature) bool
	Name() string
}

// CombinationFactory composes several sub-factories, delegating Create to
// a uniformly random one.
type CombinationFactory struct {
	rng       *random.Rand
	factories []Factory
}

// NewCombinationFactory composes the given sub-factories.
func NewCombinationFactory(rng *random.Rand, factories ...Factory) *CombinationFactory {
	return &CombinationFactory{rng: rng, factories: factories}
}

// Create delegates to a uniformly randomly selected sub-factory.
func (cf *CombinationFactory) Create() Feature {
	return cf.factories[cf.rng.Intn(len(cf.factories))].Create()
}

// IsProduct is true if any sub-factory claims the feature.
func (cf *CombinationFactory) IsProduct(f Feature) bool {
	for _, sub := range cf.factories {
		if sub.IsProduct(f) {
			return true
		}
	}
	return false
}

func (cf *CombinationFactory) Name() string { return "combination" }

// mustImage asserts that a point carries an image reference. Handing a
// vector point to an image feature is a programmer error, not a data
// condition.
func mustImage(p Point, name string) ImageSample {
	s, ok := p.(ImageSample)
	if !ok {
		panic(fmt.Sprintf("grove: feature %s requires an image-backed point, got %T", name, p))
	}
	return s
}

// finite replaces a non-finite response with 0. Families clamp their own
// denominators and logs, so this only guards pathological payloads.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}
