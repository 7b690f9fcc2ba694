package forest

import (
	"github.com/groveml/grove/pkg/errors"
)

// Config carries the training knobs shared by both growth strategies.
// It is threaded explicitly through every construction call; there is no
// ambient static state.
type Config struct {
	// NumFeatures is the number of candidate features tried per node.
	NumFeatures int
	// NumThresholds is the number of candidate cut points per feature.
	NumThresholds int
	// MinimumSupport is the minimum number of points required to keep
	// splitting; below it a node becomes a leaf.
	MinimumSupport int
	// MinimumDepth is the depth below which breadth-first growth accepts
	// any usable split regardless of the acceptance threshold.
	MinimumDepth int
	// MaximumDepth is the hard ceiling on leaf depth (root is depth 0).
	MaximumDepth int
	// NumberOfTries is the breadth-first retry budget: the number of
	// consecutive empty rounds tolerated before growth stops.
	NumberOfTries int
	// LabelWeights optionally rescales per-label counts before entropy
	// computation for class-imbalance correction. Nil means uniform.
	LabelWeights []float64
}

// Validate fails fast on a misconfiguration, before any training starts.
func (c Config) Validate(numLabels int) error {
	if numLabels < 2 {
		return errors.NewValidationError("numLabels", "need at least two labels", numLabels)
	}
	if c.NumFeatures < 1 {
		return errors.NewValidationError("NumFeatures", "must be at least 1", c.NumFeatures)
	}
	if c.NumThresholds < 1 {
		return errors.NewValidationError("NumThresholds", "must be at least 1", c.NumThresholds)
	}
	if c.MinimumSupport < 0 {
		return errors.NewValidationError("MinimumSupport", "must not be negative", c.MinimumSupport)
	}
	if c.MaximumDepth < 1 {
		return errors.NewValidationError("MaximumDepth", "must be at least 1", c.MaximumDepth)
	}
	if c.MinimumDepth < 0 {
		return errors.NewValidationError("MinimumDepth", "must not be negative", c.MinimumDepth)
	}
	if c.MinimumDepth > c.MaximumDepth {
		return errors.NewValidationError("MinimumDepth", "must not exceed MaximumDepth", c.MinimumDepth)
	}
	if c.NumberOfTries < 1 {
		return errors.NewValidationError("NumberOfTries", "must be at least 1", c.NumberOfTries)
	}
	if c.LabelWeights != nil && len(c.LabelWeights) != numLabels {
		return errors.NewValidationError("LabelWeights", "length must match the number of labels", len(c.LabelWeights))
	}
	return nil
}

// labelWeight returns the weight applied to a label's counts.
func (c Config) labelWeight(label int) float64 {
	if c.LabelWeights == nil {
		return 1
	}
	return c.LabelWeights[label]
}

// VineConfig extends Config with the DAG-specific knobs.
type VineConfig struct {
	Config

	// MaxChildren caps the number of nodes per level; once hit, parents
	// share children.
	MaxChildren int
	// RefinementIterations is the number of local-search reassignment
	// steps per level.
	RefinementIterations int
}

// Validate fails fast on a misconfiguration.
func (c VineConfig) Validate(numLabels int) error {
	if err := c.Config.Validate(numLabels); err != nil {
		return err
	}
	if c.MaxChildren < 2 {
		return errors.NewValidationError("MaxChildren", "must be at least 2", c.MaxChildren)
	}
	if c.RefinementIterations < 0 {
		return errors.NewValidationError("RefinementIterations", "must not be negative", c.RefinementIterations)
	}
	return nil
}
