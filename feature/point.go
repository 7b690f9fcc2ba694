package feature

import (
	"github.com/groveml/grove/pixel"
)

// Point is the sample surface features compute on: a payload vector, an
// integer label (-1 = unlabeled), an optional weight, and a scratch cache
// holding the most recent feature response written by a Decider.
type Point interface {
	// Data returns the materialized payload vector.
	Data() []float64
	// Label returns the class id, or -1 for unlabeled points.
	Label() int
	// Weight returns the sample weight (1 unless set otherwise).
	Weight() float64
	// FeatureValue returns the cached response of the last feature
	// evaluated against this point.
	FeatureValue() float64
	// SetFeatureValue overwrites the cached response.
	SetFeatureValue(v float64)
}

// ImageSample is implemented by points that reference a pixel in an image.
// Image-based feature families require it.
type ImageSample interface {
	Image() pixel.Image
	Row() int
	Col() int
}

// VectorPoint is a materialized vector sample.
type VectorPoint struct {
	data         []float64
	label        int
	weight       float64
	featureValue float64
}

// NewVectorPoint creates a sample with weight 1.
func NewVectorPoint(data []float64, label int) *VectorPoint {
	return &VectorPoint{data: data, label: label, weight: 1}
}

// NewWeightedVectorPoint creates a sample with an explicit weight.
func NewWeightedVectorPoint(data []float64, label int, weight float64) *VectorPoint {
	return &VectorPoint{data: data, label: label, weight: weight}
}

func (p *VectorPoint) Data() []float64        { return p.data }
func (p *VectorPoint) Label() int             { return p.label }
func (p *VectorPoint) Weight() float64        { return p.weight }
func (p *VectorPoint) FeatureValue() float64  { return p.featureValue }
func (p *VectorPoint) SetFeatureValue(v float64) { p.featureValue = v }

// ImagePoint is a lazy pixel sample: it stores only the image reference
// and coordinates, materializing its per-channel vector on first Data call.
type ImagePoint struct {
	img          pixel.Image
	row, col     int
	label        int
	weight       float64
	data         []float64
	featureValue float64
}

// NewImagePoint creates a pixel sample with weight 1.
func NewImagePoint(img pixel.Image, row, col, label int) *ImagePoint {
	return &ImagePoint{img: img, row: row, col: col, label: label, weight: 1}
}

// Data materializes the per-channel pixel vector lazily.
func (p *ImagePoint) Data() []float64 {
	if p.data == nil {
		p.data = make([]float64, p.img.Channels())
		for c := range p.data {
			p.data[c] = p.img.At(p.row, p.col, c)
		}
	}
	return p.data
}

func (p *ImagePoint) Label() int                { return p.label }
func (p *ImagePoint) Weight() float64           { return p.weight }
func (p *ImagePoint) SetWeight(w float64)       { p.weight = w }
func (p *ImagePoint) FeatureValue() float64     { return p.featureValue }
func (p *ImagePoint) SetFeatureValue(v float64) { p.featureValue = v }

func (p *ImagePoint) Image() pixel.Image { return p.img }
func (p *ImagePoint) Row() int           { return p.row }
func (p *ImagePoint) Col() int           { return p.col }

var (
	_ Point       = (*VectorPoint)(nil)
	_ Point       = (*ImagePoint)(nil)
	_ ImageSample = (*ImagePoint)(nil)
)
