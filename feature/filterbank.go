package feature

import (
	"fmt"

	"github.com/groveml/grove/core/random"
)

// FilterResponse reads a precomputed filter-bank response at an offset
// location. The filter bank itself is external: a contiguous block of
// image channels is treated as the per-filter response planes, and this
// feature looks one of them up. Offsets are clamped to the image bounds.
type FilterResponse struct {
	filter    int // absolute channel index of the response plane
	rowOffset int
	colOffset int
}

// NewFilterResponse creates a filter-bank lookup feature.
func NewFilterResponse(filter, rowOffset, colOffset int) *FilterResponse {
	return &FilterResponse{filter: filter, rowOffset: rowOffset, colOffset: colOffset}
}

func (fr *FilterResponse) Compute(p Point) float64 {
	s := mustImage(p, fr.Name())
	img := s.Image()
	r := clampCoord(s.Row()+fr.rowOffset, img.Rows())
	c := clampCoord(s.Col()+fr.colOffset, img.Cols())
	return finite(img.At(r, c, fr.filter))
}

func (fr *FilterResponse) Name() string {
	return fmt.Sprintf("filter[%d,%d,%d]", fr.filter, fr.rowOffset, fr.colOffset)
}

// FilterBankFactory draws FilterResponse features over the channel block
// [firstFilter, firstFilter+numFilters).
type FilterBankFactory struct {
	rng         *random.Rand
	firstFilter int
	numFilters  int
	offsetRange int
}

// NewFilterBankFactory creates a filter-bank factory.
func NewFilterBankFactory(rng *random.Rand, firstFilter, numFilters, offsetRange int) *FilterBankFactory {
	return &FilterBankFactory{rng: rng, firstFilter: firstFilter, numFilters: numFilters, offsetRange: offsetRange}
}

func (f *FilterBankFactory) Create() Feature {
	return &FilterResponse{
		filter:    f.firstFilter + f.rng.Intn(f.numFilters),
		rowOffset: f.rng.IntRange(-f.offsetRange, f.offsetRange),
		colOffset: f.rng.IntRange(-f.offsetRange, f.offsetRange),
	}
}

func (f *FilterBankFactory) IsProduct(ft Feature) bool {
	_, ok := ft.(*FilterResponse)
	return ok
}

func (f *FilterBankFactory) Name() string { return "filter_bank" }
