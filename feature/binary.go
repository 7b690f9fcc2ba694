package feature

import (
	"fmt"

	"github.com/groveml/grove/core/random"
	"github.com/groveml/grove/pkg/errors"
)

// BinaryOp combines two pixel readouts.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpLogRatio
)

func (op BinaryOp) apply(a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return errors.SafeDivide(a, b, Epsilon)
	case OpLogRatio:
		return errors.StabilizeLog(a, Epsilon) - errors.StabilizeLog(b, Epsilon)
	default:
		return a
	}
}

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpLogRatio:
		return "logratio"
	default:
		return "?"
	}
}

// BinaryPixel combines two pixel readouts at independent offsets and
// channels. Division clamps the denominator and log arguments are floored,
// so the response is always finite; offsets are clamped to image bounds.
type BinaryPixel struct {
	rowOffset1, colOffset1, channel1 int
	rowOffset2, colOffset2, channel2 int
	op                               BinaryOp
}

// NewBinaryPixel creates a two-pixel combination feature.
func NewBinaryPixel(r1, c1, ch1, r2, c2, ch2 int, op BinaryOp) *BinaryPixel {
	return &BinaryPixel{
		rowOffset1: r1, colOffset1: c1, channel1: ch1,
		rowOffset2: r2, colOffset2: c2, channel2: ch2,
		op: op,
	}
}

func (b *BinaryPixel) Compute(p Point) float64 {
	s := mustImage(p, b.Name())
	img := s.Image()
	v1 := img.At(clampCoord(s.Row()+b.rowOffset1, img.Rows()), clampCoord(s.Col()+b.colOffset1, img.Cols()), b.channel1)
	v2 := img.At(clampCoord(s.Row()+b.rowOffset2, img.Rows()), clampCoord(s.Col()+b.colOffset2, img.Cols()), b.channel2)
	return finite(b.op.apply(v1, v2))
}

func (b *BinaryPixel) Name() string {
	return fmt.Sprintf("binary[%s,ch%d,ch%d]", b.op, b.channel1, b.channel2)
}

// BinaryPixelFactory draws BinaryPixel features with independent offsets,
// channels, and a uniformly chosen operator.
type BinaryPixelFactory struct {
	rng         *random.Rand
	offsetRange int
	channels    int
	ops         []BinaryOp
}

// NewBinaryPixelFactory creates a binary pixel factory. With no ops given,
// all operators are drawn.
func NewBinaryPixelFactory(rng *random.Rand, offsetRange, channels int, ops ...BinaryOp) *BinaryPixelFactory {
	if len(ops) == 0 {
		ops = []BinaryOp{OpAdd, OpSub, OpMul, OpDiv, OpLogRatio}
	}
	return &BinaryPixelFactory{rng: rng, offsetRange: offsetRange, channels: channels, ops: ops}
}

func (f *BinaryPixelFactory) Create() Feature {
	return &BinaryPixel{
		rowOffset1: f.rng.IntRange(-f.offsetRange, f.offsetRange),
		colOffset1: f.rng.IntRange(-f.offsetRange, f.offsetRange),
		channel1:   f.rng.Intn(f.channels),
		rowOffset2: f.rng.IntRange(-f.offsetRange, f.offsetRange),
		colOffset2: f.rng.IntRange(-f.offsetRange, f.offsetRange),
		channel2:   f.rng.Intn(f.channels),
		op:         f.ops[f.rng.Intn(len(f.ops))],
	}
}

func (f *BinaryPixelFactory) IsProduct(ft Feature) bool {
	_, ok := ft.(*BinaryPixel)
	return ok
}

func (f *BinaryPixelFactory) Name() string { return "binary_pixel" }
