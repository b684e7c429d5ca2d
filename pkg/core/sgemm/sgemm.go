// Package sgemm multiplies a tall column-major float32 matrix by a narrow one.
//
// NarrowPadded computes out[n, m] (+)= sum over d of A[n, d] * B[d, m] for
// A of N×D, B of D×M and out of N×M, all column-major (strides N, D and N).
// N must be a multiple of 8; D and M must be multiples of the chosen Shape.
//
// Rows are processed in blocks of RowsPerBlock to keep the touched columns
// of A and out in cache. Inside a block the kernel broadcasts the
// ReadCols×WriteCols coefficients of B once, then walks 8-row stripes with
// the accumulators and broadcasts held in vector registers. Each output
// element receives its D fused multiply-adds in ascending d, so the result
// does not depend on RowsPerBlock.
package sgemm

import (
	"fmt"

	"github.com/sanonone/kektorsimd/pkg/core/avx"
)

// DefaultRowsPerBlock is the row-tile height used when no option overrides it.
const DefaultRowsPerBlock = 256

type options struct {
	accumulate   bool
	rowsPerBlock int
}

// Option configures a NarrowPadded call.
type Option func(*options)

// WithAccumulate adds the product to the existing contents of out instead of
// overwriting them.
func WithAccumulate(accumulate bool) Option {
	return func(o *options) {
		o.accumulate = accumulate
	}
}

// WithRowsPerBlock sets the row-tile height. It must be a positive multiple
// of 8.
func WithRowsPerBlock(rows int) Option {
	return func(o *options) {
		o.rowsPerBlock = rows
	}
}

// coefs holds the broadcast coefficients of one (read group, write group)
// pair, laid out as coefs[r*WriteCols+w] = B[d0+r, m0+w].
type coefs [maxReadCols * maxWriteCols]float32

// stripeKernel applies one (read group, write group) pair to nstripes 8-row
// stripes. a and out start at the first row of the stripe run in the group's
// first column; stride is N.
type stripeKernel func(a, out []float32, stride int, c *coefs, nstripes int)

// genericKernels is indexed like Shapes.
var genericKernels = [...]stripeKernel{
	stripes4x3Generic,
	stripes4x2Generic,
	stripes3x3Generic,
	stripes3x2Generic,
	stripes2x3Generic,
	stripes2x2Generic,
}

// kernels is replaced by the assembly table when avx.Accelerated.
var kernels = genericKernels

// NarrowPadded computes out = A·B, or out += A·B with WithAccumulate(true).
// a, b and out are column-major with len >= N·D, D·M and N·M; a and out must
// start on a 32-byte boundary (see avx.MakeFloat32s). b has no alignment
// requirement: its entries are read one at a time and broadcast.
//
// A violated precondition panics with an error wrapping ErrRowCount,
// ErrShape, ErrBufferSize, ErrAlignment or ErrRowsPerBlock.
func NarrowPadded(shape Shape, a, b []float32, n, d, m int, out []float32, opts ...Option) {
	o := options{rowsPerBlock: DefaultRowsPerBlock}
	for _, opt := range opts {
		opt(&o)
	}
	idx := shape.index()
	if idx < 0 {
		panic(fmt.Errorf("%w: %v is not a kernel shape", ErrShape, shape))
	}
	if err := check(shape, a, b, n, d, m, out, o.rowsPerBlock); err != nil {
		panic(err)
	}

	if !o.accumulate {
		clear(out[:n*m])
	}
	kernel := kernels[idx]
	r, w := shape.ReadCols, shape.WriteCols

	var c coefs
	for row := 0; row < n; row += o.rowsPerBlock {
		rows := min(o.rowsPerBlock, n-row)
		for j := 0; j < m; j += w {
			for k := 0; k < d; k += r {
				for kr := 0; kr < r; kr++ {
					for jw := 0; jw < w; jw++ {
						c[kr*w+jw] = b[(j+jw)*d+k+kr]
					}
				}
				kernel(a[k*n+row:], out[j*n+row:], n, &c, rows/avx.Lanes)
			}
		}
	}
}

// NarrowPaddedDefault is NarrowPadded with the shape chosen by SelectShape,
// no accumulation and the default row tile. It panics when no shape divides
// d and m.
func NarrowPaddedDefault(a, b []float32, n, d, m int, out []float32) {
	shape, err := SelectShape(d, m)
	if err != nil {
		panic(err)
	}
	NarrowPadded(shape, a, b, n, d, m, out)
}

// Validate reports whether (n, d, m) can be handed to NarrowPaddedDefault.
// It checks dimensions only; buffers are checked when the kernel runs.
func Validate(n, d, m int) error {
	if n < 0 || d < 0 || m < 0 {
		return fmt.Errorf("%w: negative dimension N=%d D=%d M=%d", ErrShape, n, d, m)
	}
	if n%avx.Lanes != 0 {
		return fmt.Errorf("%w: N=%d", ErrRowCount, n)
	}
	_, err := SelectShape(d, m)
	return err
}

func check(shape Shape, a, b []float32, n, d, m int, out []float32, rowsPerBlock int) error {
	switch {
	case n < 0 || d < 0 || m < 0:
		return fmt.Errorf("%w: negative dimension N=%d D=%d M=%d", ErrShape, n, d, m)
	case n%avx.Lanes != 0:
		return fmt.Errorf("%w: N=%d", ErrRowCount, n)
	case !shape.Divides(d, m):
		return fmt.Errorf("%w: D=%d M=%d for shape %v", ErrShape, d, m, shape)
	case rowsPerBlock <= 0 || rowsPerBlock%avx.Lanes != 0:
		return fmt.Errorf("%w: got %d", ErrRowsPerBlock, rowsPerBlock)
	case len(a) < n*d:
		return fmt.Errorf("%w: A has %d elements, need %d", ErrBufferSize, len(a), n*d)
	case len(b) < d*m:
		return fmt.Errorf("%w: B has %d elements, need %d", ErrBufferSize, len(b), d*m)
	case len(out) < n*m:
		return fmt.Errorf("%w: out has %d elements, need %d", ErrBufferSize, len(out), n*m)
	case !avx.Aligned(a):
		return fmt.Errorf("%w: A", ErrAlignment)
	case !avx.Aligned(out):
		return fmt.Errorf("%w: out", ErrAlignment)
	}
	return nil
}

//go:generate go run ./gen -out sgemm_amd64.s -stubs stubs_amd64.go -pkg sgemm
