package sgemm

import (
	"github.com/sanonone/kektorsimd/pkg/core/avx"
)

func stripes4x3Generic(a, out []float32, stride int, c *coefs, nstripes int) {
	stripesGeneric(4, 3, a, out, stride, c, nstripes)
}

func stripes4x2Generic(a, out []float32, stride int, c *coefs, nstripes int) {
	stripesGeneric(4, 2, a, out, stride, c, nstripes)
}

func stripes3x3Generic(a, out []float32, stride int, c *coefs, nstripes int) {
	stripesGeneric(3, 3, a, out, stride, c, nstripes)
}

func stripes3x2Generic(a, out []float32, stride int, c *coefs, nstripes int) {
	stripesGeneric(3, 2, a, out, stride, c, nstripes)
}

func stripes2x3Generic(a, out []float32, stride int, c *coefs, nstripes int) {
	stripesGeneric(2, 3, a, out, stride, c, nstripes)
}

func stripes2x2Generic(a, out []float32, stride int, c *coefs, nstripes int) {
	stripesGeneric(2, 2, a, out, stride, c, nstripes)
}

// stripesGeneric follows the register schedule of the assembly kernels:
// broadcasts first, then per stripe load the accumulators, fold in one A
// column at a time and store.
func stripesGeneric(r, w int, a, out []float32, stride int, c *coefs, nstripes int) {
	var bcast [maxReadCols * maxWriteCols]avx.F32x8
	for i := 0; i < r*w; i++ {
		bcast[i] = avx.Set1F32(c[i])
	}

	var acc [maxWriteCols]avx.F32x8
	for s := 0; s < nstripes; s++ {
		row := s * avx.Lanes
		for jw := 0; jw < w; jw++ {
			acc[jw] = avx.LoadF32x8(out[jw*stride+row:])
		}
		for kr := 0; kr < r; kr++ {
			col := avx.LoadF32x8(a[kr*stride+row:])
			for jw := 0; jw < w; jw++ {
				acc[jw] = avx.FMA(col, bcast[kr*w+jw], acc[jw])
			}
		}
		for jw := 0; jw < w; jw++ {
			acc[jw].Store(out[jw*stride+row:])
		}
	}
}
