//go:build amd64 && !noasm

package sgemm

import (
	"github.com/sanonone/kektorsimd/pkg/core/avx"
)

func init() {
	if avx.Accelerated() {
		kernels = [...]stripeKernel{
			stripes4x3AVX2,
			stripes4x2AVX2,
			stripes3x3AVX2,
			stripes3x2AVX2,
			stripes2x3AVX2,
			stripes2x2AVX2,
		}
	}
}

func stripes4x3AVX2(a, out []float32, stride int, c *coefs, nstripes int) {
	if nstripes > 0 {
		narrowStripes4x3(&a[0], &out[0], uintptr(stride)*4, c, nstripes)
	}
}

func stripes4x2AVX2(a, out []float32, stride int, c *coefs, nstripes int) {
	if nstripes > 0 {
		narrowStripes4x2(&a[0], &out[0], uintptr(stride)*4, c, nstripes)
	}
}

func stripes3x3AVX2(a, out []float32, stride int, c *coefs, nstripes int) {
	if nstripes > 0 {
		narrowStripes3x3(&a[0], &out[0], uintptr(stride)*4, c, nstripes)
	}
}

func stripes3x2AVX2(a, out []float32, stride int, c *coefs, nstripes int) {
	if nstripes > 0 {
		narrowStripes3x2(&a[0], &out[0], uintptr(stride)*4, c, nstripes)
	}
}

func stripes2x3AVX2(a, out []float32, stride int, c *coefs, nstripes int) {
	if nstripes > 0 {
		narrowStripes2x3(&a[0], &out[0], uintptr(stride)*4, c, nstripes)
	}
}

func stripes2x2AVX2(a, out []float32, stride int, c *coefs, nstripes int) {
	if nstripes > 0 {
		narrowStripes2x2(&a[0], &out[0], uintptr(stride)*4, c, nstripes)
	}
}
