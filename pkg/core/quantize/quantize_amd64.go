//go:build amd64 && !noasm

package quantize

import (
	"github.com/sanonone/kektorsimd/pkg/core/avx"
)

func init() {
	if avx.Accelerated() {
		quantizeBlockImpl = quantizeBlockAVX2
		merge16To8Impl = merge16To8AVX2
	}
}

func quantizeBlockAVX2(x []float32, p *Params, signed bool) avx.U8x32 {
	var r avx.U8x32
	src := (*[BlockSize]float32)(x)
	if signed {
		quantizeBlockSigned(&r, src, p)
	} else {
		quantizeBlockUnsigned(&r, src, p)
	}
	return r
}

func merge16To8AVX2(a, b *avx.I16x16, signed bool) avx.U8x32 {
	var r avx.U8x32
	if signed {
		merge16To8Signed(&r, a, b)
	} else {
		merge16To8Unsigned(&r, a, b)
	}
	return r
}
