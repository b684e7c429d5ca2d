// Package quantize converts float32 vectors into packed 8-bit lanes with a
// per-call affine transform, for cheap distance evaluation over the codes.
//
// A block of 32 floats is scaled with a fused multiply-add, rounded to int32,
// then narrowed 32→16→8 bits with saturation. The two narrowing packs work
// inside 128-bit lanes and interleave their inputs, so every result goes
// through a fixed lane permutation that restores reading order. Values
// outside the 8-bit range clamp to its extremes; there is no error path.
package quantize

import (
	"github.com/sanonone/kektorsimd/pkg/core/avx"
)

// BlockSize is the number of floats one QuantizeBlock call consumes.
const BlockSize = 32

// Params is the affine transform q = x*scale + offset. Lane i of Scales and
// Offsets applies to every input element whose index is i modulo 8.
type Params struct {
	Scales  avx.F32x8
	Offsets avx.F32x8
}

// Uniform returns Params with the same scale and offset in every lane.
func Uniform(scale, offset float32) Params {
	return Params{Scales: avx.Set1F32(scale), Offsets: avx.Set1F32(offset)}
}

var (
	// dwordRepair undoes the interleave of the two packs in QuantizeBlock.
	// After PackI32ToI16 and PackI16ToI8 the dwords hold the groups in the
	// order [a0 b0 c0 d0 | a1 b1 c1 d1], where x0 is the low and x1 the high
	// half of group x; gathering dwords 0,4,1,5,... yields a b c d.
	dwordRepair = avx.I32x8{0, 4, 1, 5, 2, 6, 3, 7}

	// byteRepair is the in-lane half of the repair used by Merge16To8 after
	// the qword permutation (3,1,2,0): inside each 128-bit lane it swaps the
	// second and third dword.
	byteRepair = avx.U8x32{
		0, 1, 2, 3, 8, 9, 10, 11, 4, 5, 6, 7, 12, 13, 14, 15,
		0, 1, 2, 3, 8, 9, 10, 11, 4, 5, 6, 7, 12, 13, 14, 15,
	}

	qwordRepair = avx.Shuffle(3, 1, 2, 0)
)

// Register types as the assembly stubs name them.
type (
	u8x32  = avx.U8x32
	i16x16 = avx.I16x16
)

var (
	quantizeBlockImpl = quantizeBlockGeneric
	merge16To8Impl    = merge16To8Generic
)

// QuantizeBlock quantizes x[:32] into 32 bytes in input order. Signed output
// saturates to [-128, 127] (two's complement bytes), unsigned to [0, 255].
// It panics if len(x) < 32.
func QuantizeBlock(x []float32, p Params, signed bool) avx.U8x32 {
	_ = x[BlockSize-1]
	return quantizeBlockImpl(x[:BlockSize], &p, signed)
}

// QuantizeHalfBlock runs the first narrowing stage on x[:16]: it returns the
// 16-bit saturated values still in the pack's interleaved order, ready to be
// handed to Merge16To8. It panics if len(x) < 16.
func QuantizeHalfBlock(x []float32, p Params) avx.I16x16 {
	_ = x[BlockSize/2-1]
	a := avx.CvtF32ToI32(avx.FMA(avx.LoadF32x8(x), p.Scales, p.Offsets))
	b := avx.CvtF32ToI32(avx.FMA(avx.LoadF32x8(x[avx.Lanes:]), p.Scales, p.Offsets))
	return avx.PackI32ToI16(a, b)
}

// Merge16To8 narrows two QuantizeHalfBlock results into 32 bytes in input
// order, with the same saturation rules as QuantizeBlock.
func Merge16To8(a, b avx.I16x16, signed bool) avx.U8x32 {
	return merge16To8Impl(&a, &b, signed)
}

func quantizeBlockGeneric(x []float32, p *Params, signed bool) avx.U8x32 {
	var q [4]avx.I32x8
	for g := range q {
		v := avx.FMA(avx.LoadF32x8(x[g*avx.Lanes:]), p.Scales, p.Offsets)
		q[g] = avx.CvtF32ToI32(v)
	}
	ab := avx.PackI32ToI16(q[0], q[1])
	cd := avx.PackI32ToI16(q[2], q[3])
	return avx.PermuteVar8x32(pack16To8(ab, cd, signed), dwordRepair)
}

func merge16To8Generic(a, b *avx.I16x16, signed bool) avx.U8x32 {
	v := avx.Permute4x64(pack16To8(*a, *b, signed), qwordRepair)
	return avx.ShuffleBytes(v, byteRepair)
}

func pack16To8(a, b avx.I16x16, signed bool) avx.U8x32 {
	if signed {
		return avx.PackI16ToI8(a, b)
	}
	return avx.PackI16ToU8(a, b)
}

//go:generate go run ./gen -out quantize_amd64.s -stubs stubs_amd64.go -pkg quantize
