package avx

import (
	"math"
)

// The functions in this file reproduce single AVX2 instructions lane for lane,
// including their 128-bit lane split. They are the portable path and the
// reference the assembly is tested against.

// MinI32 is VPMINSD.
func MinI32(a, b I32x8) I32x8 {
	var r I32x8
	for i := range r {
		r[i] = min(a[i], b[i])
	}
	return r
}

// Permute2x128 is VPERM2I128. Each nibble of imm selects the source of one
// 128-bit half of the result: 0 and 1 are the halves of a, 2 and 3 the halves
// of b; bit 3 of the nibble zeroes the half.
func Permute2x128(a, b I32x8, imm uint8) I32x8 {
	var r I32x8
	for half := 0; half < 2; half++ {
		ctl := imm >> (4 * half)
		if ctl&0x8 != 0 {
			continue
		}
		src := a
		if ctl&0x2 != 0 {
			src = b
		}
		from := int(ctl&0x1) * 4
		copy(r[half*4:half*4+4], src[from:from+4])
	}
	return r
}

// ShuffleI32 is VPSHUFD: every 2-bit field of imm picks a dword from the same
// 128-bit lane.
func ShuffleI32(v I32x8, imm uint8) I32x8 {
	var r I32x8
	for lane := 0; lane < 8; lane += 4 {
		for i := 0; i < 4; i++ {
			r[lane+i] = v[lane+int(imm>>(2*i))&0x3]
		}
	}
	return r
}

// Shuffle builds the immediate for ShuffleI32 and Permute4x64, like the
// _MM_SHUFFLE macro: the result picks element w first and z last.
func Shuffle(z, y, x, w uint8) uint8 {
	return z<<6 | y<<4 | x<<2 | w
}

// CvtF32ToI32 is VCVTPS2DQ under the default MXCSR: round half to even,
// NaN and values outside the int32 range become math.MinInt32.
func CvtF32ToI32(v F32x8) I32x8 {
	var r I32x8
	for i, x := range v {
		r[i] = cvtRoundEven(x)
	}
	return r
}

func cvtRoundEven(x float32) int32 {
	f := float64(x)
	if f != f || f >= 1<<31 || f < -(1<<31) {
		return math.MinInt32
	}
	return int32(math.RoundToEven(f))
}

// PackI32ToI16 is VPACKSSDW. Inside each 128-bit lane the four saturated
// dwords of a come first, followed by the four of b.
func PackI32ToI16(a, b I32x8) I16x16 {
	var r I16x16
	for i := 0; i < 4; i++ {
		r[i] = sat16(a[i])
		r[4+i] = sat16(b[i])
		r[8+i] = sat16(a[4+i])
		r[12+i] = sat16(b[4+i])
	}
	return r
}

// PackI16ToI8 is VPACKSSWB; the result bytes are two's complement.
func PackI16ToI8(a, b I16x16) U8x32 {
	var r U8x32
	for i := 0; i < 8; i++ {
		r[i] = uint8(sat8(a[i]))
		r[8+i] = uint8(sat8(b[i]))
		r[16+i] = uint8(sat8(a[8+i]))
		r[24+i] = uint8(sat8(b[8+i]))
	}
	return r
}

// PackI16ToU8 is VPACKUSWB: signed words saturate to [0, 255].
func PackI16ToU8(a, b I16x16) U8x32 {
	var r U8x32
	for i := 0; i < 8; i++ {
		r[i] = satU8(a[i])
		r[8+i] = satU8(b[i])
		r[16+i] = satU8(a[8+i])
		r[24+i] = satU8(b[8+i])
	}
	return r
}

// PermuteVar8x32 is VPERMD over the eight dwords of v.
func PermuteVar8x32(v U8x32, idx I32x8) U8x32 {
	var r U8x32
	for i, j := range idx {
		src := int(j&0x7) * 4
		copy(r[i*4:i*4+4], v[src:src+4])
	}
	return r
}

// Permute4x64 is VPERMQ: every 2-bit field of imm picks a qword of v.
func Permute4x64(v U8x32, imm uint8) U8x32 {
	var r U8x32
	for i := 0; i < 4; i++ {
		src := int(imm>>(2*i)&0x3) * 8
		copy(r[i*8:i*8+8], v[src:src+8])
	}
	return r
}

// ShuffleBytes is VPSHUFB: byte i takes v[lane+idx[i]&15] from its own 128-bit
// lane, or zero when the high bit of idx[i] is set.
func ShuffleBytes(v, idx U8x32) U8x32 {
	var r U8x32
	for i, j := range idx {
		if j&0x80 != 0 {
			continue
		}
		lane := i &^ 0xf
		r[i] = v[lane+int(j&0xf)]
	}
	return r
}

func sat16(x int32) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}

func sat8(x int16) int8 {
	if x > math.MaxInt8 {
		return math.MaxInt8
	}
	if x < math.MinInt8 {
		return math.MinInt8
	}
	return int8(x)
}

func satU8(x int16) uint8 {
	if x > math.MaxUint8 {
		return math.MaxUint8
	}
	if x < 0 {
		return 0
	}
	return uint8(x)
}
