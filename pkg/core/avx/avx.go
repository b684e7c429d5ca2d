// Package avx models 256-bit AVX2 registers as fixed-size Go arrays and provides
// the lane primitives the quantization and matrix kernels are built on.
//
// Every operation has a portable implementation with the exact lane semantics
// of the corresponding AVX2 instruction. On amd64 CPUs with AVX2 and FMA3 the
// operations whose speed matters (fused multiply-add, the horizontal minimum)
// run hand-written assembly generated by ./gen. Both paths produce
// bit-identical results, so callers never observe which one ran.
package avx

const (
	// Width is the register width in bytes. Buffers handed to the kernels
	// must be aligned to it.
	Width = 32

	// Lanes is the number of float32 (or int32) lanes in a register.
	Lanes = 8
)

// F32x8 is a register of eight float32 lanes.
type F32x8 [8]float32

// I32x8 is a register of eight int32 lanes.
type I32x8 [8]int32

// I16x16 is a register of sixteen int16 lanes.
type I16x16 [16]int16

// U8x32 is a register viewed as 32 raw bytes. The pack operations write both
// signed (two's complement) and unsigned 8-bit results into it; use Int8 to
// reinterpret the lanes as signed.
type U8x32 [32]uint8

// I8x32 is a register of 32 signed bytes.
type I8x32 [32]int8

// Int8 reinterprets the bytes of v as signed lanes.
func (v U8x32) Int8() I8x32 {
	var r I8x32
	for i, b := range v {
		r[i] = int8(b)
	}
	return r
}

// Set1F32 broadcasts x into every lane.
func Set1F32(x float32) F32x8 {
	return F32x8{x, x, x, x, x, x, x, x}
}

// Set1I32 broadcasts x into every lane.
func Set1I32(x int32) I32x8 {
	return I32x8{x, x, x, x, x, x, x, x}
}

// LoadF32x8 reads the first eight floats of s. It panics if len(s) < 8.
func LoadF32x8(s []float32) F32x8 {
	return F32x8(s[:Lanes])
}

// LoadI32x8 reads the first eight int32 values of s. It panics if len(s) < 8.
func LoadI32x8(s []int32) I32x8 {
	return I32x8(s[:Lanes])
}

// Store writes the lanes of v to dst[:8].
func (v F32x8) Store(dst []float32) {
	copy(dst[:Lanes], v[:])
}

// Store writes the lanes of v to dst[:8].
func (v I32x8) Store(dst []int32) {
	copy(dst[:Lanes], v[:])
}

// FirstF32 returns the lowest lane of v.
func FirstF32(v F32x8) float32 {
	return v[0]
}

// FirstI32 returns the lowest lane of v.
func FirstI32(v I32x8) int32 {
	return v[0]
}

// AddF32 adds two registers lane-wise.
func AddF32(a, b F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

// FMA returns a*b+c for every lane, rounded once.
func FMA(a, b, c F32x8) F32x8 {
	return fmaImpl(a, b, c)
}

// BroadcastMin returns a register holding the minimum lane of a in every lane.
func BroadcastMin(a I32x8) I32x8 {
	return broadcastMinImpl(a)
}
