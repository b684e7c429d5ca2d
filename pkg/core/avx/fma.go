package avx

import (
	"math"
)

// FMA32 returns x*y+z rounded once to float32, the result VFMADD231PS
// produces for a single lane.
//
// The product of two float32 values is exact in float64. The sum is taken in
// float64 and its rounding error recovered with TwoSum; when the sum was
// inexact and landed on an even significand it is moved one ulp toward the
// exact value (round to odd). Rounding a round-to-odd float64 to float32 is
// then correctly rounded because float64 carries more than 24+2 bits.
func FMA32(x, y, z float32) float32 {
	p := float64(float64(x) * float64(y))
	c := float64(z)
	s := p + c
	if math.IsInf(s, 0) || math.IsNaN(s) {
		return float32(s)
	}
	bb := s - p
	e := (p - (s - bb)) + (c - bb)
	if e != 0 && math.Float64bits(s)&1 == 0 {
		if e > 0 {
			s = math.Nextafter(s, math.Inf(1))
		} else {
			s = math.Nextafter(s, math.Inf(-1))
		}
	}
	return float32(s)
}

func fmaGeneric(a, b, c F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = FMA32(a[i], b[i], c[i])
	}
	return r
}
