// Command gen emits avx_amd64.s and stubs_amd64.go with avo.
//
//	go generate ./pkg/core/avx
package main

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
)

func main() {
	Package("github.com/sanonone/kektorsimd/pkg/core/avx")
	ConstraintExpr("amd64,!noasm")

	fmadd()
	broadcastMin()

	Generate()
}

// fmadd keeps the accumulator in the destination operand so the single
// VFMADD231PS rounds once.
func fmadd() {
	TEXT("fmaddF32x8", NOSPLIT, "func(dst, a, b *F32x8)")
	Pragma("noescape")
	Doc("fmaddF32x8 computes dst = a*b + dst with a single VFMADD231PS.")

	dst := Load(Param("dst"), GP64())
	a := Load(Param("a"), GP64())
	b := Load(Param("b"), GP64())

	acc, va, vb := YMM(), YMM(), YMM()
	VMOVUPS(Mem{Base: dst}, acc)
	VMOVUPS(Mem{Base: a}, va)
	VMOVUPS(Mem{Base: b}, vb)
	VFMADD231PS(vb, va, acc)
	VMOVUPS(acc, Mem{Base: dst})
	VZEROUPPER()
	RET()
}

// broadcastMin is the three step butterfly: swap 128-bit halves, swap 64-bit
// pairs, swap adjacent dwords, taking the minimum after each swap.
func broadcastMin() {
	TEXT("broadcastMinI32x8", NOSPLIT, "func(dst, a *I32x8)")
	Pragma("noescape")
	Doc("broadcastMinI32x8 writes the minimum lane of a to every lane of dst.")

	dst := Load(Param("dst"), GP64())
	a := Load(Param("a"), GP64())

	v, t := YMM(), YMM()
	VMOVDQU(Mem{Base: a}, v)
	VPERM2I128(Imm(0x01), v, v, t)
	VPMINSD(t, v, v)
	VPSHUFD(Imm(0x4e), v, t)
	VPMINSD(t, v, v)
	VPSHUFD(Imm(0xb1), v, t)
	VPMINSD(t, v, v)
	VMOVDQU(v, Mem{Base: dst})
	VZEROUPPER()
	RET()
}
