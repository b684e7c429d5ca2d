// Command gen emits quantize_amd64.s and stubs_amd64.go with avo.
//
//	go generate ./pkg/core/quantize
package main

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	"github.com/mmcloughlin/avo/reg"
)

var dwordRepair, byteRepair Mem

func main() {
	Package("github.com/sanonone/kektorsimd/pkg/core/quantize")
	ConstraintExpr("amd64,!noasm")

	dwordRepair = GLOBL("dwordRepair", RODATA|NOPTR)
	for i, v := range []uint32{0, 4, 1, 5, 2, 6, 3, 7} {
		DATA(4*i, U32(v))
	}
	byteRepair = GLOBL("byteRepair", RODATA|NOPTR)
	for i := 0; i < 4; i += 2 {
		DATA(8*i, U64(0x0b0a090803020100))
		DATA(8*(i+1), U64(0x0f0e0d0c07060504))
	}

	quantizeBlock("quantizeBlockSigned", "signed", VPACKSSWB)
	quantizeBlock("quantizeBlockUnsigned", "unsigned", VPACKUSWB)
	merge("merge16To8Signed", "signed", VPACKSSWB)
	merge("merge16To8Unsigned", "unsigned", VPACKUSWB)

	Generate()
}

type packFunc func(ops ...Op)

// quantizeBlock: four FMAs, four conversions, two 32→16 packs, one 16→8 pack
// and the dword permutation that restores input order.
func quantizeBlock(name, kind string, pack packFunc) {
	TEXT(name, NOSPLIT, "func(dst *u8x32, x *[32]float32, p *Params)")
	Pragma("noescape")
	Doc(name + " quantizes 32 floats into " + kind + " saturated bytes.")

	dst := Load(Param("dst"), GP64())
	x := Load(Param("x"), GP64())
	p := Load(Param("p"), GP64())

	scales, offsets := YMM(), YMM()
	VMOVUPS(Mem{Base: p}, scales)
	VMOVUPS(Mem{Base: p, Disp: 32}, offsets)

	var g [4]reg.VecVirtual
	for i := range g {
		g[i] = YMM()
		VMOVUPS(Mem{Base: x, Disp: 32 * i}, g[i])
	}
	for i := range g {
		VFMADD213PS(offsets, scales, g[i])
	}
	for i := range g {
		VCVTPS2DQ(g[i], g[i])
	}
	VPACKSSDW(g[1], g[0], g[0])
	VPACKSSDW(g[3], g[2], g[2])
	pack(g[2], g[0], g[0])

	idx := YMM()
	VMOVDQU(dwordRepair, idx)
	VPERMD(g[0], idx, g[0])
	VMOVDQU(g[0], Mem{Base: dst})
	VZEROUPPER()
	RET()
}

// merge: 16→8 pack, qword permutation (3,1,2,0), in-lane byte shuffle.
func merge(name, kind string, pack packFunc) {
	TEXT(name, NOSPLIT, "func(dst *u8x32, a, b *i16x16)")
	Pragma("noescape")
	Doc(name + " narrows two packed 16-bit registers into " + kind + " bytes in input order.")

	dst := Load(Param("dst"), GP64())
	a := Load(Param("a"), GP64())
	b := Load(Param("b"), GP64())

	va, vb := YMM(), YMM()
	VMOVDQU(Mem{Base: a}, va)
	VMOVDQU(Mem{Base: b}, vb)
	pack(vb, va, va)
	VPERMQ(Imm(0xd8), va, va)
	VPSHUFB(byteRepair, va, va)
	VMOVDQU(va, Mem{Base: dst})
	VZEROUPPER()
	RET()
}
