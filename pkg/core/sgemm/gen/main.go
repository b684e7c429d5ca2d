// Command gen emits sgemm_amd64.s and stubs_amd64.go with avo.
//
//	go generate ./pkg/core/sgemm
//
// Every kernel uses fixed registers: accumulators in Y0..Y2, the current A
// column in Y3 and the broadcast coefficients from Y4 upwards, so the largest
// shape (4x3) fills all sixteen YMM registers without spilling.
package main

import (
	"fmt"

	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	. "github.com/mmcloughlin/avo/reg"
)

var shapes = [][2]int{{4, 3}, {4, 2}, {3, 3}, {3, 2}, {2, 3}, {2, 2}}

var ymm = []VecPhysical{Y0, Y1, Y2, Y3, Y4, Y5, Y6, Y7, Y8, Y9, Y10, Y11, Y12, Y13, Y14, Y15}

func main() {
	Package("github.com/sanonone/kektorsimd/pkg/core/sgemm")
	ConstraintExpr("amd64,!noasm")

	for _, s := range shapes {
		narrowStripes(s[0], s[1])
	}
	Generate()
}

func narrowStripes(r, w int) {
	name := fmt.Sprintf("narrowStripes%dx%d", r, w)
	TEXT(name, NOSPLIT, "func(a, out *float32, stride uintptr, c *coefs, nstripes int)")
	Pragma("noescape")
	Doc(fmt.Sprintf("%s updates %d output columns from %d input columns over nstripes 8-row stripes.", name, w, r))

	Load(Param("a"), RAX)
	Load(Param("out"), RBX)
	Load(Param("stride"), RCX)
	Load(Param("c"), RDX)
	Load(Param("nstripes"), RSI)

	// Column base pointers: A columns in AX, R8, R9, R10; out columns in BX, R11, R12.
	acol := []GPPhysical{RAX, R8, R9, R10}[:r]
	ocol := []GPPhysical{RBX, R11, R12}[:w]
	if r > 1 {
		LEAQ(Mem{Base: RAX, Index: RCX, Scale: 1}, R8)
	}
	if r > 2 {
		LEAQ(Mem{Base: RAX, Index: RCX, Scale: 2}, R9)
	}
	if r > 3 {
		LEAQ(Mem{Base: R8, Index: RCX, Scale: 2}, R10)
	}
	if w > 1 {
		LEAQ(Mem{Base: RBX, Index: RCX, Scale: 1}, R11)
	}
	if w > 2 {
		LEAQ(Mem{Base: RBX, Index: RCX, Scale: 2}, R12)
	}

	acc, col, bcast := ymm[:w], ymm[3], ymm[4:4+r*w]
	for i := range bcast {
		VBROADCASTSS(Mem{Base: RDX, Disp: 4 * i}, bcast[i])
	}

	TESTQ(RSI, RSI)
	JE(LabelRef("done"))
	XORQ(RDI, RDI)

	Label("loop")
	for j := range acc {
		VMOVUPS(Mem{Base: ocol[j], Index: RDI, Scale: 1}, acc[j])
	}
	for k := range acol {
		VMOVUPS(Mem{Base: acol[k], Index: RDI, Scale: 1}, col)
		for j := range acc {
			VFMADD231PS(bcast[k*w+j], col, acc[j])
		}
	}
	for j := range acc {
		VMOVUPS(acc[j], Mem{Base: ocol[j], Index: RDI, Scale: 1})
	}
	ADDQ(Imm(32), RDI)
	DECQ(RSI)
	JNE(LabelRef("loop"))

	Label("done")
	VZEROUPPER()
	RET()
}
