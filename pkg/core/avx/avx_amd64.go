//go:build amd64 && !noasm

package avx

const asmAvailable = true

func init() {
	if accelerated {
		fmaImpl = fmaAVX2
		broadcastMinImpl = broadcastMinAVX2
	}
}

func fmaAVX2(a, b, c F32x8) F32x8 {
	fmaddF32x8(&c, &a, &b)
	return c
}

func broadcastMinAVX2(a I32x8) I32x8 {
	var r I32x8
	broadcastMinI32x8(&r, &a)
	return r
}
