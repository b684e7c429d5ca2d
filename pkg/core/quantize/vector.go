package quantize

import (
	"fmt"
	"unsafe"

	"github.com/sanonone/kektorsimd/pkg/core/avx"
	"github.com/x448/float16"
)

// QuantizeVector quantizes src into dst one block at a time. A final partial
// block is staged in a zero-padded buffer, so src may have any length.
// It panics if len(dst) < len(src).
func QuantizeVector(dst []byte, src []float32, p Params, signed bool) {
	if len(dst) < len(src) {
		panic(fmt.Sprintf("quantize: dst has %d bytes, need %d", len(dst), len(src)))
	}
	i := 0
	for ; i+BlockSize <= len(src); i += BlockSize {
		q := QuantizeBlock(src[i:], p, signed)
		copy(dst[i:], q[:])
	}
	if i < len(src) {
		var tail [BlockSize]float32
		copy(tail[:], src[i:])
		q := QuantizeBlock(tail[:], p, signed)
		copy(dst[i:len(src)], q[:])
	}
}

// QuantizeVectorInt8 is QuantizeVector with signed output written as int8.
func QuantizeVectorInt8(dst []int8, src []float32, p Params) {
	QuantizeVector(int8Bytes(dst), src, p, true)
}

// QuantizeFloat16 quantizes half-precision values (IEEE 754 binary16 bits).
func QuantizeFloat16(dst []byte, src []uint16, p Params, signed bool) {
	if len(dst) < len(src) {
		panic(fmt.Sprintf("quantize: dst has %d bytes, need %d", len(dst), len(src)))
	}
	var block [BlockSize]float32
	for i := 0; i < len(src); i += BlockSize {
		n := min(BlockSize, len(src)-i)
		for j := 0; j < n; j++ {
			block[j] = float16.Frombits(src[i+j]).Float32()
		}
		clear(block[n:])
		q := QuantizeBlock(block[:], p, signed)
		copy(dst[i:i+n], q[:n])
	}
}

// Dequantize maps codes back to floats with x = (q - offset) / scale, using
// the lane of p that matches each element's position modulo 8. Lanes with a
// zero scale decode to zero.
func Dequantize(dst []float32, src []byte, p Params, signed bool) {
	if len(dst) < len(src) {
		panic(fmt.Sprintf("quantize: dst has %d floats, need %d", len(dst), len(src)))
	}
	for i, b := range src {
		lane := i % avx.Lanes
		scale := p.Scales[lane]
		if scale == 0 {
			dst[i] = 0
			continue
		}
		q := float32(b)
		if signed {
			q = float32(int8(b))
		}
		dst[i] = (q - p.Offsets[lane]) / scale
	}
}

// DequantizeInt8 is Dequantize for signed codes stored as int8.
func DequantizeInt8(dst []float32, src []int8, p Params) {
	Dequantize(dst, int8Bytes(src), p, true)
}

func int8Bytes(s []int8) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}
