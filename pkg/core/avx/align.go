package avx

import (
	"unsafe"
)

// MakeFloat32s returns a zeroed slice of n floats whose first element sits on
// a Width-byte boundary. The Go heap does not move objects, so the alignment
// holds for the lifetime of the slice.
func MakeFloat32s(n int) []float32 {
	const pad = Width / 4
	buf := make([]float32, n+pad)
	off := 0
	if rem := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) % Width; rem != 0 {
		off = int(Width-rem) / 4
	}
	return buf[off : off+n : off+n]
}

// Aligned reports whether the first element of s sits on a Width-byte
// boundary. Empty slices are aligned.
func Aligned(s []float32) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))%Width == 0
}
