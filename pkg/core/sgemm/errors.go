package sgemm

import "errors"

// Precondition failures. NarrowPadded panics with an error wrapping one of
// these; Validate and SelectShape return them.
var (
	// ErrRowCount is returned when N is not a multiple of the 8-row stripe.
	ErrRowCount = errors.New("sgemm: row count must be a multiple of 8")
	// ErrShape is returned when D or M is not divisible by the kernel's group sizes.
	ErrShape = errors.New("sgemm: dimensions not divisible by kernel shape")
	// ErrUnsupportedShape is returned when no kernel shape divides D and M.
	ErrUnsupportedShape = errors.New("sgemm: no kernel shape for dimensions")
	ErrBufferSize       = errors.New("sgemm: buffer too small")
	ErrAlignment        = errors.New("sgemm: buffer not 32-byte aligned")
	ErrRowsPerBlock     = errors.New("sgemm: rows per block must be a positive multiple of 8")
)
