// Package distance provides functions for calculating vector distances.
// It supports the Euclidean and Cosine metrics over float32 and float16
// vectors and over the 8-bit codes produced by package quantize.
//
// float32 metrics go through Gonum's BLAS, which handles SIMD dispatch
// internally. Code metrics accumulate in int32.
package distance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/x448/float16"
	"gonum.org/v1/gonum/blas/gonum"
)

// DistanceMetric defines the type of distance calculation to perform.
type DistanceMetric string

// PrecisionType defines the data type used for vector storage and calculations.
type PrecisionType string

const (
	// Euclidean represents the squared Euclidean distance metric.
	Euclidean DistanceMetric = "euclidean"
	// Cosine represents the cosine distance metric (1 - cosine similarity).
	// On 8-bit codes it is the raw dot product, a similarity.
	Cosine DistanceMetric = "cosine"

	Float32 PrecisionType = "float32"
	Float16 PrecisionType = "float16"
	// Int8 is signed quantized codes.
	Int8 PrecisionType = "int8"
	// Uint8 is unsigned quantized codes.
	Uint8 PrecisionType = "uint8"
)

// ErrLengthMismatch is returned when two vectors have different lengths.
var ErrLengthMismatch = errors.New("vectors must have the same length")

type DistanceFuncF32 func(v1, v2 []float32) (float64, error)
type DistanceFuncF16 func(v1, v2 []uint16) (float64, error)
type DistanceFuncI8 func(v1, v2 []int8) (int32, error)
type DistanceFuncU8 func(v1, v2 []byte) (int32, error)

// diffWorkspace is a pool of float32 slices used to avoid allocations in
// squaredEuclideanGonum.
var diffWorkspace = sync.Pool{
	New: func() interface{} {
		s := make([]float32, 1536)
		return &s
	},
}

var gonumEngine = gonum.Implementation{}

// squaredEuclideanGonum computes |v1-v2|² as Saxpy then Sdot.
func squaredEuclideanGonum(v1, v2 []float32) (float64, error) {
	n := len(v1)
	if n != len(v2) {
		return 0, ErrLengthMismatch
	}

	diffPtr := diffWorkspace.Get().(*[]float32)
	defer diffWorkspace.Put(diffPtr)
	if cap(*diffPtr) < n {
		*diffPtr = make([]float32, n)
	}
	diff := (*diffPtr)[:n]

	copy(diff, v1)
	gonumEngine.Saxpy(n, -1, v2, 1, diff, 1)
	dot := gonumEngine.Sdot(n, diff, 1, diff, 1)
	return float64(dot), nil
}

// dotProductAsDistanceGonum is the Cosine metric on normalized data.
func dotProductAsDistanceGonum(v1, v2 []float32) (float64, error) {
	if len(v1) != len(v2) {
		return 0, ErrLengthMismatch
	}
	dot := gonumEngine.Sdot(len(v1), v1, 1, v2, 1)
	return 1.0 - float64(dot), nil
}

func squaredEuclideanFloat16(v1, v2 []uint16) (float64, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("float16: %w", ErrLengthMismatch)
	}
	var sum float32
	for i := range v1 {
		diff := float16.Frombits(v1[i]).Float32() - float16.Frombits(v2[i]).Float32()
		sum += diff * diff
	}
	return float64(sum), nil
}

func dotProductAsDistanceFloat16(v1, v2 []uint16) (float64, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("float16: %w", ErrLengthMismatch)
	}
	var sum float32
	for i := range v1 {
		sum += float16.Frombits(v1[i]).Float32() * float16.Frombits(v2[i]).Float32()
	}
	return 1.0 - float64(sum), nil
}

func dotProductInt8(v1, v2 []int8) (int32, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("int8: %w", ErrLengthMismatch)
	}
	var sum int32
	for i := range v1 {
		sum += int32(v1[i]) * int32(v2[i])
	}
	return sum, nil
}

func squaredEuclideanInt8(v1, v2 []int8) (int32, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("int8: %w", ErrLengthMismatch)
	}
	var sum int32
	for i := range v1 {
		d := int32(v1[i]) - int32(v2[i])
		sum += d * d
	}
	return sum, nil
}

func dotProductUint8(v1, v2 []byte) (int32, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("uint8: %w", ErrLengthMismatch)
	}
	var sum int32
	for i := range v1 {
		sum += int32(v1[i]) * int32(v2[i])
	}
	return sum, nil
}

func squaredEuclideanUint8(v1, v2 []byte) (int32, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("uint8: %w", ErrLengthMismatch)
	}
	var sum int32
	for i := range v1 {
		d := int32(v1[i]) - int32(v2[i])
		sum += d * d
	}
	return sum, nil
}

// --- Function Catalogs and Dispatchers ---

var float32Funcs = map[DistanceMetric]DistanceFuncF32{
	Euclidean: squaredEuclideanGonum,
	Cosine:    dotProductAsDistanceGonum,
}

var float16Funcs = map[DistanceMetric]DistanceFuncF16{
	Euclidean: squaredEuclideanFloat16,
	Cosine:    dotProductAsDistanceFloat16,
}

var int8Funcs = map[DistanceMetric]DistanceFuncI8{
	Euclidean: squaredEuclideanInt8,
	Cosine:    dotProductInt8,
}

var uint8Funcs = map[DistanceMetric]DistanceFuncU8{
	Euclidean: squaredEuclideanUint8,
	Cosine:    dotProductUint8,
}

// GetFloat32Func returns the float32 implementation of metric.
func GetFloat32Func(metric DistanceMetric) (DistanceFuncF32, error) {
	fn, ok := float32Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for float32 precision", metric)
	}
	return fn, nil
}

// GetFloat16Func returns the float16 implementation of metric.
func GetFloat16Func(metric DistanceMetric) (DistanceFuncF16, error) {
	fn, ok := float16Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for float16 precision", metric)
	}
	return fn, nil
}

// GetInt8Func returns the int8 implementation of metric.
func GetInt8Func(metric DistanceMetric) (DistanceFuncI8, error) {
	fn, ok := int8Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for int8 precision", metric)
	}
	return fn, nil
}

// GetUint8Func returns the uint8 implementation of metric.
func GetUint8Func(metric DistanceMetric) (DistanceFuncU8, error) {
	fn, ok := uint8Funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported for uint8 precision", metric)
	}
	return fn, nil
}
