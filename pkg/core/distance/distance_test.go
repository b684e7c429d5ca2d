package distance

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/sanonone/kektorsimd/pkg/core/quantize"
	"github.com/x448/float16"
)

func normalizeTest(v []float32) {
	var norm float32
	for _, val := range v {
		norm += val * val
	}
	if norm > 0 {
		norm = float32(math.Sqrt(float64(norm)))
		for i := range v {
			v[i] /= norm
		}
	}
}

func floatsAreEqual(a, b float64) bool {
	const tolerance = 1e-6
	return math.Abs(a-b) < tolerance
}

func TestImplementations(t *testing.T) {
	t.Run("EuclideanF32", func(t *testing.T) {
		fn, _ := GetFloat32Func(Euclidean)
		v1, v2 := []float32{1, 2}, []float32{3, 4}
		expected := 8.0 // (3-1)^2 + (4-2)^2
		dist, _ := fn(v1, v2)
		if !floatsAreEqual(dist, expected) {
			t.Errorf("got %f, want %f", dist, expected)
		}
	})

	t.Run("CosineF32", func(t *testing.T) {
		fn, _ := GetFloat32Func(Cosine)
		v1 := []float32{1, 2, 3}
		normalizeTest(v1)
		v2 := append([]float32{}, v1...)
		dist, _ := fn(v1, v2)
		if !floatsAreEqual(dist, 0) {
			t.Errorf("got %.15f, want 0", dist)
		}
	})

	t.Run("EuclideanF16", func(t *testing.T) {
		fn, _ := GetFloat16Func(Euclidean)
		v1, v2 := toFloat16([]float32{1, 2}), toFloat16([]float32{3, 4})
		dist, _ := fn(v1, v2)
		if !floatsAreEqual(dist, 8) {
			t.Errorf("got %f, want 8", dist)
		}
	})

	t.Run("CosineF16", func(t *testing.T) {
		fn, _ := GetFloat16Func(Cosine)
		v := toFloat16([]float32{0.6, 0.8})
		dist, _ := fn(v, v)
		if math.Abs(dist) > 1e-3 {
			t.Errorf("got %f, want ~0", dist)
		}
	})

	t.Run("CosineInt8", func(t *testing.T) {
		fn, _ := GetInt8Func(Cosine)
		dist, _ := fn([]int8{10, 20}, []int8{2, 3})
		if dist != 80 { // 10*2 + 20*3
			t.Errorf("got %d, want 80", dist)
		}
	})

	t.Run("EuclideanInt8", func(t *testing.T) {
		fn, _ := GetInt8Func(Euclidean)
		dist, _ := fn([]int8{-128, 127}, []int8{127, -128})
		if dist != 2*255*255 {
			t.Errorf("got %d, want %d", dist, 2*255*255)
		}
	})

	t.Run("Uint8", func(t *testing.T) {
		euc, _ := GetUint8Func(Euclidean)
		cos, _ := GetUint8Func(Cosine)
		v1, v2 := []byte{0, 255, 10}, []byte{255, 0, 12}
		if d, _ := euc(v1, v2); d != 2*255*255+4 {
			t.Errorf("euclidean got %d", d)
		}
		if d, _ := cos(v1, v2); d != 120 {
			t.Errorf("cosine got %d, want 120", d)
		}
	})
}

func TestLengthMismatch(t *testing.T) {
	f32, _ := GetFloat32Func(Euclidean)
	if _, err := f32([]float32{1}, []float32{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("float32: got %v", err)
	}
	u8, _ := GetUint8Func(Cosine)
	if _, err := u8([]byte{1}, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("uint8: got %v", err)
	}
	if _, err := GetInt8Func("manhattan"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestEuclideanGonumLongVector(t *testing.T) {
	// Longer than the pooled workspace, so the pool slice is regrown.
	v1, v2 := generateVectors(3000)
	var want float64
	for i := range v1 {
		d := float64(v1[i] - v2[i])
		want += d * d
	}
	got, err := squaredEuclideanGonum(v1, v2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-want) > 1e-3*want {
		t.Errorf("got %f, want %f", got, want)
	}
}

func TestNearest(t *testing.T) {
	codes := [][]byte{
		{10, 10, 10, 10},
		{200, 0, 0, 0},
		{12, 9, 10, 11},
		{12, 9, 10, 11},
	}

	idx, err := Nearest([]byte{12, 9, 10, 10}, codes, Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Errorf("Euclidean nearest = %d, want 2", idx)
	}

	idx, err = Nearest([]byte{1, 0, 0, 0}, codes, Cosine)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Errorf("Cosine nearest = %d, want 1", idx)
	}

	if idx, _ := Nearest([]byte{1}, nil, Euclidean); idx != -1 {
		t.Errorf("empty codes: got %d, want -1", idx)
	}
	if _, err := Nearest([]byte{1, 2}, codes, Euclidean); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short query: got %v", err)
	}
}

// TestNearestOnQuantizedCodes checks that quantizing keeps a clear nearest
// neighbour in place.
func TestNearestOnQuantizedCodes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const dims, count = 64, 50
	p := quantize.Uniform(255.0/2, 127.5)

	vecs := make([][]float32, count)
	codes := make([][]byte, count)
	for i := range vecs {
		vecs[i] = make([]float32, dims)
		for j := range vecs[i] {
			vecs[i][j] = rng.Float32()*2 - 1
		}
		codes[i] = make([]byte, dims)
		quantize.QuantizeVector(codes[i], vecs[i], p, false)
	}

	const target = 17
	query := make([]float32, dims)
	for j := range query {
		query[j] = vecs[target][j] + (rng.Float32()-0.5)*0.01
	}
	qcode := make([]byte, dims)
	quantize.QuantizeVector(qcode, query, p, false)

	idx, err := Nearest(qcode, codes, Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	if idx != target {
		t.Errorf("nearest = %d, want %d", idx, target)
	}
}

func toFloat16(v []float32) []uint16 {
	out := make([]uint16, len(v))
	for i, f := range v {
		out[i] = float16.Fromfloat32(f).Bits()
	}
	return out
}

func generateVectors(dims int) ([]float32, []float32) {
	v1 := make([]float32, dims)
	v2 := make([]float32, dims)
	for i := 0; i < dims; i++ {
		v1[i] = rand.Float32()
		v2[i] = rand.Float32()
	}
	return v1, v2
}

func generateFloat16Vectors(dims int) ([]uint16, []uint16) {
	v1, v2 := generateVectors(dims)
	return toFloat16(v1), toFloat16(v2)
}

func generateUint8Vectors(dims int) ([]byte, []byte) {
	v1 := make([]byte, dims)
	v2 := make([]byte, dims)
	for i := 0; i < dims; i++ {
		v1[i] = byte(rand.Intn(256))
		v2[i] = byte(rand.Intn(256))
	}
	return v1, v2
}

func BenchmarkFloat32(b *testing.B) {
	eucFunc, _ := GetFloat32Func(Euclidean)
	cosFunc, _ := GetFloat32Func(Cosine)
	dims := []int{64, 128, 256, 512, 1024, 1536}

	for _, d := range dims {
		b.Run(fmt.Sprintf("Euclidean_%dD", d), func(b *testing.B) {
			v1, v2 := generateVectors(d)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				eucFunc(v1, v2)
			}
		})

		b.Run(fmt.Sprintf("Cosine_%dD", d), func(b *testing.B) {
			v1, v2 := generateVectors(d)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cosFunc(v1, v2)
			}
		})
	}
}

func BenchmarkFloat16(b *testing.B) {
	f16Func, _ := GetFloat16Func(Euclidean)
	for _, d := range []int{64, 128, 256, 512, 1024, 1536} {
		b.Run(fmt.Sprintf("Euclidean_%dD", d), func(b *testing.B) {
			v1, v2 := generateFloat16Vectors(d)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f16Func(v1, v2)
			}
		})
	}
}

func BenchmarkUint8(b *testing.B) {
	u8Func, _ := GetUint8Func(Euclidean)
	for _, d := range []int{64, 128, 256, 512, 1024} {
		b.Run(fmt.Sprintf("Euclidean_%dD", d), func(b *testing.B) {
			v1, v2 := generateUint8Vectors(d)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u8Func(v1, v2)
			}
		})
	}
}
