package quantize

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sanonone/kektorsimd/pkg/core/avx"
	"github.com/x448/float16"
)

// scalarCode is the per-element definition of the pipeline: one fused
// multiply-add, round half to even, clamp to the 8-bit range.
func scalarCode(x, scale, offset float32, signed bool) byte {
	f := float64(avx.FMA32(x, scale, offset))
	c := int64(math.MinInt32)
	if f == f && f < 1<<31 && f >= -(1<<31) {
		c = int64(math.RoundToEven(f))
	}
	if signed {
		return byte(int8(max(math.MinInt8, min(math.MaxInt8, c))))
	}
	return byte(max(0, min(math.MaxUint8, c)))
}

func randomParams(rng *rand.Rand) Params {
	var p Params
	for i := range p.Scales {
		p.Scales[i] = rng.Float32()*2 + 0.01
		p.Offsets[i] = rng.Float32()*20 - 10
	}
	return p
}

func randomFloats(rng *rand.Rand, n int, scale float32) []float32 {
	x := make([]float32, n)
	for i := range x {
		x[i] = (rng.Float32()*2 - 1) * scale
	}
	return x
}

func TestQuantizeBlockLaneOrder(t *testing.T) {
	x := make([]float32, BlockSize)
	var want avx.U8x32
	for i := range x {
		x[i] = float32(i)
		want[i] = uint8(i)
	}
	for _, signed := range []bool{true, false} {
		if got := QuantizeBlock(x, Uniform(1, 0), signed); got != want {
			t.Errorf("signed=%v: got %v, want %v", signed, got, want)
		}
	}
}

func TestQuantizeBlockMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 500; iter++ {
		p := randomParams(rng)
		x := randomFloats(rng, BlockSize, 200)
		for _, signed := range []bool{true, false} {
			got := QuantizeBlock(x, p, signed)
			if generic := quantizeBlockGeneric(x, &p, signed); generic != got {
				t.Fatalf("signed=%v: dispatched %v != generic %v", signed, got, generic)
			}
			for i := range x {
				want := scalarCode(x[i], p.Scales[i%8], p.Offsets[i%8], signed)
				if got[i] != want {
					t.Fatalf("signed=%v lane %d: x=%g got %d, want %d", signed, i, x[i], got[i], want)
				}
			}
		}
	}
}

func TestQuantizeBlockSaturates(t *testing.T) {
	x := make([]float32, BlockSize)
	for i := range x {
		if i%2 == 0 {
			x[i] = 500
		} else {
			x[i] = -500
		}
	}
	s := QuantizeBlock(x, Uniform(1, 0), true).Int8()
	u := QuantizeBlock(x, Uniform(1, 0), false)
	for i := range x {
		wantS, wantU := int8(math.MaxInt8), uint8(math.MaxUint8)
		if i%2 == 1 {
			wantS, wantU = math.MinInt8, 0
		}
		if s[i] != wantS || u[i] != wantU {
			t.Fatalf("lane %d: signed %d (want %d), unsigned %d (want %d)", i, s[i], wantS, u[i], wantU)
		}
	}
}

func TestMerge16To8(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for iter := 0; iter < 500; iter++ {
		p := randomParams(rng)
		x := randomFloats(rng, BlockSize, 300)
		lo, hi := QuantizeHalfBlock(x[:16], p), QuantizeHalfBlock(x[16:], p)
		for _, signed := range []bool{true, false} {
			want := QuantizeBlock(x, p, signed)
			if got := Merge16To8(lo, hi, signed); got != want {
				t.Fatalf("signed=%v: Merge16To8 %v, QuantizeBlock %v", signed, got, want)
			}
			if got := merge16To8Generic(&lo, &hi, signed); got != want {
				t.Fatalf("signed=%v: generic merge %v, QuantizeBlock %v", signed, got, want)
			}
		}
	}
}

// TestDwordRepairDerivation pushes tagged lanes through the two packs and
// checks that dwordRepair is exactly the inverse of where they land.
func TestDwordRepairDerivation(t *testing.T) {
	var g [4]avx.I32x8
	for i := range g {
		for j := range g[i] {
			g[i][j] = int32(i*8 + j)
		}
	}
	packed := avx.PackI16ToU8(avx.PackI32ToI16(g[0], g[1]), avx.PackI32ToI16(g[2], g[3]))

	var derived avx.I32x8
	for k := range derived {
		derived[k] = -1
		for j := 0; j < 8; j++ {
			if packed[j*4] == uint8(k*4) {
				derived[k] = int32(j)
			}
		}
	}
	if derived != dwordRepair {
		t.Fatalf("derived repair %v, constant %v", derived, dwordRepair)
	}
}

func TestQuantizeVector(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := randomParams(rng)
	for _, n := range []int{0, 1, 31, 32, 45, 96, 100} {
		src := randomFloats(rng, n, 50)
		dst := make([]byte, n+3)
		dst[n] = 0xaa
		QuantizeVector(dst, src, p, true)
		for i := range src {
			if want := scalarCode(src[i], p.Scales[i%8], p.Offsets[i%8], true); dst[i] != want {
				t.Fatalf("n=%d i=%d: got %d, want %d", n, i, dst[i], want)
			}
		}
		if dst[n] != 0xaa {
			t.Fatalf("n=%d: wrote past len(src)", n)
		}
	}
}

func TestQuantizeVectorShortDstPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	QuantizeVector(make([]byte, 3), make([]float32, 4), Uniform(1, 0), true)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	src := randomFloats(rng, 1000, 4)

	tests := []struct {
		name   string
		p      Params
		signed bool
	}{
		{"signed", Uniform(127.0/4, 0), true},
		{"unsigned", Uniform(255.0/8, 127.5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := make([]byte, len(src))
			back := make([]float32, len(src))
			QuantizeVector(codes, src, tt.p, tt.signed)
			Dequantize(back, codes, tt.p, tt.signed)

			step := 1 / tt.p.Scales[0]
			for i := range src {
				if diff := math.Abs(float64(back[i] - src[i])); diff > float64(step) {
					t.Fatalf("x=%g decoded %g, error %g exceeds step %g", src[i], back[i], diff, step)
				}
			}
		})
	}
}

func TestQuantizeFloat16(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	p := randomParams(rng)
	src := randomFloats(rng, 70, 30)
	half := make([]uint16, len(src))
	rounded := make([]float32, len(src))
	for i, v := range src {
		h := float16.Fromfloat32(v)
		half[i] = h.Bits()
		rounded[i] = h.Float32()
	}

	got := make([]byte, len(src))
	want := make([]byte, len(src))
	QuantizeFloat16(got, half, p, false)
	QuantizeVector(want, rounded, p, false)
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("i=%d: got %d, want %d", i, got[i], want[i])
		}
	}
}
