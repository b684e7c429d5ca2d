package quantize

import (
	"log/slog"
	"math"
	"slices"
)

// trainQuantile is the fraction of absolute values kept inside the range.
// The top 0.1% are treated as outliers and saturate.
const trainQuantile = 0.999

// Quantizer holds the parameters for symmetric scalar quantization.
// It learns the range from a training set and maps [-AbsMax, AbsMax] onto
// [-127, 127].
type Quantizer struct {
	AbsMax float32
}

// Train sets AbsMax to the 99.9th percentile of the absolute values in
// vectors. Using a high percentile instead of the maximum keeps a handful of
// extreme values from stretching the range for everything else.
func (q *Quantizer) Train(vectors [][]float32) {
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return
	}

	abs := make([]float32, 0, len(vectors)*len(vectors[0]))
	for _, vec := range vectors {
		for _, v := range vec {
			abs = append(abs, float32(math.Abs(float64(v))))
		}
	}
	slices.Sort(abs)

	idx := int(float64(len(abs)) * trainQuantile)
	idx = max(0, min(idx, len(abs)-1))
	q.AbsMax = abs[idx]

	slog.Debug("quantizer trained", "values", len(abs), "abs_max", q.AbsMax)
}

// Params returns the affine transform used by Quantize: scale 127/AbsMax and
// no offset. An untrained quantizer has a zero scale and encodes everything
// as zero.
func (q *Quantizer) Params() Params {
	if q.AbsMax == 0 {
		return Uniform(0, 0)
	}
	return Uniform(127/q.AbsMax, 0)
}

// Quantize converts vector to int8 codes in [-127, 127]. Values are clipped
// to ±AbsMax first, so anything beyond the trained range lands on the range
// ends. NaN encodes as -127.
func (q *Quantizer) Quantize(vector []float32) []int8 {
	clipped := make([]float32, len(vector))
	for i, v := range vector {
		clipped[i] = max(-q.AbsMax, min(v, q.AbsMax))
	}
	codes := make([]int8, len(vector))
	QuantizeVectorInt8(codes, clipped, q.Params())
	for i, c := range codes {
		if c == math.MinInt8 {
			codes[i] = -127
		}
	}
	return codes
}

// Dequantize converts int8 codes back to their approximate float32 values.
func (q *Quantizer) Dequantize(codes []int8) []float32 {
	out := make([]float32, len(codes))
	DequantizeInt8(out, codes, q.Params())
	return out
}
