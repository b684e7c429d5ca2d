package distance

import (
	"fmt"

	"github.com/sanonone/kektorsimd/pkg/core/avx"
)

// Nearest returns the index of the code in codes closest to query under
// metric, or -1 if codes is empty. For Cosine the code with the largest dot
// product wins. Ties go to the lowest index.
func Nearest(query []byte, codes [][]byte, metric DistanceMetric) (int, error) {
	fn, err := GetUint8Func(metric)
	if err != nil {
		return -1, err
	}
	dists := make([]int32, len(codes))
	for i, c := range codes {
		d, err := fn(query, c)
		if err != nil {
			return -1, fmt.Errorf("code %d: %w", i, err)
		}
		if metric == Cosine {
			d = -d
		}
		dists[i] = d
	}
	return avx.ArgMinInt32(dists), nil
}
