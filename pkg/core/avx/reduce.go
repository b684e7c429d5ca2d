package avx

import (
	"math"
	"math/bits"
	"slices"
)

const (
	// swapPairs exchanges the two 64-bit halves of each 128-bit lane.
	swapPairs = 0x4e // Shuffle(1, 0, 3, 2)
	// swapAdjacent exchanges neighbouring dwords.
	swapAdjacent = 0xb1 // Shuffle(2, 3, 0, 1)
)

// broadcastMinGeneric folds the register onto itself three times. After the
// 128-bit swap every lane holds min(x[i], x[i^4]); the 64-bit swap widens that
// to four lanes and the adjacent swap to all eight.
func broadcastMinGeneric(a I32x8) I32x8 {
	t := MinI32(a, Permute2x128(a, a, 0x01))
	t = MinI32(t, ShuffleI32(t, swapPairs))
	return MinI32(t, ShuffleI32(t, swapAdjacent))
}

// MinInt32 returns the smallest value of vals, reducing eight lanes at a time
// with BroadcastMin. It panics if vals is empty.
func MinInt32(vals []int32) int32 {
	if len(vals) == 0 {
		panic("avx: MinInt32 of empty slice")
	}
	acc := Set1I32(math.MaxInt32)
	i := 0
	for ; i+Lanes <= len(vals); i += Lanes {
		acc = MinI32(acc, LoadI32x8(vals[i:]))
	}
	m := FirstI32(BroadcastMin(acc))
	for ; i < len(vals); i++ {
		m = min(m, vals[i])
	}
	return m
}

// ArgMinInt32 returns the index of the first occurrence of the smallest value,
// or -1 when vals is empty.
func ArgMinInt32(vals []int32) int {
	if len(vals) == 0 {
		return -1
	}
	return slices.Index(vals, MinInt32(vals))
}

// MSBIndex returns the position of the most significant set bit of x, or -1
// when x is zero.
func MSBIndex(x uint32) int8 {
	return int8(31 - bits.LeadingZeros32(x))
}
