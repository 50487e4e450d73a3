// Package testutil holds rapid generators and helpers shared by the engine's
// own tests.
package testutil

import (
	"math/rand"

	"pgregory.net/rapid"

	"github.com/authcorp/proptest/shrink"
)

// DistanceGen generates distances with one to maxDims dimensions.
func DistanceGen(maxDims int) *rapid.Generator[shrink.Distance] {
	return rapid.Custom(func(t *rapid.T) shrink.Distance {
		dims := rapid.SliceOfN(rapid.Int64Range(0, 1<<40), 1, maxDims).Draw(t, "dims")
		return shrink.DistanceOf(dims...)
	})
}

// IntRange is a closed integer range with a value inside it.
type IntRange struct {
	Min   int64
	Max   int64
	Value int64
}

// IntRangeGen generates ranges within [-bound, bound].
func IntRangeGen(bound int64) *rapid.Generator[IntRange] {
	return rapid.Custom(func(t *rapid.T) IntRange {
		lo := rapid.Int64Range(-bound, bound).Draw(t, "min")
		hi := rapid.Int64Range(lo, bound).Draw(t, "max")
		return IntRange{
			Min:   lo,
			Max:   hi,
			Value: rapid.Int64Range(lo, hi).Draw(t, "value"),
		}
	})
}

// GenSizeGen generates generation sizes across all edge case ratio bands.
func GenSizeGen() *rapid.Generator[int] {
	return rapid.SampledFrom([]int{1, 10, 20, 50, 100, 500, 1000, 5000})
}

// RandGen generates seeded random sources.
func RandGen() *rapid.Generator[*rand.Rand] {
	return rapid.Custom(func(t *rapid.T) *rand.Rand {
		return rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed")))
	})
}

// NewRand creates a random source with a fixed seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
