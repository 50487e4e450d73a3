package arbitrary

import (
	"math/rand"

	"github.com/google/uuid"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/shrink"
)

// Just always generates value.
func Just[T any](value T) Arbitrary[T] {
	return New(Spec[T]{
		Generator: func(int) generator.RandomGenerator[T] {
			return generator.Constant(value)
		},
		Exhaustive: func(max int64) (exhaustive.Generator[T], bool) {
			return exhaustive.Within(exhaustive.FromValues(value), max)
		},
		EdgeCases: func() []shrink.Shrinkable[T] {
			return []shrink.Shrinkable[T]{shrink.Unshrinkable(value)}
		},
	})
}

// Of picks one of values. Values shrink toward the first one.
// Panics with INVALID_CONFIGURATION if values is empty.
func Of[T any](values ...T) Arbitrary[T] {
	if len(values) == 0 {
		panic(apperrors.InvalidConfiguration("of needs at least one value"))
	}
	copied := append([]T(nil), values...)
	last := len(copied) - 1
	at := func(i int) T { return copied[i] }
	return New(Spec[T]{
		Generator: func(int) generator.RandomGenerator[T] {
			return generator.Choose(copied)
		},
		Exhaustive: func(max int64) (exhaustive.Generator[T], bool) {
			return exhaustive.Within(exhaustive.FromValues(copied...), max)
		},
		EdgeCases: func() []shrink.Shrinkable[T] {
			edgeCases := []shrink.Shrinkable[T]{shrink.Map(shrink.NewInteger(0, 0, last), at)}
			if last > 0 {
				edgeCases = append(edgeCases, shrink.Map(shrink.NewInteger(last, 0, last), at))
			}
			return edgeCases
		},
	})
}

// Booleans generates false and true. True shrinks to false.
func Booleans() Arbitrary[bool] {
	return Of(false, true)
}

// OneOf picks one of arbs for every value. Values shrink toward the first
// arbitrary.
// Panics with INVALID_CONFIGURATION if arbs is empty.
func OneOf[T any](arbs ...Arbitrary[T]) Arbitrary[T] {
	if len(arbs) == 0 {
		panic(apperrors.InvalidConfiguration("oneOf needs at least one arbitrary"))
	}
	weighted := make([]Weighted[T], len(arbs))
	for i, a := range arbs {
		weighted[i] = Weighted[T]{Weight: 1, Arbitrary: a}
	}
	return Frequency(weighted...)
}

// Weighted pairs an arbitrary with its relative frequency.
type Weighted[T any] struct {
	Weight    int
	Arbitrary Arbitrary[T]
}

// Frequency picks an arbitrary with a probability proportional to its
// weight. Values shrink toward the first arbitrary.
// Panics with INVALID_CONFIGURATION if no weight is positive.
func Frequency[T any](choices ...Weighted[T]) Arbitrary[T] {
	weights := make([]int, len(choices))
	arbs := make([]Arbitrary[T], len(choices))
	for i, c := range choices {
		weights[i] = c.Weight
		arbs[i] = c.Arbitrary
	}
	pick := generator.ChooseWeighted(weights, arbs)

	var reachable []Arbitrary[T]
	for i, a := range arbs {
		if weights[i] > 0 {
			reachable = append(reachable, a)
		}
	}
	return New(Spec[T]{
		Generator: func(genSize int) generator.RandomGenerator[T] {
			return generator.FlatMap(pick, func(a Arbitrary[T]) generator.RandomGenerator[T] {
				return a.Generator(genSize)
			})
		},
		Exhaustive: func(max int64) (exhaustive.Generator[T], bool) {
			gens := make([]exhaustive.Generator[T], len(reachable))
			for i, a := range reachable {
				g, ok := a.Exhaustive(max)
				if !ok {
					return nil, false
				}
				gens[i] = g
			}
			return exhaustive.Within(exhaustive.Union(gens...), max)
		},
		EdgeCases: func() []shrink.Shrinkable[T] {
			var edgeCases []shrink.Shrinkable[T]
			for _, a := range reachable {
				for _, e := range a.EdgeCases() {
					if len(edgeCases) >= MaxEdgeCases {
						return edgeCases
					}
					edgeCases = append(edgeCases, e)
				}
			}
			return edgeCases
		},
	})
}

// UUIDs generates random version 4 UUIDs. UUIDs do not shrink.
func UUIDs() Arbitrary[uuid.UUID] {
	return FromGenerator(func(int) generator.RandomGenerator[uuid.UUID] {
		return func(r *rand.Rand) shrink.Shrinkable[uuid.UUID] {
			return shrink.Unshrinkable(uuid.Must(uuid.NewRandomFromReader(r)))
		}
	})
}

// Shuffle generates permutations of values. Permutations shrink toward the
// original order.
func Shuffle[T any](values ...T) Arbitrary[[]T] {
	copied := append([]T(nil), values...)
	n := len(copied)
	return New(Spec[[]T]{
		Generator: func(genSize int) generator.RandomGenerator[[]T] {
			choices := make([]generator.RandomGenerator[any], n)
			for i := range choices {
				choices[i] = generator.Box(generator.Integer(0, n-1-i, genSize))
			}
			return generator.Combine(choices, func(indices []any) []T {
				return permutation(copied, indices)
			})
		},
		Exhaustive: func(max int64) (exhaustive.Generator[[]T], bool) {
			return exhaustive.Within(exhaustive.Permutations(copied), max)
		},
		EdgeCases: func() []shrink.Shrinkable[[]T] {
			parts := make([]shrink.Shrinkable[any], n)
			for i := range parts {
				parts[i] = shrink.Box(shrink.NewInteger(0, 0, n-1-i))
			}
			return []shrink.Shrinkable[[]T]{shrink.NewCombined(parts, func(indices []any) []T {
				return permutation(copied, indices)
			})}
		},
	})
}

// permutation decodes a Lehmer code: the i-th index picks among the values
// not picked yet.
func permutation[T any](values []T, indices []any) []T {
	remaining := append([]T(nil), values...)
	result := make([]T, 0, len(values))
	for _, index := range indices {
		i := index.(int)
		result = append(result, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return result
}
