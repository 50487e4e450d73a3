// Package generator implements random generators: functions that turn a
// random source into a shrinkable value.
package generator

import (
	"math/rand"
	"sync"
	"sync/atomic"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/shrink"
)

// MaxFilterMisses is the number of consecutive rejected values after which a
// filtering generator gives up.
const MaxFilterMisses = 10000

// RandomGenerator produces a shrinkable value from a random source. It must
// always return a value; rejection is expressed by filtering.
type RandomGenerator[T any] func(r *rand.Rand) shrink.Shrinkable[T]

// Next draws the next shrinkable value.
func (g RandomGenerator[T]) Next(r *rand.Rand) shrink.Shrinkable[T] {
	return g(r)
}

// Filter retries until a value satisfies pred. Shrinking of accepted values
// stays within pred. Panics with TOO_MANY_FILTER_MISSES after MaxFilterMisses
// consecutive rejections.
func (g RandomGenerator[T]) Filter(pred func(T) bool) RandomGenerator[T] {
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		for misses := 0; misses < MaxFilterMisses; misses++ {
			s := g(r)
			if pred(s.Value()) {
				return shrink.Filter(s, pred)
			}
		}
		panic(apperrors.TooManyFilterMisses(MaxFilterMisses))
	}
}

// InjectNull returns the zero value of T with the given probability. The
// zero value cannot be shrunk and has minimal distance.
func (g RandomGenerator[T]) InjectNull(probability float64) RandomGenerator[T] {
	if probability <= 0 {
		return g
	}
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		if r.Float64() < probability {
			var zero T
			return shrink.Unshrinkable(zero)
		}
		return g(r)
	}
}

// WithEdgeCases mixes edgeCases into generation. Small generation sizes pick
// an edge case more often, see EdgeCasesRatio.
func (g RandomGenerator[T]) WithEdgeCases(genSize int, edgeCases []shrink.Shrinkable[T]) RandomGenerator[T] {
	if len(edgeCases) == 0 {
		return g
	}
	cases := make([]shrink.Shrinkable[T], len(edgeCases))
	copy(cases, edgeCases)
	ratio := EdgeCasesRatio(genSize)
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		if r.Intn(ratio) == 0 {
			return cases[r.Intn(len(cases))]
		}
		return g(r)
	}
}

// EdgeCasesRatio returns n for a 1-in-n chance of generating an edge case.
func EdgeCasesRatio(genSize int) int {
	switch {
	case genSize <= 20:
		return 2
	case genSize <= 100:
		return 5
	case genSize <= 1000:
		return 10
	default:
		return 20
	}
}

// WithSamples yields samples in order before delegating to g. The samples
// cannot be shrunk.
func (g RandomGenerator[T]) WithSamples(samples ...T) RandomGenerator[T] {
	if len(samples) == 0 {
		return g
	}
	copied := make([]T, len(samples))
	copy(copied, samples)
	var next atomic.Int64
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		if i := next.Add(1) - 1; i < int64(len(copied)) {
			return shrink.Unshrinkable(copied[i])
		}
		return g(r)
	}
}

// Map transforms generated values. Distances are kept.
func Map[T, U any](g RandomGenerator[T], mapper func(T) U) RandomGenerator[U] {
	return func(r *rand.Rand) shrink.Shrinkable[U] {
		return shrink.Map(g(r), mapper)
	}
}

// FlatMap generates a value of g and derives the generator of the final value
// from it. The derived generator is fed from its own seed so that shrinking
// can regenerate it deterministically.
func FlatMap[T, U any](g RandomGenerator[T], mapper func(T) RandomGenerator[U]) RandomGenerator[U] {
	return func(r *rand.Rand) shrink.Shrinkable[U] {
		upstream := g(r)
		seed := r.Int63()
		return shrink.NewFlatMapped(upstream, func(t T) shrink.Shrinkable[U] {
			return mapper(t)(rand.New(rand.NewSource(seed)))
		})
	}
}

// Constant always generates value.
func Constant[T any](value T) RandomGenerator[T] {
	s := shrink.Unshrinkable(value)
	return func(*rand.Rand) shrink.Shrinkable[T] { return s }
}

// Choose picks one of values uniformly. Shrinking moves toward the front of
// values.
// Panics with INVALID_CONFIGURATION if values is empty.
func Choose[T any](values []T) RandomGenerator[T] {
	if len(values) == 0 {
		panic(apperrors.InvalidConfiguration("choose needs at least one value"))
	}
	copied := make([]T, len(values))
	copy(copied, values)
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		return indexed(copied, r.Intn(len(copied)))
	}
}

// ChooseWeighted picks values[i] with a probability proportional to
// weights[i]. Shrinking moves toward the front of values.
// Panics with INVALID_CONFIGURATION if the weights are invalid.
func ChooseWeighted[T any](weights []int, values []T) RandomGenerator[T] {
	if len(weights) != len(values) || len(values) == 0 {
		panic(apperrors.InvalidConfiguration("need one weight per value, got %d weights for %d values", len(weights), len(values)))
	}
	cumulative := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		if w < 0 {
			panic(apperrors.InvalidConfiguration("weight %d must not be negative", w))
		}
		total += w
		cumulative[i] = total
	}
	if total == 0 {
		panic(apperrors.InvalidConfiguration("at least one weight must be positive"))
	}
	copied := make([]T, len(values))
	copy(copied, values)
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		pick := r.Intn(total)
		for i, c := range cumulative {
			if pick < c {
				return indexed(copied, i)
			}
		}
		return indexed(copied, len(copied)-1)
	}
}

func indexed[T any](values []T, index int) shrink.Shrinkable[T] {
	return shrink.Map(shrink.NewInteger(index, 0, len(values)-1), func(i int) T { return values[i] })
}

// Combine generates every part and joins their values with combinator.
func Combine[T any](parts []RandomGenerator[any], combinator func([]any) T) RandomGenerator[T] {
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		shrinkables := make([]shrink.Shrinkable[any], len(parts))
		for i, p := range parts {
			shrinkables[i] = p(r)
		}
		return shrink.NewCombined(shrinkables, combinator)
	}
}

// Box erases the value type of g.
func Box[T any](g RandomGenerator[T]) RandomGenerator[any] {
	return func(r *rand.Rand) shrink.Shrinkable[any] {
		return shrink.Box(g(r))
	}
}

// Unique never generates the same value twice within the lifetime of the
// returned generator.
func Unique[T comparable](g RandomGenerator[T]) RandomGenerator[T] {
	var mu sync.Mutex
	seen := make(map[T]struct{})
	unseen := func(v T) bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := seen[v]
		return !ok
	}
	filtered := g.Filter(unseen)
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		s := filtered(r)
		mu.Lock()
		seen[s.Value()] = struct{}{}
		mu.Unlock()
		return s
	}
}
