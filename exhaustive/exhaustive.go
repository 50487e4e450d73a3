// Package exhaustive enumerates all values of an arbitrary in a fixed order
// instead of sampling them randomly.
package exhaustive

import (
	"math"
	"math/big"

	"github.com/authcorp/proptest/combinatorics"
	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/shrink"
)

// Generator enumerates values deterministically. MaxCount is an upper bound of
// the number of values the iterator yields; it is exact unless the generator
// was filtered.
type Generator[T any] interface {
	MaxCount() int64
	Iterator() combinatorics.Iterator[T]
}

type generator[T any] struct {
	count   int64
	iterate func() combinatorics.Iterator[T]
}

func (g *generator[T]) MaxCount() int64                     { return g.count }
func (g *generator[T]) Iterator() combinatorics.Iterator[T] { return g.iterate() }

// New creates a generator from a count and an iterator factory.
func New[T any](count int64, iterate func() combinatorics.Iterator[T]) Generator[T] {
	return &generator[T]{count: count, iterate: iterate}
}

// FromValues enumerates the given values in order.
func FromValues[T any](values ...T) Generator[T] {
	copied := make([]T, len(values))
	copy(copied, values)
	return New(int64(len(copied)), func() combinatorics.Iterator[T] {
		return combinatorics.FromSlice(copied)
	})
}

// IntegralRange enumerates min..max in ascending order.
func IntegralRange[N shrink.Integer](min, max N) Generator[N] {
	if min > max {
		return New(0, combinatorics.Empty[N])
	}
	span := new(big.Int).Sub(shrink.ToBig(max), shrink.ToBig(min))
	span.Add(span, big.NewInt(1))
	count := int64(math.MaxInt64)
	if span.IsInt64() {
		count = span.Int64()
	}
	return New(count, func() combinatorics.Iterator[N] {
		return func(yield func(N) bool) {
			for v := min; ; v++ {
				if !yield(v) || v == max {
					return
				}
			}
		}
	})
}

// Map transforms every enumerated value.
func Map[T, U any](g Generator[T], fn func(T) U) Generator[U] {
	return New(g.MaxCount(), func() combinatorics.Iterator[U] {
		return combinatorics.Map(g.Iterator(), fn)
	})
}

// Filter skips values rejected by pred. MaxCount stays an upper bound.
func Filter[T any](g Generator[T], pred func(T) bool) Generator[T] {
	return New(g.MaxCount(), func() combinatorics.Iterator[T] {
		return combinatorics.Filter(g.Iterator(), pred)
	})
}

// FlatMap enumerates, for each value of g, all values of the generator fn
// derives from it. The count is computed by enumerating g once.
func FlatMap[T, U any](g Generator[T], fn func(T) Generator[U]) Generator[U] {
	count := int64(0)
	g.Iterator()(func(t T) bool {
		count = combinatorics.SaturatingAdd(count, fn(t).MaxCount())
		return true
	})
	return New(count, func() combinatorics.Iterator[U] {
		return combinatorics.FlatMap(g.Iterator(), func(t T) combinatorics.Iterator[U] {
			return fn(t).Iterator()
		})
	})
}

// List enumerates all lists of element values with a size in
// [minSize, maxSize].
func List[T any](element Generator[T], minSize, maxSize int) Generator[[]T] {
	count := combinatorics.ListCombinationsCount(element.MaxCount(), minSize, maxSize)
	return New(count, func() combinatorics.Iterator[[]T] {
		return combinatorics.ListCombinations(combinatorics.Collect(element.Iterator()), minSize, maxSize)
	})
}

// Subsets enumerates the distinct element values taken minSize to maxSize at
// a time. Each subset keeps the order in which element enumerates its values.
func Subsets[T comparable](element Generator[T], minSize, maxSize int) Generator[[]T] {
	count := combinatorics.SetCombinationsCount(element.MaxCount(), minSize, maxSize)
	return New(count, func() combinatorics.Iterator[[]T] {
		return combinatorics.SetCombinations(combinatorics.Collect(element.Iterator()), minSize, maxSize)
	})
}

// Set enumerates all sets of element values with a size in [minSize, maxSize].
func Set[T comparable](element Generator[T], minSize, maxSize int) Generator[map[T]struct{}] {
	return Map(Subsets(element, minSize, maxSize), func(values []T) map[T]struct{} {
		set := make(map[T]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		return set
	})
}

// Combine enumerates the cartesian product of gens.
func Combine(gens []Generator[any]) Generator[[]any] {
	counts := make([]int64, len(gens))
	for i, g := range gens {
		counts[i] = g.MaxCount()
	}
	return New(combinatorics.ProductCount(counts...), func() combinatorics.Iterator[[]any] {
		inputs := make([]combinatorics.Iterator[any], len(gens))
		for i, g := range gens {
			inputs[i] = g.Iterator()
		}
		return combinatorics.Combine(inputs)
	})
}

// Box erases the value type of g.
func Box[T any](g Generator[T]) Generator[any] {
	return Map(g, func(v T) any { return v })
}

// Permutations enumerates all orderings of values.
func Permutations[T any](values []T) Generator[[]T] {
	copied := make([]T, len(values))
	copy(copied, values)
	return New(combinatorics.PermutationsCount(int64(len(copied))), func() combinatorics.Iterator[[]T] {
		return combinatorics.ListPermutations(copied)
	})
}

// Union enumerates the values of all gens one after another.
func Union[T any](gens ...Generator[T]) Generator[T] {
	count := int64(0)
	for _, g := range gens {
		count = combinatorics.SaturatingAdd(count, g.MaxCount())
	}
	return New(count, func() combinatorics.Iterator[T] {
		iterators := make([]combinatorics.Iterator[T], len(gens))
		for i, g := range gens {
			iterators[i] = g.Iterator()
		}
		return combinatorics.Concat(iterators...)
	})
}

// Within returns g if it enumerates at most maxCount values.
func Within[T any](g Generator[T], maxCount int64) (Generator[T], bool) {
	if g.MaxCount() > maxCount {
		return nil, false
	}
	return g, true
}

// Require returns an EXHAUSTIVE_TOO_LARGE error if g enumerates more than
// maxCount values.
func Require[T any](g Generator[T], maxCount int64) error {
	if g.MaxCount() > maxCount {
		return apperrors.Newf(apperrors.ErrCodeExhaustiveTooLarge,
			"exhaustive generation needs %d tries but only %d are allowed", g.MaxCount(), maxCount).
			WithDetail("max_count", g.MaxCount())
	}
	return nil
}
