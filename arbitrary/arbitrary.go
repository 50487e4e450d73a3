// Package arbitrary is the composition surface of the engine. An Arbitrary
// describes how to generate values of a type: randomly, exhaustively and
// through a fixed pool of edge cases.
package arbitrary

import (
	"math/rand"

	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/shrink"
)

// MaxEdgeCases caps the number of edge cases derived by combinators.
const MaxEdgeCases = 20

// Arbitrary is a factory of random generators for T.
type Arbitrary[T any] interface {
	// Generator returns a random generator. genSize is a size hint; the same
	// genSize must always produce an equivalent generator.
	Generator(genSize int) generator.RandomGenerator[T]
	// Exhaustive returns a generator that enumerates all values, if that is
	// supported and needs at most maxNumberOfSamples values.
	Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[T], bool)
	// EdgeCases returns known interesting values.
	EdgeCases() []shrink.Shrinkable[T]
}

// Spec bundles the three capabilities of an arbitrary. Nil members mean the
// capability is missing.
type Spec[T any] struct {
	Generator  func(genSize int) generator.RandomGenerator[T]
	Exhaustive func(maxNumberOfSamples int64) (exhaustive.Generator[T], bool)
	EdgeCases  func() []shrink.Shrinkable[T]
}

type arbitrary[T any] struct {
	spec Spec[T]
}

// New creates an arbitrary from its capabilities. spec.Generator is required.
func New[T any](spec Spec[T]) Arbitrary[T] {
	return &arbitrary[T]{spec: spec}
}

// FromGenerator creates an arbitrary that only supports random generation.
func FromGenerator[T any](gen func(genSize int) generator.RandomGenerator[T]) Arbitrary[T] {
	return New(Spec[T]{Generator: gen})
}

func (a *arbitrary[T]) Generator(genSize int) generator.RandomGenerator[T] {
	return a.spec.Generator(genSize)
}

func (a *arbitrary[T]) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[T], bool) {
	if a.spec.Exhaustive == nil {
		return nil, false
	}
	return a.spec.Exhaustive(maxNumberOfSamples)
}

func (a *arbitrary[T]) EdgeCases() []shrink.Shrinkable[T] {
	if a.spec.EdgeCases == nil {
		return nil
	}
	return a.spec.EdgeCases()
}

// GeneratorWithEdgeCases returns the generator of a with its edge cases mixed in.
func GeneratorWithEdgeCases[T any](a Arbitrary[T], genSize int) generator.RandomGenerator[T] {
	return a.Generator(genSize).WithEdgeCases(genSize, a.EdgeCases())
}

// Sample draws a single value from a.
func Sample[T any](a Arbitrary[T], r *rand.Rand) T {
	return a.Generator(1000).Next(r).Value()
}

// Map transforms the values of a. Distances, and therefore shrinking order,
// are kept.
func Map[T, U any](a Arbitrary[T], mapper func(T) U) Arbitrary[U] {
	return New(Spec[U]{
		Generator: func(genSize int) generator.RandomGenerator[U] {
			return generator.Map(a.Generator(genSize), mapper)
		},
		Exhaustive: func(max int64) (exhaustive.Generator[U], bool) {
			g, ok := a.Exhaustive(max)
			if !ok {
				return nil, false
			}
			return exhaustive.Map(g, mapper), true
		},
		EdgeCases: func() []shrink.Shrinkable[U] {
			return mapEach(a.EdgeCases(), func(s shrink.Shrinkable[T]) shrink.Shrinkable[U] {
				return shrink.Map(s, mapper)
			})
		},
	})
}

// Filter keeps only values accepted by pred. Generation panics with
// TOO_MANY_FILTER_MISSES if pred rejects too many values in a row.
func Filter[T any](a Arbitrary[T], pred func(T) bool) Arbitrary[T] {
	return New(Spec[T]{
		Generator: func(genSize int) generator.RandomGenerator[T] {
			return a.Generator(genSize).Filter(pred)
		},
		Exhaustive: func(max int64) (exhaustive.Generator[T], bool) {
			g, ok := a.Exhaustive(max)
			if !ok {
				return nil, false
			}
			return exhaustive.Filter(g, pred), true
		},
		EdgeCases: func() []shrink.Shrinkable[T] {
			var edgeCases []shrink.Shrinkable[T]
			for _, e := range a.EdgeCases() {
				if pred(e.Value()) {
					edgeCases = append(edgeCases, shrink.Filter(e, pred))
				}
			}
			return edgeCases
		},
	})
}

// FlatMap derives the arbitrary of the final value from a value of a.
// Shrinking reduces the value of a before the derived value.
func FlatMap[T, U any](a Arbitrary[T], mapper func(T) Arbitrary[U]) Arbitrary[U] {
	return New(Spec[U]{
		Generator: func(genSize int) generator.RandomGenerator[U] {
			return generator.FlatMap(a.Generator(genSize), func(t T) generator.RandomGenerator[U] {
				return mapper(t).Generator(genSize)
			})
		},
		Exhaustive: func(max int64) (exhaustive.Generator[U], bool) {
			upstream, ok := a.Exhaustive(max)
			if !ok {
				return nil, false
			}
			supported := true
			upstream.Iterator()(func(t T) bool {
				_, supported = mapper(t).Exhaustive(max)
				return supported
			})
			if !supported {
				return nil, false
			}
			g := exhaustive.FlatMap(upstream, func(t T) exhaustive.Generator[U] {
				downstream, _ := mapper(t).Exhaustive(max)
				return downstream
			})
			return exhaustive.Within(g, max)
		},
		EdgeCases: func() []shrink.Shrinkable[U] {
			var edgeCases []shrink.Shrinkable[U]
			for _, upstream := range a.EdgeCases() {
				downstream := mapper(upstream.Value()).EdgeCases()
				for i := range downstream {
					if len(edgeCases) >= MaxEdgeCases {
						return edgeCases
					}
					edgeCases = append(edgeCases, shrink.NewFlatMapped(upstream, edgeCaseAt(mapper, i)))
				}
			}
			return edgeCases
		},
	})
}

// edgeCaseAt regenerates the i-th edge case of the derived arbitrary, or a
// fixed random value when there are fewer edge cases.
func edgeCaseAt[T, U any](mapper func(T) Arbitrary[U], i int) func(T) shrink.Shrinkable[U] {
	return func(t T) shrink.Shrinkable[U] {
		derived := mapper(t)
		if edgeCases := derived.EdgeCases(); i < len(edgeCases) {
			return edgeCases[i]
		}
		return derived.Generator(1).Next(rand.New(rand.NewSource(int64(i))))
	}
}

// InjectNull generates the zero value of T with the given probability.
func InjectNull[T any](a Arbitrary[T], probability float64) Arbitrary[T] {
	var zero T
	return New(Spec[T]{
		Generator: func(genSize int) generator.RandomGenerator[T] {
			return a.Generator(genSize).InjectNull(probability)
		},
		Exhaustive: func(max int64) (exhaustive.Generator[T], bool) {
			g, ok := a.Exhaustive(max)
			if !ok {
				return nil, false
			}
			return exhaustive.Within(exhaustive.Union(exhaustive.FromValues(zero), g), max)
		},
		EdgeCases: func() []shrink.Shrinkable[T] {
			return append([]shrink.Shrinkable[T]{shrink.Unshrinkable(zero)}, a.EdgeCases()...)
		},
	})
}

// FixGenSize pins the size hint of a, insulating it from the size of an
// enclosing arbitrary.
func FixGenSize[T any](a Arbitrary[T], genSize int) Arbitrary[T] {
	return New(Spec[T]{
		Generator: func(int) generator.RandomGenerator[T] {
			return a.Generator(genSize)
		},
		Exhaustive: a.Exhaustive,
		EdgeCases:  a.EdgeCases,
	})
}

// WithSamples generates samples in order before any random value.
func WithSamples[T any](a Arbitrary[T], samples ...T) Arbitrary[T] {
	return New(Spec[T]{
		Generator: func(genSize int) generator.RandomGenerator[T] {
			return a.Generator(genSize).WithSamples(samples...)
		},
		Exhaustive: a.Exhaustive,
		EdgeCases:  a.EdgeCases,
	})
}

// WithEdgeCases adds values to the edge cases of a. The added values are not
// shrunk.
func WithEdgeCases[T any](a Arbitrary[T], values ...T) Arbitrary[T] {
	return New(Spec[T]{
		Generator:  a.Generator,
		Exhaustive: a.Exhaustive,
		EdgeCases: func() []shrink.Shrinkable[T] {
			edgeCases := a.EdgeCases()
			for _, v := range values {
				edgeCases = append(edgeCases, shrink.Unshrinkable(v))
			}
			return edgeCases
		},
	})
}

// WithoutEdgeCases removes all edge cases of a.
func WithoutEdgeCases[T any](a Arbitrary[T]) Arbitrary[T] {
	return New(Spec[T]{
		Generator:  a.Generator,
		Exhaustive: a.Exhaustive,
	})
}

// Unique never generates the same value twice from one generator.
func Unique[T comparable](a Arbitrary[T]) Arbitrary[T] {
	return New(Spec[T]{
		Generator: func(genSize int) generator.RandomGenerator[T] {
			return generator.Unique(a.Generator(genSize))
		},
		Exhaustive: a.Exhaustive,
		EdgeCases:  a.EdgeCases,
	})
}

// Boxed erases the value type of a.
func Boxed[T any](a Arbitrary[T]) Arbitrary[any] {
	return Map(a, func(v T) any { return v })
}

func mapEach[T, U any](values []T, fn func(T) U) []U {
	if values == nil {
		return nil
	}
	mapped := make([]U, len(values))
	for i, v := range values {
		mapped[i] = fn(v)
	}
	return mapped
}
