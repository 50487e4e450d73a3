package arbitrary

import (
	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/shrink"
)

type sizes struct {
	minSize, maxSize int
}

func defaultSizes() sizes {
	return sizes{maxSize: generator.DefaultMaxSize}
}

func (s sizes) withMin(n int) sizes {
	return s.validated(sizes{minSize: n, maxSize: max(s.maxSize, n)})
}

func (s sizes) withMax(n int) sizes {
	return s.validated(sizes{minSize: s.minSize, maxSize: n})
}

func (s sizes) validated(next sizes) sizes {
	if next.minSize < 0 || next.maxSize < next.minSize {
		panic(apperrors.InvalidConfiguration("invalid container size range [%d, %d]", next.minSize, next.maxSize))
	}
	return next
}

// allowsSingle reports whether a container of exactly one element fits.
func (s sizes) allowsSingle() bool {
	return s.minSize <= 1 && s.maxSize >= 1
}

// ListArbitrary generates slices. Lists shrink toward fewer elements first,
// then toward smaller elements.
type ListArbitrary[E any] struct {
	element Arbitrary[E]
	sizes
}

// ListOf generates slices of up to generator.DefaultMaxSize element values.
func ListOf[E any](element Arbitrary[E]) *ListArbitrary[E] {
	return &ListArbitrary[E]{element: element, sizes: defaultSizes()}
}

// ArrayOf generates slices of exactly n element values.
func ArrayOf[E any](element Arbitrary[E], n int) *ListArbitrary[E] {
	return ListOf(element).OfSize(n)
}

// OfMinSize sets the minimum number of elements.
func (a *ListArbitrary[E]) OfMinSize(n int) *ListArbitrary[E] {
	return &ListArbitrary[E]{element: a.element, sizes: a.withMin(n)}
}

// OfMaxSize sets the maximum number of elements.
func (a *ListArbitrary[E]) OfMaxSize(n int) *ListArbitrary[E] {
	return &ListArbitrary[E]{element: a.element, sizes: a.withMax(n)}
}

// OfSize fixes the number of elements.
func (a *ListArbitrary[E]) OfSize(n int) *ListArbitrary[E] {
	return a.OfMinSize(n).OfMaxSize(n)
}

// Generator implements Arbitrary.
func (a *ListArbitrary[E]) Generator(genSize int) generator.RandomGenerator[[]E] {
	return generator.ListOf(GeneratorWithEdgeCases(a.element, genSize), a.minSize, a.maxSize, genSize)
}

// Exhaustive implements Arbitrary.
func (a *ListArbitrary[E]) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[[]E], bool) {
	element, ok := a.element.Exhaustive(maxNumberOfSamples)
	if !ok {
		return nil, false
	}
	return exhaustive.Within(exhaustive.List(element, a.minSize, a.maxSize), maxNumberOfSamples)
}

// EdgeCases returns the empty list and single element lists of the element
// edge cases, as far as the size range allows.
func (a *ListArbitrary[E]) EdgeCases() []shrink.Shrinkable[[]E] {
	var edgeCases []shrink.Shrinkable[[]E]
	if a.minSize == 0 {
		edgeCases = append(edgeCases, shrink.NewList[E](nil, 0))
	}
	if !a.allowsSingle() {
		return edgeCases
	}
	for _, e := range a.element.EdgeCases() {
		if len(edgeCases) >= MaxEdgeCases {
			break
		}
		edgeCases = append(edgeCases, shrink.NewList([]shrink.Shrinkable[E]{e}, a.minSize))
	}
	return edgeCases
}

// SetArbitrary generates sets of distinct values.
type SetArbitrary[E comparable] struct {
	element Arbitrary[E]
	sizes
}

// SetOf generates sets of up to generator.DefaultMaxSize element values.
// Generation panics with TOO_MANY_FILTER_MISSES if element cannot produce
// enough distinct values.
func SetOf[E comparable](element Arbitrary[E]) *SetArbitrary[E] {
	return &SetArbitrary[E]{element: element, sizes: defaultSizes()}
}

// OfMinSize sets the minimum number of elements.
func (a *SetArbitrary[E]) OfMinSize(n int) *SetArbitrary[E] {
	return &SetArbitrary[E]{element: a.element, sizes: a.withMin(n)}
}

// OfMaxSize sets the maximum number of elements.
func (a *SetArbitrary[E]) OfMaxSize(n int) *SetArbitrary[E] {
	return &SetArbitrary[E]{element: a.element, sizes: a.withMax(n)}
}

// OfSize fixes the number of elements.
func (a *SetArbitrary[E]) OfSize(n int) *SetArbitrary[E] {
	return a.OfMinSize(n).OfMaxSize(n)
}

// Generator implements Arbitrary.
func (a *SetArbitrary[E]) Generator(genSize int) generator.RandomGenerator[map[E]struct{}] {
	return generator.SetOf(GeneratorWithEdgeCases(a.element, genSize), a.minSize, a.maxSize, genSize)
}

// Exhaustive implements Arbitrary.
func (a *SetArbitrary[E]) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[map[E]struct{}], bool) {
	element, ok := a.element.Exhaustive(maxNumberOfSamples)
	if !ok {
		return nil, false
	}
	return exhaustive.Within(exhaustive.Set(element, a.minSize, a.maxSize), maxNumberOfSamples)
}

// EdgeCases implements Arbitrary.
func (a *SetArbitrary[E]) EdgeCases() []shrink.Shrinkable[map[E]struct{}] {
	var edgeCases []shrink.Shrinkable[map[E]struct{}]
	if a.minSize == 0 {
		edgeCases = append(edgeCases, shrink.NewSet[E](nil, 0))
	}
	if !a.allowsSingle() {
		return edgeCases
	}
	for _, e := range a.element.EdgeCases() {
		if len(edgeCases) >= MaxEdgeCases {
			break
		}
		edgeCases = append(edgeCases, shrink.NewSet([]shrink.Shrinkable[E]{e}, a.minSize))
	}
	return edgeCases
}

// MapArbitrary generates maps with distinct keys.
type MapArbitrary[K comparable, V any] struct {
	keys   Arbitrary[K]
	values Arbitrary[V]
	sizes
}

// MapOf generates maps of up to generator.DefaultMaxSize entries.
func MapOf[K comparable, V any](keys Arbitrary[K], values Arbitrary[V]) *MapArbitrary[K, V] {
	return &MapArbitrary[K, V]{keys: keys, values: values, sizes: defaultSizes()}
}

// OfMinSize sets the minimum number of entries.
func (a *MapArbitrary[K, V]) OfMinSize(n int) *MapArbitrary[K, V] {
	return &MapArbitrary[K, V]{keys: a.keys, values: a.values, sizes: a.withMin(n)}
}

// OfMaxSize sets the maximum number of entries.
func (a *MapArbitrary[K, V]) OfMaxSize(n int) *MapArbitrary[K, V] {
	return &MapArbitrary[K, V]{keys: a.keys, values: a.values, sizes: a.withMax(n)}
}

// OfSize fixes the number of entries.
func (a *MapArbitrary[K, V]) OfSize(n int) *MapArbitrary[K, V] {
	return a.OfMinSize(n).OfMaxSize(n)
}

// Generator implements Arbitrary.
func (a *MapArbitrary[K, V]) Generator(genSize int) generator.RandomGenerator[map[K]V] {
	return generator.MapOf(
		GeneratorWithEdgeCases(a.keys, genSize),
		GeneratorWithEdgeCases(a.values, genSize),
		a.minSize, a.maxSize, genSize,
	)
}

// Exhaustive enumerates every key set together with every assignment of
// values to its keys.
func (a *MapArbitrary[K, V]) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[map[K]V], bool) {
	keys, ok := a.keys.Exhaustive(maxNumberOfSamples)
	if !ok {
		return nil, false
	}
	values, ok := a.values.Exhaustive(maxNumberOfSamples)
	if !ok {
		return nil, false
	}
	keySets, ok := exhaustive.Within(exhaustive.Subsets(keys, a.minSize, a.maxSize), maxNumberOfSamples)
	if !ok {
		return nil, false
	}
	g := exhaustive.FlatMap(keySets, func(ordered []K) exhaustive.Generator[map[K]V] {
		parts := make([]exhaustive.Generator[any], len(ordered))
		for i := range ordered {
			parts[i] = exhaustive.Box(values)
		}
		return exhaustive.Map(exhaustive.Combine(parts), func(assigned []any) map[K]V {
			m := make(map[K]V, len(ordered))
			for i, k := range ordered {
				m[k] = assigned[i].(V)
			}
			return m
		})
	})
	return exhaustive.Within(g, maxNumberOfSamples)
}

// EdgeCases implements Arbitrary.
func (a *MapArbitrary[K, V]) EdgeCases() []shrink.Shrinkable[map[K]V] {
	var edgeCases []shrink.Shrinkable[map[K]V]
	if a.minSize == 0 {
		edgeCases = append(edgeCases, shrink.NewMap[K, V](nil, 0))
	}
	valueEdgeCases := a.values.EdgeCases()
	if !a.allowsSingle() || len(valueEdgeCases) == 0 {
		return edgeCases
	}
	for _, k := range a.keys.EdgeCases() {
		for _, v := range valueEdgeCases {
			if len(edgeCases) >= MaxEdgeCases {
				return edgeCases
			}
			entry := shrink.NewEntry(k, v)
			edgeCases = append(edgeCases, shrink.NewMap([]shrink.Shrinkable[shrink.Entry[K, V]]{entry}, a.minSize))
		}
	}
	return edgeCases
}
