package generator

import (
	"math/rand"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/shrink"
)

// DefaultMaxSize is the maximum container size when none is configured.
const DefaultMaxSize = 255

// ContainerSize draws a size in [minSize, maxSize]. The upper end is capped
// at minSize+genSize so small generation sizes produce small containers.
func ContainerSize(r *rand.Rand, minSize, maxSize, genSize int) int {
	upper := maxSize
	if capped := minSize + max(genSize, 1); capped < upper {
		upper = capped
	}
	return minSize + r.Intn(upper-minSize+1)
}

func checkSizes(minSize, maxSize int) {
	if minSize < 0 || maxSize < minSize {
		panic(apperrors.InvalidConfiguration("invalid container size range [%d, %d]", minSize, maxSize))
	}
}

// ListOf generates lists of element values.
func ListOf[E any](element RandomGenerator[E], minSize, maxSize, genSize int) RandomGenerator[[]E] {
	checkSizes(minSize, maxSize)
	return func(r *rand.Rand) shrink.Shrinkable[[]E] {
		size := ContainerSize(r, minSize, maxSize, genSize)
		elements := make([]shrink.Shrinkable[E], size)
		for i := range elements {
			elements[i] = element(r)
		}
		return shrink.NewList(elements, minSize)
	}
}

// SetOf generates sets of distinct element values.
// Panics with TOO_MANY_FILTER_MISSES if not enough distinct values turn up.
func SetOf[E comparable](element RandomGenerator[E], minSize, maxSize, genSize int) RandomGenerator[map[E]struct{}] {
	checkSizes(minSize, maxSize)
	return func(r *rand.Rand) shrink.Shrinkable[map[E]struct{}] {
		size := ContainerSize(r, minSize, maxSize, genSize)
		elements := distinctElements(r, element, size, minSize, func(e E) E { return e })
		return shrink.NewSet(elements, minSize)
	}
}

// MapOf generates maps with distinct keys.
// Panics with TOO_MANY_FILTER_MISSES if not enough distinct keys turn up.
func MapOf[K comparable, V any](keys RandomGenerator[K], values RandomGenerator[V], minSize, maxSize, genSize int) RandomGenerator[map[K]V] {
	checkSizes(minSize, maxSize)
	var entry RandomGenerator[shrink.Entry[K, V]] = func(r *rand.Rand) shrink.Shrinkable[shrink.Entry[K, V]] {
		return shrink.NewEntry(keys(r), values(r))
	}
	return func(r *rand.Rand) shrink.Shrinkable[map[K]V] {
		size := ContainerSize(r, minSize, maxSize, genSize)
		entries := distinctElements(r, entry, size, minSize, func(e shrink.Entry[K, V]) K { return e.Key })
		return shrink.NewMap(entries, minSize)
	}
}

func distinctElements[E any, K comparable](r *rand.Rand, element RandomGenerator[E], size, minSize int, key func(E) K) []shrink.Shrinkable[E] {
	seen := make(map[K]struct{}, size)
	elements := make([]shrink.Shrinkable[E], 0, size)
	misses := 0
	for len(elements) < size {
		s := element(r)
		k := key(s.Value())
		if _, ok := seen[k]; ok {
			misses++
			if misses >= MaxFilterMisses {
				if len(elements) >= minSize {
					break
				}
				panic(apperrors.TooManyFilterMisses(misses))
			}
			continue
		}
		seen[k] = struct{}{}
		elements = append(elements, s)
	}
	return elements
}
