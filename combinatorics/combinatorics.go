package combinatorics

// Combine enumerates the cartesian product of inputs. The leftmost input
// varies slowest. An empty list of inputs yields exactly one empty result; if
// any input is empty the product is empty.
func Combine[T any](inputs []Iterator[T]) Iterator[[]T] {
	return func(yield func([]T) bool) {
		combineFrom(inputs, make([]T, 0, len(inputs)), yield)
	}
}

func combineFrom[T any](inputs []Iterator[T], prefix []T, yield func([]T) bool) bool {
	if len(inputs) == 0 {
		return yield(clone(prefix))
	}
	keepGoing := true
	inputs[0](func(v T) bool {
		keepGoing = combineFrom(inputs[1:], append(prefix, v), yield)
		return keepGoing
	})
	return keepGoing
}

// ListCombinations enumerates all ordered tuples with repetition whose length
// lies in [minSize, maxSize]. Shorter tuples come first; tuples of the same
// length follow the order of elements.
func ListCombinations[T any](elements []T, minSize, maxSize int) Iterator[[]T] {
	return func(yield func([]T) bool) {
		for size := max(minSize, 0); size <= maxSize; size++ {
			inputs := make([]Iterator[T], size)
			for i := range inputs {
				inputs[i] = FromSlice(elements)
			}
			if !combineFrom(inputs, make([]T, 0, size), yield) {
				return
			}
			if len(elements) == 0 {
				return
			}
		}
	}
}

// SetCombinations enumerates all combinations without repetition and without
// regard to order whose size lies in [minSize, maxSize]. Equal elements are
// treated as one. Nothing is yielded when there are fewer distinct elements
// than minSize.
func SetCombinations[T comparable](elements []T, minSize, maxSize int) Iterator[[]T] {
	distinct := Distinct(elements)
	return func(yield func([]T) bool) {
		if len(distinct) < minSize {
			return
		}
		for size := max(minSize, 0); size <= min(maxSize, len(distinct)); size++ {
			if !kCombinations(distinct, size, yield) {
				return
			}
		}
	}
}

func kCombinations[T any](elements []T, k int, yield func([]T) bool) bool {
	n := len(elements)
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		combination := make([]T, k)
		for i, idx := range indices {
			combination[i] = elements[idx]
		}
		if !yield(combination) {
			return false
		}

		i := k - 1
		for i >= 0 && indices[i] == n-k+i {
			i--
		}
		if i < 0 {
			return true
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// ListPermutations enumerates all orderings of values using Heap's algorithm.
// Equal values produce duplicate permutations.
func ListPermutations[T any](values []T) Iterator[[]T] {
	return func(yield func([]T) bool) {
		a := clone(values)
		n := len(a)
		if !yield(clone(a)) {
			return
		}
		c := make([]int, n)
		for i := 0; i < n; {
			if c[i] < i {
				if i%2 == 0 {
					a[0], a[i] = a[i], a[0]
				} else {
					a[c[i]], a[i] = a[i], a[c[i]]
				}
				if !yield(clone(a)) {
					return
				}
				c[i]++
				i = 0
			} else {
				c[i] = 0
				i++
			}
		}
	}
}

// Distinct returns the distinct elements in order of first occurrence.
func Distinct[T comparable](elements []T) []T {
	seen := make(map[T]struct{}, len(elements))
	var distinct []T
	for _, e := range elements {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		distinct = append(distinct, e)
	}
	return distinct
}

func clone[T any](s []T) []T {
	copied := make([]T, len(s))
	copy(copied, s)
	return copied
}
