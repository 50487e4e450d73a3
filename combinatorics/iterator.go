// Package combinatorics provides deterministic enumeration primitives used for
// exhaustive generation: cartesian products, list and set combinations and
// permutations, together with the sizes of those search spaces.
package combinatorics

// Iterator provides lazy iteration using Go 1.23+ range functions.
type Iterator[T any] func(yield func(T) bool)

// FromSlice creates an iterator from a slice.
func FromSlice[T any](slice []T) Iterator[T] {
	return func(yield func(T) bool) {
		for _, v := range slice {
			if !yield(v) {
				return
			}
		}
	}
}

// Empty returns an iterator without elements.
func Empty[T any]() Iterator[T] {
	return func(func(T) bool) {}
}

// Map transforms iterator elements.
func Map[T, U any](iter Iterator[T], fn func(T) U) Iterator[U] {
	return func(yield func(U) bool) {
		iter(func(t T) bool {
			return yield(fn(t))
		})
	}
}

// Filter keeps elements matching predicate.
func Filter[T any](iter Iterator[T], pred func(T) bool) Iterator[T] {
	return func(yield func(T) bool) {
		iter(func(t T) bool {
			if pred(t) {
				return yield(t)
			}
			return true
		})
	}
}

// Take limits iterator to n elements.
func Take[T any](iter Iterator[T], n int) Iterator[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		count := 0
		iter(func(t T) bool {
			count++
			if !yield(t) {
				return false
			}
			return count < n
		})
	}
}

// Concat chains iterators one after another.
func Concat[T any](iters ...Iterator[T]) Iterator[T] {
	return func(yield func(T) bool) {
		for _, iter := range iters {
			stopped := false
			iter(func(t T) bool {
				if !yield(t) {
					stopped = true
					return false
				}
				return true
			})
			if stopped {
				return
			}
		}
	}
}

// FlatMap maps each element to an iterator and flattens the result.
func FlatMap[T, U any](iter Iterator[T], fn func(T) Iterator[U]) Iterator[U] {
	return func(yield func(U) bool) {
		iter(func(t T) bool {
			keepGoing := true
			fn(t)(func(u U) bool {
				if !yield(u) {
					keepGoing = false
					return false
				}
				return true
			})
			return keepGoing
		})
	}
}

// Collect materializes iterator to slice.
func Collect[T any](iter Iterator[T]) []T {
	var result []T
	iter(func(t T) bool {
		result = append(result, t)
		return true
	})
	return result
}
