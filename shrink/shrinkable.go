package shrink

// Shrinkable pairs a generated value with its distance and the ability to
// search for smaller falsifying values. Shrinkables are immutable: shrinking
// always produces new instances.
type Shrinkable[T any] interface {
	Value() T
	Distance() Distance
	Shrink(falsifier Falsifier[T]) Sequence[T]
}

type unshrinkable[T any] struct {
	value    T
	distance Distance
}

// Unshrinkable wraps a value that cannot be shrunk; its distance is minimal.
func Unshrinkable[T any](value T) Shrinkable[T] {
	return unshrinkable[T]{value: value, distance: MinDistance}
}

// UnshrinkableWithDistance wraps a value that cannot be shrunk but still ranks
// with the given distance, e.g. an edge case taken from a larger domain.
func UnshrinkableWithDistance[T any](value T, distance Distance) Shrinkable[T] {
	return unshrinkable[T]{value: value, distance: distance}
}

func (u unshrinkable[T]) Value() T           { return u.value }
func (u unshrinkable[T]) Distance() Distance { return u.distance }

func (u unshrinkable[T]) Shrink(Falsifier[T]) Sequence[T] {
	return DontShrink[T](u)
}

type mapped[T, U any] struct {
	source Shrinkable[T]
	mapper func(T) U
	value  U
}

// Map transforms the value of s. The distance is unchanged.
func Map[T, U any](s Shrinkable[T], mapper func(T) U) Shrinkable[U] {
	return &mapped[T, U]{source: s, mapper: mapper, value: mapper(s.Value())}
}

func (m *mapped[T, U]) Value() U           { return m.value }
func (m *mapped[T, U]) Distance() Distance { return m.source.Distance() }

func (m *mapped[T, U]) Shrink(falsifier Falsifier[U]) Sequence[U] {
	inner := m.source.Shrink(Contramap(falsifier, m.mapper))
	return MapSequence(inner, func(r FalsificationResult[T]) FalsificationResult[U] {
		return MapResult(r, func(s Shrinkable[T]) Shrinkable[U] { return Map(s, m.mapper) })
	})
}

type filtered[T any] struct {
	source Shrinkable[T]
	filter func(T) bool
}

// Filter restricts shrinking of s to values accepted by filter.
func Filter[T any](s Shrinkable[T], filter func(T) bool) Shrinkable[T] {
	return &filtered[T]{source: s, filter: filter}
}

func (f *filtered[T]) Value() T           { return f.source.Value() }
func (f *filtered[T]) Distance() Distance { return f.source.Distance() }

func (f *filtered[T]) Shrink(falsifier Falsifier[T]) Sequence[T] {
	inner := f.source.Shrink(falsifier.WithFilter(f.filter))
	return MapSequence(inner, func(r FalsificationResult[T]) FalsificationResult[T] {
		return MapResult(r, func(s Shrinkable[T]) Shrinkable[T] { return Filter(s, f.filter) })
	})
}
