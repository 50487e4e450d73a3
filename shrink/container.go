package shrink

// Container is the shrinkable behind lists, sets and maps. Shrinking first
// reduces the number of elements and then shrinks the remaining elements one
// position at a time.
type Container[C, E any] struct {
	elements []Shrinkable[E]
	minSize  int
	toValue  func([]E) C
	valid    func([]E) bool
	value    C
}

// NewContainer creates a container shrinkable. toValue builds the container
// value from element values; valid, if not nil, rejects element combinations
// that break an invariant of the container, e.g. uniqueness.
func NewContainer[C, E any](elements []Shrinkable[E], minSize int, toValue func([]E) C, valid func([]E) bool) *Container[C, E] {
	copied := cloneSlice(elements)
	return &Container[C, E]{
		elements: copied,
		minSize:  minSize,
		toValue:  toValue,
		valid:    valid,
		value:    toValue(valuesOf(copied)),
	}
}

// NewList creates a shrinkable list.
func NewList[E any](elements []Shrinkable[E], minSize int) *Container[[]E, E] {
	return NewContainer(elements, minSize, func(values []E) []E { return values }, nil)
}

// NewSet creates a shrinkable set. Candidates with duplicate elements are
// filtered out.
func NewSet[E comparable](elements []Shrinkable[E], minSize int) *Container[map[E]struct{}, E] {
	return NewContainer(elements, minSize, func(values []E) map[E]struct{} {
		set := make(map[E]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		return set
	}, distinct[E])
}

// Entry is a key/value pair of a generated map.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// NewEntry combines a key and a value shrinkable into a map entry.
func NewEntry[K comparable, V any](key Shrinkable[K], value Shrinkable[V]) Shrinkable[Entry[K, V]] {
	return NewCombined([]Shrinkable[any]{Box(key), Box(value)}, func(parts []any) Entry[K, V] {
		return Entry[K, V]{Key: parts[0].(K), Value: parts[1].(V)}
	})
}

// NewMap creates a shrinkable map from entry shrinkables. Candidates with
// duplicate keys are filtered out.
func NewMap[K comparable, V any](entries []Shrinkable[Entry[K, V]], minSize int) *Container[map[K]V, Entry[K, V]] {
	return NewContainer(entries, minSize, func(values []Entry[K, V]) map[K]V {
		m := make(map[K]V, len(values))
		for _, e := range values {
			m[e.Key] = e.Value
		}
		return m
	}, func(values []Entry[K, V]) bool {
		keys := make([]K, len(values))
		for i, e := range values {
			keys[i] = e.Key
		}
		return distinct(keys)
	})
}

// Value returns the container value.
func (c *Container[C, E]) Value() C { return c.value }

// Distance returns the number of elements followed by their summed distances.
func (c *Container[C, E]) Distance() Distance { return ForCollection(c.elements) }

// Elements returns the element shrinkables.
func (c *Container[C, E]) Elements() []Shrinkable[E] { return cloneSlice(c.elements) }

// Shrink implements Shrinkable.
func (c *Container[C, E]) Shrink(falsifier Falsifier[C]) Sequence[C] {
	sizes := NewDeepSearch[C](c, c.sizeCandidates, falsifier)
	return AndThen(sizes, func(r FalsificationResult[C]) Sequence[C] {
		best, ok := r.Shrinkable().(*Container[C, E])
		if !ok {
			return DontShrink(r.Shrinkable())
		}
		return best.shrinkElements(falsifier)
	})
}

func (c *Container[C, E]) sizeCandidates(s Shrinkable[C]) []Shrinkable[C] {
	current, ok := s.(*Container[C, E])
	if !ok {
		return nil
	}
	var candidates []Shrinkable[C]
	for _, elements := range (ListCandidates[Shrinkable[E]]{MinSize: c.minSize}).CandidatesFor(current.elements) {
		if c.valid != nil && !c.valid(valuesOf(elements)) {
			continue
		}
		candidates = append(candidates, c.with(elements))
	}
	return candidates
}

func (c *Container[C, E]) shrinkElements(falsifier Falsifier[C]) Sequence[C] {
	return NewElements(c.elements, falsifier, ElementsOptions[E, C]{
		CombineValues: c.toValue,
		CombineShrinkables: func(elements []Shrinkable[E]) Shrinkable[C] {
			return c.with(elements)
		},
		Valid: c.valid,
	})
}

func (c *Container[C, E]) with(elements []Shrinkable[E]) *Container[C, E] {
	return NewContainer(elements, c.minSize, c.toValue, c.valid)
}

func valuesOf[E any](elements []Shrinkable[E]) []E {
	values := make([]E, len(elements))
	for i, e := range elements {
		values[i] = e.Value()
	}
	return values
}

func distinct[E comparable](values []E) bool {
	seen := make(map[E]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}
