package shrink

type combined[T any] struct {
	parts      []Shrinkable[any]
	combinator func([]any) T
	value      T
}

// NewCombined composes independent shrinkables into one value. Shrinking
// works on one part at a time while the others stay fixed.
func NewCombined[T any](parts []Shrinkable[any], combinator func([]any) T) Shrinkable[T] {
	copied := cloneSlice(parts)
	return &combined[T]{
		parts:      copied,
		combinator: combinator,
		value:      combinator(valuesOf(copied)),
	}
}

func (c *combined[T]) Value() T { return c.value }

func (c *combined[T]) Distance() Distance {
	distances := make([]Distance, len(c.parts))
	for i, p := range c.parts {
		distances[i] = p.Distance()
	}
	return Combine(distances)
}

func (c *combined[T]) Shrink(falsifier Falsifier[T]) Sequence[T] {
	return NewElements(c.parts, falsifier, ElementsOptions[any, T]{
		CombineValues: c.combinator,
		CombineShrinkables: func(parts []Shrinkable[any]) Shrinkable[T] {
			return NewCombined(parts, c.combinator)
		},
	})
}

// Box erases the value type of s so it can take part in a combination.
func Box[T any](s Shrinkable[T]) Shrinkable[any] {
	return Map(s, func(v T) any { return v })
}
