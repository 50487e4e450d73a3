package shrink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sevens(n int) Shrinkable[[]int] {
	values := make([]int, n)
	for i := range values {
		values[i] = 7
	}
	return NewList(integers(0, 10, values...), 0)
}

func TestFlatMappedShrinksUpstreamFirst(t *testing.T) {
	s := NewFlatMapped(NewInteger(10, 0, 10), sevens)
	require.Len(t, s.Value(), 10)
	assert.Equal(t, int64(10), s.Distance().Dimensions()[0])

	final, steps, counted := shrinkToEnd(s, Predicate(func(v []int) bool { return len(v) < 3 }))

	assert.Equal(t, []int{0, 0, 0}, final.Value())
	assert.Equal(t, len(steps), counted)

	contentStarted := false
	previousLength := len(s.Value())
	for _, step := range steps {
		length := len(step.Value())
		if length != previousLength {
			assert.False(t, contentStarted, "length changed after content shrinking started")
		}
		if sum(step.Value()) != 7*length {
			contentStarted = true
		}
		previousLength = length
	}
	assert.True(t, contentStarted)
}

func TestFlatMappedDistanceDecreases(t *testing.T) {
	s := NewFlatMapped(NewInteger(8, 0, 10), sevens)

	_, steps, _ := shrinkToEnd(s, Predicate(func(v []int) bool { return sum(v) < 10 }))

	previous := s.Distance()
	for _, step := range steps {
		assert.True(t, step.Distance().Less(previous), "%s is not smaller than %s", step.Distance(), previous)
		previous = step.Distance()
	}
}
