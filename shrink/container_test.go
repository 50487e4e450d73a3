package shrink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func integers(min, max int, values ...int) []Shrinkable[int] {
	elements := make([]Shrinkable[int], len(values))
	for i, v := range values {
		elements[i] = NewInteger(v, min, max)
	}
	return elements
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func TestListCandidates(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		minSize  int
		expected int
	}{
		{"halves and singles", 4, 0, 6},
		{"halves below minimum size are skipped", 4, 3, 4},
		{"at minimum size", 4, 4, 0},
		{"empty", 0, 0, 0},
		{"three elements have no distinct halves", 3, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := ListCandidates[int]{MinSize: tt.minSize}.CandidatesFor(make([]int, tt.size))
			assert.Len(t, candidates, tt.expected)
			for _, c := range candidates {
				assert.GreaterOrEqual(t, len(c), tt.minSize)
			}
		})
	}
}

func TestListShrinksSizeBeforeValues(t *testing.T) {
	list := NewList(integers(0, 10, 5, 5, 5), 0)
	var evaluated [][]int
	falsifier := Predicate(func(values []int) bool {
		evaluated = append(evaluated, values)
		return len(values) < 2
	})

	final, steps, counted := shrinkToEnd[[]int](list, falsifier)

	require.NotEmpty(t, steps)
	assert.Equal(t, []int{5, 5}, steps[0].Value())
	assert.Equal(t, []int{0, 0}, final.Value())
	assert.Equal(t, len(steps), counted)

	reachedTwo := false
	for _, values := range evaluated {
		if len(values) == 2 {
			reachedTwo = true
		}
		if sum(values) != 5*len(values) {
			assert.True(t, reachedTwo, "value shrinking started before size shrinking: %v", values)
		}
	}
}

func TestListRespectsMinSize(t *testing.T) {
	list := NewList(integers(0, 10, 1, 2, 3, 4), 3)

	final, _, _ := shrinkToEnd[[]int](list, Predicate(func([]int) bool { return false }))

	assert.Equal(t, []int{0, 0, 0}, final.Value())
}

func TestSetKeepsElementsUnique(t *testing.T) {
	set := NewSet(integers(0, 10, 3, 4), 0)

	final, steps, _ := shrinkToEnd[map[int]struct{}](set, Predicate(func(values map[int]struct{}) bool {
		return len(values) < 2
	}))

	assert.Equal(t, map[int]struct{}{0: {}, 1: {}}, final.Value())
	for _, step := range steps {
		assert.Len(t, step.Value(), 2)
	}
}

func TestMapKeepsKeysUnique(t *testing.T) {
	entry := func(k, v int) Shrinkable[Entry[int, int]] {
		return NewEntry(NewInteger(k, 0, 10), NewInteger(v, 0, 10))
	}
	m := NewMap([]Shrinkable[Entry[int, int]]{entry(5, 7), entry(6, 8)}, 0)

	final, _, _ := shrinkToEnd[map[int]int](m, Predicate(func(values map[int]int) bool {
		return len(values) < 2
	}))

	assert.Equal(t, map[int]int{0: 0, 1: 0}, final.Value())
}

func TestCombinedShrinksOnePositionAtATime(t *testing.T) {
	parts := []Shrinkable[any]{Box(NewInteger(10, 0, 100)), Box(NewInteger(20, 0, 100))}
	s := NewCombined(parts, func(values []any) []int {
		return []int{values[0].(int), values[1].(int)}
	})
	assert.Equal(t, []int64{2, 30}, s.Distance().Dimensions())

	final, steps, _ := shrinkToEnd(s, Predicate(func(v []int) bool { return v[0]+v[1] < 15 }))

	assert.Equal(t, []int{0, 15}, final.Value())
	secondStarted := false
	for _, step := range steps {
		if step.Value()[1] != 20 {
			secondStarted = true
		} else {
			assert.False(t, secondStarted, "first position shrunk after second")
		}
	}
}

func TestContainerDistanceDecreases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.IntRange(0, 100), 0, 8).Draw(t, "values")
		minSize := rapid.IntRange(0, len(values)).Draw(t, "minSize")
		limit := rapid.IntRange(0, 400).Draw(t, "limit")

		list := NewList(integers(0, 100, values...), minSize)
		falsifier := Predicate(func(v []int) bool { return sum(v) < limit })
		if falsifier(list.Value()).Status != Falsified {
			return
		}

		final, steps, _ := shrinkToEnd[[]int](list, falsifier)
		previous := list.Distance()
		for _, step := range steps {
			if !step.Distance().Less(previous) {
				t.Fatalf("distance %s does not decrease from %s", step.Distance(), previous)
			}
			if len(step.Value()) < minSize {
				t.Fatalf("list %v is shorter than %d", step.Value(), minSize)
			}
			previous = step.Distance()
		}
		if sum(final.Value()) < limit {
			t.Fatalf("final list %v does not falsify", final.Value())
		}
	})
}
