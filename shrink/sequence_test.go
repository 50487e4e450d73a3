package shrink

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

const maxDrivenSteps = 100_000

// shrinkToEnd drives the sequence of s until it is exhausted.
func shrinkToEnd[T any](s Shrinkable[T], falsifier Falsifier[T]) (FalsificationResult[T], []FalsificationResult[T], int) {
	seq := s.Shrink(falsifier)
	var steps []FalsificationResult[T]
	counted := 0
	for i := 0; i < maxDrivenSteps; i++ {
		if !seq.Next(func() { counted++ }, func(r FalsificationResult[T]) { steps = append(steps, r) }) {
			break
		}
	}
	return seq.Current(), steps, counted
}

func TestDontShrink(t *testing.T) {
	seq := Unshrinkable(5).Shrink(Predicate(func(int) bool { return false }))

	assert.False(t, seq.Next(func() { t.Fatal("unexpected step") }, func(FalsificationResult[int]) {}))
	assert.Equal(t, 5, seq.Current().Value())
	assert.Equal(t, Falsified, seq.Current().Status())
}

func TestDeepSearchSkipsFilteredOut(t *testing.T) {
	falsifier := Predicate(func(v int) bool {
		Assume(v%2 == 0)
		return v < 10
	})

	final, steps, counted := shrinkToEnd(NewInteger(100, 0, 1000), falsifier)

	assert.Equal(t, 10, final.Value())
	assert.Equal(t, len(steps), counted)
	for _, step := range steps {
		assert.Equal(t, 0, step.Value()%2, "filtered out candidate %d became current", step.Value())
		assert.Equal(t, Falsified, step.Status())
	}
}

func TestDeepSearchKeepsErrors(t *testing.T) {
	boom := errors.New("boom")
	falsifier := ErrorPredicate(func(v int) error {
		if v >= 3 {
			return boom
		}
		return nil
	})

	final, _, _ := shrinkToEnd(NewInteger(50, 0, 100), falsifier)

	assert.Equal(t, 3, final.Value())
	assert.ErrorIs(t, final.Err(), boom)
}

func TestPredicateRecoversPanics(t *testing.T) {
	verdict := Predicate(func(int) bool { panic("unexpected") })(1)
	assert.Equal(t, Falsified, verdict.Status)
	assert.EqualError(t, verdict.Err, "panic: unexpected")

	assert.Equal(t, FilteredOut, Predicate(func(int) bool { Assume(false); return true })(1).Status)
}

func TestMapShrinkable(t *testing.T) {
	s := Map(NewInteger(500, 0, 1000), strconv.Itoa)

	assert.Equal(t, "500", s.Value())
	assert.Equal(t, []int64{500}, s.Distance().Dimensions())

	final, _, _ := shrinkToEnd(s, Predicate(func(v string) bool { return len(v) < 2 }))
	assert.Equal(t, "10", final.Value())
}

func TestFilterShrinkable(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }
	s := Filter(NewInteger(50, 0, 100), even)

	final, steps, _ := shrinkToEnd(s, Predicate(func(v int) bool { return v < 5 }))

	assert.Equal(t, 6, final.Value())
	for _, step := range steps {
		assert.True(t, even(step.Value()))
	}
}

func TestAndThenContinuesFromFinalResult(t *testing.T) {
	first := NewInteger(9, 0, 10).Shrink(Predicate(func(v int) bool { return v < 5 }))
	var followedFrom int
	seq := AndThen(first, func(r FalsificationResult[int]) Sequence[int] {
		followedFrom = r.Value()
		return DontShrink(r.Shrinkable())
	})

	for seq.Next(func() {}, func(FalsificationResult[int]) {}) {
	}

	assert.Equal(t, 5, followedFrom)
	assert.Equal(t, 5, seq.Current().Value())
}
