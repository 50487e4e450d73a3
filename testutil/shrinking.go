package testutil

import "github.com/authcorp/proptest/shrink"

// MaxSteps bounds how long ShrinkToEnd drives a sequence.
const MaxSteps = 100_000

// Shrunk records a shrink run driven to exhaustion.
type Shrunk[T any] struct {
	Final     shrink.FalsificationResult[T]
	Steps     []shrink.FalsificationResult[T]
	Counted   int
	Exhausted bool
}

// ShrinkToEnd drives the shrinking sequence of s until it is exhausted or
// MaxSteps steps were accepted.
func ShrinkToEnd[T any](s shrink.Shrinkable[T], falsifier shrink.Falsifier[T]) Shrunk[T] {
	seq := s.Shrink(falsifier)
	var shrunk Shrunk[T]
	for i := 0; i < MaxSteps; i++ {
		if !seq.Next(func() { shrunk.Counted++ }, func(r shrink.FalsificationResult[T]) {
			shrunk.Steps = append(shrunk.Steps, r)
		}) {
			shrunk.Exhausted = true
			break
		}
	}
	shrunk.Final = seq.Current()
	return shrunk
}

// Values returns the values of the accepted steps.
func (s Shrunk[T]) Values() []T {
	values := make([]T, len(s.Steps))
	for i, step := range s.Steps {
		values[i] = step.Value()
	}
	return values
}

// DistancesDecrease reports whether every accepted step is strictly smaller
// than the one before, starting from start.
func (s Shrunk[T]) DistancesDecrease(start shrink.Distance) bool {
	previous := start
	for _, step := range s.Steps {
		if !step.Distance().Less(previous) {
			return false
		}
		previous = step.Distance()
	}
	return true
}
