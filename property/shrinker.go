package property

import (
	"context"

	"github.com/authcorp/proptest/shrink"
)

// Shrunk is the outcome of a shrink run.
type Shrunk[T any] struct {
	Result       shrink.FalsificationResult[T]
	Steps        int
	BoundReached bool
	// Interrupted is the context error that stopped the run, if any.
	Interrupted error
}

// Shrink drives the shrinking sequence of a falsified sample until it is
// exhausted, the bound of ShrinkingBounded is reached or ctx is done.
// onStep receives every accepted step.
//
// Once the bound is reached the sequence is asked for one more step to tell
// whether the bound cut the search short. That step is neither counted nor
// reported and the result stays at the bound.
func Shrink[T any](
	ctx context.Context,
	sample shrink.Shrinkable[T],
	falsifier shrink.Falsifier[T],
	mode ShrinkingMode,
	bound int,
	onStep func(shrink.FalsificationResult[T]),
) Shrunk[T] {
	if mode == ShrinkingOff {
		return Shrunk[T]{Result: shrink.FalsifiedResult(sample)}
	}
	if onStep == nil {
		onStep = func(shrink.FalsificationResult[T]) {}
	}

	var out Shrunk[T]
	seq := sample.Shrink(falsifier)
	for {
		if err := ctx.Err(); err != nil {
			out.Interrupted = err
			break
		}
		if mode == ShrinkingBounded && out.Steps >= bound {
			out.Result = seq.Current()
			out.BoundReached = seq.Next(func() {}, func(shrink.FalsificationResult[T]) {})
			return out
		}
		if !seq.Next(func() { out.Steps++ }, onStep) {
			break
		}
	}
	out.Result = seq.Current()
	return out
}
