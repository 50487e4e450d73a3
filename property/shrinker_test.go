package property

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/authcorp/proptest/shrink"
)

func TestShrink(t *testing.T) {
	below42 := shrink.Predicate(func(n int) bool { return n < 42 })

	t.Run("off", func(t *testing.T) {
		out := Shrink(context.Background(), shrink.NewInteger(1000, 0, 5000), below42, ShrinkingOff, 0, nil)
		assert.Equal(t, 1000, out.Result.Value())
		assert.Zero(t, out.Steps)
	})

	t.Run("full", func(t *testing.T) {
		var steps []int
		out := Shrink(context.Background(), shrink.NewInteger(1000, 0, 5000), below42, ShrinkingFull, 0,
			func(r shrink.FalsificationResult[int]) { steps = append(steps, r.Value()) })

		assert.Equal(t, 42, out.Result.Value())
		assert.Equal(t, len(steps), out.Steps)
		assert.False(t, out.BoundReached)
		assert.NoError(t, out.Interrupted)
	})

	t.Run("bounded", func(t *testing.T) {
		out := Shrink(context.Background(), shrink.NewInteger(1000, 0, 5000), below42, ShrinkingBounded, 1, nil)
		assert.Equal(t, 1, out.Steps)
		assert.True(t, out.BoundReached)
		assert.GreaterOrEqual(t, out.Result.Value(), 42)
		assert.Less(t, out.Result.Value(), 1000)
	})

	t.Run("bound equal to the steps needed", func(t *testing.T) {
		full := Shrink(context.Background(), shrink.NewInteger(1000, 0, 5000), below42, ShrinkingFull, 0, nil)
		require.Positive(t, full.Steps)

		reported := 0
		out := Shrink(context.Background(), shrink.NewInteger(1000, 0, 5000), below42, ShrinkingBounded, full.Steps,
			func(shrink.FalsificationResult[int]) { reported++ })
		assert.Equal(t, 42, out.Result.Value())
		assert.Equal(t, full.Steps, out.Steps)
		assert.Equal(t, full.Steps, reported)
		assert.False(t, out.BoundReached)
	})

	t.Run("bound keeps the result at the bound", func(t *testing.T) {
		var steps []int
		out := Shrink(context.Background(), shrink.NewInteger(1000, 0, 5000), below42, ShrinkingBounded, 2,
			func(r shrink.FalsificationResult[int]) { steps = append(steps, r.Value()) })
		require.Len(t, steps, 2)
		assert.True(t, out.BoundReached)
		assert.Equal(t, steps[1], out.Result.Value())
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		out := Shrink(ctx, shrink.NewInteger(1000, 0, 5000), below42, ShrinkingFull, 0, nil)
		assert.Equal(t, 1000, out.Result.Value())
		assert.True(t, errors.Is(out.Interrupted, context.Canceled))
	})
}

func TestShrinkNeverExceedsBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.IntRange(0, 1_000_000).Draw(t, "value")
		threshold := rapid.IntRange(0, value).Draw(t, "threshold")
		bound := rapid.IntRange(0, 20).Draw(t, "bound")

		falsifier := shrink.Predicate(func(n int) bool { return n < threshold })
		out := Shrink(context.Background(), shrink.NewInteger(value, 0, 1_000_000), falsifier, ShrinkingBounded, bound, nil)

		require.LessOrEqual(t, out.Steps, bound)
		require.GreaterOrEqual(t, out.Result.Value(), threshold)
		if !out.BoundReached {
			require.Equal(t, threshold, out.Result.Value())
		}
	})
}
