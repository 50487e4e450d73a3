package property

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/authcorp/proptest/arbitrary"
	"github.com/authcorp/proptest/combinators"
	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/observability"
	"github.com/authcorp/proptest/shrink"
	"github.com/authcorp/proptest/store"
)

func quietChecker(opts ...Option) *Checker {
	opts = append([]Option{WithLogger(observability.NewLogger("error", "json", io.Discard))}, opts...)
	return NewChecker(opts...)
}

func seeded(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return cfg
}

func below100() *Property[int] {
	return ForAll("below 100", arbitrary.Integers[int]().Between(0, 10_000), func(n int) bool {
		return n < 100
	})
}

func TestCheckSatisfied(t *testing.T) {
	prop := ForAll("square is non-negative", arbitrary.Integers[int]().Between(-1_000_000, 1_000_000), func(n int) bool {
		return n*n >= 0
	})
	cfg := seeded(42)
	cfg.Tries = 100

	res := quietChecker().Check(context.Background(), prop, cfg)

	assert.Equal(t, Satisfied, res.Status, res.String())
	assert.True(t, res.Passed())
	assert.Equal(t, int64(42), res.Seed)
	assert.Equal(t, GenerationRandomized, res.Generation)
	assert.Equal(t, 100, res.CountTries)
	assert.Equal(t, 100, res.CountChecks)
	assert.Zero(t, res.CountDiscards)
	assert.NoError(t, res.Err)
}

func TestCheckFalsifiedShrinks(t *testing.T) {
	res := quietChecker().Check(context.Background(), below100(), seeded(7))

	require.Equal(t, Falsified, res.Status, res.String())
	assert.False(t, res.Passed())
	assert.GreaterOrEqual(t, res.OriginalSample.(int), 100)
	assert.Equal(t, 100, res.ShrunkSample)
	assert.False(t, res.BoundReached)
	assert.Contains(t, res.String(), "shrunk sample:   100")
}

func TestCheckIsReproducibleWithSeed(t *testing.T) {
	c := quietChecker()
	first := c.Check(context.Background(), below100(), seeded(99))
	second := c.Check(context.Background(), below100(), seeded(99))

	require.Equal(t, Falsified, first.Status)
	assert.Equal(t, first.OriginalSample, second.OriginalSample)
	assert.Equal(t, first.CountTries, second.CountTries)
}

func TestCheckShrinkingModes(t *testing.T) {
	t.Run("off keeps the original sample", func(t *testing.T) {
		cfg := seeded(7)
		cfg.Shrinking = ShrinkingOff
		res := quietChecker().Check(context.Background(), below100(), cfg)

		require.Equal(t, Falsified, res.Status)
		assert.Equal(t, res.OriginalSample, res.ShrunkSample)
		assert.Zero(t, res.ShrinkSteps)
	})

	t.Run("bounded stops after the bound", func(t *testing.T) {
		cfg := seeded(7)
		cfg.Shrinking = ShrinkingBounded
		cfg.ShrinkingBound = 1
		cfg.EdgeCases = EdgeCasesNone
		res := quietChecker().Check(context.Background(), below100(), cfg)

		require.Equal(t, Falsified, res.Status)
		if res.OriginalSample.(int) == 100 {
			t.Skip("original sample is already minimal")
		}
		assert.Equal(t, 1, res.ShrinkSteps)
		assert.True(t, res.BoundReached)
		assert.GreaterOrEqual(t, res.ShrunkSample.(int), 100)
	})
}

func TestCheckErrorProperty(t *testing.T) {
	prop := ForAllErr("error below 100", arbitrary.Integers[int]().Between(0, 10_000), func(n int) error {
		if n >= 100 {
			return fmt.Errorf("too big: %d", n)
		}
		return nil
	})

	res := quietChecker().Check(context.Background(), prop, seeded(3))

	require.Equal(t, Falsified, res.Status)
	assert.Equal(t, 100, res.ShrunkSample)
	require.Error(t, res.Err)
	assert.Equal(t, "too big: 100", res.Err.Error())
}

func TestCheckExhaustiveGeneration(t *testing.T) {
	oneToTen := arbitrary.Integers[int]().Between(1, 10)

	t.Run("auto enumerates small domains", func(t *testing.T) {
		res := quietChecker().Check(context.Background(), ForAll("positive", oneToTen, func(n int) bool {
			return n > 0
		}), DefaultConfig())

		assert.Equal(t, Satisfied, res.Status)
		assert.Equal(t, GenerationExhaustive, res.Generation)
		assert.Equal(t, 10, res.CountTries)
	})

	t.Run("finds the first falsifying value", func(t *testing.T) {
		res := quietChecker().Check(context.Background(), ForAll("not seven", oneToTen, func(n int) bool {
			return n != 7
		}), DefaultConfig())

		require.Equal(t, Falsified, res.Status)
		assert.Equal(t, 7, res.CountTries)
		assert.Equal(t, 7, res.OriginalSample)
		assert.Equal(t, 7, res.ShrunkSample)
		assert.Zero(t, res.ShrinkSteps)
	})

	t.Run("randomized ignores the exhaustive form", func(t *testing.T) {
		cfg := seeded(1)
		cfg.Generation = GenerationRandomized
		cfg.Tries = 50
		res := quietChecker().Check(context.Background(), ForAll("positive", oneToTen, func(n int) bool {
			return n > 0
		}), cfg)

		assert.Equal(t, GenerationRandomized, res.Generation)
		assert.Equal(t, 50, res.CountTries)
	})

	t.Run("exhaustive mode rejects large domains", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Generation = GenerationExhaustive
		cfg.Tries = 100
		res := quietChecker().Check(context.Background(), below100(), cfg)

		assert.Equal(t, Aborted, res.Status)
		assert.True(t, apperrors.IsCode(res.Err, apperrors.ErrCodeExhaustiveTooLarge))
	})

	t.Run("exhaustive mode needs an exhaustive form", func(t *testing.T) {
		constant := arbitrary.FromGenerator(func(int) generator.RandomGenerator[int] {
			return generator.Constant(1)
		})
		cfg := DefaultConfig()
		cfg.Generation = GenerationExhaustive
		res := quietChecker().Check(context.Background(), ForAll("constant", constant, func(int) bool {
			return true
		}), cfg)

		assert.Equal(t, Aborted, res.Status)
		assert.True(t, apperrors.IsCode(res.Err, apperrors.ErrCodeExhaustiveTooLarge))
	})
}

func TestCheckEdgeCasesFirst(t *testing.T) {
	var seen []int
	prop := ForAll("records samples", arbitrary.Integers[int]().Between(-100, 100), func(n int) bool {
		seen = append(seen, n)
		return true
	})
	cfg := seeded(5)
	cfg.Generation = GenerationRandomized
	cfg.EdgeCases = EdgeCasesFirst
	cfg.Tries = 50

	res := quietChecker().Check(context.Background(), prop, cfg)

	require.Equal(t, Satisfied, res.Status)
	require.Len(t, seen, 50)
	assert.ElementsMatch(t, []int{-100, -99, -2, -1, 0, 1, 2, 99, 100}, seen[:9])
}

func TestCheckExhaustedByAssumptions(t *testing.T) {
	prop := ForAll("never applicable", arbitrary.Integers[int]().Between(0, 10_000), func(n int) bool {
		shrink.Assume(n < 0)
		return true
	})
	cfg := seeded(11)
	cfg.Tries = 20

	res := quietChecker().Check(context.Background(), prop, cfg)

	assert.Equal(t, Exhausted, res.Status)
	assert.Equal(t, 20, res.CountTries)
	assert.Equal(t, 20, res.CountDiscards)
	assert.Zero(t, res.CountChecks)
	assert.Error(t, res.Err)
}

func TestCheckDiscardRatio(t *testing.T) {
	prop := ForAll("mostly even", arbitrary.Integers[int]().Between(0, 10_000), func(n int) bool {
		shrink.Assume(n%2 == 0)
		return true
	})
	cfg := seeded(13)
	cfg.Generation = GenerationRandomized

	cfg.MaxDiscardRatio = 0
	assert.Equal(t, Exhausted, quietChecker().Check(context.Background(), prop, cfg).Status)

	cfg.MaxDiscardRatio = 5
	assert.Equal(t, Satisfied, quietChecker().Check(context.Background(), prop, cfg).Status)
}

func TestCheckAborted(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Tries = 0
		res := quietChecker().Check(context.Background(), below100(), cfg)

		assert.Equal(t, Aborted, res.Status)
		assert.True(t, apperrors.IsCode(res.Err, apperrors.ErrCodeInvalidConfiguration))
	})

	t.Run("invalid arbitrary built during generation", func(t *testing.T) {
		broken := arbitrary.Lazy(func() arbitrary.Arbitrary[int] {
			return arbitrary.Integers[int]().Between(5, 1)
		})
		res := quietChecker().Check(context.Background(), ForAll("broken", broken, func(int) bool {
			return true
		}), seeded(1))

		assert.Equal(t, Aborted, res.Status)
		assert.True(t, apperrors.IsCode(res.Err, apperrors.ErrCodeInvalidConfiguration))
	})

	t.Run("filter that never matches", func(t *testing.T) {
		never := arbitrary.Filter[int](arbitrary.Integers[int]().Between(0, 1000), func(int) bool { return false })
		cfg := seeded(1)
		cfg.Generation = GenerationRandomized
		res := quietChecker().Check(context.Background(), ForAll("never", never, func(int) bool {
			return true
		}), cfg)

		assert.Equal(t, Aborted, res.Status)
		assert.True(t, apperrors.IsCode(res.Err, apperrors.ErrCodeTooManyFilterMisses))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res := quietChecker().Check(ctx, below100(), seeded(1))

		assert.Equal(t, Aborted, res.Status)
		assert.True(t, errors.Is(res.Err, context.Canceled))
	})
}

func TestCheckMultipleParameters(t *testing.T) {
	digits := arbitrary.Integers[int]().Between(0, 100)
	prop := ForAll2("small sum", digits, digits, func(a, b int) bool {
		return a+b < 10
	})

	res := quietChecker().Check(context.Background(), prop, seeded(21))

	require.Equal(t, Falsified, res.Status)
	a, b := res.ShrunkSample.(combinators.Pair[int, int]).Unpack()
	assert.Equal(t, 10, a+b)

	triple := ForAll3("ordered", digits, digits, digits, func(a, b, c int) bool {
		return a <= b || b <= c
	})
	res = quietChecker().Check(context.Background(), triple, seeded(22))
	require.Equal(t, Falsified, res.Status)
	x, y, z := res.ShrunkSample.(combinators.Triple[int, int, int]).Unpack()
	assert.True(t, x > y && y > z)
}

func TestFailureStore(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemoryStore()
	c := quietChecker(WithStore(db))

	first := c.Check(ctx, below100(), DefaultConfig())
	require.Equal(t, Falsified, first.Status)

	rec, ok, err := db.Load(ctx, "below 100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Seed, rec.Seed)
	assert.Equal(t, "100", rec.Sample)
	assert.Equal(t, first.CountTries, rec.Tries)

	t.Run("previous seed", func(t *testing.T) {
		res := c.Check(ctx, below100(), DefaultConfig())
		assert.Equal(t, first.Seed, res.Seed)
		assert.Equal(t, first.OriginalSample, res.OriginalSample)
	})

	t.Run("explicit seed wins", func(t *testing.T) {
		res := c.Check(ctx, below100(), seeded(first.Seed+1))
		assert.Equal(t, first.Seed+1, res.Seed)
	})

	t.Run("sample first replays the shrunk sample", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AfterFailure = AfterFailureSampleFirst
		res := c.Check(ctx, below100(), cfg)

		require.Equal(t, Falsified, res.Status)
		assert.Equal(t, 1, res.CountTries)
		assert.Equal(t, 100, res.ShrunkSample)
	})

	t.Run("sample only passes when the sample passes", func(t *testing.T) {
		fixed := ForAll("below 100", arbitrary.Integers[int]().Between(0, 10_000), func(int) bool {
			return true
		})
		cfg := DefaultConfig()
		cfg.AfterFailure = AfterFailureSampleOnly
		res := c.Check(ctx, fixed, cfg)

		assert.Equal(t, Satisfied, res.Status)
		assert.Equal(t, 1, res.CountTries)
	})

	t.Run("satisfied run clears the record", func(t *testing.T) {
		fixed := ForAll("below 100", arbitrary.Integers[int]().Between(0, 10_000), func(int) bool {
			return true
		})
		res := c.Check(ctx, fixed, DefaultConfig())
		require.Equal(t, Satisfied, res.Status)

		_, ok, err := db.Load(ctx, "below 100")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCheckerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	c := quietChecker(WithMetrics(metrics))

	cfg := seeded(3)
	cfg.Tries = 30
	c.Check(context.Background(), ForAll("always", arbitrary.Integers[int]().Between(0, 10_000), func(int) bool {
		return true
	}), cfg)
	c.Check(context.Background(), below100(), seeded(3))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ChecksTotal.WithLabelValues("always", "satisfied")))
	assert.Equal(t, 30.0, testutil.ToFloat64(metrics.TriesTotal.WithLabelValues("always")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ChecksTotal.WithLabelValues("below 100", "falsified")))
	assert.Greater(t, testutil.ToFloat64(metrics.ShrinkStepsTotal.WithLabelValues("below 100")), 0.0)
}

func TestCheckerLogsFalsification(t *testing.T) {
	var buf bytes.Buffer
	c := NewChecker(WithLogger(observability.NewLogger("info", "json", &buf)))

	c.Check(context.Background(), below100(), seeded(3))

	assert.Contains(t, buf.String(), `"msg":"property falsified"`)
	assert.Contains(t, buf.String(), `"property":"below 100"`)
}

func TestCheckerTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	c := quietChecker(WithTracer(observability.NewTracerFrom(provider)))

	c.Check(context.Background(), below100(), seeded(3))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "proptest.shrink", spans[0].Name())
	assert.Equal(t, "proptest.check", spans[1].Name())
}
