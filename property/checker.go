package property

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/observability"
	"github.com/authcorp/proptest/shrink"
	"github.com/authcorp/proptest/store"
)

// Checker runs properties. It is safe for concurrent use.
type Checker struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
	store   store.Store
	now     func() time.Time

	// last shrunk sample per property, replayed by the sample modes
	samples sync.Map
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// WithMetrics enables metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Checker) { c.metrics = metrics }
}

// WithTracer sets the tracer.
func WithTracer(tracer *observability.Tracer) Option {
	return func(c *Checker) { c.tracer = tracer }
}

// WithStore enables the failure database.
func WithStore(s store.Store) Option {
	return func(c *Checker) { c.store = s }
}

// NewChecker creates a Checker. Without options it logs to slog.Default and
// keeps no failure records.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = observability.LoggerOrDefault(c.logger)
	if c.tracer == nil {
		c.tracer = observability.NewTracer()
	}
	return c
}

// Check runs p with cfg.
func (c *Checker) Check(ctx context.Context, p Checkable, cfg Config) Result {
	return p.check(ctx, c, cfg)
}

func (p *Property[T]) check(ctx context.Context, c *Checker, cfg Config) (res Result) {
	start := time.Now()
	res.Property = p.name

	if err := cfg.Validate(); err != nil {
		res.Status = Aborted
		res.Err = err
		c.finish(ctx, &res, start)
		return res
	}

	previous, hasPrevious := c.loadRecord(ctx, p.name, cfg)
	res.Seed = cfg.Seed
	if res.Seed == 0 {
		if hasPrevious && cfg.AfterFailure != AfterFailureRandomSeed {
			res.Seed = previous.Seed
		} else {
			res.Seed = rand.Int63()
		}
	}

	ctx, span := c.tracer.StartCheck(ctx, p.name, res.Seed, cfg.Tries)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			res.Status = Aborted
			res.Err = abortError(r)
		}
		if res.Err != nil && res.Status != Satisfied {
			observability.RecordError(span, res.Err)
		}
		c.finish(ctx, &res, start)
	}()

	c.logger.DebugContext(ctx, "checking property",
		slog.String("property", p.name),
		slog.Int64("seed", res.Seed),
		slog.Int("tries", cfg.Tries))

	if cfg.AfterFailure == AfterFailureSampleFirst || cfg.AfterFailure == AfterFailureSampleOnly {
		if done := p.replaySample(ctx, c, cfg, &res); done {
			return res
		}
	}

	if gen, ok := p.exhaustiveGenerator(cfg); ok {
		res.Generation = GenerationExhaustive
		p.runExhaustive(ctx, c, cfg, gen, &res)
	} else {
		res.Generation = GenerationRandomized
		p.runRandomized(ctx, c, cfg, &res)
	}
	return res
}

func (p *Property[T]) exhaustiveGenerator(cfg Config) (exhaustive.Generator[T], bool) {
	switch cfg.Generation {
	case GenerationRandomized:
		return nil, false
	case GenerationExhaustive:
		gen, ok := p.arbitrary.Exhaustive(math.MaxInt64)
		if !ok {
			panic(apperrors.Newf(apperrors.ErrCodeExhaustiveTooLarge,
				"exhaustive generation is not supported for property %q", p.name))
		}
		if err := exhaustive.Require(gen, int64(cfg.Tries)); err != nil {
			panic(err)
		}
		return gen, true
	}
	return p.arbitrary.Exhaustive(int64(cfg.Tries))
}

// replaySample checks the last shrunk sample of the property. It reports
// whether the check is complete.
func (p *Property[T]) replaySample(ctx context.Context, c *Checker, cfg Config, res *Result) bool {
	stored, ok := c.samples.Load(p.name)
	if !ok {
		return false
	}
	sample, ok := stored.(T)
	if !ok {
		return false
	}

	res.CountTries++
	verdict := p.falsifier(sample)
	switch verdict.Status {
	case shrink.Falsified:
		res.CountChecks++
		res.Status = Falsified
		res.OriginalSample = sample
		res.ShrunkSample = sample
		res.Err = verdict.Err
		c.logger.InfoContext(ctx, "previous sample still falsifies property",
			slog.String("property", p.name))
		c.saveRecord(ctx, res, p.format(sample))
		return true
	case shrink.Verified:
		res.CountChecks++
	default:
		res.CountDiscards++
	}
	if cfg.AfterFailure == AfterFailureSampleOnly {
		res.Status = Satisfied
		c.samples.Delete(p.name)
		c.deleteRecord(ctx, p.name)
		return true
	}
	return false
}

func (p *Property[T]) runExhaustive(ctx context.Context, c *Checker, cfg Config, gen exhaustive.Generator[T], res *Result) {
	for value := range gen.Iterator() {
		if err := ctx.Err(); err != nil {
			res.Status = Aborted
			res.Err = err
			return
		}
		if p.try(ctx, c, cfg, shrink.Unshrinkable(value), res) {
			return
		}
	}
	p.conclude(ctx, c, cfg, res)
}

func (p *Property[T]) runRandomized(ctx context.Context, c *Checker, cfg Config, res *Result) {
	genSize := cfg.genSize()
	r := rand.New(rand.NewSource(res.Seed))

	var edgeCases []shrink.Shrinkable[T]
	gen := p.arbitrary.Generator(genSize)
	switch cfg.EdgeCases {
	case EdgeCasesMixin:
		gen = gen.WithEdgeCases(genSize, p.arbitrary.EdgeCases())
	case EdgeCasesFirst:
		edgeCases = p.arbitrary.EdgeCases()
	}

	next := func() shrink.Shrinkable[T] {
		if len(edgeCases) > 0 {
			s := edgeCases[0]
			edgeCases = edgeCases[1:]
			return s
		}
		return gen.Next(r)
	}

	for res.CountTries < cfg.Tries {
		if err := ctx.Err(); err != nil {
			res.Status = Aborted
			res.Err = err
			return
		}
		if p.try(ctx, c, cfg, next(), res) {
			return
		}
	}
	p.conclude(ctx, c, cfg, res)
}

// try evaluates one sample and reports whether it falsified the property.
func (p *Property[T]) try(ctx context.Context, c *Checker, cfg Config, sample shrink.Shrinkable[T], res *Result) bool {
	res.CountTries++
	verdict := p.falsifier(sample.Value())
	switch verdict.Status {
	case shrink.FilteredOut:
		res.CountDiscards++
		return false
	case shrink.Verified:
		res.CountChecks++
		return false
	}

	res.CountChecks++
	res.Status = Falsified
	res.OriginalSample = sample.Value()
	c.logger.InfoContext(ctx, "property falsified",
		slog.String("property", p.name),
		slog.Int("try", res.CountTries),
		slog.Int64("seed", res.Seed))

	shrunk := p.shrink(ctx, c, cfg, sample)
	res.ShrunkSample = shrunk.Result.Value()
	res.ShrinkSteps = shrunk.Steps
	res.BoundReached = shrunk.BoundReached
	res.Err = shrunk.Result.Err()
	if res.Err == nil && shrunk.Steps == 0 {
		res.Err = verdict.Err
	}

	c.samples.Store(p.name, shrunk.Result.Value())
	c.saveRecord(ctx, res, p.format(shrunk.Result.Value()))
	return true
}

func (p *Property[T]) shrink(ctx context.Context, c *Checker, cfg Config, sample shrink.Shrinkable[T]) Shrunk[T] {
	ctx, span := c.tracer.StartShrink(ctx, p.name)
	defer span.End()

	shrunk := Shrink(ctx, sample, p.falsifier, cfg.Shrinking, cfg.ShrinkingBound, nil)
	observability.RecordShrink(span, shrunk.Steps, shrunk.BoundReached)

	if shrunk.Interrupted != nil {
		c.logger.WarnContext(ctx, "shrinking interrupted",
			slog.String("property", p.name),
			slog.Int("steps", shrunk.Steps),
			slog.String("error", shrunk.Interrupted.Error()))
	}
	if shrunk.BoundReached {
		c.logger.WarnContext(ctx, "shrinking bound reached",
			slog.String("property", p.name),
			slog.Int("bound", cfg.ShrinkingBound))
	}
	if c.metrics != nil {
		c.metrics.ShrinkStepsTotal.WithLabelValues(p.name).Add(float64(shrunk.Steps))
		if shrunk.BoundReached {
			c.metrics.ShrinkBoundsHit.Inc()
		}
	}
	return shrunk
}

// conclude classifies a run in which no sample falsified the property.
func (p *Property[T]) conclude(ctx context.Context, c *Checker, cfg Config, res *Result) {
	if res.CountChecks == 0 || res.CountDiscards > res.CountChecks*cfg.MaxDiscardRatio {
		res.Status = Exhausted
		res.Err = apperrors.Newf(apperrors.ErrCodeCannotGenerate,
			"%d of %d samples were discarded", res.CountDiscards, res.CountTries).
			WithDetail("max_discard_ratio", cfg.MaxDiscardRatio)
		return
	}
	res.Status = Satisfied
	c.samples.Delete(p.name)
	c.deleteRecord(ctx, p.name)
}

func (c *Checker) finish(ctx context.Context, res *Result, start time.Time) {
	res.Duration = time.Since(start)
	if c.metrics != nil {
		c.metrics.ChecksTotal.WithLabelValues(res.Property, strings.ToLower(res.Status.String())).Inc()
		c.metrics.TriesTotal.WithLabelValues(res.Property).Add(float64(res.CountTries))
		c.metrics.DiscardsTotal.WithLabelValues(res.Property).Add(float64(res.CountDiscards))
		c.metrics.CheckDuration.WithLabelValues(res.Property).Observe(res.Duration.Seconds())
		if res.Generation == GenerationExhaustive {
			c.metrics.ExhaustiveChecks.Inc()
		}
	}

	attrs := []any{
		slog.String("property", res.Property),
		slog.String("status", res.Status.String()),
		slog.Int("tries", res.CountTries),
		slog.Int("checks", res.CountChecks),
		slog.Duration("duration", res.Duration),
	}
	switch res.Status {
	case Satisfied:
		c.logger.DebugContext(ctx, "property check finished", attrs...)
	case Aborted:
		c.logger.ErrorContext(ctx, "property check aborted", append(attrs, slog.String("error", res.Err.Error()))...)
	default:
		c.logger.InfoContext(ctx, "property check finished", attrs...)
	}
}

func (c *Checker) loadRecord(ctx context.Context, property string, cfg Config) (store.Record, bool) {
	if c.store == nil || cfg.Seed != 0 {
		return store.Record{}, false
	}
	rec, ok, err := c.store.Load(ctx, property)
	if err != nil {
		c.storeError(ctx, "load", property, err)
		return store.Record{}, false
	}
	return rec, ok
}

func (c *Checker) saveRecord(ctx context.Context, res *Result, sample string) {
	if c.store == nil {
		return
	}
	err := c.store.Save(ctx, store.Record{
		Property: res.Property,
		Seed:     res.Seed,
		Sample:   sample,
		Tries:    res.CountTries,
		FailedAt: c.now().UTC(),
	})
	if err != nil {
		c.storeError(ctx, "save", res.Property, err)
	}
}

func (c *Checker) deleteRecord(ctx context.Context, property string) {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, property); err != nil {
		c.storeError(ctx, "delete", property, err)
	}
}

func (c *Checker) storeError(ctx context.Context, operation, property string, err error) {
	c.logger.WarnContext(ctx, "failure store error",
		slog.String("operation", operation),
		slog.String("property", property),
		slog.String("error", err.Error()))
	if c.metrics != nil {
		c.metrics.StoreErrorsTotal.WithLabelValues(operation).Inc()
	}
}

func abortError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("panic: %v", r))
}
