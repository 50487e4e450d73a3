package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of the engine's spans.
const TracerName = "github.com/authcorp/proptest"

// Tracer wraps an OpenTelemetry tracer with property-check spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer from the global tracer provider.
func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(TracerName)}
}

// NewTracerFrom creates a Tracer from provider.
func NewTracerFrom(provider trace.TracerProvider) *Tracer {
	return &Tracer{tracer: provider.Tracer(TracerName)}
}

// StartCheck starts the span of a property check.
func (t *Tracer) StartCheck(ctx context.Context, property string, seed int64, tries int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "proptest.check",
		trace.WithAttributes(
			attribute.String("proptest.property", property),
			attribute.Int64("proptest.seed", seed),
			attribute.Int("proptest.tries", tries),
		),
	)
}

// StartShrink starts the span of a shrink run.
func (t *Tracer) StartShrink(ctx context.Context, property string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "proptest.shrink",
		trace.WithAttributes(attribute.String("proptest.property", property)),
	)
}

// RecordShrink records the outcome of a shrink run on the span.
func RecordShrink(span trace.Span, steps int, boundReached bool) {
	span.SetAttributes(
		attribute.Int("proptest.shrink.steps", steps),
		attribute.Bool("proptest.shrink.bound_reached", boundReached),
	)
}

// RecordError records an error on the span.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
