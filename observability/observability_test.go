package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("check finished", slog.String("property", "sum"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "check finished", entry["msg"])
	assert.Equal(t, "sum", entry["property"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", "text", &buf)

	logger.Debug("shrinking", slog.Int("step", 3))

	assert.Contains(t, buf.String(), "msg=shrinking")
	assert.Contains(t, buf.String(), "step=3")
}

func TestLoggerOrDefault(t *testing.T) {
	assert.Same(t, slog.Default(), LoggerOrDefault(nil))

	logger := NewLogger("info", "json", &bytes.Buffer{})
	assert.Same(t, logger, LoggerOrDefault(logger))
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ChecksTotal.WithLabelValues("sum", "satisfied").Inc()
	m.ChecksTotal.WithLabelValues("sum", "falsified").Inc()
	m.ChecksTotal.WithLabelValues("sum", "falsified").Inc()
	m.TriesTotal.WithLabelValues("sum").Add(100)
	m.ShrinkBoundsHit.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChecksTotal.WithLabelValues("sum", "satisfied")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChecksTotal.WithLabelValues("sum", "falsified")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.TriesTotal.WithLabelValues("sum")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ShrinkBoundsHit))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "proptest_checks_total")
	assert.Contains(t, names, "proptest_shrink_bound_reached_total")
}

func TestMetricsWithoutRegistry(t *testing.T) {
	m := NewMetrics(nil)
	m.CheckDuration.WithLabelValues("sum").Observe(0.2)
	assert.Equal(t, 1, testutil.CollectAndCount(m.CheckDuration))
}

func TestMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestTracerSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := NewTracerFrom(provider)

	ctx, check := tracer.StartCheck(context.Background(), "sum", 42, 100)
	_, shrinkSpan := tracer.StartShrink(ctx, "sum")
	RecordShrink(shrinkSpan, 7, true)
	shrinkSpan.End()
	RecordError(check, errors.New("falsified"))
	check.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	shrunk := spans[0]
	assert.Equal(t, "proptest.shrink", shrunk.Name())
	assert.Contains(t, shrunk.Attributes(), attribute.Int("proptest.shrink.steps", 7))
	assert.Contains(t, shrunk.Attributes(), attribute.Bool("proptest.shrink.bound_reached", true))
	assert.Equal(t, spans[1].SpanContext().SpanID(), shrunk.Parent().SpanID())

	checked := spans[1]
	assert.Equal(t, "proptest.check", checked.Name())
	assert.Contains(t, checked.Attributes(), attribute.Int64("proptest.seed", 42))
	assert.Equal(t, codes.Error, checked.Status().Code)
	assert.Equal(t, "falsified", checked.Status().Description)
}

func TestNewTracerUsesGlobalProvider(t *testing.T) {
	tracer := NewTracer()
	_, span := tracer.StartCheck(context.Background(), "noop", 1, 1)
	defer span.End()
	assert.NotNil(t, span)
}
