package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopLoggerDiscardsEverythingWithoutPanic(t *testing.T) {
	t.Parallel()

	l := NewNoopLogger()
	ctx := context.Background()
	l.Debug(ctx, "debug", "k", "v")
	l.Info(ctx, "info")
	l.Warn(ctx, "warn")
	l.Error(ctx, "error")
}

func TestNoopMetricsDiscardsEverythingWithoutPanic(t *testing.T) {
	t.Parallel()

	m := NewNoopMetrics()
	m.IncCounter("c", 1, "tag", "v")
	m.RecordTimer("t", 0)
	m.RecordGauge("g", 1.5)
}

func TestNoopTracerProducesUsableSpan(t *testing.T) {
	t.Parallel()

	tracer := NewNoopTracer()
	ctx, span := tracer.Start(context.Background(), "op")
	assert.NotNil(t, ctx)
	span.AddEvent("evt")
	span.SetStatus(0, "")
	span.RecordError(nil)
	span.End()

	assert.NotNil(t, tracer.Span(ctx))
}
