// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/yamdb/internal/config"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	prev := otel.GetTracerProvider()
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	return rec
}

func TestStartSpan_EndSpan(t *testing.T) {
	rec := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "review.Create",
		attribute.String("title.id", "t1"),
	)
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	AddSpanEvent(ctx, "review.saved")
	EndSpan(span, nil)

	_, failing := StartSpan(context.Background(), "auth.Signup")
	EndSpan(failing, errors.New("boom"))

	ended := rec.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "review.Create", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("title.id", "t1"))
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "review.saved", ended[0].Events()[0].Name)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "boom", ended[1].Status().Description)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestNewTelemetry_Disabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tel, err := NewTelemetry(context.Background(),
		config.OtelConfig{ServiceName: "yamdb-api"},
		config.AppConfig{Version: "1.0.0", Environment: "test"},
	)
	require.NoError(t, err)
	require.NotNil(t, tel.Tracer)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSampleRate(t *testing.T) {
	assert.InDelta(t, defaultSampleRate, sampleRate(0), 0)
	assert.InDelta(t, defaultSampleRate, sampleRate(1.5), 0)
	assert.InDelta(t, 0.5, sampleRate(0.5), 0)
}
