package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(LogConfig{Level: "warn", Development: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestCtx_AddsRequestAndTraceIDs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(WithRequestID(context.Background(), "req-7"), "op")
	defer span.End()

	Ctx(ctx, base).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestCtx_NoFields(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, Ctx(context.Background(), base))
}

func TestSetupTracing_Disabled(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TracingConfig{ServiceName: "tlumach"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
