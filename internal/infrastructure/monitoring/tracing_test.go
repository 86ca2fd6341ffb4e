package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/turtacn/xpx/internal/config"
	"github.com/turtacn/xpx/pkg/logger"
)

func TestNewTracingManager_DisabledIsNoop(t *testing.T) {
	tm, err := NewTracingManager(&config.TracingConfig{Enabled: false}, "test", logger.NewNoopLogger())
	require.NoError(t, err)

	ctx, span := tm.StartSpan(context.Background(), "scoring.evaluate", nil)
	defer span.End()

	assert.False(t, span.IsRecording())
	assert.Empty(t, tm.GetTraceID(ctx))
	assert.NoError(t, tm.Shutdown(context.Background()))
}

func TestTracingManager_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tm := NewTracingManagerWithProvider(provider, logger.NewNoopLogger())

	ctx, span := tm.StartSpan(context.Background(), "scoring.evaluate", map[string]interface{}{"mode": "RULES_ONLY"})
	tm.SetSpanAttributes(ctx, map[string]interface{}{"risk_score": 57})
	tm.RecordError(ctx, errors.New("boom"))
	assert.NotEmpty(t, tm.GetTraceID(ctx))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "scoring.evaluate", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("mode", "RULES_ONLY"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int("risk_score", 57))
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	require.NoError(t, tm.Shutdown(context.Background()))
}
