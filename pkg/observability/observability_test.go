package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	providers, err := Init(Config{ServiceName: "replaylab-test"})

	require.NoError(t, err)
	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)
	require.NotNil(t, providers.Shutdown)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestScanMetricsRecordAgainstNoopMeter(t *testing.T) {
	providers, err := Init(Config{ServiceName: "replaylab-test"})
	require.NoError(t, err)

	metrics, err := NewScanMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()

	metrics.RecordFile(ctx, OutcomeOK, 12, 3*time.Millisecond)
	metrics.RecordFile(ctx, OutcomeMissing, 0, 0)
	metrics.RecordFlush(ctx)
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("chatty"))
}

func TestTracingHandlerAddsServiceAttribute(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(NewTracingHandler(inner, "replaylab-test"))

	logger.Info("hello", "key", "value")

	out := buf.String()

	assert.Contains(t, out, `"service":"replaylab-test"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.NotContains(t, out, "trace_id")
}

func TestTracingHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := slog.New(NewTracingHandler(inner, "replaylab-test"))

	logger.Debug("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
