package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestStructuredLogger_WritesJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "info").WithRequestID("req-1")

	log.LogError(context.Background(), "append failed", errors.New("boom"), "user_id", "u1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "append failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "u1", record["user_id"])
}

func TestStructuredLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "warn")

	log.LogInfo(context.Background(), "dropped")
	log.LogDebug(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	log.LogWarning(context.Background(), "kept")
	assert.Contains(t, buf.String(), "kept")
}
