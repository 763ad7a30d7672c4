package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	return entry
}

func TestFromContext_Fallbacks(t *testing.T) {
	assert.Equal(t, defaultLogger, FromContext(nil)) //nolint:staticcheck // nil guard
	assert.Equal(t, defaultLogger, FromContext(context.Background()))
}

func TestFromContext_StoredLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := WithContext(context.Background(), custom)

	assert.Equal(t, custom, FromContext(ctx))
}

func TestContextIDs(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx = WithRequestID(ctx, "req-123")
	ctx = WithTraceID(ctx, "trace-456")
	ctx = WithOwnerID(ctx, "owner-789")

	FromContext(ctx).InfoContext(ctx, "saved quote")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "trace-456", entry["trace_id"])
	assert.Equal(t, "owner-789", entry["owner_id"])
}

func TestSetDefault(t *testing.T) {
	original := defaultLogger
	t.Cleanup(func() { SetDefault(original) })

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	SetDefault(custom)

	assert.Equal(t, custom, FromContext(context.Background()))
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "json",
		Service: "anime-quote-service",
		Version: "1.2.3",
	}, &buf)

	logger.Info("history served", slog.Int("count", 3))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "history served", entry["msg"])
	assert.Equal(t, "anime-quote-service", entry["service_name"])
	assert.Equal(t, "1.2.3", entry["service_version"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestNewWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "debug", Format: "text", Service: "svc"}, &buf)
	logger.Debug("dialing store")

	assert.Contains(t, buf.String(), "dialing store")
	assert.Contains(t, buf.String(), "service_name=svc")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)
	logger.Log(context.Background(), LevelTrace, "raw payload")

	assert.Contains(t, buf.String(), "raw payload")
}

func TestNewWithWriter_InfoSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf)
	logger.Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestNewWithWriter_PrettyFormatRedacts(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&Config{Level: "info", Format: "pretty"}, &buf)
	logger.Info("connecting", slog.String("uri", "mongodb://admin:hunter2@db:27017"))

	out := buf.String()
	assert.Contains(t, out, "connecting")
	assert.NotContains(t, out, "hunter2")
}

func TestNewWithWriter_WithFileConfig(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "service.log")

	var buf bytes.Buffer

	logger := NewWithWriter(&Config{
		Level:  "info",
		Format: "json",
		File: FileConfig{
			Enabled:    true,
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 1,
			MaxAgeDays: 1,
		},
	}, &buf)

	logger.Info("written twice")

	assert.Contains(t, buf.String(), "written twice")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written twice")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    slog.Level
		expected log.Level
	}{
		{"trace shown as debug", LevelTrace, log.DebugLevel},
		{"debug", slog.LevelDebug, log.DebugLevel},
		{"info", slog.LevelInfo, log.InfoLevel},
		{"warn", slog.LevelWarn, log.WarnLevel},
		{"error", slog.LevelError, log.ErrorLevel},
		{"above error", slog.Level(12), log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slogToCharmLevel(tt.input))
		})
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	debug := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	errOnly := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})

	assert.True(t, NewMultiHandler(debug, errOnly).Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, NewMultiHandler(errOnly, errOnly).Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_HandleRespectsEachLevel(t *testing.T) {
	var debugBuf, infoBuf bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))

	logger.Info("both")
	assert.Contains(t, debugBuf.String(), "both")
	assert.Contains(t, infoBuf.String(), "both")

	debugBuf.Reset()
	infoBuf.Reset()

	logger.Debug("debug only")
	assert.Contains(t, debugBuf.String(), "debug only")
	assert.Empty(t, infoBuf.String())
}

func TestMultiHandler_AttrsAndGroups(t *testing.T) {
	var a, b bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)).With(slog.String("component", "persister")).WithGroup("quote")

	logger.Info("stored", slog.String("anime", "Naruto"))

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, `"component":"persister"`)
		assert.Contains(t, out, `"quote":{"anime":"Naruto"}`)
	}
}

func TestNewReplaceAttr(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		shouldRedact bool
	}{
		{name: "password", key: "password", value: "hunter2", shouldRedact: true},
		{name: "api key", key: "api_key", value: "abc-123", shouldRedact: true},
		{name: "secret prefix", key: "secret_config", value: "sensitive", shouldRedact: true},
		{name: "bearer value", key: "header", value: "Bearer abc123xyz", shouldRedact: true},
		{name: "credential uri", key: "uri", value: "mongodb://user:pass@db:27017/quotes", shouldRedact: true},
		{name: "redis password", key: "redis_password", value: "r3d1s", shouldRedact: true},
		{name: "plain uri", key: "uri", value: "mongodb://localhost:27017", shouldRedact: false},
		{name: "owner id", key: "owner_id", value: "0f8f9d4e-8d34-4cf6-9e0c-4f4d6e8d0b1a", shouldRedact: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()}))

			logger.Info("test", slog.String(tt.key, tt.value))

			out := buf.String()
			assert.Contains(t, out, tt.key)
			if tt.shouldRedact {
				assert.NotContains(t, out, tt.value)
			} else {
				assert.Contains(t, out, tt.value)
			}
		})
	}
}

func TestRedactingHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer

	h := newRedactingHandler(slog.NewJSONHandler(&buf, nil), NewReplaceAttr())
	logger := slog.New(h).With(slog.String("password", "hunter2"))

	logger.Info("startup")

	assert.Contains(t, buf.String(), "password")
	assert.NotContains(t, buf.String(), "hunter2")
}
