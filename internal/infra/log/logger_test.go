package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"passport/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestNewLogger_JSONWithServiceName(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.ServiceName = "passport"
	cfg.Env.Log.Level = "info"

	var buf bytes.Buffer
	logger, err := newLogger(&buf, cfg)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", slog.String("k", "v"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["msg"])
	assert.Equal(t, "passport", line["service"])
	assert.Equal(t, "v", line["k"])
}

func TestNewLogger_RedactsCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Env = "test"

	var buf bytes.Buffer
	logger, err := newLogger(&buf, cfg)
	require.NoError(t, err)

	logger.With(slog.String("password", "hunter22")).Info("passport",
		slog.Group("passport", slog.Any("tokens", map[string]string{"accessToken": "abc"})),
		slog.String("provider", "github"),
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter22")
	assert.NotContains(t, out, "abc")
	assert.Contains(t, out, `"provider":"github"`)
	assert.Contains(t, out, `"env":"test"`)
	assert.Equal(t, 2, strings.Count(out, "[REDACTED]"))
}
