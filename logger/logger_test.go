package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"fintrack/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := WithComponent(New(config.LogConfig{Level: "info", Format: "json"}, &buf), ComponentBudget)

	l.Debug("hidden")
	l.Info("allocated", "count", 8)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "allocated", entry["msg"])
	assert.Equal(t, ComponentBudget, entry[FieldComponent])
	assert.Equal(t, float64(8), entry["count"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(config.LogConfig{Level: "warn"}, &buf).Info("hidden")
	assert.Empty(t, buf.String())
}
