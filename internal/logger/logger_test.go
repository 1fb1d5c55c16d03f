package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(Config{Level: "warn", Encoding: "json"}, &buf)

	log.Info("dropped")
	log.Warn("kept", zap.Int("pages", 3))
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(3), entry["pages"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(Config{Level: "loud", Encoding: "console"}, &buf)
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "INFO")
}

func TestNamed(t *testing.T) {
	assert.NotNil(t, Named(nil, "canvas"))
	var buf bytes.Buffer
	Named(NewWriter(Config{Encoding: "json"}, &buf), "canvas").Info("x")
	assert.Contains(t, buf.String(), `"logger":"canvas"`)
}
