package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tododb/internal/config"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNew_Text(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.With("component", "store").Info("created database", "version", 1)
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "INF created database component=store version=1")
	assert.NotContains(t, out, "hidden")
}

func TestNew_TextLevels(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "debug"}, &buf)

	logger.Debug("d")
	logger.Warn("w")
	logger.Error("e")

	out := buf.String()
	assert.Contains(t, out, "DBG d")
	assert.Contains(t, out, "WRN w")
	assert.Contains(t, out, "ERR e")
}

func TestNew_TextGroups(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "info"}, &buf)

	logger.WithGroup("db").Info("opened", "path", "/tmp/x")
	assert.Contains(t, buf.String(), "db.path=/tmp/x")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("skipped")
	logger.Warn("kept", "id", "abc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "abc", rec["id"])
}

func TestNew_TextToBufferHasNoEscapes(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	New(config.LoggingConfig{Level: "info"}, &buf).Warn("disk low", "free", "1%")

	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "WRN disk low free=1%")
}

func TestColorHandler_IgnoresStdoutDetection(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	h := &colorHandler{out: &buf, mu: &sync.Mutex{}, level: slog.LevelInfo, pal: newPalette(true)}

	slog.New(h).Error("boom")

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "boom")
}

func TestUseColor(t *testing.T) {
	assert.False(t, useColor(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, useColor(f))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, useColor(os.Stderr))
}
