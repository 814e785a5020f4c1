package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbadges/openbadges-signer/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("badge signed", "badge", "Rust100")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "badge signed", entry["msg"])
	assert.Equal(t, "Rust100", entry["badge"])
}

func TestSetupText(t *testing.T) {
	var buf bytes.Buffer
	logging.Setup("debug", "text", &buf).Debug("jose header", "json", `{"alg":"ES256"}`)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "jose header")
}
