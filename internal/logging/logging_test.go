package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("warn", "json", &buf)

	logger.Info().Msg("ignorado")
	regenLogger := Component(logger, "regen")
	regenLogger.Warn().Msg("registrado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "registrado", entry["message"])
	assert.Equal(t, "regen", entry["component"])
	assert.Equal(t, "warn", entry["level"])
}

func TestSetupFallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("verboso", "console", &buf)

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	logger.Info().Msg("legível")
	assert.Contains(t, buf.String(), "legível")
	assert.NotContains(t, buf.String(), `"message"`)
}
