package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, setup(&buf, "warn", false))

	log.Info().Msg("hidden")
	log.Warn().Str("prefecture", "北海道").Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "北海道", entry["prefecture"])
}

func TestSetup_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setup(&buf, "", true))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	log.Info().Msg("wrote")
	assert.Contains(t, buf.String(), "wrote")
}

func TestSetup_InvalidLevel(t *testing.T) {
	assert.Error(t, setup(&bytes.Buffer{}, "loud", false))
}
