package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/locations/pkg/types"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, types.LogConfig{Level: "debug", Format: types.LogFormatJSON})
	require.NoError(t, err)

	log.Debug().Str("slug", "spb").Msg("category saved")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "spb", line["slug"])
	assert.Equal(t, "category saved", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, types.LogConfig{Format: types.LogFormatConsole})
	require.NoError(t, err)

	log.Info().Str("slug", "spb").Msg("loading categories")
	assert.Contains(t, buf.String(), "loading categories")
	assert.Contains(t, buf.String(), "slug=spb")
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, types.LogConfig{Level: "warn", Format: types.LogFormatJSON})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Warn().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(&bytes.Buffer{}, types.LogConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, types.LogConfig{Format: "xml"})
	assert.ErrorIs(t, err, types.ErrLogFormatUnknown)
}
