package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: &buf}))

	Info().Msg("hidden")
	Warn().Int64("match_id", 7).Msg("shown")
	l := With("fetch")
	l.Error().Msg("component")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"match_id":7`)
	assert.Contains(t, out, `"component":"fetch"`)
}

func TestInitErrors(t *testing.T) {
	assert.Error(t, Init(Config{Level: "nope"}))
	assert.Error(t, Init(Config{Format: "xml"}))
}
