package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestInitWritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Service: "foodgram", Level: "info", Output: &buf})
	t.Cleanup(func() { Logger = zerolog.Nop() })

	Info(context.Background()).Str("recipe", "soup").Msg("created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "foodgram", entry["service"])
	assert.Equal(t, "soup", entry["recipe"])
	assert.Equal(t, "created", entry["message"])
	assert.NotContains(t, entry, "trace_id")
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Service: "foodgram", Level: "warn", Output: &buf})
	t.Cleanup(func() { Logger = zerolog.Nop() })

	Debug(context.Background()).Msg("hidden")
	Info(context.Background()).Msg("hidden too")

	assert.Zero(t, buf.Len())
}
