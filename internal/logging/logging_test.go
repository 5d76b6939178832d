package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"error":   LevelError,
		"WARN":    LevelWarn,
		"warning": LevelWarn,
		"":        LevelInfo,
		" debug ": LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatConsole, f)

	_, err = ParseFormat("logfmt")
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	cfg := Config(LevelWarn, FormatJSON)
	assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
	assert.Equal(t, "json", cfg.Encoding)
	assert.True(t, cfg.DisableStacktrace)

	cfg = Config(LevelDebug, FormatConsole)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level.Level())
	assert.Equal(t, "console", cfg.Encoding)
	assert.False(t, cfg.DisableStacktrace)
}

func TestNew(t *testing.T) {
	logger, err := New(LevelInfo, FormatConsole)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
