package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/op1nput/internal/config"
)

func TestParseFlagsOnlyOverridesGivenFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-backend", "dry-run", "-no-tray"}, &bytes.Buffer{})
	require.NoError(t, err)

	require.NotNil(t, opts.overrides.Backend)
	assert.Equal(t, "dry-run", *opts.overrides.Backend)
	require.NotNil(t, opts.overrides.NoTray)
	assert.True(t, *opts.overrides.NoTray)
	assert.Nil(t, opts.overrides.DeviceName)
	assert.Nil(t, opts.overrides.LogLevel)
	assert.Nil(t, opts.overrides.StatusListen)

	cfg := config.DefaultConfig()
	cfg.Device.Name = "from file"
	opts.overrides.Apply(&cfg)
	assert.Equal(t, "from file", cfg.Device.Name)
	assert.False(t, cfg.Tray.Enabled)
}

func TestParseFlagsNoTrayFalse(t *testing.T) {
	opts, err := parseFlags([]string{"-no-tray=false"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, opts.overrides.NoTray)

	cfg := config.DefaultConfig()
	cfg.Tray.Enabled = false
	opts.overrides.Apply(&cfg)
	assert.True(t, cfg.Tray.Enabled)
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags([]string{"-nope"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = parseFlags([]string{"stray"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-help"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestRunExitCodes(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &stderr))
	assert.Contains(t, stderr.String(), version)

	assert.Equal(t, 0, run([]string{"-help"}, &bytes.Buffer{}))
	assert.Equal(t, 1, run([]string{"-backend", "xdotool"}, &bytes.Buffer{}))
	assert.Equal(t, 1, run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{}))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("keyboard:\n  tap_hold_ms: 0\n"), 0o644))
	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-config", bad}, &stderr))
	assert.Contains(t, stderr.String(), "tap_hold_ms")
}
