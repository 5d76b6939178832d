package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/op1nput/internal/inject"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultDeviceName, cfg.Device.Name)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, 20*time.Millisecond, cfg.TapHold())
	assert.True(t, cfg.Tray.Enabled)
	assert.Empty(t, cfg.Status.Listen)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
keyboard:
  backend: dry-run
  tap_hold_ms: 35
status:
  listen: 127.0.0.1:7601
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "dry-run", cfg.Keyboard.Backend)
	assert.Equal(t, 35*time.Millisecond, cfg.TapHold())
	assert.Equal(t, "127.0.0.1:7601", cfg.Status.Listen)
	assert.Equal(t, DefaultDeviceName, cfg.Device.Name, "untouched sections keep defaults")
	assert.Equal(t, inject.DefaultUinputPath, cfg.Keyboard.UinputPath)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("keyboard:\n  backnd: uinput\n"))
	assert.Error(t, err)
}

func TestParseRejectsTrailingDocument(t *testing.T) {
	_, err := Parse([]byte("logging:\n  level: debug\n---\nlogging:\n  level: info\n"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse([]byte("  \n# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device:\n  name: OP-Z\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "OP-Z", cfg.Device.Name)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefaultPathMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFlagOverrides(t *testing.T) {
	cfg := DefaultConfig()
	name := "OP-1 Field"
	backend := "dry-run"
	level := "debug"
	noTray := true
	listen := ":9000"

	FlagOverrides{
		DeviceName:   &name,
		Backend:      &backend,
		LogLevel:     &level,
		NoTray:       &noTray,
		StatusListen: &listen,
	}.Apply(&cfg)

	assert.Equal(t, name, cfg.Device.Name)
	assert.Equal(t, backend, cfg.Keyboard.Backend)
	assert.Equal(t, level, cfg.Logging.Level)
	assert.False(t, cfg.Tray.Enabled)
	assert.Equal(t, listen, cfg.Status.Listen)

	// nil overrides leave everything alone
	before := cfg
	FlagOverrides{}.Apply(&cfg)
	assert.Equal(t, before, cfg)
}

func TestNoTrayFalseReenablesTray(t *testing.T) {
	cfg, err := Parse([]byte("tray:\n  enabled: false\n"))
	require.NoError(t, err)
	require.False(t, cfg.Tray.Enabled)

	noTray := false
	FlagOverrides{NoTray: &noTray}.Apply(&cfg)
	assert.True(t, cfg.Tray.Enabled)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty device":   func(c *Config) { c.Device.Name = " " },
		"fast poll":      func(c *Config) { c.Device.PollIntervalMS = 10 },
		"bad backend":    func(c *Config) { c.Keyboard.Backend = "xdotool" },
		"zero tap hold":  func(c *Config) { c.Keyboard.TapHoldMS = 0 },
		"empty uinput":   func(c *Config) { c.Keyboard.UinputPath = "" },
		"empty name":     func(c *Config) { c.Keyboard.UinputName = "" },
		"bad log level":  func(c *Config) { c.Logging.Level = "loud" },
		"bad log format": func(c *Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestInjectOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keyboard.Backend = "DRY-RUN"
	opts, err := cfg.InjectOptions()
	require.NoError(t, err)
	assert.Equal(t, inject.BackendDryRun, opts.Backend)
	assert.Equal(t, inject.DefaultUinputName, opts.UinputName)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "op1.yaml"), ExpandPath("~/op1.yaml"))
	assert.Equal(t, "/etc/op1.yaml", ExpandPath("/etc/op1.yaml"))
}
