// Package config loads op1nput's ambient settings. Mapping tables are not
// configurable here; they ship with the binary.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/PixPMusic/op1nput/internal/inject"
	"github.com/PixPMusic/op1nput/internal/logging"
)

// DefaultDeviceName is the port name substring the OP-1 registers under
const DefaultDeviceName = "OP-1 Midi Device"

// Config holds application configuration
type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Keyboard KeyboardConfig `yaml:"keyboard"`
	Tray     TrayConfig     `yaml:"tray"`
	Status   StatusConfig   `yaml:"status"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DeviceConfig struct {
	Name           string `yaml:"name"`             // Substring matched against input port names
	PollIntervalMS int    `yaml:"poll_interval_ms"` // Discovery and disconnect check interval
}

type KeyboardConfig struct {
	Backend    string `yaml:"backend"` // auto, uinput, sendinput or dry-run
	TapHoldMS  int    `yaml:"tap_hold_ms"`
	UinputPath string `yaml:"uinput_path"`
	UinputName string `yaml:"uinput_name"`
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

type StatusConfig struct {
	Listen string `yaml:"listen,omitempty"` // e.g. 127.0.0.1:7601; empty disables the websocket
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a fully-populated Config with defaults
func DefaultConfig() Config {
	return Config{
		Device: DeviceConfig{
			Name:           DefaultDeviceName,
			PollIntervalMS: 5000,
		},
		Keyboard: KeyboardConfig{
			Backend:    string(inject.BackendAuto),
			TapHoldMS:  20,
			UinputPath: inject.DefaultUinputPath,
			UinputName: inject.DefaultUinputName,
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  string(logging.LevelInfo),
			Format: string(logging.FormatConsole),
		},
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "op1nput"), nil
}

// DefaultPath returns the full path to the default config file
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path. An empty path means DefaultPath, and a
// missing default file yields defaults. A path given explicitly must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	cfg, err := LoadFile(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads and parses a YAML config file on top of the defaults.
// Unknown fields are rejected.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of DefaultConfig
func Parse(b []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace and comments may follow the document
	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}
	return cfg, nil
}

// FlagOverrides holds values from command-line flags. A nil pointer means
// the flag was not given; a non-nil one is applied even if it is a zero value.
type FlagOverrides struct {
	DeviceName   *string
	Backend      *string
	LogLevel     *string
	NoTray       *bool
	StatusListen *string
}

// Apply merges the overrides into cfg
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.DeviceName != nil {
		cfg.Device.Name = *o.DeviceName
	}
	if o.Backend != nil {
		cfg.Keyboard.Backend = *o.Backend
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.NoTray != nil {
		cfg.Tray.Enabled = !*o.NoTray
	}
	if o.StatusListen != nil {
		cfg.Status.Listen = *o.StatusListen
	}
}

// Validate checks config invariants after defaults, file and overrides
// have been applied.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Device.Name) == "" {
		return errors.New("device.name must not be empty")
	}
	if c.Device.PollIntervalMS < 100 {
		return errors.New("device.poll_interval_ms must be >= 100")
	}

	if _, err := inject.ParseBackend(c.Keyboard.Backend); err != nil {
		return fmt.Errorf("keyboard.backend: %w", err)
	}
	if c.Keyboard.TapHoldMS <= 0 || c.Keyboard.TapHoldMS > 1000 {
		return errors.New("keyboard.tap_hold_ms must be between 1 and 1000")
	}
	if c.Keyboard.UinputPath == "" {
		return errors.New("keyboard.uinput_path must not be empty")
	}
	if c.Keyboard.UinputName == "" {
		return errors.New("keyboard.uinput_name must not be empty")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	return nil
}

// PollInterval returns device.poll_interval_ms as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Device.PollIntervalMS) * time.Millisecond
}

// TapHold returns keyboard.tap_hold_ms as a duration
func (c *Config) TapHold() time.Duration {
	return time.Duration(c.Keyboard.TapHoldMS) * time.Millisecond
}

// InjectOptions converts the keyboard section for inject.New
func (c *Config) InjectOptions() (inject.Options, error) {
	backend, err := inject.ParseBackend(c.Keyboard.Backend)
	if err != nil {
		return inject.Options{}, err
	}
	return inject.Options{
		Backend:    backend,
		UinputPath: ExpandPath(c.Keyboard.UinputPath),
		UinputName: c.Keyboard.UinputName,
	}, nil
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
