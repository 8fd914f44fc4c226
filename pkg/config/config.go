// Package config loads task-cli settings from a YAML or TOML file,
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// EnvFile overrides the store path.
	EnvFile = "TASK_CLI_FILE"
	// EnvLogLevel overrides the log level.
	EnvLogLevel = "TASK_CLI_LOG_LEVEL"

	defaultStorePath = "todos.json"
	defaultLogLevel  = "warn"
)

// DefaultFiles are looked up in the working directory, in order.
var DefaultFiles = []string{".task-cli.yaml", ".task-cli.yml", ".task-cli.toml"}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds task-cli settings.
type Config struct {
	Version int         `yaml:"version" toml:"version"`
	Store   StoreConfig `yaml:"store" toml:"store"`
	Log     LogConfig   `yaml:"log" toml:"log"`
	Color   string      `yaml:"color,omitempty" toml:"color,omitempty"`
}

// StoreConfig locates the task file.
type StoreConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// LogConfig controls diagnostics output.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file,omitempty" toml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty" toml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty" toml:"max_backups,omitempty"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Version: 1,
		Store:   StoreConfig{Path: defaultStorePath},
		Log: LogConfig{
			Level:      defaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Color: ColorAuto,
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode: %q (must be auto, always or never)", c.Color)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a config file, applying defaults for missing fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Discover loads the config at explicit if set (it must exist), otherwise
// the first of DefaultFiles found in dir, otherwise defaults. Environment
// overrides are applied last.
func Discover(dir, explicit string) (*Config, string, error) {
	var (
		cfg  *Config
		used string
		err  error
	)

	if explicit != "" {
		cfg, err = Load(explicit)
		if err != nil {
			return nil, "", err
		}
		used = explicit
	} else {
		for _, name := range DefaultFiles {
			candidate := filepath.Join(dir, name)
			if _, statErr := os.Stat(candidate); statErr != nil {
				if errors.Is(statErr, fs.ErrNotExist) {
					continue
				}
				return nil, "", fmt.Errorf("failed to stat config: %w", statErr)
			}
			cfg, err = Load(candidate)
			if err != nil {
				return nil, "", err
			}
			used = candidate
			break
		}
	}
	if cfg == nil {
		cfg = New()
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, used, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvFile); ok && v != "" {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// StorePath resolves the store path against dir when it is relative.
func (c *Config) StorePath(dir string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}

func (c *Config) applyDefaults() {
	d := New()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Store.Path == "" {
		c.Store.Path = d.Store.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Color == "" {
		c.Color = d.Color
	}
}
