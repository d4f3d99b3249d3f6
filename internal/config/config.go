// Package config loads the todo settings file.
//
// The file is TOML unless its name ends in .yaml or .yml. ${VAR} references
// are expanded from the environment before parsing, and a missing file at
// the default location means defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvDataDir overrides database.dir.
const EnvDataDir = "TODO_DATA_DIR"

// Config is the full todo configuration.
type Config struct {
	Database DatabaseConfig `toml:"database" yaml:"database"`
	UI       UIConfig       `toml:"ui" yaml:"ui"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
}

// DatabaseConfig locates todoDB.
type DatabaseConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// UIConfig holds output preferences.
type UIConfig struct {
	Theme string `toml:"theme" yaml:"theme"` // classic, neon or mono
	Group bool   `toml:"group" yaml:"group"` // group ls output by pending/done
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Dir: defaultDataDir()},
		UI:       UIConfig{Theme: "classic"},
		Logging:  LoggingConfig{Level: "warn", Format: "text"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/todo/config.toml, falling back to ~/.config.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "todo", "config.toml")
}

func defaultDataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".todo"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "todo")
}

// Load reads the configuration at path. An empty path means DefaultPath,
// and a missing default file yields Default. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, expandEnvVars(string(data)), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		cfg.Database.Dir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func decode(path, data string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal([]byte(data), cfg)
	default:
		_, err := toml.Decode(data, cfg)
		return err
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value, or nothing when unset.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// SetTheme overrides the configured theme, as the -theme flag does. An empty
// name keeps the current one. The result is validated like a loaded file.
func (c *Config) SetTheme(name string) error {
	if name == "" {
		return nil
	}
	c.UI.Theme = name
	return c.Validate()
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return fmt.Errorf("database.dir is required")
	}
	switch c.UI.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("ui.theme must be classic, neon or mono, got %q", c.UI.Theme)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
