package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/store"
)

const (
	DefaultFormat         = "json"
	DefaultPositionPolicy = "validate"
	DefaultLogLevel       = "info"
)

// Config is the effective winstate configuration.
type Config struct {
	// StateDir holds one geometry file per saved window.
	StateDir string `yaml:"state_dir"`
	// Format is the encoding used for new snapshots: json or yaml.
	Format string `yaml:"format"`
	// PositionPolicy controls stored positions that cannot be checked
	// against attached displays: validate, always or strict.
	PositionPolicy string `yaml:"position_policy"`
	// Display overrides $DISPLAY for the X11 connection.
	Display string `yaml:"display,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		StateDir:       DefaultStateDir(),
		Format:         DefaultFormat,
		PositionPolicy: DefaultPositionPolicy,
		LogLevel:       DefaultLogLevel,
	}
}

// DefaultConfigPath returns ~/.config/winstate/config.yaml, honoring
// XDG_CONFIG_HOME.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "winstate", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winstate", "config.yaml"), nil
}

// DefaultStateDir returns $XDG_STATE_HOME/winstate or
// ~/.local/state/winstate. Falls back to a relative path when no home
// directory is known.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "winstate")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".winstate", "state")
	}
	return filepath.Join(homeDir, ".local", "state", "winstate")
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StateDir) == "" {
		return &ValidationError{Path: "state_dir", Err: fmt.Errorf("state_dir must not be empty")}
	}
	if _, err := store.ParseFormat(c.Format); err != nil {
		return &ValidationError{Path: "format", Err: fmt.Errorf("format must be one of: json, yaml")}
	}
	if _, err := geometry.ParsePositionPolicy(c.PositionPolicy); err != nil {
		return &ValidationError{Path: "position_policy", Err: fmt.Errorf("position_policy must be one of: validate, always, strict")}
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

// StoreFormat returns the parsed snapshot format.
func (c *Config) StoreFormat() store.Format {
	f, err := store.ParseFormat(c.Format)
	if err != nil {
		return store.FormatJSON
	}
	return f
}

// Policy returns the parsed position policy.
func (c *Config) Policy() geometry.PositionPolicy {
	p, err := geometry.ParsePositionPolicy(c.PositionPolicy)
	if err != nil {
		return geometry.PolicyValidate
	}
	return p
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Store opens the geometry store described by the config.
func (c *Config) Store() *store.Store {
	return store.New(c.StateDir, c.StoreFormat())
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
}

// expandHome resolves a leading ~ against the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
