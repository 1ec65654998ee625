package config

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid value and, when known, where it was set.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("$%s: %s: %v", e.Source.Name, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig overlays raw values on the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.StateDir != nil {
		dir, err := expandHome(strings.TrimSpace(*raw.StateDir))
		if err != nil {
			return nil, &ValidationError{Path: "state_dir", Err: err}
		}
		cfg.StateDir = dir
	}
	if raw.Format != nil {
		cfg.Format = strings.ToLower(strings.TrimSpace(*raw.Format))
	}
	if raw.PositionPolicy != nil {
		cfg.PositionPolicy = strings.ToLower(strings.TrimSpace(*raw.PositionPolicy))
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}

	return cfg, nil
}
