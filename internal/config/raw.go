package config

// RawConfig mirrors the YAML file; nil fields were not set.
type RawConfig struct {
	StateDir       *string `yaml:"state_dir"`
	Format         *string `yaml:"format"`
	PositionPolicy *string `yaml:"position_policy"`
	Display        *string `yaml:"display"`
	LogLevel       *string `yaml:"log_level"`
}

func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	if other.StateDir != nil {
		out.StateDir = other.StateDir
	}
	if other.Format != nil {
		out.Format = other.Format
	}
	if other.PositionPolicy != nil {
		out.PositionPolicy = other.PositionPolicy
	}
	if other.Display != nil {
		out.Display = other.Display
	}
	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	return out
}
