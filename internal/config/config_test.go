package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/winstate/internal/geometry"
	"github.com/1broseidon/winstate/internal/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, o := range envOverrides {
		t.Setenv(o.env, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Policy() != geometry.PolicyValidate {
		t.Fatalf("default policy = %v, want validate", cfg.Policy())
	}
	if cfg.StoreFormat() != store.FormatJSON {
		t.Fatalf("default format = %q, want json", cfg.StoreFormat())
	}
}

func TestDefaultStateDir_UsesXDGStateHome(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)
	if got, want := DefaultStateDir(), filepath.Join(td, "winstate"); got != want {
		t.Fatalf("DefaultStateDir() = %q, want %q", got, want)
	}
}

func TestDefaultConfigPath_UsesXDGConfigHome(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)
	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error: %v", err)
	}
	if !strings.HasSuffix(got, "/winstate/config.yaml") {
		t.Fatalf("DefaultConfigPath() = %q, missing suffix", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file, got %q", res.File)
	}
	if res.Config.PositionPolicy != DefaultPositionPolicy {
		t.Fatalf("position_policy = %q", res.Config.PositionPolicy)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Format != DefaultFormat {
		t.Fatalf("format = %q, want %q", res.Config.Format, DefaultFormat)
	}
}

func TestLoadFromPath_Values(t *testing.T) {
	clearEnv(t)
	stateDir := t.TempDir()
	path := writeConfig(t, strings.Join([]string{
		"state_dir: " + stateDir,
		"format: YAML",
		"position_policy: strict",
		"display: \":1\"",
		"log_level: debug",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.StateDir != stateDir {
		t.Errorf("state_dir = %q, want %q", cfg.StateDir, stateDir)
	}
	if cfg.StoreFormat() != store.FormatYAML {
		t.Errorf("format = %q, want yaml", cfg.Format)
	}
	if cfg.Policy() != geometry.PolicyStrict {
		t.Errorf("policy = %v, want strict", cfg.Policy())
	}
	if cfg.Display != ":1" {
		t.Errorf("display = %q", cfg.Display)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.SlogLevel())
	}
	if src := res.Sources["position_policy"]; src.Kind != SourceFile || src.Line != 3 {
		t.Errorf("position_policy source = %+v, want file line 3", src)
	}
}

func TestLoadFromPath_ExpandsHome(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	res, err := LoadFromPath(writeConfig(t, "state_dir: ~/geometry\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.Join(home, "geometry"); res.Config.StateDir != want {
		t.Fatalf("state_dir = %q, want %q", res.Config.StateDir, want)
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromPath(writeConfig(t, "remember_maximized: true\n"))
	if err == nil || !strings.Contains(err.Error(), "remember_maximized") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadFromPath_InvalidValueHasSourcePosition(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "format: json\nposition_policy: clamp\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "position_policy" || verr.Source.Line != 2 {
		t.Fatalf("unexpected error context: %+v", verr)
	}
	if !strings.Contains(err.Error(), ":2:18: position_policy") {
		t.Fatalf("error %q lacks file position", err.Error())
	}
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINSTATE_POSITION_POLICY", "always")
	res, err := LoadFromPath(writeConfig(t, "position_policy: strict\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Policy() != geometry.PolicyAlwaysApply {
		t.Fatalf("policy = %v, want always", res.Config.Policy())
	}
	value, src, err := res.Explain("position_policy")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != "always" || src.String() != "$WINSTATE_POSITION_POLICY" {
		t.Fatalf("explain = %q from %s", value, src)
	}
}

func TestLoadFromPath_InvalidEnvValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINSTATE_LOG_LEVEL", "chatty")
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.HasPrefix(err.Error(), "$WINSTATE_LOG_LEVEL: log_level") {
		t.Fatalf("expected env-attributed error, got %v", err)
	}
}

func TestExplain_DefaultsAndUnknownKey(t *testing.T) {
	clearEnv(t)
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, src, err := res.Explain("format")
	if err != nil || src.Kind != SourceDefault {
		t.Fatalf("explain format: src=%+v err=%v", src, err)
	}
	if _, _, err := res.Explain("gap_size"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
