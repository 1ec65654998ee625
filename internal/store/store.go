package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/winstate/internal/geometry"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no geometry has been saved under a name.
var ErrNotFound = errors.New("no saved geometry")

// Format selects the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses "json" or "yaml". An empty string yields FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

func (f Format) ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Store keeps one geometry file per window name inside Dir.
type Store struct {
	Dir    string
	Format Format
}

// New returns a store rooted at dir.
func New(dir string, format Format) *Store {
	if format == "" {
		format = FormatJSON
	}
	return &Store{Dir: dir, Format: format}
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("window name is required")
	}
	if trimmed != name {
		return fmt.Errorf("invalid window name %q: leading or trailing whitespace", name)
	}
	if strings.Contains(name, string(os.PathSeparator)) || name != filepath.Base(name) {
		return fmt.Errorf("invalid window name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid window name %q", name)
	}
	return nil
}

// ValidateName validates a window name (exported version).
func ValidateName(name string) error {
	return validateName(name)
}

// Path returns the file a name is saved to in the configured format.
func (s *Store) Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, name+s.Format.ext()), nil
}

// Save writes settings under name, replacing any previous snapshot in either
// format.
func (s *Store) Save(name string, settings geometry.Settings) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := encode(s.Format, settings)
	if err != nil {
		return fmt.Errorf("failed to encode geometry %q: %w", name, err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write geometry %q: %w", name, err)
	}

	// Drop a stale copy in the other format so Load cannot pick it up.
	other := filepath.Join(s.Dir, name+s.otherFormat().ext())
	if err := os.Remove(other); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale geometry %q: %w", other, err)
	}
	return nil
}

// Load reads the settings saved under name. The configured format is tried
// first, then the other one.
func (s *Store) Load(name string) (geometry.Settings, error) {
	if err := validateName(name); err != nil {
		return geometry.Settings{}, err
	}
	for _, format := range []Format{s.Format, s.otherFormat()} {
		path := filepath.Join(s.Dir, name+format.ext())
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return geometry.Settings{}, fmt.Errorf("failed to read geometry %q: %w", name, err)
		}
		settings, err := decode(format, data)
		if err != nil {
			return geometry.Settings{}, fmt.Errorf("failed to parse geometry %q: %w", name, err)
		}
		return settings, nil
	}
	return geometry.Settings{}, fmt.Errorf("%w for %q", ErrNotFound, name)
}

// Delete removes the settings saved under name.
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	removed := false
	for _, format := range []Format{FormatJSON, FormatYAML} {
		path := filepath.Join(s.Dir, name+format.ext())
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to delete geometry %q: %w", name, err)
		}
		removed = true
	}
	if !removed {
		return fmt.Errorf("%w for %q", ErrNotFound, name)
	}
	return nil
}

// List returns the sorted names with saved geometry.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list saved geometry: %w", err)
	}

	seen := make(map[string]struct{})
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".json" && ext != ".yaml" {
			continue
		}
		base := strings.TrimSuffix(name, ext)
		if validateName(base) != nil {
			continue
		}
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, base)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) otherFormat() Format {
	if s.Format == FormatYAML {
		return FormatJSON
	}
	return FormatYAML
}

func encode(format Format, settings geometry.Settings) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(settings)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decode(format Format, data []byte) (geometry.Settings, error) {
	var settings geometry.Settings
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &settings)
	} else {
		err = json.Unmarshal(data, &settings)
	}
	return settings, err
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
