package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Color modes for CLI output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const defaultWorkers = 4

// Settings holds the hxtype.toml options.
type Settings struct {
	CachePath string `toml:"cache_path"` // sqlite signature cache; empty disables it
	Color     string `toml:"color"`
	Workers   int    `toml:"workers"` // parallel member resolution in `check`
	LogPrefix string `toml:"log_prefix"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// LoadSettings reads a TOML settings file. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}
	return ParseSettings(string(data))
}

// FindSettings searches for hxtype.toml starting from dir and walking up to
// the filesystem root. It returns "" and a nil error when there is none.
func FindSettings(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ParseSettings decodes settings from TOML text.
func ParseSettings(data string) (*Settings, error) {
	var s Settings
	if _, err := toml.Decode(data, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	switch s.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, fmt.Errorf("invalid color mode %q (want auto, always or never)", s.Color)
	}
	if s.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.Color == "" {
		s.Color = ColorAuto
	}
	if s.Workers == 0 {
		s.Workers = defaultWorkers
	}
	if s.LogPrefix == "" {
		s.LogPrefix = "hxtype: "
	}
}
