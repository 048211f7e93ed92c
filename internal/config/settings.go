package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"colorcapture/internal/palette"

	"gopkg.in/yaml.v3"
)

const (
	maxGradientSteps = 64
	minAckDuration   = 100 * time.Millisecond
	maxAckDuration   = 10 * time.Second
)

// Settings is the YAML document users edit. Fields left out of a file keep
// the value from the layer below.
type Settings struct {
	Extraction palette.Options  `json:"extraction" yaml:"extraction"`
	Gradient   GradientSettings `json:"gradient" yaml:"gradient"`
	Copy       CopySettings     `json:"copy" yaml:"copy"`
	Cache      CacheSettings    `json:"cache" yaml:"cache"`
	Log        LogSettings      `json:"log" yaml:"log"`
}

type GradientSettings struct {
	Steps int    `json:"steps" yaml:"steps"`
	Space string `json:"space" yaml:"space"`
	Angle int    `json:"angle" yaml:"angle"`
}

type CopySettings struct {
	ColorAck time.Duration `json:"colorAck" yaml:"colorAck"`
	CSSAck   time.Duration `json:"cssAck" yaml:"cssAck"`
}

type CacheSettings struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	MemoryEntries int  `json:"memoryEntries" yaml:"memoryEntries"`
}

type LogSettings struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

func DefaultSettings() Settings {
	return Settings{
		Extraction: palette.DefaultOptions(),
		Gradient: GradientSettings{
			Steps: palette.DefaultGradientSteps,
			Space: string(palette.SpaceRGB),
			Angle: 90,
		},
		Copy: CopySettings{
			ColorAck: palette.AckDuration(palette.CopyPaletteHex),
			CSSAck:   palette.AckDuration(palette.CopyGradientCSS),
		},
		Cache: CacheSettings{
			Enabled:       true,
			MemoryEntries: 96,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// Normalize clamps every field into its supported range and fills blanks
// with defaults.
func (s Settings) Normalize() Settings {
	defaults := DefaultSettings()
	normalized := s

	normalized.Extraction = palette.NormalizeOptions(normalized.Extraction)

	if normalized.Gradient.Steps <= 0 {
		normalized.Gradient.Steps = defaults.Gradient.Steps
	}
	normalized.Gradient.Steps = min(normalized.Gradient.Steps, maxGradientSteps)
	space, err := palette.ParseSpace(normalized.Gradient.Space)
	if err != nil {
		space = palette.SpaceRGB
	}
	normalized.Gradient.Space = string(space)
	normalized.Gradient.Angle = ((normalized.Gradient.Angle % 360) + 360) % 360

	normalized.Copy.ColorAck = normalizeAck(normalized.Copy.ColorAck, defaults.Copy.ColorAck)
	normalized.Copy.CSSAck = normalizeAck(normalized.Copy.CSSAck, defaults.Copy.CSSAck)

	if normalized.Cache.MemoryEntries <= 0 {
		normalized.Cache.MemoryEntries = defaults.Cache.MemoryEntries
	}

	normalized.Log.Level = strings.ToLower(strings.TrimSpace(normalized.Log.Level))
	switch normalized.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		normalized.Log.Level = defaults.Log.Level
	}
	normalized.Log.Format = strings.ToLower(strings.TrimSpace(normalized.Log.Format))
	if normalized.Log.Format != "json" {
		normalized.Log.Format = defaults.Log.Format
	}

	return normalized
}

func normalizeAck(value time.Duration, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return min(max(value, minAckDuration), maxAckDuration)
}

// AckDuration returns the configured acknowledgement window for kind.
func (s Settings) AckDuration(kind palette.CopyKind) time.Duration {
	if kind == palette.CopyGradientCSS {
		return s.Copy.CSSAck
	}
	return s.Copy.ColorAck
}

// LoadSettings layers the defaults, the user's settings file and an optional
// explicit file, in that order. Missing files are skipped; an explicit path
// that does not exist is an error.
func LoadSettings(userPath string, explicitPath string) (Settings, error) {
	settings := DefaultSettings()

	if userPath != "" {
		if err := overlayFile(&settings, userPath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Settings{}, fmt.Errorf("load user settings from %s: %w", userPath, err)
			}
		}
	}

	if explicitPath != "" {
		if err := overlayFile(&settings, explicitPath); err != nil {
			return Settings{}, fmt.Errorf("load settings from %s: %w", explicitPath, err)
		}
	}

	return settings.Normalize(), nil
}

func overlayFile(settings *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Save writes the normalized settings to path, creating parent directories.
func (s Settings) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s Settings) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}
