// Package config loads the optional berry.yaml settings file
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up by LoadOptional
const FileName = "berry.yaml"

// Config represents the optional berry.yaml configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`
	UI     UIConfig     `yaml:"ui"`
	Map    MapConfig    `yaml:"map"`
}

// WindowConfig contains window settings.
type WindowConfig struct {
	Title     string `yaml:"title,omitempty"`
	Width     int    `yaml:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"`
	Resizable bool   `yaml:"resizable"`
	VSync     bool   `yaml:"vsync"`
	TPS       int    `yaml:"tps,omitempty"`
}

// UIConfig contains widget and text settings.
type UIConfig struct {
	FontSize float64 `yaml:"font_size,omitempty"`
	// Debug draws every box outline
	Debug bool `yaml:"debug"`
	// Shrinkwrap selects "continuous" or "once"
	Shrinkwrap string `yaml:"shrinkwrap,omitempty"`
}

// MapConfig describes the optional shapefile backdrop.
type MapConfig struct {
	Shapefile  string `yaml:"shapefile,omitempty"`
	Projection string `yaml:"projection,omitempty"`
	Width      int    `yaml:"width,omitempty"`
	Height     int    `yaml:"height,omitempty"`
}

// Default returns the settings used when no file is present
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "Berry",
			Width:     800,
			Height:    600,
			Resizable: true,
			VSync:     true,
			TPS:       60,
		},
		UI: UIConfig{
			FontSize:   13,
			Shrinkwrap: "continuous",
		},
		Map: MapConfig{
			Projection: "latlon",
			Width:      320,
			Height:     200,
		},
	}
}

// LoadOptional reads berry.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// Load reads the settings file at path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks values the loader cannot default
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("tps %d must be positive", c.Window.TPS)
	}
	if c.UI.FontSize <= 0 {
		return fmt.Errorf("font size %v must be positive", c.UI.FontSize)
	}
	switch strings.TrimSpace(c.UI.Shrinkwrap) {
	case "continuous", "once":
	default:
		return fmt.Errorf("unknown shrinkwrap mode %q", c.UI.Shrinkwrap)
	}
	switch c.Map.Projection {
	case "latlon", "mercator", "epsg3857", "planar", "none":
	default:
		return fmt.Errorf("unknown projection %q", c.Map.Projection)
	}
	return nil
}
