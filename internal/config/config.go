// Package config loads the engine configuration from yaml.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"voxelforge/internal/store"
)

type Config struct {
	GridSizeX int `yaml:"grid_size_x"`
	GridSizeY int `yaml:"grid_size_y"`
	GridSizeZ int `yaml:"grid_size_z"`

	HistoryLimit     int    `yaml:"history_limit"`
	DefaultFaceColor string `yaml:"default_face_color"`

	EditLogEnabled bool   `yaml:"edit_log_enabled"`
	EditLogDir     string `yaml:"edit_log_dir"`

	IndexDBPath string `yaml:"index_db_path"`
	PalettePath string `yaml:"palette_path"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func defaults() Config {
	return Config{
		GridSizeX:        16,
		GridSizeY:        16,
		GridSizeZ:        16,
		HistoryLimit:     1000,
		DefaultFaceColor: store.DefaultFaceColor,
		EditLogEnabled:   false,
		EditLogDir:       "editlog",
		IndexDBPath:      "voxelforge.db",
		PalettePath:      "palette.json",
		LogLevel:         "info",
	}
}

// Load reads the yaml config at path; an empty path yields defaults.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	if c.GridSizeZ <= 0 {
		c.GridSizeZ = c.GridSizeY
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 1000
	}
	if c.DefaultFaceColor == "" {
		c.DefaultFaceColor = store.DefaultFaceColor
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Validate() error {
	if c.GridSizeX <= 0 || c.GridSizeY <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", c.GridSizeX, c.GridSizeY)
	}
	if !store.ValidHexColor(c.DefaultFaceColor) {
		return fmt.Errorf("default_face_color %q is not #RRGGBB", c.DefaultFaceColor)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q unknown", c.LogLevel)
	}
	return nil
}
