package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config controls both the desktop and the browser shells.
type Config struct {
	CanvasSize  int    `env:"SKETCHPAD_CANVAS_SIZE"  envDefault:"256"`
	ExportScale int    `env:"SKETCHPAD_EXPORT_SCALE" envDefault:"4"`
	ExportDir   string `env:"SKETCHPAD_EXPORT_DIR"   envDefault:"."`
	FontPath    string `env:"SKETCHPAD_FONT"`
	Port        int    `env:"SKETCHPAD_PORT"         envDefault:"8888"`
	Advertise   bool   `env:"SKETCHPAD_ADVERTISE"    envDefault:"true"`
	Verbose     bool   `env:"SKETCHPAD_VERBOSE"      envDefault:"false"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CanvasSize <= 0 {
		return Config{}, fmt.Errorf("canvas size must be positive, got %d", cfg.CanvasSize)
	}
	if cfg.ExportScale <= 0 {
		return Config{}, fmt.Errorf("export scale must be positive, got %d", cfg.ExportScale)
	}
	return cfg, nil
}
