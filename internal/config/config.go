// Package config handles rockforge configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// Config holds all rockforge settings.
type Config struct {
	Generation asteroid.GenerationParams `yaml:"generation"`
	Output     OutputConfig              `yaml:"output"`
	Viewer     ViewerConfig              `yaml:"viewer"`
	Server     ServerConfig              `yaml:"server"`
	Logging    LoggingConfig             `yaml:"logging"`
}

// OutputConfig controls where generated meshes are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // obj, stl, json or png
	Name   string `yaml:"name"`   // file name prefix
}

// ViewerConfig holds display settings for rockview.
type ViewerConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	RotationSpeed float32 `yaml:"rotation_speed"` // degrees per second
	Wireframe     bool    `yaml:"wireframe"`
	ScreenshotDir string  `yaml:"screenshot_dir"`
}

// ServerConfig holds the websocket generation service settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxSubdivision uint32        `yaml:"max_subdivision"`
	ReadLimit      int64         `yaml:"read_limit"` // bytes per request message
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Generation: asteroid.DefaultParams(),
		Output: OutputConfig{
			Dir:    ".",
			Format: "obj",
			Name:   "asteroid",
		},
		Viewer: ViewerConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			RotationSpeed: 15,
			Wireframe:     false,
			ScreenshotDir: "screenshots",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8420",
			MaxSubdivision: 5,
			ReadLimit:      64 << 10,
			WriteTimeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
