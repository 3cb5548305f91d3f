// Package config loads screenflow configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables (SCREENFLOW_ANIMATION_KIND, SCREENFLOW_UI_DEFAULT_SCOPE, ...)
//  2. YAML config file
//  3. Defaults (Default)
package config

import (
	"fmt"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCREENFLOW_"

// Config is the root configuration.
type Config struct {
	Logging   Logging   `koanf:"logging"`
	Assets    Assets    `koanf:"assets"`
	Animation Animation `koanf:"animation"`
	Telemetry Telemetry `koanf:"telemetry"`
	Metrics   Metrics   `koanf:"metrics"`
	UI        UI        `koanf:"ui"`
}

// Logging controls the zap logger.
type Logging struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Path   string `koanf:"path"`   // optional log file; stderr when empty
}

// Assets locates window templates.
type Assets struct {
	// Dir is the asset root. Keys resolve to <Dir>/<key>.yaml.
	// Empty selects the templates embedded in the binary.
	Dir string `koanf:"dir"`
}

// Animation holds the default transition parameters applied to windows whose
// template does not name its own.
type Animation struct {
	Kind      string   `koanf:"kind"` // fade, slide or none
	FPS       int      `koanf:"fps"`
	Frequency float64  `koanf:"frequency"`
	Damping   float64  `koanf:"damping"`
	Timeout   Duration `koanf:"timeout"`
	Direction string   `koanf:"direction"` // left, right, up, down
	Distance  float64  `koanf:"distance"`  // fraction of the view size
}

// Telemetry configures tracing. The exporter endpoint itself is read from
// OTEL_EXPORTER_OTLP_ENDPOINT.
type Telemetry struct {
	ServiceName string `koanf:"service_name"`
}

// Metrics configures the prometheus endpoint.
type Metrics struct {
	Addr string `koanf:"addr"` // empty disables the HTTP listener
}

// UI holds navigation defaults.
type UI struct {
	DefaultScope   string `koanf:"default_scope"`
	BackNavigation bool   `koanf:"back_navigation"`
	WaitForClose   bool   `koanf:"wait_for_close"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Animation: Animation{
			Kind:      "fade",
			FPS:       60,
			Frequency: 8.0,
			Damping:   1.0,
			Timeout:   Duration(600 * time.Millisecond),
			Direction: "left",
			Distance:  1.0,
		},
		Telemetry: Telemetry{
			ServiceName: "screenflow",
		},
		UI: UI{
			DefaultScope:   "MainMenu",
			BackNavigation: true,
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	switch c.Animation.Kind {
	case "fade", "slide", "none":
	default:
		return fmt.Errorf("animation.kind must be one of fade, slide, none; got %q", c.Animation.Kind)
	}
	switch c.Animation.Direction {
	case "left", "right", "up", "down":
	default:
		return fmt.Errorf("animation.direction must be one of left, right, up, down; got %q", c.Animation.Direction)
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("animation.fps must be > 0, got %d", c.Animation.FPS)
	}
	if c.Animation.Frequency <= 0 {
		return fmt.Errorf("animation.frequency must be > 0, got %v", c.Animation.Frequency)
	}
	if c.Animation.Damping < 0 {
		return fmt.Errorf("animation.damping must be >= 0, got %v", c.Animation.Damping)
	}
	if c.Animation.Timeout.Duration() <= 0 {
		return fmt.Errorf("animation.timeout must be > 0")
	}
	return nil
}
