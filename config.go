package clusterfield

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GameConfig is what the cluster engine consumes.
type GameConfig struct {
	FieldWidth     int `yaml:"field_width"`
	FieldHeight    int `yaml:"field_height"`
	IconTypes      int `yaml:"icon_types"`
	MinClusterSize int `yaml:"min_cluster_size"`
	// Seed fixes the grid sequence when non-zero.
	Seed uint64 `yaml:"seed"`
}

// WindowConfig describes the game window.
type WindowConfig struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	ShowFPS bool   `yaml:"show_fps"`
}

// RenderConfig controls grid layout and cell choreography.
type RenderConfig struct {
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	CellSize       float64 `yaml:"cell_size"`
	CellSpacing    float64 `yaml:"cell_spacing"`

	// WaveDelay staggers entrances by (x+y)*WaveDelay.
	WaveDelay        time.Duration `yaml:"wave_delay"`
	EntranceDuration time.Duration `yaml:"entrance_duration"`
	EntranceEasing   string        `yaml:"entrance_easing"`

	PulseMin    float64       `yaml:"pulse_min"`
	PulseMax    float64       `yaml:"pulse_max"`
	PulsePeriod time.Duration `yaml:"pulse_period"`

	DimOpacity   float64       `yaml:"dim_opacity"`
	DimDuration  time.Duration `yaml:"dim_duration"`
	FadeDuration time.Duration `yaml:"fade_duration"`

	PressScale    float64       `yaml:"press_scale"`
	PressDuration time.Duration `yaml:"press_duration"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Config is the full application configuration.
type Config struct {
	Game   GameConfig   `yaml:"game"`
	Window WindowConfig `yaml:"window"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// DefaultConfig returns the stock 7x8 board with five icon types.
func DefaultConfig() *Config {
	return &Config{
		Game: GameConfig{
			FieldWidth:     7,
			FieldHeight:    8,
			IconTypes:      5,
			MinClusterSize: 3,
		},
		Window: WindowConfig{
			Title:  "Clusterfield",
			Width:  800,
			Height: 600,
		},
		Render: DefaultRenderConfig(),
		Log: LogConfig{
			Level:   "info",
			MaxSize: 10,
		},
	}
}

// DefaultRenderConfig returns the layout and timings for an 800x600 viewport.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ViewportWidth:    800,
		ViewportHeight:   600,
		CellSize:         60,
		CellSpacing:      4,
		WaveDelay:        40 * time.Millisecond,
		EntranceDuration: DefaultScaleInDuration,
		EntranceEasing:   "outback",
		PulseMin:         DefaultPulseMin,
		PulseMax:         DefaultPulseMax,
		PulsePeriod:      DefaultPulsePeriod,
		DimOpacity:       DefaultDimOpacity,
		DimDuration:      DefaultFadeDuration,
		FadeDuration:     DefaultFadeDuration,
		PressScale:       0.85,
		PressDuration:    DefaultScaleToDuration,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML.
func SaveConfig(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal encodes cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return err
	}
	return c.Render.Validate()
}

// Validate requires positive dimensions, icon count and minimum cluster size.
func (g GameConfig) Validate() error {
	switch {
	case g.FieldWidth <= 0:
		return fmt.Errorf("%w: field_width must be positive, got %d", ErrInvalidConfig, g.FieldWidth)
	case g.FieldHeight <= 0:
		return fmt.Errorf("%w: field_height must be positive, got %d", ErrInvalidConfig, g.FieldHeight)
	case g.IconTypes <= 0:
		return fmt.Errorf("%w: icon_types must be positive, got %d", ErrInvalidConfig, g.IconTypes)
	case g.MinClusterSize <= 0:
		return fmt.Errorf("%w: min_cluster_size must be positive, got %d", ErrInvalidConfig, g.MinClusterSize)
	}
	return nil
}

// Validate checks sizes, timings and the easing name.
func (r RenderConfig) Validate() error {
	if r.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be positive, got %v", ErrInvalidConfig, r.CellSize)
	}
	if r.CellSpacing < 0 {
		return fmt.Errorf("%w: cell_spacing must not be negative, got %v", ErrInvalidConfig, r.CellSpacing)
	}
	if r.WaveDelay < 0 || r.EntranceDuration < 0 || r.DimDuration < 0 || r.FadeDuration < 0 || r.PressDuration < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	if r.PulsePeriod <= 0 {
		return fmt.Errorf("%w: pulse_period must be positive, got %v", ErrInvalidConfig, r.PulsePeriod)
	}
	if _, ok := EasingByName(r.EntranceEasing); !ok {
		return fmt.Errorf("%w: unknown entrance_easing %q", ErrInvalidConfig, r.EntranceEasing)
	}
	return nil
}
