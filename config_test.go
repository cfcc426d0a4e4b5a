package clusterfield

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Game.FieldWidth != 7 || cfg.Game.FieldHeight != 8 || cfg.Game.IconTypes != 5 || cfg.Game.MinClusterSize != 3 {
		t.Errorf("default game = %+v", cfg.Game)
	}
}

func TestSaveLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusterfield.yaml")
	cfg := DefaultConfig()
	cfg.Game.Seed = 42
	cfg.Render.EntranceEasing = "outelastic"
	cfg.Render.WaveDelay = 25 * time.Millisecond

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, cfg)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("game:\n  field_width: 10\nrender:\n  pulse_period: 1500ms\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.FieldWidth != 10 {
		t.Errorf("field_width = %d, want 10", cfg.Game.FieldWidth)
	}
	if cfg.Game.FieldHeight != 8 {
		t.Errorf("field_height = %d, want default 8", cfg.Game.FieldHeight)
	}
	if cfg.Render.PulsePeriod != 1500*time.Millisecond {
		t.Errorf("pulse_period = %v, want 1.5s", cfg.Render.PulsePeriod)
	}
	if cfg.Render.EntranceEasing != "outback" {
		t.Errorf("entrance_easing = %q, want default", cfg.Render.EntranceEasing)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
	if _, err := LoadConfig(write("bad.yaml", "game: [")); err == nil {
		t.Error("malformed yaml: expected error")
	}
	_, err := LoadConfig(write("invalid.yaml", "game:\n  icon_types: 0\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid values: err = %v, want ErrInvalidConfig", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Game.FieldWidth = 0 }},
		{"negative height", func(c *Config) { c.Game.FieldHeight = -1 }},
		{"no icons", func(c *Config) { c.Game.IconTypes = 0 }},
		{"zero min cluster", func(c *Config) { c.Game.MinClusterSize = 0 }},
		{"zero cell size", func(c *Config) { c.Render.CellSize = 0 }},
		{"negative spacing", func(c *Config) { c.Render.CellSpacing = -2 }},
		{"negative wave delay", func(c *Config) { c.Render.WaveDelay = -time.Millisecond }},
		{"zero pulse period", func(c *Config) { c.Render.PulsePeriod = 0 }},
		{"unknown easing", func(c *Config) { c.Render.EntranceEasing = "springy" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
