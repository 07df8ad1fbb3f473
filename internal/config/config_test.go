package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/ridersim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Physics != physics.DefaultParams() {
		t.Errorf("expected default physics, got %+v", cfg.Physics)
	}
	if cfg.Editor.AutosaveInterval <= 0 {
		t.Error("autosave interval should be positive")
	}
}

func TestGetPreset(t *testing.T) {
	p, ok := GetPreset("floaty")
	if !ok {
		t.Fatal("expected preset")
	}
	if p.Gravity >= physics.DefaultParams().Gravity {
		t.Errorf("floaty gravity %f should be below classic", p.Gravity)
	}
	for _, name := range ListPresets() {
		p, _ := GetPreset(name)
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected miss for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"classic", "floaty", "heavy"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], presets[i])
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ridersim.yaml")
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Editor.AutosaveInterval = 30 * time.Second
	cfg.Playback.ZoomMode = ZoomSpecific
	cfg.Physics.Gravity = 0.2

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ridersim.yaml")
	data := "preset: heavy\nphysics:\n  friction: 0.2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	heavy, _ := GetPreset("heavy")
	if cfg.Physics.Gravity != heavy.Gravity || cfg.Physics.Iterations != heavy.Iterations {
		t.Errorf("expected heavy physics, got %+v", cfg.Physics)
	}
	if cfg.Physics.Friction != 0.2 {
		t.Errorf("file values should override the preset, got friction %f", cfg.Physics.Friction)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"iterations", func(c *Config) { c.Physics.Iterations = 0 }},
		{"data dir", func(c *Config) { c.DataDir = "" }},
		{"knob radius", func(c *Config) { c.Editor.KnobRadius = 0 }},
		{"snap", func(c *Config) { c.Editor.SnapDegrees = 200 }},
		{"fps", func(c *Config) { c.Playback.FPS = 0 }},
		{"zoom mode", func(c *Config) { c.Playback.ZoomMode = "wide" }},
		{"backups", func(c *Config) { c.Editor.MaxBackups = -1 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestPlaybackZoom(t *testing.T) {
	p := DefaultConfig().Playback
	p.Zoom, p.DefaultZoom = 8, 2

	tests := []struct {
		mode ZoomMode
		want float64
	}{
		{ZoomCurrent, 5},
		{ZoomDefault, 2},
		{ZoomSpecific, 8},
	}
	for _, tt := range tests {
		p.ZoomMode = tt.mode
		if got := p.PlaybackZoom(5); got != tt.want {
			t.Errorf("%s: expected %f, got %f", tt.mode, tt.want, got)
		}
	}
}
