package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/physics"
)

const (
	DefaultDataDir          = ".ridersim"
	DefaultLogLevel         = "info"
	DefaultKnobRadius       = 5.0
	DefaultSnapDegrees      = 15.0
	DefaultUndoLimit        = 500
	DefaultAutosaveInterval = 2 * time.Minute
	DefaultMaxBackups       = 20
	DefaultZoom             = 4.0
	DefaultFPS              = 40
)

var ErrInvalidConfig = errors.New("config: invalid")

// ZoomMode picks the zoom applied when playback starts.
type ZoomMode string

const (
	ZoomCurrent  ZoomMode = "current"
	ZoomDefault  ZoomMode = "default"
	ZoomSpecific ZoomMode = "specific"
)

type Config struct {
	DataDir  string         `yaml:"data_dir"`
	LogLevel string         `yaml:"log_level"`
	Preset   string         `yaml:"preset,omitempty"`
	Physics  physics.Params `yaml:"physics"`
	Editor   EditorConfig   `yaml:"editor"`
	Playback PlaybackConfig `yaml:"playback"`
}

type EditorConfig struct {
	KnobRadius       float64       `yaml:"knob_radius"`
	SnapDegrees      float64       `yaml:"snap_degrees"`
	PasteOffset      geom.Vec2     `yaml:"paste_offset"`
	UndoLimit        int           `yaml:"undo_limit"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	MaxBackups       int           `yaml:"max_backups"`
	AutoLoadLast     bool          `yaml:"auto_load_last"`
}

type PlaybackConfig struct {
	ZoomMode       ZoomMode `yaml:"zoom_mode"`
	Zoom           float64  `yaml:"zoom"`
	DefaultZoom    float64  `yaml:"default_zoom"`
	FPS            int      `yaml:"fps"`
	SmoothCamera   bool     `yaml:"smooth_camera"`
	SmoothPlayback bool     `yaml:"smooth_playback"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Physics:  physics.DefaultParams(),
		Editor: EditorConfig{
			KnobRadius:       DefaultKnobRadius,
			SnapDegrees:      DefaultSnapDegrees,
			PasteOffset:      geom.V(10, 10),
			UndoLimit:        DefaultUndoLimit,
			AutosaveInterval: DefaultAutosaveInterval,
			MaxBackups:       DefaultMaxBackups,
			AutoLoadLast:     true,
		},
		Playback: PlaybackConfig{
			ZoomMode:       ZoomCurrent,
			Zoom:           DefaultZoom,
			DefaultZoom:    DefaultZoom,
			FPS:            DefaultFPS,
			SmoothCamera:   true,
			SmoothPlayback: true,
		},
	}
}

// Load reads a YAML file over the defaults. A preset named in the file
// replaces the physics block before the file's own physics values apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	cfg := DefaultConfig()
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if head.Preset != "" {
		p, ok := GetPreset(head.Preset)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "unknown preset %q", head.Preset)
		}
		cfg.Physics = p
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log level %q", c.LogLevel)
	}
	e, p := c.Editor, c.Playback
	switch {
	case c.DataDir == "":
		return errors.Wrap(ErrInvalidConfig, "empty data_dir")
	case e.KnobRadius <= 0:
		return errors.Wrapf(ErrInvalidConfig, "knob_radius %g <= 0", e.KnobRadius)
	case e.SnapDegrees <= 0 || e.SnapDegrees > 180:
		return errors.Wrapf(ErrInvalidConfig, "snap_degrees %g outside (0, 180]", e.SnapDegrees)
	case e.UndoLimit < 0:
		return errors.Wrapf(ErrInvalidConfig, "undo_limit %d < 0", e.UndoLimit)
	case e.AutosaveInterval < 0:
		return errors.Wrapf(ErrInvalidConfig, "autosave_interval %s < 0", e.AutosaveInterval)
	case e.MaxBackups < 0:
		return errors.Wrapf(ErrInvalidConfig, "max_backups %d < 0", e.MaxBackups)
	case p.Zoom <= 0 || p.DefaultZoom <= 0:
		return errors.Wrap(ErrInvalidConfig, "zoom must be positive")
	case p.FPS <= 0:
		return errors.Wrapf(ErrInvalidConfig, "fps %d <= 0", p.FPS)
	}
	switch p.ZoomMode {
	case ZoomCurrent, ZoomDefault, ZoomSpecific:
	default:
		return errors.Wrapf(ErrInvalidConfig, "zoom_mode %q", p.ZoomMode)
	}
	return nil
}

// PlaybackZoom returns the zoom to use when playback starts from current.
func (p PlaybackConfig) PlaybackZoom(current float64) float64 {
	switch p.ZoomMode {
	case ZoomDefault:
		return p.DefaultZoom
	case ZoomSpecific:
		return p.Zoom
	default:
		return current
	}
}
