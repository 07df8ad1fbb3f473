package physics

import (
	"github.com/pkg/errors"
)

var ErrInvalidParams = errors.New("physics: invalid parameters")

// Params tune the engine. All distances are in track units, all rates are
// per frame.
type Params struct {
	Iterations   int     `yaml:"iterations" json:"iterations"`
	Gravity      float64 `yaml:"gravity" json:"gravity"`
	Hitbox       float64 `yaml:"hitbox" json:"hitbox"`
	Endurance    float64 `yaml:"endurance" json:"endurance"`
	Friction     float64 `yaml:"friction" json:"friction"`
	Acceleration float64 `yaml:"acceleration" json:"acceleration"`
}

func DefaultParams() Params {
	return Params{
		Iterations:   6,
		Gravity:      0.175,
		Hitbox:       10,
		Endurance:    0.35,
		Friction:     0.1,
		Acceleration: 0.1,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Iterations < 1:
		return errors.Wrapf(ErrInvalidParams, "iterations %d < 1", p.Iterations)
	case p.Hitbox <= 0:
		return errors.Wrapf(ErrInvalidParams, "hitbox %g <= 0", p.Hitbox)
	case p.Endurance <= 0:
		return errors.Wrapf(ErrInvalidParams, "endurance %g <= 0", p.Endurance)
	case p.Friction < 0 || p.Friction > 1:
		return errors.Wrapf(ErrInvalidParams, "friction %g outside [0, 1]", p.Friction)
	}
	return nil
}
