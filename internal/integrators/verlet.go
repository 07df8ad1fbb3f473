package integrators

import "github.com/san-kum/ridersim/internal/geom"

// Integrator advances one point mass by one fixed tick. Velocity is carried
// implicitly as pos - prev, so there is no dt: every tick has unit length.
type Integrator interface {
	Step(pos, prev, accel geom.Vec2) (next, newPrev geom.Vec2)
}

// Verlet is position Verlet with optional per-tick velocity damping.
type Verlet struct {
	Damping float64
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(pos, prev, accel geom.Vec2) (geom.Vec2, geom.Vec2) {
	vel := pos.Sub(prev)
	if v.Damping != 0 {
		vel = vel.Scale(1 - v.Damping)
	}
	return pos.Add(vel).Add(accel), pos
}

// Velocity is the displacement covered during the last tick.
func Velocity(pos, prev geom.Vec2) geom.Vec2 {
	return pos.Sub(prev)
}
