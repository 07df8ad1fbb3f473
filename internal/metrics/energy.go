package metrics

import (
	"math"

	"github.com/san-kum/ridersim/internal/timeline"
)

type Speed struct {
	name    string
	sum     float64
	samples int
}

func NewSpeed() *Speed {
	return &Speed{name: "mean_speed"}
}

func (s *Speed) Name() string { return s.name }

func (s *Speed) Observe(f *timeline.Frame) {
	s.sum += f.State.Speed()
	s.samples++
}

func (s *Speed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Speed) Reset() {
	s.sum = 0
	s.samples = 0
}

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f *timeline.Frame) {
	m.max = math.Max(m.max, f.State.Speed())
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// Energy tracks the largest relative drift of specific mechanical energy
// from the first observed frame. Height grows downward, so potential energy
// falls as y increases.
type Energy struct {
	name     string
	gravity  float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *timeline.Frame) {
	energy := e.specific(f)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *Energy) specific(f *timeline.Frame) float64 {
	v := f.State.Velocity()
	ke := 0.5 * v.LengthSq()
	pe := -e.gravity * f.State.Center().Y
	return ke + pe
}

func (e *Energy) Value() float64 { return e.maxDrift }

func (e *Energy) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
