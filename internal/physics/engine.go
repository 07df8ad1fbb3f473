package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/integrators"
	"github.com/san-kum/ridersim/internal/track"
)

// Lines is the read access a step needs. Results must be ordered by id.
type Lines interface {
	LinesNear(p geom.Vec2, r float64) []track.Line
}

// Stepper computes one frame from the previous one. passes selects how many
// relaxation passes run; Iterations passes is a complete frame.
type Stepper interface {
	Step(prev RiderState, lines Lines, passes int) StepResult
	Iterations() int
}

type Event int

const (
	EventNone Event = iota
	EventCrash
	EventSledBreak
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventCrash:
		return "crash"
	case EventSledBreak:
		return "sled break"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

type Diagnosis struct {
	Collisions int
	MaxStretch float64
	Event      Event
}

type StepResult struct {
	State RiderState
	// Contacts holds every line a point collided with, sorted by id.
	Contacts []track.LineID
	// Bounds covers every position a point took during the step, grown by
	// the hitbox. A line that does not touch Bounds cannot change the step.
	Bounds    geom.Rect
	Diagnosis Diagnosis
}

type stick struct {
	a, b PointID
	rest float64
	// mount sticks hold the rider on the sled and are dropped on crash.
	mount bool
	// breakable snaps the rider off once stretched beyond the endurance.
	breakable bool
}

var bodySticks = []stick{
	{a: Shoulder, b: Nose, breakable: true},
	{a: Tail, b: Nose},
	{a: Butt, b: Shoulder},
	{a: Tail, b: Butt, mount: true},
	{a: Nose, b: Butt, mount: true},
	{a: Shoulder, b: Tail, mount: true},
}

// pointFriction scales Params.Friction per point; the sled glides.
var pointFriction = [NumPoints]float64{Tail: 0, Nose: 0, Butt: 1, Shoulder: 1}

type Engine struct {
	params  Params
	gravity geom.Vec2
	integ   integrators.Integrator
	sticks  []stick
}

func NewEngine(p Params) *Engine {
	sticks := slices.Clone(bodySticks)
	for i := range sticks {
		sticks[i].rest = RestPose[sticks[i].a].Dist(RestPose[sticks[i].b])
	}
	return &Engine{
		params:  p,
		gravity: geom.V(0, p.Gravity),
		integ:   integrators.NewVerlet(),
		sticks:  sticks,
	}
}

func (e *Engine) Params() Params  { return e.params }
func (e *Engine) Iterations() int { return e.params.Iterations }

func (e *Engine) Step(prev RiderState, lines Lines, passes int) StepResult {
	s := prev
	res := StepResult{}
	bounds := prev.Bounds()

	for i := range s.Points {
		p := &s.Points[i]
		p.Pos, p.Prev = e.integ.Step(p.Pos, p.Prev, e.gravity)
		bounds = bounds.Include(p.Pos)
	}

	contacts := make(map[track.LineID]struct{})
	for pass := 0; pass < passes; pass++ {
		e.satisfy(&s, &res.Diagnosis)
		for i := range s.Points {
			bounds = bounds.Include(s.Points[i].Pos)
		}
		e.collide(&s, lines, contacts, &bounds, &res.Diagnosis)
	}

	if !s.Crashed && !s.SledBroken && sledFlipped(s) {
		s.SledBroken = true
		s.Crashed = true
		res.Diagnosis.Event = EventSledBreak
	}

	res.State = s
	res.Bounds = bounds.Expand(e.params.Hitbox)
	res.Contacts = make([]track.LineID, 0, len(contacts))
	for id := range contacts {
		res.Contacts = append(res.Contacts, id)
	}
	slices.Sort(res.Contacts)
	return res
}

func (e *Engine) satisfy(s *RiderState, diag *Diagnosis) {
	for _, st := range e.sticks {
		if s.Crashed && (st.mount || st.breakable) {
			continue
		}
		a, b := &s.Points[st.a], &s.Points[st.b]
		delta := b.Pos.Sub(a.Pos)
		l := delta.Length()
		if l == 0 {
			continue
		}
		if st.breakable {
			stretch := math.Abs(l-st.rest) / st.rest
			diag.MaxStretch = math.Max(diag.MaxStretch, stretch)
			if stretch > e.params.Endurance {
				s.Crashed = true
				diag.Event = EventCrash
				continue
			}
		}
		off := delta.Scale((l - st.rest) / l * 0.5)
		a.Pos = a.Pos.Add(off)
		b.Pos = b.Pos.Sub(off)
	}
}

func (e *Engine) collide(s *RiderState, lines Lines, contacts map[track.LineID]struct{}, bounds *geom.Rect, diag *Diagnosis) {
	for i := range s.Points {
		p := &s.Points[i]
		for _, l := range lines.LinesNear(p.Pos, e.params.Hitbox) {
			if !l.Interacts() {
				continue
			}
			if e.interact(p, PointID(i), l) {
				contacts[l.ID] = struct{}{}
				diag.Collisions++
				*bounds = bounds.Include(p.Pos)
			}
		}
	}
}

// interact resolves one point against one line. Lines are one-sided: the
// solid side is the left of P1->P2 with +Y down.
func (e *Engine) interact(p *Point, id PointID, l track.Line) bool {
	dir := l.Vector()
	len2 := dir.LengthSq()
	if len2 == 0 {
		return false
	}
	length := math.Sqrt(len2)
	n := dir.Perp().Scale(1 / length)

	rel := p.Pos.Sub(l.P1)
	d := rel.Dot(n)
	if d >= 0 || d <= -e.params.Hitbox {
		return false
	}
	if p.Velocity().Dot(n) > 0 {
		return false
	}
	t := rel.Dot(dir) / len2
	if t < 0 || t > 1 {
		return false
	}

	p.Pos = p.Pos.Sub(n.Scale(d))

	tan := dir.Scale(1 / length)
	if f := e.params.Friction * pointFriction[id]; f > 0 {
		vt := p.Velocity().Dot(tan)
		p.Prev = p.Prev.Add(tan.Scale(vt * f))
	}
	if l.Type == track.Accelerator {
		mult := l.Multiplier
		if mult == 0 {
			mult = track.DefaultMultiplier
		}
		p.Prev = p.Prev.Sub(tan.Scale(e.params.Acceleration * mult))
	}
	return true
}

// sledFlipped reports whether the butt has crossed to the underside of the
// sled.
func sledFlipped(s RiderState) bool {
	sled := s.Points[Nose].Pos.Sub(s.Points[Tail].Pos)
	body := s.Points[Butt].Pos.Sub(s.Points[Tail].Pos)
	return sled.Cross(body) > 0
}
