package physics

import (
	"fmt"

	"github.com/san-kum/ridersim/internal/geom"
)

type PointID int

const (
	Tail PointID = iota
	Nose
	Butt
	Shoulder
	NumPoints
)

var pointNames = [NumPoints]string{"tail", "nose", "butt", "shoulder"}

func (p PointID) String() string {
	if p < 0 || p >= NumPoints {
		return fmt.Sprintf("PointID(%d)", int(p))
	}
	return pointNames[p]
}

// RestPose is the body layout relative to the track start. Tail and Nose
// form the sled; Butt and Shoulder are the rider sitting on it.
var RestPose = [NumPoints]geom.Vec2{
	Tail:     {X: 0, Y: 5},
	Nose:     {X: 15, Y: 5},
	Butt:     {X: 3, Y: 0},
	Shoulder: {X: 6, Y: -8},
}

// StartVelocity is the push the rider gets unless the track starts at rest.
var StartVelocity = geom.V(0.4, 0)

type Point struct {
	Pos  geom.Vec2
	Prev geom.Vec2
}

func (p Point) Velocity() geom.Vec2 { return p.Pos.Sub(p.Prev) }

// RiderState is one instant of the body. It is a plain value; copies never
// share storage.
type RiderState struct {
	Points     [NumPoints]Point
	Crashed    bool
	SledBroken bool
}

func NewRider(start geom.Vec2, zeroStart bool) RiderState {
	var s RiderState
	for i, off := range RestPose {
		pos := start.Add(off)
		prev := pos
		if !zeroStart {
			prev = pos.Sub(StartVelocity)
		}
		s.Points[i] = Point{Pos: pos, Prev: prev}
	}
	return s
}

func (s RiderState) Point(id PointID) Point { return s.Points[id] }

// Failed reports whether the rider has come off or broken the sled.
func (s RiderState) Failed() bool { return s.Crashed || s.SledBroken }

func (s RiderState) Center() geom.Vec2 {
	var c geom.Vec2
	for _, p := range s.Points {
		c = c.Add(p.Pos)
	}
	return c.Scale(1 / float64(NumPoints))
}

func (s RiderState) Velocity() geom.Vec2 {
	var v geom.Vec2
	for _, p := range s.Points {
		v = v.Add(p.Velocity())
	}
	return v.Scale(1 / float64(NumPoints))
}

func (s RiderState) Speed() float64 { return s.Velocity().Length() }

func (s RiderState) Bounds() geom.Rect {
	r := geom.Rect{Min: s.Points[0].Pos, Max: s.Points[0].Pos}
	for _, p := range s.Points[1:] {
		r = r.Include(p.Pos)
	}
	return r
}

func (s RiderState) IsValid() bool {
	for _, p := range s.Points {
		if !p.Pos.IsValid() || !p.Prev.IsValid() {
			return false
		}
	}
	return true
}

// Lerp blends positions toward o by t. Flags come from o once t reaches 1
// and from s before that.
func (s RiderState) Lerp(o RiderState, t float64) RiderState {
	out := s
	for i := range out.Points {
		out.Points[i].Pos = s.Points[i].Pos.Lerp(o.Points[i].Pos, t)
		out.Points[i].Prev = s.Points[i].Prev.Lerp(o.Points[i].Prev, t)
	}
	if t >= 1 {
		out.Crashed, out.SledBroken = o.Crashed, o.SledBroken
	}
	return out
}

// Translate shifts every point, keeping velocities.
func (s RiderState) Translate(d geom.Vec2) RiderState {
	for i := range s.Points {
		s.Points[i].Pos = s.Points[i].Pos.Add(d)
		s.Points[i].Prev = s.Points[i].Prev.Add(d)
	}
	return s
}
