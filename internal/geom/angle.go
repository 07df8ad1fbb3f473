package geom

import "math"

// Angle is a direction in radians measured from the +X axis toward +Y.
type Angle float64

func AngleFromVector(v Vec2) Angle { return Angle(math.Atan2(v.Y, v.X)) }

func FromDegrees(d float64) Angle { return Angle(d * math.Pi / 180) }

func (a Angle) Radians() float64 { return float64(a) }
func (a Angle) Degrees() float64 { return float64(a) * 180 / math.Pi }

// Unit returns the unit direction vector for a.
func (a Angle) Unit() Vec2 {
	s, c := math.Sincos(float64(a))
	return Vec2{c, s}
}

// AngleLock projects end onto the infinite line through start with the given
// direction, keeping the signed distance along that direction.
func AngleLock(start, end Vec2, a Angle) Vec2 {
	dir := a.Unit()
	return start.Add(dir.Scale(end.Sub(start).Dot(dir)))
}

// ProjectDelta keeps only the component of delta along a.
func ProjectDelta(delta Vec2, a Angle) Vec2 {
	dir := a.Unit()
	return dir.Scale(delta.Dot(dir))
}

// SnapToDegrees rounds the direction from start to end to the nearest
// multiple of step degrees, keeping the distance.
func SnapToDegrees(start, end Vec2, step float64) Vec2 {
	if step <= 0 {
		return end
	}
	d := end.Sub(start)
	l := d.Length()
	if l == 0 {
		return end
	}
	deg := AngleFromVector(d).Degrees()
	snapped := math.Round(deg/step) * step
	return start.Add(FromDegrees(snapped).Unit().Scale(l))
}

// LengthLock moves end along the start->end direction so that the distance
// from start equals length. A degenerate direction keeps end unchanged.
func LengthLock(start, end Vec2, length float64) Vec2 {
	d := end.Sub(start)
	if d.LengthSq() == 0 {
		return end
	}
	return start.Add(d.Normalize().Scale(length))
}
