package geom

import (
	"fmt"
	"math"
)

// Vec2 is a point or displacement in track space. +Y points down.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2             { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2             { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2        { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64          { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64        { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Length() float64             { return math.Hypot(v.X, v.Y) }
func (v Vec2) LengthSq() float64           { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Dist(o Vec2) float64         { return v.Sub(o).Length() }
func (v Vec2) DistSq(o Vec2) float64       { return v.Sub(o).LengthSq() }
func (v Vec2) Perp() Vec2                  { return Vec2{v.Y, -v.X} }
func (v Vec2) Neg() Vec2                   { return Vec2{-v.X, -v.Y} }
func (v Vec2) Equal(o Vec2) bool           { return v.X == o.X && v.Y == o.Y }
func (v Vec2) String() string              { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// Normalize returns the unit vector, or the zero vector when v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// CloserPoint returns whichever of a and b lies nearer to p; a wins ties.
func CloserPoint(p, a, b Vec2) Vec2 {
	if p.DistSq(b) < p.DistSq(a) {
		return b
	}
	return a
}

// Rect is an axis aligned rectangle with Min <= Max on both axes.
type Rect struct {
	Min, Max Vec2
}

// RectFromPoints normalizes two corners into a Rect.
func RectFromPoints(a, b Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Expand(d float64) Rect {
	return Rect{Min: Vec2{r.Min.X - d, r.Min.Y - d}, Max: Vec2{r.Max.X + d, r.Max.Y + d}}
}

func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

func (r Rect) Center() Vec2 { return r.Min.Lerp(r.Max, 0.5) }

// Include grows r to cover p.
func (r Rect) Include(p Vec2) Rect {
	return Rect{
		Min: Vec2{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Vec2{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// IntersectsSegment reports whether segment ab touches r.
func (r Rect) IntersectsSegment(a, b Vec2) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	tl, tr := r.Min, Vec2{r.Max.X, r.Min.Y}
	bl, br := Vec2{r.Min.X, r.Max.Y}, r.Max
	return SegmentsIntersect(a, b, tl, tr) || SegmentsIntersect(a, b, tr, br) ||
		SegmentsIntersect(a, b, br, bl) || SegmentsIntersect(a, b, bl, tl)
}
