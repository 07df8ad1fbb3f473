package geom

import "math"

// ClosestOnSegment returns the point of segment ab nearest to p and the
// parametric position t in [0, 1].
func ClosestOnSegment(p, a, b Vec2) (Vec2, float64) {
	ab := b.Sub(a)
	den := ab.LengthSq()
	if den == 0 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / den
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t)), t
}

// DistToSegment is the euclidean distance from p to segment ab.
func DistToSegment(p, a, b Vec2) float64 {
	c, _ := ClosestOnSegment(p, a, b)
	return p.Dist(c)
}

// SegmentsIntersect reports whether segments ab and cd share a point.
func SegmentsIntersect(a, b, c, d Vec2) bool {
	d1 := orient(c, d, a)
	d2 := orient(c, d, b)
	d3 := orient(a, b, c)
	d4 := orient(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(c, d, a):
		return true
	case d2 == 0 && onSegment(c, d, b):
		return true
	case d3 == 0 && onSegment(a, b, c):
		return true
	case d4 == 0 && onSegment(a, b, d):
		return true
	}
	return false
}

// SegmentDist is the minimum distance between segments ab and cd.
func SegmentDist(a, b, c, d Vec2) float64 {
	if SegmentsIntersect(a, b, c, d) {
		return 0
	}
	return math.Min(
		math.Min(DistToSegment(a, c, d), DistToSegment(b, c, d)),
		math.Min(DistToSegment(c, a, b), DistToSegment(d, a, b)),
	)
}

func orient(a, b, c Vec2) float64 { return b.Sub(a).Cross(c.Sub(a)) }

func onSegment(a, b, p Vec2) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}
