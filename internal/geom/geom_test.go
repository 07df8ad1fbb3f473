package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b Vec2) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestAngleLock(t *testing.T) {
	tests := []struct {
		name  string
		start Vec2
		end   Vec2
		angle Angle
		want  Vec2
	}{
		{"horizontal", V(0, 0), V(5, 3), 0, V(5, 0)},
		{"vertical", V(1, 1), V(4, 6), FromDegrees(90), V(1, 6)},
		{"backwards", V(0, 0), V(-2, 1), 0, V(-2, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleLock(tt.start, tt.end, tt.angle); !near(got, tt.want) {
				t.Errorf("AngleLock = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapToDegrees(t *testing.T) {
	got := SnapToDegrees(V(0, 0), V(10, 1), 15)
	if !near(got, V(10.04987562112089, 0)) {
		t.Errorf("snap to 0 deg: got %v", got)
	}

	got = SnapToDegrees(V(0, 0), V(7, 7.5), 15)
	deg := AngleFromVector(got).Degrees()
	if math.Abs(deg-45) > 1e-9 {
		t.Errorf("expected 45 deg, got %.6f", deg)
	}
	if math.Abs(got.Length()-V(7, 7.5).Length()) > 1e-9 {
		t.Error("snap changed length")
	}
}

func TestLengthLock(t *testing.T) {
	start := V(3, 4)
	for _, end := range []Vec2{V(10, 10), V(-4, 2), V(3, 100), V(3.0001, 4)} {
		got := LengthLock(start, end, 12.5)
		if math.Abs(got.Dist(start)-12.5) > 1e-9 {
			t.Errorf("LengthLock(%v) length = %f", end, got.Dist(start))
		}
	}

	if got := LengthLock(start, start, 5); got != start {
		t.Errorf("degenerate direction should keep end, got %v", got)
	}
}

func TestDistToSegment(t *testing.T) {
	tests := []struct {
		p    Vec2
		want float64
	}{
		{V(5, 3), 3},
		{V(-4, 3), 5},
		{V(13, 0), 3},
		{V(2, 0), 0},
	}
	for _, tt := range tests {
		if got := DistToSegment(tt.p, V(0, 0), V(10, 0)); math.Abs(got-tt.want) > eps {
			t.Errorf("DistToSegment(%v) = %f, want %f", tt.p, got, tt.want)
		}
	}
}

func TestSegmentDist(t *testing.T) {
	if d := SegmentDist(V(0, 0), V(10, 10), V(0, 10), V(10, 0)); d != 0 {
		t.Errorf("crossing segments should have zero distance, got %f", d)
	}
	if d := SegmentDist(V(0, 0), V(10, 0), V(0, 2), V(10, 2)); math.Abs(d-2) > eps {
		t.Errorf("parallel distance = %f, want 2", d)
	}
}

func TestRect(t *testing.T) {
	r := RectFromPoints(V(5, -1), V(-3, 4))
	if r.Min != V(-3, -1) || r.Max != V(5, 4) {
		t.Fatalf("unexpected rect %+v", r)
	}
	if !r.Contains(V(0, 0)) || r.Contains(V(6, 0)) {
		t.Error("Contains mismatch")
	}
}

func TestRectIntersectsSegment(t *testing.T) {
	r := Rect{Min: V(0, 0), Max: V(10, 10)}
	tests := []struct {
		name string
		a, b Vec2
		want bool
	}{
		{"inside", V(2, 2), V(3, 3), true},
		{"crossing", V(-5, 5), V(15, 5), true},
		{"outside", V(-5, -5), V(-1, 20), false},
		{"corner", V(-1, 1), V(1, -1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IntersectsSegment(tt.a, tt.b); got != tt.want {
				t.Errorf("IntersectsSegment = %v, want %v", got, tt.want)
			}
		})
	}
}
