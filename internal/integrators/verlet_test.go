package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/ridersim/internal/geom"
)

func TestVerletConstantVelocity(t *testing.T) {
	v := NewVerlet()
	pos, prev := geom.V(1, 0), geom.V(0, 0)
	for i := 0; i < 10; i++ {
		pos, prev = v.Step(pos, prev, geom.Vec2{})
	}
	if pos != geom.V(11, 0) || prev != geom.V(10, 0) {
		t.Fatalf("unexpected drift: pos=%v prev=%v", pos, prev)
	}
}

func TestVerletFreeFall(t *testing.T) {
	v := NewVerlet()
	g := geom.V(0, 0.5)
	pos, prev := geom.Vec2{}, geom.Vec2{}
	const n = 8
	for i := 0; i < n; i++ {
		pos, prev = v.Step(pos, prev, g)
	}
	// Tick k adds k*g of displacement, so after n ticks y = g * n(n+1)/2.
	want := 0.5 * n * (n + 1) / 2
	if math.Abs(pos.Y-want) > 1e-12 {
		t.Errorf("y = %f, want %f", pos.Y, want)
	}
	if got := Velocity(pos, prev).Y; math.Abs(got-0.5*n) > 1e-12 {
		t.Errorf("velocity = %f, want %f", got, 0.5*n)
	}
}

func TestVerletDamping(t *testing.T) {
	v := &Verlet{Damping: 0.5}
	pos, _ := v.Step(geom.V(4, 0), geom.V(0, 0), geom.Vec2{})
	if pos != geom.V(6, 0) {
		t.Errorf("damped step = %v, want (6, 0)", pos)
	}
}

func BenchmarkVerlet(b *testing.B) {
	v := NewVerlet()
	pos, prev := geom.V(1, 0), geom.Vec2{}
	g := geom.V(0, 0.175)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos, prev = v.Step(pos, prev, g)
	}
}
