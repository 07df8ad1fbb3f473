package track

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/ridersim/internal/geom"
)

// Samples are small demo tracks, built fresh on every call.
var samples = map[string]func() *Track{
	"flat":   sampleFlat,
	"ramp":   sampleRamp,
	"bowl":   sampleBowl,
	"kicker": sampleKicker,
}

func Sample(name string) (*Track, error) {
	build, ok := samples[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSample, "%q", name)
	}
	return build(), nil
}

func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustAdd(t *Track, typ LineType, x1, y1, x2, y2 float64) Line {
	l, err := t.AddLine(NewLine(typ, geom.V(x1, y1), geom.V(x2, y2)))
	if err != nil {
		panic(err)
	}
	return l
}

func sampleFlat() *Track {
	t := New("flat")
	mustAdd(t, Standard, -40, 20, 600, 20)
	return t
}

func sampleRamp() *Track {
	t := New("ramp")
	mustAdd(t, Standard, -20, 20, 200, 120)
	mustAdd(t, Standard, 200, 120, 500, 130)
	acc := mustAdd(t, Accelerator, 500, 130, 650, 130)
	mustAdd(t, Standard, 650, 130, 1200, 130)
	mustAdd(t, Scenery, 180, 60, 260, 60)
	t.triggers = []Trigger{{LineID: acc.ID, Zoom: 1.5, Frames: 40}}
	return t
}

func sampleBowl() *Track {
	t := New("bowl")
	const (
		segments = 24
		radius   = 200.0
	)
	center := geom.V(200, -80)
	arc := func(i int) geom.Vec2 {
		a := math.Pi - math.Pi*float64(i)/segments
		return geom.V(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
	}
	for i := 0; i < segments; i++ {
		p, q := arc(i), arc(i+1)
		mustAdd(t, Standard, p.X, p.Y, q.X, q.Y)
	}
	t.start = geom.V(center.X-radius+10, center.Y-30)
	return t
}

func sampleKicker() *Track {
	t := New("kicker")
	mustAdd(t, Standard, -20, 20, 150, 80)
	mustAdd(t, Standard, 150, 80, 230, 60)
	mustAdd(t, Standard, 330, 140, 700, 160)
	return t
}
