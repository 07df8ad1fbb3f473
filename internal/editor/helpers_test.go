package editor_test

import (
	"math"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/track"
)

// slideStepper moves the rider one unit right per full frame, a quarter per
// pass. Lines under the rider's center are contacts; steep ones crash it.
type slideStepper struct{}

func (slideStepper) Iterations() int { return 4 }

func (slideStepper) Step(prev physics.RiderState, lines physics.Lines, passes int) physics.StepResult {
	next := prev.Translate(geom.V(float64(passes)/4, 0))
	c := next.Center()
	res := physics.StepResult{
		State:  next,
		Bounds: geom.RectFromPoints(prev.Center(), c).Expand(1),
	}
	for _, l := range lines.LinesNear(c, 1) {
		b := l.Bounds()
		if !l.Interacts() || c.X < b.Min.X || c.X > b.Max.X {
			continue
		}
		res.Contacts = append(res.Contacts, l.ID)
		v := l.Vector()
		if math.Abs(v.Y) > math.Abs(v.X) {
			res.State.Crashed = true
		}
	}
	return res
}

// With the default start the rider's center sits at (6, 0.5), so frame n is
// centered at (6+n, 0.5).
const startX = 6.0

func std(x1, y1, x2, y2 float64) track.Line {
	return track.NewLine(track.Standard, geom.V(x1, y1), geom.V(x2, y2))
}

// pad is a short flat line touched only at frame n.
func pad(n int) track.Line {
	x := startX + float64(n)
	return std(x, 0.5, x+0.5, 0.5)
}

// wall is a steep line that crashes the rider at frame n.
func wall(n int) track.Line {
	x := startX + float64(n)
	return std(x, -5, x+0.2, 5)
}
