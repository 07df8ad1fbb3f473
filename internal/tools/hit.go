package tools

import (
	"math"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/guard"
	"github.com/san-kum/ridersim/internal/track"
)

// maxHitWidth bounds line widths for the candidate query.
const maxHitWidth = 8.0

// hitTest finds the line under pos. Knobs within radius win over line
// bodies; among equals the lowest id wins.
func hitTest(r *guard.ReadHandle, pos geom.Vec2, radius float64) (track.Line, bool, bool) {
	candidates := r.LinesNear(pos, radius+maxHitWidth)

	best, bestDist, found := track.Line{}, math.Inf(1), false
	for _, l := range candidates {
		d := math.Min(pos.Dist(l.P1), pos.Dist(l.P2))
		if d <= radius && d < bestDist {
			best, bestDist, found = l, d, true
		}
	}
	if found {
		return best, true, true
	}

	for _, l := range candidates {
		d := geom.DistToSegment(pos, l.P1, l.P2)
		if d <= l.Width+radius && d < bestDist {
			best, bestDist, found = l, d, true
		}
	}
	return best, false, found
}

func knobRadius(h Host, px float64) float64 {
	z := h.Zoom()
	if z <= 0 {
		z = 1
	}
	return px / z
}
