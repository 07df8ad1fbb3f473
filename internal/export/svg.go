package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/track"
	"github.com/san-kum/ridersim/internal/viz"
)

var lineColors = map[track.LineType]string{
	track.Standard:    "#4488ff",
	track.Accelerator: "#ff3333",
	track.Scenery:     "#33cc33",
}

// SVGOptions controls TrackToSVG output.
type SVGOptions struct {
	Width, Height int
	Background    string
	TrailColor    string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 1200, Height: 600, Background: "#0a0a0a", TrailColor: "#ffff00"}
}

// TrackToSVG draws the lines of snap colored by type, the rider trail as a
// path and the final rider pose. The drawing is fitted to the bounds of
// everything drawn with 10% padding, keeping the aspect ratio.
func TrackToSVG(snap track.Snapshot, trail []physics.RiderState, opts SVGOptions) string {
	var pts []geom.Vec2
	for _, l := range snap.Lines {
		pts = append(pts, l.P1, l.P2)
	}
	for _, s := range trail {
		pts = append(pts, s.Center())
	}
	if len(pts) == 0 {
		pts = append(pts, snap.Start)
	}

	// Find bounds
	bounds := geom.Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		bounds = bounds.Include(p)
	}
	size := bounds.Max.Sub(bounds.Min)
	if size.X == 0 {
		size.X = 1
	}
	if size.Y == 0 {
		size.Y = 1
	}
	bounds.Min = bounds.Min.Sub(size.Scale(0.1))
	size = size.Scale(1.2)

	scale := min(float64(opts.Width)/size.X, float64(opts.Height)/size.Y)
	project := func(p geom.Vec2) (float64, float64) {
		d := p.Sub(bounds.Min).Scale(scale)
		return d.X, d.Y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background))

	for _, l := range snap.Lines {
		x1, y1 := project(l.P1)
		x2, y2 := project(l.P2)
		width := l.Width
		if width <= 0 {
			width = track.DefaultWidth
		}
		sb.WriteString(fmt.Sprintf(`<line class="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>
`, l.Type, x1, y1, x2, y2, lineColors[l.Type], width*2*scale/4))
	}

	if len(trail) >= 2 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, opts.TrailColor))
		for i, s := range trail {
			x, y := project(s.Center())
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(`"/>
`)
	}

	if len(trail) > 0 {
		last := trail[len(trail)-1]
		color := "#ffffff"
		if last.Failed() {
			color = "#ff4444"
		}
		sb.WriteString(fmt.Sprintf(`<g class="rider" fill="%s">
`, color))
		for _, p := range last.Points {
			x, y := project(p.Pos)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, x, y, max(scale, 1.5)))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format, one circle per lit
// dot colored by its cell's ink in theme.
func CanvasToSVG(canvas *viz.Canvas, theme viz.Theme, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	dotRadius := scale * 0.4
	colors := inkColors(theme)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, colors[canvas.InkAt(x, y)]))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func inkColors(t viz.Theme) map[viz.Ink]string {
	return map[viz.Ink]string{
		viz.InkNone:      string(t.Text),
		viz.InkTrail:     string(t.Muted),
		viz.InkScenery:   string(t.Scenery),
		viz.InkStandard:  string(t.Standard),
		viz.InkAccel:     string(t.Accel),
		viz.InkContact:   string(t.Accent),
		viz.InkSelection: string(t.Selection),
		viz.InkKnob:      string(t.Selection),
		viz.InkRider:     string(t.Rider),
		viz.InkCrash:     string(t.Error),
	}
}
