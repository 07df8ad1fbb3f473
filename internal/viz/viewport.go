package viz

import (
	"math"

	"github.com/san-kum/ridersim/internal/geom"
)

// dotsPerPixel converts the editor zoom, in screen pixels per track unit,
// to braille dots per track unit.
const dotsPerPixel = 0.5

// Viewport maps track coordinates to canvas dots and terminal cells. Track
// y grows downward like the terminal.
type Viewport struct {
	Center     geom.Vec2
	Zoom       float64
	Cols, Rows int
}

func (v Viewport) scale() float64 { return v.Zoom * dotsPerPixel }

func (v Viewport) half() geom.Vec2 { return geom.V(float64(v.Cols), float64(v.Rows*2)) }

// ToDot returns the dot p falls in.
func (v Viewport) ToDot(p geom.Vec2) (int, int) {
	d := p.Sub(v.Center).Scale(v.scale()).Add(v.half())
	return int(math.Floor(d.X)), int(math.Floor(d.Y))
}

// ToTrack returns the track position of the center of cell (col, row).
func (v Viewport) ToTrack(col, row int) geom.Vec2 {
	d := geom.V(float64(col*2)+1, float64(row*4)+2)
	return d.Sub(v.half()).Scale(1 / v.scale()).Add(v.Center)
}

// Visible is the track area covered by the canvas.
func (v Viewport) Visible() geom.Rect {
	h := v.half().Scale(1 / v.scale())
	return geom.Rect{Min: v.Center.Sub(h), Max: v.Center.Add(h)}
}

// CellSize is the track distance covered by one cell horizontally.
func (v Viewport) CellSize() float64 { return 2 / v.scale() }

// Fit returns the viewport that shows all of r on a cols x rows canvas.
func Fit(r geom.Rect, cols, rows int) Viewport {
	size := r.Max.Sub(r.Min)
	dots := math.Min(float64(cols*2)/math.Max(size.X, 1), float64(rows*4)/math.Max(size.Y, 1))
	return Viewport{Center: r.Center(), Zoom: dots / dotsPerPixel, Cols: cols, Rows: rows}
}
