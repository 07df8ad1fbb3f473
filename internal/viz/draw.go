package viz

import (
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/tools"
	"github.com/san-kum/ridersim/internal/track"
)

var riderSticks = [][2]physics.PointID{
	{physics.Tail, physics.Nose},
	{physics.Butt, physics.Shoulder},
	{physics.Shoulder, physics.Nose},
	{physics.Butt, physics.Tail},
}

var lineInks = map[track.LineType]Ink{
	track.Standard:    InkStandard,
	track.Accelerator: InkAccel,
	track.Scenery:     InkScenery,
}

// redraw repaints the canvas when the editor asks for it or force is set.
func (m *Model) redraw(force bool) {
	if !m.e.ConsumeDraw() && !force {
		return
	}
	ctx := m.ctx
	m.view = Viewport{
		Center: m.e.CameraCenter(),
		Zoom:   m.e.Zoom(),
		Cols:   m.canvas.Width,
		Rows:   m.canvas.Height,
	}
	m.canvas.Clear()
	m.syncHits()

	r := m.e.Guard().AcquireRead(ctx)
	lines := r.LinesInRect(m.view.Visible())
	r.Release()
	p := painter{c: m.canvas, v: m.view}
	for _, l := range lines {
		ink := InkNone
		if m.hits[l.ID] {
			ink = InkContact
		}
		p.trackLine(l, ink)
	}

	for _, at := range m.trail {
		x, y := m.view.ToDot(at)
		m.canvas.Set(x, y, InkTrail)
	}
	p.overlay(m.e.Overlay())
	p.rider(m.e.Lerp(ctx, m.blend()))
}

// syncHits keeps the highlighted contact lines in step with the frame
// shown. A new timeline starts over from an empty set.
func (m *Model) syncHits() {
	if tl := m.e.Timeline(); tl != m.hitTL {
		clear(m.hits)
		m.hitTL = tl
		tl.ResetHitTest()
	}
	for _, id := range m.e.HitTestChanges(m.ctx) {
		if m.hits[id] {
			delete(m.hits, id)
		} else {
			m.hits[id] = true
		}
	}
}

// painter draws track geometry onto a canvas through a viewport.
type painter struct {
	c *Canvas
	v Viewport
}

func (p painter) line(a, b geom.Vec2, ink Ink) {
	x0, y0 := p.v.ToDot(a)
	x1, y1 := p.v.ToDot(b)
	p.c.DrawLine(x0, y0, x1, y1, ink)
}

func (p painter) trackLine(l track.Line, ink Ink) {
	if ink == InkNone {
		ink = lineInks[l.Type]
	}
	p.line(l.P1, l.P2, ink)
}

func (p painter) rider(s physics.RiderState) {
	ink := InkRider
	if s.Failed() {
		ink = InkCrash
	}
	for _, st := range riderSticks {
		p.line(s.Points[st[0]].Pos, s.Points[st[1]].Pos, ink)
	}
}

func (p painter) knob(at geom.Vec2) {
	x, y := p.v.ToDot(at)
	p.c.DrawDot(x, y, InkKnob)
}

func (p painter) highlight(h tools.Highlight) {
	p.line(h.Line.P1, h.Line.P2, InkSelection)
	if h.Knob1 {
		p.knob(h.Line.P1)
	}
	if h.Knob2 {
		p.knob(h.Line.P2)
	}
}

// Paint draws lines colored by type, then each rider, onto c as seen
// through v.
func Paint(c *Canvas, v Viewport, lines []track.Line, riders ...physics.RiderState) {
	p := painter{c: c, v: v}
	for _, l := range lines {
		p.trackLine(l, InkNone)
	}
	for _, r := range riders {
		p.rider(r)
	}
}

func (p painter) overlay(o tools.Overlay) {
	for _, h := range o.Selected {
		p.highlight(h)
	}
	if o.Hover != nil {
		p.highlight(*o.Hover)
	}
	if o.Region != nil {
		x0, y0 := p.v.ToDot(o.Region.Min)
		x1, y1 := p.v.ToDot(o.Region.Max)
		p.c.DrawRect(x0, y0, x1, y1, InkSelection)
	}
}
