package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/guard"
	"github.com/san-kum/ridersim/internal/track"
)

// MoveTool drags line endpoints and whole lines. A press that hits no line
// starts a region selection in the embedded SelectTool, which then receives
// every event until it goes idle.
type MoveTool struct {
	host Host
	opts Options

	active     bool
	sel        *Selection
	clickStart geom.Vec2

	// lifelock state for the current drag
	lifelocking    bool
	baselineKnown  bool
	baselineFailed bool
	accepted       map[track.LineID]track.Line

	hover *Highlight

	selectTool *SelectTool
}

func NewMoveTool(h Host, opts Options) *MoveTool {
	return &MoveTool{
		host:       h,
		opts:       opts,
		selectTool: NewSelectTool(h, opts),
	}
}

func (m *MoveTool) Name() string { return "move" }

func (m *MoveTool) Active() bool { return m.active || m.selectTool.Active() }

// SelectTool exposes the region selection for copy, paste and delete.
func (m *MoveTool) SelectTool() *SelectTool { return m.selectTool }

// Selection returns the line being dragged, if any.
func (m *MoveTool) Selection() (Selection, bool) {
	if m.sel == nil {
		return Selection{}, false
	}
	return *m.sel, true
}

// Lifelocking reports whether the last drag update was rejected.
func (m *MoveTool) Lifelocking() bool { return m.lifelocking }

func (m *MoveTool) Copy() {
	if m.selectTool.Active() {
		m.selectTool.Copy()
	}
}

func (m *MoveTool) Paste(ctx context.Context) {
	m.Stop(ctx)
	m.selectTool.Paste(ctx)
}

func (m *MoveTool) Delete(ctx context.Context) {
	if m.selectTool.Active() {
		m.selectTool.Delete(ctx)
	}
}

func (m *MoveTool) OnPointerDown(ctx context.Context, p Pointer) {
	if m.selectTool.Active() {
		if m.selectTool.Contains(p.Pos) {
			m.selectTool.OnPointerDown(ctx, p)
			return
		}
		m.selectTool.Stop(ctx)
	}

	m.Stop(ctx)
	if !m.selectLine(ctx, p) {
		m.selectTool.OnPointerDown(ctx, p)
	}
	m.updateHover(ctx, p.Pos)
}

func (m *MoveTool) OnPointerMove(ctx context.Context, p Pointer) {
	if m.selectTool.Active() {
		m.selectTool.OnPointerMove(ctx, p)
		return
	}
	m.updateHover(ctx, p.Pos)
	if m.active {
		m.moveSelection(ctx, p)
	}
}

func (m *MoveTool) OnPointerUp(ctx context.Context, p Pointer) {
	if m.selectTool.Active() {
		m.selectTool.OnPointerUp(ctx, p)
		return
	}
	m.Stop(ctx)
}

func (m *MoveTool) OnChangingTool(ctx context.Context) {
	m.Stop(ctx)
	m.selectTool.OnChangingTool(ctx)
}

// Stop ends the drag. If any line moved, one undo action holding every
// edited line is committed.
func (m *MoveTool) Stop(ctx context.Context) {
	if m.selectTool.Active() {
		m.selectTool.Stop(ctx)
	}
	if m.active && m.sel != nil && m.sel.changed() {
		um := m.host.UndoManager()
		um.BeginAction()
		for _, s := range m.sel.lines() {
			if s.Line == s.Clone {
				continue
			}
			before, after := s.Clone, s.Line
			um.AddChange(&before, &after)
		}
		um.EndAction()
	}
	if m.active {
		m.host.Invalidate()
	}
	m.active = false
	m.sel = nil
	m.hover = nil
	m.lifelocking = false
	m.baselineKnown = false
	m.accepted = nil
}

func (m *MoveTool) selectLine(ctx context.Context, p Pointer) bool {
	r := m.host.Guard().AcquireRead(ctx)
	defer r.Release()

	line, knob, ok := hitTest(r, p.Pos, knobRadius(m.host, m.opts.KnobRadius))
	if !ok {
		return false
	}
	m.clickStart = p.Pos
	m.active = true

	switch {
	case !knob || p.Mods.Has(ModBothJoints):
		sel := newSelection(line, true, true)
		m.sel = &sel
	default:
		knobPos := geom.CloserPoint(p.Pos, line.P1, line.P2)
		sel := selectKnob(line, knobPos)
		if p.Mods.Has(ModSnapSiblings) {
			for _, snap := range r.LineEndsInRadius(knobPos, 1) {
				if snap.ID == line.ID {
					continue
				}
				if snap.P1.Equal(knobPos) || snap.P2.Equal(knobPos) {
					sel.Snapped = append(sel.Snapped, selectKnob(snap, knobPos))
				}
			}
		}
		m.sel = &sel
	}

	m.accepted = make(map[track.LineID]track.Line)
	for _, s := range m.sel.lines() {
		m.accepted[s.Line.ID] = s.Line
	}
	return true
}

func (m *MoveTool) moveSelection(ctx context.Context, p Pointer) {
	sel := m.sel
	lifelock := p.Mods.Has(ModLifeLock) && sel.Clone.Interacts() && m.host.Playing()
	if lifelock && !m.baselineKnown {
		m.baselineFailed = m.riderFailed(ctx)
		m.baselineKnown = true
	}

	delta := p.Pos.Sub(m.clickStart)
	j1, j2 := sel.Line.P1, sel.Line.P2
	if sel.Joint1 {
		j1 = sel.Clone.P1.Add(delta)
	}
	if sel.Joint2 {
		j2 = sel.Clone.P2.Add(delta)
	}
	j1, j2 = m.applyModifiers(j1, j2, delta, p.Mods)

	shared := j2
	if sel.Joint1 {
		shared = j1
	}
	targets := map[track.LineID][2]geom.Vec2{sel.Line.ID: {j1, j2}}
	for _, s := range sel.Snapped {
		a, b := s.Line.P1, s.Line.P2
		if s.Joint1 {
			a = shared
		}
		if s.Joint2 {
			b = shared
		}
		targets[s.Line.ID] = [2]geom.Vec2{a, b}
	}
	m.writeGeometry(ctx, targets)

	if !lifelock {
		m.lifelocking = false
		m.acceptCurrent()
	} else if m.baselineFailed || !m.riderFailed(ctx) {
		m.lifelocking = false
		m.acceptCurrent()
	} else {
		revert := make(map[track.LineID][2]geom.Vec2, len(m.accepted))
		for id, l := range m.accepted {
			revert[id] = [2]geom.Vec2{l.P1, l.P2}
		}
		m.writeGeometry(ctx, revert)
		m.lifelocking = true
	}
	m.host.Invalidate()
}

// writeGeometry applies endpoint targets through a preview handle and
// refreshes the selection from the result.
func (m *MoveTool) writeGeometry(ctx context.Context, targets map[track.LineID][2]geom.Vec2) {
	w := m.host.Guard().AcquireWrite(ctx, guard.NoUndo())
	defer w.Release()

	for _, s := range m.sel.lines() {
		t, ok := targets[s.Line.ID]
		if !ok || (s.Line.P1 == t[0] && s.Line.P2 == t[1]) {
			continue
		}
		if _, err := w.MoveLine(s.Line.ID, t[0], t[1]); err != nil {
			continue
		}
		s.Line, _ = w.Line(s.Line.ID)
	}
}

func (m *MoveTool) acceptCurrent() {
	for _, s := range m.sel.lines() {
		m.accepted[s.Line.ID] = s.Line
	}
}

// riderFailed reports whether the rider shown at the current offset has
// crashed against the current geometry.
func (m *MoveTool) riderFailed(ctx context.Context) bool {
	r := m.host.Guard().AcquireRead(ctx)
	defer r.Release()
	return m.host.Timeline().GetFrame(r, m.host.Offset()).State.Failed()
}

func (m *MoveTool) applyModifiers(j1, j2, delta geom.Vec2, mods Modifiers) (geom.Vec2, geom.Vec2) {
	sel := m.sel
	if sel.Joint1 && sel.Joint2 {
		if mods.Has(ModAxisLock) || mods.Has(ModPerpAxisLock) {
			a := sel.Clone.Angle()
			if mods.Has(ModPerpAxisLock) {
				a -= geom.FromDegrees(90)
			}
			d := geom.ProjectDelta(delta, a)
			j1, j2 = sel.Clone.P1.Add(d), sel.Clone.P2.Add(d)
		}
		return j1, j2
	}

	start, end := j1, j2
	if sel.Joint1 {
		start, end = j2, j1
	}
	if mods.Has(ModAngleLock) {
		end = geom.AngleLock(start, end, sel.Clone.Angle())
	}
	if mods.Has(ModDegreeSnap) {
		end = geom.SnapToDegrees(start, end, m.opts.SnapDegrees)
	}
	if mods.Has(ModLengthLock) {
		length := sel.Clone.Length()
		if end.Equal(start) {
			dir := sel.Clone.Vector()
			if sel.Joint1 {
				dir = dir.Neg()
			}
			end = start.Add(dir.Normalize().Scale(length))
		} else {
			end = geom.LengthLock(start, end, length)
		}
	}
	if sel.Joint1 {
		return end, j2
	}
	return j1, end
}

func (m *MoveTool) updateHover(ctx context.Context, pos geom.Vec2) {
	m.hover = nil
	if m.active {
		return
	}
	r := m.host.Guard().AcquireRead(ctx)
	defer r.Release()
	line, knob, ok := hitTest(r, pos, knobRadius(m.host, m.opts.KnobRadius))
	if !ok {
		return
	}
	h := Highlight{Line: line}
	if knob {
		h.Knob1 = geom.CloserPoint(pos, line.P1, line.P2) == line.P1
		h.Knob2 = !h.Knob1
	}
	m.hover = &h
}

func (m *MoveTool) Overlay() Overlay {
	if m.selectTool.Active() {
		return m.selectTool.Overlay()
	}
	var o Overlay
	if m.hover != nil {
		h := *m.hover
		o.Hover = &h
	}
	if m.active && m.sel != nil {
		for _, s := range m.sel.lines() {
			o.Selected = append(o.Selected, s.highlight())
		}
		o.Tooltip = tooltip(m.sel.Line)
	}
	return o
}

func tooltip(l track.Line) string {
	deg := l.Angle().Degrees() + 90
	s := fmt.Sprintf("length: %.2f\nangle: %.2f°", l.Length(), math.Round(deg*100)/100)
	if l.Type != track.Scenery {
		s += fmt.Sprintf("\nID: %d", l.ID)
	}
	return s
}
