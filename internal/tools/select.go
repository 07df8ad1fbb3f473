package tools

import (
	"context"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/guard"
	"github.com/san-kum/ridersim/internal/track"
)

type selectState int

const (
	selectIdle selectState = iota
	selectRegion
	selectDrag
)

// SelectTool picks lines with a rectangle and moves, copies, pastes or
// deletes them as a group.
type SelectTool struct {
	host Host
	opts Options

	state  selectState
	start  geom.Vec2
	region geom.Rect

	selected  []track.Line
	clones    []track.Line
	clipboard []track.Line
}

func NewSelectTool(h Host, opts Options) *SelectTool {
	return &SelectTool{host: h, opts: opts}
}

func (s *SelectTool) Name() string { return "select" }

// Active is true while a gesture runs or a selection is held.
func (s *SelectTool) Active() bool { return s.state != selectIdle || len(s.selected) > 0 }

func (s *SelectTool) Selected() []track.Line {
	out := make([]track.Line, len(s.selected))
	copy(out, s.selected)
	return out
}

// Contains reports whether p grabs the current selection.
func (s *SelectTool) Contains(p geom.Vec2) bool {
	if len(s.selected) == 0 {
		return false
	}
	radius := knobRadius(s.host, s.opts.KnobRadius)
	for _, l := range s.selected {
		if geom.DistToSegment(p, l.P1, l.P2) <= l.Width+radius {
			return true
		}
	}
	return false
}

func (s *SelectTool) OnPointerDown(ctx context.Context, p Pointer) {
	if s.Contains(p.Pos) {
		s.state = selectDrag
		s.start = p.Pos
		s.clones = append(s.clones[:0], s.selected...)
		return
	}
	s.selected = nil
	s.state = selectRegion
	s.start = p.Pos
	s.region = geom.RectFromPoints(p.Pos, p.Pos)
	s.host.Invalidate()
}

func (s *SelectTool) OnPointerMove(ctx context.Context, p Pointer) {
	switch s.state {
	case selectRegion:
		s.region = geom.RectFromPoints(s.start, p.Pos)
		s.host.Invalidate()
	case selectDrag:
		delta := p.Pos.Sub(s.start)
		w := s.host.Guard().AcquireWrite(ctx, guard.NoUndo())
		for i, c := range s.clones {
			if _, err := w.MoveLine(c.ID, c.P1.Add(delta), c.P2.Add(delta)); err == nil {
				s.selected[i], _ = w.Line(c.ID)
			}
		}
		w.Release()
		s.host.Invalidate()
	}
}

func (s *SelectTool) OnPointerUp(ctx context.Context, p Pointer) {
	switch s.state {
	case selectRegion:
		s.region = geom.RectFromPoints(s.start, p.Pos)
		s.selected = s.linesInRegion(ctx, s.region)
	case selectDrag:
		s.OnPointerMove(ctx, p)
		s.commitDrag()
	}
	s.state = selectIdle
	s.host.Invalidate()
}

func (s *SelectTool) linesInRegion(ctx context.Context, region geom.Rect) []track.Line {
	r := s.host.Guard().AcquireRead(ctx)
	defer r.Release()
	var out []track.Line
	for _, l := range r.LinesInRect(region) {
		if region.IntersectsSegment(l.P1, l.P2) {
			out = append(out, l)
		}
	}
	return out
}

func (s *SelectTool) commitDrag() {
	var changed bool
	for i := range s.clones {
		if s.clones[i] != s.selected[i] {
			changed = true
			break
		}
	}
	if changed {
		um := s.host.UndoManager()
		um.BeginAction()
		for i := range s.clones {
			if s.clones[i] == s.selected[i] {
				continue
			}
			before, after := s.clones[i], s.selected[i]
			um.AddChange(&before, &after)
		}
		um.EndAction()
	}
	s.clones = s.clones[:0]
}

// Copy stores the selection for Paste.
func (s *SelectTool) Copy() {
	s.clipboard = append(s.clipboard[:0], s.selected...)
}

// Paste adds copies of the clipboard shifted by PasteOffset as one undo
// action and selects them.
func (s *SelectTool) Paste(ctx context.Context) {
	if len(s.clipboard) == 0 {
		return
	}
	s.finishGesture()
	w := s.host.Guard().AcquireWrite(ctx)
	defer w.Release()

	s.selected = s.selected[:0]
	for _, l := range s.clipboard {
		l.ID = 0
		l.P1 = l.P1.Add(s.opts.PasteOffset)
		l.P2 = l.P2.Add(s.opts.PasteOffset)
		if added, err := w.AddLine(l); err == nil {
			s.selected = append(s.selected, added)
		}
	}
	s.host.Invalidate()
}

// Delete removes the selected lines as one undo action.
func (s *SelectTool) Delete(ctx context.Context) {
	if len(s.selected) == 0 {
		return
	}
	s.finishGesture()
	w := s.host.Guard().AcquireWrite(ctx)
	defer w.Release()
	for _, l := range s.selected {
		_, _ = w.RemoveLine(l.ID)
	}
	s.selected = nil
	s.host.Invalidate()
}

func (s *SelectTool) finishGesture() {
	if s.state == selectDrag {
		s.commitDrag()
	}
	s.state = selectIdle
}

func (s *SelectTool) OnChangingTool(ctx context.Context) { s.Stop(ctx) }

// Stop commits a running drag and drops the selection.
func (s *SelectTool) Stop(ctx context.Context) {
	s.finishGesture()
	if s.selected != nil {
		s.host.Invalidate()
	}
	s.selected = nil
}

func (s *SelectTool) Overlay() Overlay {
	var o Overlay
	if s.state == selectRegion {
		r := s.region
		o.Region = &r
	}
	for _, l := range s.selected {
		o.Selected = append(o.Selected, Highlight{Line: l})
	}
	return o
}
