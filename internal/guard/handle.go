package guard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/track"
)

// view holds the read accessors shared by both handle kinds.
type view struct {
	g   *Guard
	st  *handleState
	ctx context.Context
}

func (v *view) track() *track.Track {
	if v.st.released.Load() {
		panic(ErrReleased)
	}
	return v.g.trk
}

// Context returns a context marked as holding this handle. Pass it to code
// that may try to acquire the guard again.
func (v *view) Context() context.Context { return v.ctx }

func (v *view) Name() string                            { return v.track().Name() }
func (v *view) Line(id track.LineID) (track.Line, bool) { return v.track().Line(id) }
func (v *view) Lines() []track.Line                     { return v.track().Lines() }
func (v *view) LineCount() int                          { return v.track().LineCount() }
func (v *view) Start() geom.Vec2                        { return v.track().Start() }
func (v *view) ZeroStart() bool                         { return v.track().ZeroStart() }
func (v *view) Triggers() []track.Trigger               { return v.track().Triggers() }
func (v *view) Snapshot() track.Snapshot                { return v.track().Snapshot() }
func (v *view) Checksum() uint64                        { return v.track().Checksum() }

func (v *view) LinesNear(p geom.Vec2, r float64) []track.Line {
	return v.track().LinesNear(p, r)
}

func (v *view) LinesInRect(r geom.Rect) []track.Line {
	return v.track().LinesInRect(r)
}

func (v *view) LinesInCell(p geom.Vec2) []track.Line {
	return v.track().LinesInCell(p)
}

func (v *view) LineEndsInRadius(p geom.Vec2, r float64) []track.Line {
	return v.track().LineEndsInRadius(p, r)
}

type ReadHandle struct {
	view
	nested bool
}

// Release is idempotent.
func (r *ReadHandle) Release() {
	if !r.st.released.CompareAndSwap(false, true) {
		return
	}
	if !r.nested {
		r.g.mu.RUnlock()
	}
}

type WriteHandle struct {
	view

	recordUndo   bool
	groupOpen    bool
	changes      []track.Change
	startChanged bool
	acquired     time.Time
}

// DisableUndo stops recording for the rest of the handle's lifetime.
// Changes already recorded stay in the open group.
func (w *WriteHandle) DisableUndo() { w.recordUndo = false }

// Changed reports whether any line was mutated through w.
func (w *WriteHandle) Changed() bool { return len(w.changes) > 0 }

func (w *WriteHandle) record(before, after *track.Line) {
	w.changes = append(w.changes, track.Change{Before: before, After: after})
	if !w.recordUndo {
		return
	}
	if !w.groupOpen {
		w.g.undo.BeginAction()
		w.groupOpen = true
	}
	w.g.undo.AddChange(before, after)
}

func (w *WriteHandle) AddLine(l track.Line) (track.Line, error) {
	added, err := w.track().AddLine(l)
	if err != nil {
		return track.Line{}, err
	}
	w.record(nil, &added)
	return added, nil
}

// MoveLine returns the line as it was before the move.
func (w *WriteHandle) MoveLine(id track.LineID, p1, p2 geom.Vec2) (track.Line, error) {
	old, err := w.track().MoveLine(id, p1, p2)
	if err != nil {
		return track.Line{}, err
	}
	moved, _ := w.g.trk.Line(id)
	w.record(&old, &moved)
	return old, nil
}

func (w *WriteHandle) ReplaceLine(l track.Line) (track.Line, error) {
	old, err := w.track().ReplaceLine(l)
	if err != nil {
		return track.Line{}, err
	}
	w.record(&old, &l)
	return old, nil
}

func (w *WriteHandle) RemoveLine(id track.LineID) (track.Line, error) {
	old, err := w.track().RemoveLine(id)
	if err != nil {
		return track.Line{}, err
	}
	w.record(&old, nil)
	return old, nil
}

// SetStart moves the start pose. Start changes are not undoable.
func (w *WriteHandle) SetStart(p geom.Vec2, zeroStart bool) {
	t := w.track()
	if t.Start() == p && t.ZeroStart() == zeroStart {
		return
	}
	t.SetStart(p)
	t.SetZeroStart(zeroStart)
	w.startChanged = true
}

func (w *WriteHandle) SetTriggers(ts []track.Trigger) { w.track().SetTriggers(ts) }
func (w *WriteHandle) SetName(name string)            { w.track().SetName(name) }

// Release commits the undo group, notifies the timeline and unlocks. It is
// idempotent.
func (w *WriteHandle) Release() {
	if !w.st.released.CompareAndSwap(false, true) {
		return
	}
	g := w.g
	defer g.mu.Unlock()

	if w.groupOpen {
		g.undo.EndAction()
		w.groupOpen = false
	}
	if len(w.changes) > 0 && g.notify != nil {
		g.notify.NotifyChanged(w.changes...)
	}
	if w.startChanged {
		if sn, ok := g.notify.(StartNotifier); ok {
			sn.NotifyStartChanged(g.trk.Start(), g.trk.ZeroStart())
		}
	}
	if held := time.Since(w.acquired); held > g.slowWrite {
		g.logger.Warn("slow write handle",
			zap.Duration("held", held),
			zap.Int("changes", len(w.changes)))
	}
}
