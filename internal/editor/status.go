package editor

import "context"

// Status is what a front end needs to draw its status line.
type Status struct {
	State     PlaybackState
	Frame     int
	Offset    int
	Iteration int
	Zoom      float64
	Lines     int
	Name      string
	Tool      string
	HasFlag   bool
	Failed    bool
	CanUndo   bool
	CanRedo   bool
	Loading   bool
}

func (e *Editor) Status(ctx context.Context) Status {
	r := e.guard.AcquireRead(ctx)
	lines, name := r.LineCount(), r.Name()
	r.Release()
	failed := e.RenderFrame(ctx).State.Failed()

	e.mu.Lock()
	defer e.mu.Unlock()
	s := Status{
		State:     e.state,
		Offset:    e.offset,
		Iteration: e.iteration,
		Zoom:      e.zoom,
		Lines:     lines,
		Name:      name,
		Tool:      e.tool.Name(),
		HasFlag:   e.flag != nil,
		Failed:    failed,
		CanUndo:   e.um.CanUndo(),
		CanRedo:   e.um.CanRedo(),
		Loading:   e.loading.Load(),
	}
	if e.state != Stopped {
		s.Frame = e.offset + e.startFrame
	}
	return s
}

// NeedsDraw reports whether anything visible changed since the last
// ConsumeDraw.
func (e *Editor) NeedsDraw() bool { return e.needsDraw.Load() }

// ConsumeDraw clears the redraw signal and reports whether it was set.
func (e *Editor) ConsumeDraw() bool { return e.needsDraw.Swap(false) }

func (e *Editor) Loading() bool { return e.loading.Load() }
