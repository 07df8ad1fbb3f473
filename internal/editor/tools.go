package editor

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/ridersim/internal/guard"
	"github.com/san-kum/ridersim/internal/tools"
)

const defaultTool = "move"

// clipboard is implemented by tools that copy, paste and delete a
// selection.
type clipboard interface {
	Copy()
	Paste(ctx context.Context)
	Delete(ctx context.Context)
}

func (e *Editor) toolOptions() tools.Options {
	opts := tools.DefaultOptions()
	ec := e.cfg.Editor
	if ec.KnobRadius > 0 {
		opts.KnobRadius = ec.KnobRadius
	}
	if ec.SnapDegrees > 0 {
		opts.SnapDegrees = ec.SnapDegrees
	}
	opts.PasteOffset = ec.PasteOffset
	return opts
}

// buildToolsLocked makes fresh tools for a new track, keeping the selected
// tool name.
func (e *Editor) buildToolsLocked() {
	name := defaultTool
	if e.tool != nil {
		name = e.tool.Name()
	}
	opts := e.toolOptions()
	e.tools = map[string]tools.Tool{
		"move":   tools.NewMoveTool(e, opts),
		"select": tools.NewSelectTool(e, opts),
	}
	e.tool = e.tools[name]
}

func (e *Editor) ToolNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.tools))
	for n := range e.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Editor) CurrentTool() tools.Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SelectTool makes the named tool current. The previous tool finishes its
// gesture first.
func (e *Editor) SelectTool(ctx context.Context, name string) error {
	e.mu.Lock()
	t, ok := e.tools[name]
	cur := e.tool
	e.mu.Unlock()
	if !ok {
		return errors.Wrapf(ErrUnknownTool, "%q", name)
	}
	if t == cur {
		return nil
	}
	cur.OnChangingTool(ctx)

	e.mu.Lock()
	e.tool = t
	e.mu.Unlock()
	e.needsDraw.Store(true)
	return nil
}

func (e *Editor) PointerDown(ctx context.Context, p tools.Pointer) {
	e.CurrentTool().OnPointerDown(ctx, p)
	e.needsDraw.Store(true)
}

func (e *Editor) PointerMove(ctx context.Context, p tools.Pointer) {
	e.CurrentTool().OnPointerMove(ctx, p)
	e.needsDraw.Store(true)
}

func (e *Editor) PointerUp(ctx context.Context, p tools.Pointer) {
	e.CurrentTool().OnPointerUp(ctx, p)
	e.needsDraw.Store(true)
}

func (e *Editor) Overlay() tools.Overlay { return e.CurrentTool().Overlay() }

func (e *Editor) Copy() {
	if c, ok := e.CurrentTool().(clipboard); ok {
		c.Copy()
	}
}

func (e *Editor) Paste(ctx context.Context) {
	if c, ok := e.CurrentTool().(clipboard); ok {
		c.Paste(ctx)
		e.needsDraw.Store(true)
	}
}

func (e *Editor) Delete(ctx context.Context) {
	if c, ok := e.CurrentTool().(clipboard); ok {
		c.Delete(ctx)
		e.needsDraw.Store(true)
	}
}

// Undo commits any gesture in progress and reverts the last action.
func (e *Editor) Undo(ctx context.Context) error {
	e.CurrentTool().Stop(ctx)
	um := e.UndoManager()
	err := e.guard.Update(ctx, func(w *guard.WriteHandle) error {
		return um.Undo(w)
	}, guard.NoUndo())
	e.needsDraw.Store(true)
	return err
}

func (e *Editor) Redo(ctx context.Context) error {
	e.CurrentTool().Stop(ctx)
	um := e.UndoManager()
	err := e.guard.Update(ctx, func(w *guard.WriteHandle) error {
		return um.Redo(w)
	}, guard.NoUndo())
	e.needsDraw.Store(true)
	return err
}
