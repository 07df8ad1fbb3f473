// Package tools implements the interactive editing tools.
//
// Tools receive pointer events in track coordinates and edit the track
// through write handles obtained from their Host. Preview edits made while
// dragging bypass the undo history; the finished gesture is recorded as one
// undo action when the drag ends.
package tools

import (
	"context"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/guard"
	"github.com/san-kum/ridersim/internal/timeline"
	"github.com/san-kum/ridersim/internal/track"
	"github.com/san-kum/ridersim/internal/undo"
)

// Modifiers is the set of keys held during a pointer event.
type Modifiers uint16

const (
	ModSnapSiblings Modifiers = 1 << iota
	ModBothJoints
	ModAxisLock
	ModPerpAxisLock
	ModAngleLock
	ModDegreeSnap
	ModLengthLock
	ModLifeLock
)

func (m Modifiers) Has(f Modifiers) bool { return m&f != 0 }

type Pointer struct {
	Pos  geom.Vec2
	Mods Modifiers
}

// Host is the editor side of a tool.
type Host interface {
	Guard() *guard.Guard
	Timeline() *timeline.Timeline
	UndoManager() *undo.Manager
	// Zoom is screen pixels per track unit.
	Zoom() float64
	// Playing reports whether playback is running or paused.
	Playing() bool
	// Offset is the frame currently shown.
	Offset() int
	Invalidate()
}

type Tool interface {
	Name() string
	OnPointerDown(ctx context.Context, p Pointer)
	OnPointerMove(ctx context.Context, p Pointer)
	OnPointerUp(ctx context.Context, p Pointer)
	// OnChangingTool is called before another tool becomes active.
	OnChangingTool(ctx context.Context)
	// Stop ends any gesture in progress, committing it.
	Stop(ctx context.Context)
	Active() bool
	Overlay() Overlay
}

var (
	_ Tool = (*MoveTool)(nil)
	_ Tool = (*SelectTool)(nil)
)

// Highlight marks a line and which of its knobs to emphasize.
type Highlight struct {
	Line         track.Line
	Knob1, Knob2 bool
}

// Overlay describes what a tool wants drawn on top of the track.
type Overlay struct {
	Hover    *Highlight
	Selected []Highlight
	Region   *geom.Rect
	Tooltip  string
}

type Options struct {
	// KnobRadius is the endpoint grab radius in screen pixels.
	KnobRadius float64
	// SnapDegrees is the angle step of ModDegreeSnap.
	SnapDegrees float64
	// PasteOffset shifts pasted lines away from their source.
	PasteOffset geom.Vec2
}

func DefaultOptions() Options {
	return Options{
		KnobRadius:  5,
		SnapDegrees: 15,
		PasteOffset: geom.V(10, 10),
	}
}
