package editor

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/timeline"
	"github.com/san-kum/ridersim/internal/track"
)

// CurrentFrame is the frame number shown, counting frames before the flag
// when playback started from one. It is 0 while stopped.
func (e *Editor) CurrentFrame() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Stopped {
		return 0
	}
	return e.offset + e.startFrame
}

func (e *Editor) IterationsOffset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.iteration
}

// SetIterationsOffset selects how many relaxation passes of the current
// frame are shown. n must be within [0, Iterations].
func (e *Editor) SetIterationsOffset(n int) {
	e.mu.Lock()
	iters := e.tl.Iterations()
	if n < 0 || n > iters {
		e.mu.Unlock()
		panic(errors.Wrapf(ErrIterationRange, "%d not in [0, %d]", n, iters))
	}
	e.iteration = n
	e.mu.Unlock()
	e.invalidateRender()
}

// Flag bookmarks the current frame during playback and clears the flag
// otherwise.
func (e *Editor) Flag(ctx context.Context) {
	e.mu.Lock()
	tl, gen, inPlayback := e.tl, e.gen, e.state != Stopped
	offset, frameID := e.offset, e.offset+e.startFrame
	e.mu.Unlock()

	var f *Flag
	if inPlayback {
		f = &Flag{Frame: e.frameAt(ctx, tl, offset), FrameID: frameID}
	}
	e.mu.Lock()
	if e.gen == gen {
		e.flag = f
	}
	e.mu.Unlock()
	e.needsDraw.Store(true)
}

func (e *Editor) GetFlag() *Flag {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flag
}

func (e *Editor) RestoreFlag(f *Flag) {
	e.mu.Lock()
	e.flag = f
	e.mu.Unlock()
	e.needsDraw.Store(true)
}

// StartFromFlag plays from the flag, or from the start when there is none.
func (e *Editor) StartFromFlag(ctx context.Context) {
	e.mu.Lock()
	tl, flag := e.tl, e.flag
	e.mu.Unlock()

	tl.ResetHitTest()
	startFrame := 0
	if flag == nil {
		tl.Restart(e.startRider(ctx))
	} else {
		tl.Restart(flag.Frame.State)
		startFrame = flag.FrameID
	}
	e.start(ctx, tl, 0, startFrame)
}

func (e *Editor) StartIgnoreFlag(ctx context.Context) {
	tl := e.Timeline()
	tl.ResetHitTest()
	tl.Restart(e.startRider(ctx))
	e.start(ctx, tl, 0, 0)
}

// ResumeFromFlag simulates from the start up to the flag and plays on from
// there. It reports whether the simulated frame still matches the flagged
// one; without a flag it plays from the start and reports true.
func (e *Editor) ResumeFromFlag(ctx context.Context) bool {
	e.mu.Lock()
	tl, flag := e.tl, e.flag
	e.mu.Unlock()

	tl.ResetHitTest()
	tl.Restart(e.startRider(ctx))
	match := true
	if flag != nil {
		at := e.frameAt(ctx, tl, flag.FrameID)
		match = at.State == flag.Frame.State
	}
	e.start(ctx, tl, tl.Length()-1, 0)
	return match
}

func (e *Editor) start(ctx context.Context, tl *timeline.Timeline, frameID, startFrame int) {
	if frameID < 0 || frameID >= tl.Length() {
		panic(errors.Wrapf(ErrStartRange, "frame %d, length %d", frameID, tl.Length()))
	}
	center := e.frameAt(ctx, tl, frameID).State.Center()

	e.mu.Lock()
	if e.state == Stopped {
		e.oldZoom = e.zoom
		e.camera.Push()
	}
	e.state = Playing
	e.startFrame = startFrame
	e.offset = frameID
	e.iteration = tl.Iterations()
	e.camera.SetFrameCenter(center)
	e.zoom = e.cfg.Playback.PlaybackZoom(e.zoom)
	e.triggers = nil
	e.mu.Unlock()

	e.invalidateRender()
}

// Stop leaves playback, restoring the editing zoom and camera, and rewinds
// to the start.
func (e *Editor) Stop(ctx context.Context) {
	e.mu.Lock()
	if e.state == Stopped {
		e.mu.Unlock()
		return
	}
	tl := e.tl
	e.state = Stopped
	e.zoom = e.oldZoom
	e.camera.Pop()
	e.triggers = nil
	e.startFrame = 0
	e.mu.Unlock()

	tl.ResetHitTest()
	e.Reset(ctx)
}

func (e *Editor) TogglePause() {
	e.mu.Lock()
	switch e.state {
	case Playing:
		e.state = Paused
	case Paused:
		e.state = Playing
	}
	e.mu.Unlock()
	e.needsDraw.Store(true)
}

// Reset restarts the timeline from the track start and shows frame 0.
func (e *Editor) Reset(ctx context.Context) {
	e.Timeline().Restart(e.startRider(ctx))
	e.SetFrame(ctx, 0)
}

// SetFrame shows frame i, simulating up to it. i must not be negative.
func (e *Editor) SetFrame(ctx context.Context, i int) {
	tl := e.Timeline()
	e.frameAt(ctx, tl, i)

	e.mu.Lock()
	e.offset = i
	e.iteration = tl.Iterations()
	e.mu.Unlock()
	e.invalidateRender()
}

func (e *Editor) NextFrame(ctx context.Context) {
	e.SetFrame(ctx, e.Offset()+1)
}

func (e *Editor) PreviousFrame(ctx context.Context) {
	e.SetFrame(ctx, max(0, e.Offset()-1))
}

// Update advances playback by times frames, running zoom triggers and the
// camera after each.
func (e *Editor) Update(ctx context.Context, times int) {
	for i := 0; i < times; i++ {
		e.NextFrame(ctx)
		e.updateTriggers(ctx)
		e.UpdateCamera(ctx)
	}
}

func (e *Editor) updateTriggers(ctx context.Context) {
	e.mu.Lock()
	tl, offset := e.tl, e.offset
	e.mu.Unlock()

	r := e.guard.AcquireRead(ctx)
	contacts := tl.Contacts(r, offset)
	trigs := r.Triggers()
	r.Release()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range trigs {
		if _, hit := slices.BinarySearch(contacts, t.LineID); !hit || e.triggerActiveLocked(t.LineID) {
			continue
		}
		e.triggers = append(e.triggers, newActiveTrigger(t, e.zoom))
	}
	for i := len(e.triggers) - 1; i >= 0; i-- {
		z, done := e.triggers[i].activate()
		e.zoom = z
		if done {
			e.triggers = slices.Delete(e.triggers, i, i+1)
		}
	}
}

func (e *Editor) triggerActiveLocked(id track.LineID) bool {
	for _, a := range e.triggers {
		if a.trigger.LineID == id {
			return true
		}
	}
	return false
}

// UpdateCamera centers the camera on the render rider. With smooth camera
// enabled it also leans toward the rider one physics tick ahead.
func (e *Editor) UpdateCamera(ctx context.Context) {
	rf := e.RenderFrame(ctx)
	e.mu.Lock()
	e.camera.SetFrameCenter(rf.State.Center())
	smooth := e.cfg.Playback.SmoothCamera
	e.mu.Unlock()

	if smooth {
		r := e.guard.AcquireRead(ctx)
		pred := e.stepper.Step(rf.State, r, e.stepper.Iterations()).State
		r.Release()
		e.mu.Lock()
		e.camera.SetPrediction(pred.Center())
		e.mu.Unlock()
	}
	e.needsDraw.Store(true)
}

// RenderFrame is the frame to draw: the current offset after
// IterationsOffset passes. It is recomputed only after an invalidation.
func (e *Editor) RenderFrame(ctx context.Context) *timeline.Frame {
	if !e.renderDirty.Load() {
		e.mu.Lock()
		f := e.render
		e.mu.Unlock()
		if f != nil {
			return f
		}
	}

	e.mu.Lock()
	tl, gen, offset, it := e.tl, e.gen, e.offset, e.iteration
	e.mu.Unlock()

	e.renderDirty.Store(false)
	r := e.guard.AcquireRead(ctx)
	f := tl.ExtractFrame(r, offset, it)
	r.Release()

	e.mu.Lock()
	if e.gen == gen {
		e.render = f
	} else {
		e.renderDirty.Store(true)
	}
	e.mu.Unlock()
	return f
}

// Lerp returns the rider to draw at blend in [0, 1) between the previous
// and current frame. Smoothing applies only while playing with smooth
// playback enabled; otherwise it is the render frame.
func (e *Editor) Lerp(ctx context.Context, blend float64) physics.RiderState {
	e.mu.Lock()
	tl, offset := e.tl, e.offset
	smooth := e.cfg.Playback.SmoothPlayback && e.state == Playing && offset > 0 && blend < 1
	e.mu.Unlock()

	if !smooth {
		return e.RenderFrame(ctx).State
	}
	r := e.guard.AcquireRead(ctx)
	a, b := tl.GetFrame(r, offset-1), tl.GetFrame(r, offset)
	r.Release()
	return a.State.Lerp(b.State, blend)
}

// HitTestChanges moves the contact cursor to the current frame and returns
// the lines whose highlight must be redrawn.
func (e *Editor) HitTestChanges(ctx context.Context) []track.LineID {
	e.mu.Lock()
	tl, offset := e.tl, e.offset
	e.mu.Unlock()

	r := e.guard.AcquireRead(ctx)
	defer r.Release()
	return tl.SetFrame(r, offset)
}
