package editor

import "github.com/san-kum/ridersim/internal/track"

// activeTrigger eases the zoom toward a trigger's target, one step per
// frame.
type activeTrigger struct {
	trigger track.Trigger
	from    float64
	elapsed int
}

func newActiveTrigger(t track.Trigger, zoom float64) *activeTrigger {
	return &activeTrigger{trigger: t, from: zoom}
}

// activate advances one frame and returns the new zoom and whether the
// trigger is finished.
func (a *activeTrigger) activate() (float64, bool) {
	a.elapsed++
	frames := a.trigger.Frames
	if frames <= 0 || a.elapsed >= frames {
		return a.trigger.Zoom, true
	}
	t := float64(a.elapsed) / float64(frames)
	return a.from + (a.trigger.Zoom-a.from)*t, false
}
