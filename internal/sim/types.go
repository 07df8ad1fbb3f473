package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/ridersim/internal/metrics"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/timeline"
)

type Observer interface {
	OnFrame(f *timeline.Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *timeline.Frame)

func (fn ObserverFunc) OnFrame(f *timeline.Frame) { fn(f) }

type Config struct {
	Frames int
	// StopOnCrash ends the ride at the first failed frame.
	StopOnCrash bool
	// ValidateState ends the ride at the first frame with a NaN or Inf
	// point.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{Frames: 400, ValidateState: true}
}

type Result struct {
	Name    string
	Params  physics.Params
	Frames  []*timeline.Frame
	Metrics map[string]float64
	Errors  []error
	Elapsed time.Duration
}

// Crashed reports whether the last simulated frame has failed.
func (r *Result) Crashed() bool {
	return len(r.Frames) > 0 && r.Frames[len(r.Frames)-1].State.Failed()
}

// States returns the rider state of every frame.
func (r *Result) States() []physics.RiderState {
	out := make([]physics.RiderState, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.State
	}
	return out
}

// MetricSet builds fresh metrics for one ride.
type MetricSet func(p physics.Params) []metrics.Metric

type RideError struct {
	Frame   int
	Message string
}

func (e RideError) Error() string {
	return fmt.Sprintf("ride error at frame %d: %s", e.Frame, e.Message)
}
