// Package metrics summarizes a simulated run frame by frame.
package metrics

import (
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/timeline"
)

type Metric interface {
	Name() string
	Observe(f *timeline.Frame)
	Value() float64
	Reset()
}

// Standard returns the metrics reported by the run and plot commands.
func Standard(p physics.Params) []Metric {
	return []Metric{
		NewSpeed(),
		NewMaxSpeed(),
		NewEnergy(p.Gravity),
		NewContactRatio(),
		NewCrashFrame(),
		NewSurvival(),
	}
}

// Collect feeds every frame to every metric and returns their values by
// name. Metrics are reset first.
func Collect(frames []*timeline.Frame, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for _, f := range frames {
		for _, m := range ms {
			m.Observe(f)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// SpeedSeries returns the rider speed of each frame, for plotting.
func SpeedSeries(frames []*timeline.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.State.Speed()
	}
	return out
}
