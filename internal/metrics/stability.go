package metrics

import (
	"github.com/san-kum/ridersim/internal/timeline"
)

// CrashFrame is the index of the first failed frame, or -1.
type CrashFrame struct {
	name  string
	frame int
}

func NewCrashFrame() *CrashFrame {
	return &CrashFrame{name: "crash_frame", frame: -1}
}

func (c *CrashFrame) Name() string { return c.name }

func (c *CrashFrame) Observe(f *timeline.Frame) {
	if c.frame < 0 && f.State.Failed() {
		c.frame = f.Index
	}
}

func (c *CrashFrame) Value() float64 { return float64(c.frame) }

func (c *CrashFrame) Reset() { c.frame = -1 }

// Survival is the fraction of frames before the rider failed.
type Survival struct {
	name     string
	failed   int
	samples  int
	hasCrash bool
}

func NewSurvival() *Survival {
	return &Survival{name: "survival"}
}

func (s *Survival) Name() string { return s.name }

func (s *Survival) Observe(f *timeline.Frame) {
	s.samples++
	if f.State.Failed() {
		s.hasCrash = true
	}
	if s.hasCrash {
		s.failed++
	}
}

func (s *Survival) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.failed)/float64(s.samples)
}

func (s *Survival) Reset() {
	s.failed = 0
	s.samples = 0
	s.hasCrash = false
}
