package tools

import (
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/track"
)

// Selection is a line being edited. Clone is its geometry when the gesture
// started and never changes; Line follows the edits.
type Selection struct {
	Line           track.Line
	Clone          track.Line
	Joint1, Joint2 bool
	Snapped        []Selection
}

func newSelection(l track.Line, joint1, joint2 bool) Selection {
	return Selection{Line: l, Clone: l, Joint1: joint1, Joint2: joint2}
}

// selectKnob activates whichever joints of l sit exactly at knob.
func selectKnob(l track.Line, knob geom.Vec2) Selection {
	return newSelection(l, l.P1.Equal(knob), l.P2.Equal(knob))
}

func (s *Selection) lines() []*Selection {
	out := []*Selection{s}
	for i := range s.Snapped {
		out = append(out, &s.Snapped[i])
	}
	return out
}

func (s *Selection) changed() bool {
	for _, sel := range s.lines() {
		if sel.Line != sel.Clone {
			return true
		}
	}
	return false
}

func (s *Selection) highlight() Highlight {
	return Highlight{Line: s.Line, Knob1: s.Joint1, Knob2: s.Joint2}
}
