package track

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ridersim/internal/geom"
)

// LineID is stable for the lifetime of a line. Zero means unassigned.
type LineID int

type LineType int

const (
	Standard LineType = iota
	Accelerator
	Scenery
)

var lineTypeNames = [...]string{"standard", "accelerator", "scenery"}

func (t LineType) String() string {
	if t < 0 || int(t) >= len(lineTypeNames) {
		return fmt.Sprintf("LineType(%d)", int(t))
	}
	return lineTypeNames[t]
}

func ParseLineType(s string) (LineType, error) {
	for i, name := range lineTypeNames {
		if strings.EqualFold(s, name) {
			return LineType(i), nil
		}
	}
	return 0, fmt.Errorf("track: unknown line type %q", s)
}

func (t LineType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *LineType) UnmarshalText(b []byte) error {
	v, err := ParseLineType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

const (
	DefaultWidth      = 1.0
	DefaultMultiplier = 1.0
)

// Line is a segment of the track. Lines are values; a Track hands out copies.
type Line struct {
	ID         LineID    `json:"id"`
	P1         geom.Vec2 `json:"p1"`
	P2         geom.Vec2 `json:"p2"`
	Type       LineType  `json:"type"`
	Width      float64   `json:"width,omitempty"`
	Multiplier float64   `json:"multiplier,omitempty"`
}

// NewLine returns a line with default width and multiplier.
func NewLine(t LineType, p1, p2 geom.Vec2) Line {
	return Line{P1: p1, P2: p2, Type: t, Width: DefaultWidth, Multiplier: DefaultMultiplier}
}

// Interacts reports whether the rider collides with the line.
func (l Line) Interacts() bool { return l.Type != Scenery }

func (l Line) Vector() geom.Vec2   { return l.P2.Sub(l.P1) }
func (l Line) Length() float64     { return l.Vector().Length() }
func (l Line) Angle() geom.Angle   { return geom.AngleFromVector(l.Vector()) }
func (l Line) Bounds() geom.Rect   { return geom.RectFromPoints(l.P1, l.P2) }
func (l Line) Midpoint() geom.Vec2 { return l.P1.Lerp(l.P2, 0.5) }

// Joint returns P1 for 0 and P2 otherwise.
func (l Line) Joint(i int) geom.Vec2 {
	if i == 0 {
		return l.P1
	}
	return l.P2
}

// WithJoint returns a copy of l with joint i moved to p.
func (l Line) WithJoint(i int, p geom.Vec2) Line {
	if i == 0 {
		l.P1 = p
	} else {
		l.P2 = p
	}
	return l
}

// SameGeometry compares endpoints only.
func (l Line) SameGeometry(o Line) bool {
	return l.P1.Equal(o.P1) && l.P2.Equal(o.P2)
}

func (l Line) valid() bool {
	return l.P1.IsValid() && l.P2.IsValid() && !math.IsNaN(l.Width) && !math.IsNaN(l.Multiplier)
}

func (l Line) String() string {
	return fmt.Sprintf("line %d %s %v-%v", l.ID, l.Type, l.P1, l.P2)
}

// Trigger retargets the camera zoom when the rider first touches LineID.
type Trigger struct {
	LineID LineID  `json:"line_id"`
	Zoom   float64 `json:"zoom"`
	Frames int     `json:"frames"`
}

// Change is one line's state before and after an edit. A nil Before means
// the line was added, a nil After that it was removed.
type Change struct {
	Before *Line
	After  *Line
}

func (c Change) LineID() LineID {
	if c.After != nil {
		return c.After.ID
	}
	if c.Before != nil {
		return c.Before.ID
	}
	return 0
}
