package timeline

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("timeline: index out of range")

// RangeError is the panic value for a negative frame index or a
// sub-iteration outside [0, Iterations].
type RangeError struct {
	Op    string
	Value int
	Min   int
	// Max is -1 when the range is unbounded above.
	Max int
}

func (e *RangeError) Error() string {
	if e.Max < 0 {
		return fmt.Sprintf("timeline: %s: %d is below %d", e.Op, e.Value, e.Min)
	}
	return fmt.Sprintf("timeline: %s: %d outside [%d, %d]", e.Op, e.Value, e.Min, e.Max)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }
