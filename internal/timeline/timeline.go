// Package timeline caches the simulated rider frame by frame.
//
// Frame i is computed from frame i-1 and the current line set, so the cache
// is a memoized recurrence that only ever grows at its end. Geometry edits
// truncate it at the earliest frame the edit could have influenced; frames
// before that point are kept as the same objects.
package timeline

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/track"
)

// Frame is an immutable simulation result. Recomputing an index yields a
// new Frame; cached ones are never modified.
type Frame struct {
	Index     int
	State     physics.RiderState
	Diagnosis physics.Diagnosis
}

type entry struct {
	frame    *Frame
	contacts []track.LineID
	bounds   geom.Rect
}

type Timeline struct {
	mu      sync.Mutex
	stepper physics.Stepper
	logger  *zap.Logger

	entries      []entry
	firstContact map[track.LineID]int

	hitValid bool
	hitPrev  []track.LineID

	computed int
}

type Option func(*Timeline)

func WithLogger(l *zap.Logger) Option {
	return func(t *Timeline) { t.logger = l }
}

func New(stepper physics.Stepper, start physics.RiderState, opts ...Option) *Timeline {
	t := &Timeline{
		stepper: stepper,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.restartLocked(start)
	return t
}

// Restart drops every cached frame and seeds frame 0 with start.
func (t *Timeline) Restart(start physics.RiderState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restartLocked(start)
}

func (t *Timeline) restartLocked(start physics.RiderState) {
	clear(t.entries)
	t.entries = append(t.entries[:0], entry{frame: &Frame{State: start}})
	t.firstContact = make(map[track.LineID]int)
}

func (t *Timeline) Length() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Timeline) Iterations() int { return t.stepper.Iterations() }

func (t *Timeline) Stepper() physics.Stepper { return t.stepper }

// Computed counts full frame computations since construction.
func (t *Timeline) Computed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.computed
}

// GetFrame returns frame i, simulating the missing frames up to it first.
func (t *Timeline) GetFrame(lines physics.Lines, i int) *Frame {
	if i < 0 {
		panic(&RangeError{Op: "GetFrame", Value: i, Min: 0, Max: -1})
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.extendLocked(lines, i)
	return t.entries[i].frame
}

// Cached returns frame i only if it is already computed.
func (t *Timeline) Cached(i int) (*Frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.entries) {
		return nil, false
	}
	return t.entries[i].frame, true
}

func (t *Timeline) extendLocked(lines physics.Lines, i int) {
	iters := t.stepper.Iterations()
	for n := len(t.entries); n <= i; n++ {
		prev := t.entries[n-1].frame
		res := t.stepper.Step(prev.State, lines, iters)
		t.entries = append(t.entries, entry{
			frame:    &Frame{Index: n, State: res.State, Diagnosis: res.Diagnosis},
			contacts: res.Contacts,
			bounds:   res.Bounds,
		})
		for _, id := range res.Contacts {
			if f, ok := t.firstContact[id]; !ok || n < f {
				t.firstContact[id] = n
			}
		}
		t.computed++
	}
}

// ExtractFrame returns frame i as it stands after sub relaxation passes.
// sub == Iterations() is the cached frame itself; frame 0 is returned as is.
// Partial results are not cached.
func (t *Timeline) ExtractFrame(lines physics.Lines, i, sub int) *Frame {
	iters := t.stepper.Iterations()
	if i < 0 {
		panic(&RangeError{Op: "ExtractFrame", Value: i, Min: 0, Max: -1})
	}
	if sub < 0 || sub > iters {
		panic(&RangeError{Op: "ExtractFrame", Value: sub, Min: 0, Max: iters})
	}
	if i == 0 || sub == iters {
		return t.GetFrame(lines, i)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.extendLocked(lines, i-1)
	prev := t.entries[i-1].frame
	res := t.stepper.Step(prev.State, lines, sub)
	return &Frame{Index: i, State: res.State, Diagnosis: res.Diagnosis}
}

// NotifyChanged truncates the cache at the earliest frame the changes could
// affect: the first contact with a changed line's old geometry, or the first
// frame whose step came within reach of its new geometry. Scenery lines
// affect nothing. Without arguments everything after the seed is dropped.
func (t *Timeline) NotifyChanged(changes ...track.Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	point := len(t.entries)
	if len(changes) == 0 {
		point = 1
	}
	for _, c := range changes {
		if c.Before != nil && c.Before.Interacts() {
			if f, ok := t.firstContact[c.Before.ID]; ok && f < point {
				point = f
			}
		}
		if c.After != nil && c.After.Interacts() {
			for f := 1; f < point; f++ {
				if t.entries[f].bounds.IntersectsSegment(c.After.P1, c.After.P2) {
					point = f
					break
				}
			}
		}
	}
	t.truncateLocked(point)
}

func (t *Timeline) truncateLocked(point int) {
	point = max(point, 1)
	if point >= len(t.entries) {
		return
	}
	dropped := len(t.entries) - point
	clear(t.entries[point:])
	t.entries = t.entries[:point]
	for id, f := range t.firstContact {
		if f >= point {
			delete(t.firstContact, id)
		}
	}
	t.logger.Debug("timeline invalidated",
		zap.Int("from", point),
		zap.Int("dropped", dropped))
}

// FirstContact reports the earliest cached frame in which line id was hit.
func (t *Timeline) FirstContact(id track.LineID) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.firstContact[id]
	return f, ok
}

// Contacts returns the lines hit while computing frame i.
func (t *Timeline) Contacts(lines physics.Lines, i int) []track.LineID {
	t.GetFrame(lines, i)
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.entries[i].contacts)
}

// SetFrame moves the hit-test cursor to frame i and returns the lines whose
// contact state differs from the previously set frame. The first call after
// construction or ResetHitTest returns every contact of frame i.
func (t *Timeline) SetFrame(lines physics.Lines, i int) []track.LineID {
	cur := t.Contacts(lines, i)
	t.mu.Lock()
	defer t.mu.Unlock()

	var prev []track.LineID
	if t.hitValid {
		prev = t.hitPrev
	}
	t.hitPrev, t.hitValid = cur, true
	return symmetricDiff(prev, cur)
}

func (t *Timeline) ResetHitTest() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hitPrev, t.hitValid = nil, false
}

// symmetricDiff merges two sorted id lists.
func symmetricDiff(a, b []track.LineID) []track.LineID {
	var out []track.LineID
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
