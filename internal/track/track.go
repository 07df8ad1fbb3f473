package track

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/san-kum/ridersim/internal/geom"
)

// Track is the mutable line set plus its spatial index, start pose and
// triggers.
type Track struct {
	name      string
	lines     map[LineID]Line
	ids       []LineID
	grid      *Grid
	nextID    LineID
	start     geom.Vec2
	zeroStart bool
	triggers  []Trigger
}

func New(name string) *Track {
	return &Track{
		name:   name,
		lines:  make(map[LineID]Line),
		grid:   NewGrid(CellSize),
		nextID: 1,
	}
}

func (t *Track) Name() string         { return t.name }
func (t *Track) SetName(name string)  { t.name = name }
func (t *Track) Start() geom.Vec2     { return t.start }
func (t *Track) SetStart(p geom.Vec2) { t.start = p }
func (t *Track) ZeroStart() bool      { return t.zeroStart }
func (t *Track) SetZeroStart(v bool)  { t.zeroStart = v }
func (t *Track) LineCount() int       { return len(t.ids) }

func (t *Track) Triggers() []Trigger { return slices.Clone(t.triggers) }

func (t *Track) SetTriggers(ts []Trigger) { t.triggers = slices.Clone(ts) }

func (t *Track) Line(id LineID) (Line, bool) {
	l, ok := t.lines[id]
	return l, ok
}

// Lines returns every line ordered by id.
func (t *Track) Lines() []Line {
	out := make([]Line, len(t.ids))
	for i, id := range t.ids {
		out[i] = t.lines[id]
	}
	return out
}

// AddLine inserts l and returns it with its id assigned. A zero id takes
// the next free one; an explicit id must not be in use.
func (t *Track) AddLine(l Line) (Line, error) {
	if !l.valid() {
		return Line{}, errors.Wrapf(ErrInvalidLine, "add %s", l)
	}
	if l.ID == 0 {
		l.ID = t.nextID
	} else if _, ok := t.lines[l.ID]; ok {
		return Line{}, errors.Wrapf(ErrDuplicateLine, "add line %d", l.ID)
	}
	if l.ID >= t.nextID {
		t.nextID = l.ID + 1
	}

	t.lines[l.ID] = l
	i, _ := slices.BinarySearch(t.ids, l.ID)
	t.ids = slices.Insert(t.ids, i, l.ID)
	t.grid.Insert(l)
	return l, nil
}

// MoveLine changes the endpoints of an existing line and returns the line
// as it was before the move.
func (t *Track) MoveLine(id LineID, p1, p2 geom.Vec2) (Line, error) {
	old, ok := t.lines[id]
	if !ok {
		return Line{}, errors.Wrapf(ErrLineNotFound, "move line %d", id)
	}
	moved := old
	moved.P1, moved.P2 = p1, p2
	if !moved.valid() {
		return Line{}, errors.Wrapf(ErrInvalidLine, "move %s", moved)
	}
	t.lines[id] = moved
	t.grid.Insert(moved)
	return old, nil
}

// ReplaceLine swaps every attribute of the line with l.ID.
func (t *Track) ReplaceLine(l Line) (Line, error) {
	old, ok := t.lines[l.ID]
	if !ok {
		return Line{}, errors.Wrapf(ErrLineNotFound, "replace line %d", l.ID)
	}
	if !l.valid() {
		return Line{}, errors.Wrapf(ErrInvalidLine, "replace %s", l)
	}
	t.lines[l.ID] = l
	t.grid.Insert(l)
	return old, nil
}

func (t *Track) RemoveLine(id LineID) (Line, error) {
	old, ok := t.lines[id]
	if !ok {
		return Line{}, errors.Wrapf(ErrLineNotFound, "remove line %d", id)
	}
	delete(t.lines, id)
	if i, found := slices.BinarySearch(t.ids, id); found {
		t.ids = slices.Delete(t.ids, i, i+1)
	}
	t.grid.Remove(id)
	return old, nil
}

func (t *Track) resolve(ids []LineID) []Line {
	out := make([]Line, len(ids))
	for i, id := range ids {
		out[i] = t.lines[id]
	}
	return out
}

// LinesInCell returns the lines registered in the cell containing p.
func (t *Track) LinesInCell(p geom.Vec2) []Line {
	return t.resolve(t.grid.At(t.grid.CellOf(p)))
}

// LinesNear returns the candidate lines in every cell within r of p.
func (t *Track) LinesNear(p geom.Vec2, r float64) []Line {
	return t.LinesInRect(geom.Rect{Min: p, Max: p}.Expand(r))
}

func (t *Track) LinesInRect(r geom.Rect) []Line {
	return t.resolve(t.grid.Region(r))
}

// LineEndsInRadius returns the lines with at least one endpoint within r of
// p. Unlike the other queries this one is exact.
func (t *Track) LineEndsInRadius(p geom.Vec2, r float64) []Line {
	var out []Line
	r2 := r * r
	for _, l := range t.LinesNear(p, r) {
		if l.P1.DistSq(p) <= r2 || l.P2.DistSq(p) <= r2 {
			out = append(out, l)
		}
	}
	return out
}

// Validate checks that the grid and the line set agree: every line sits in
// exactly the cells its segment crosses and no cell refers to a dead line.
func (t *Track) Validate() error {
	if t.grid.Len() != len(t.lines) || len(t.ids) != len(t.lines) {
		return errors.Wrapf(ErrGridMismatch, "%d lines, %d ids, %d indexed",
			len(t.lines), len(t.ids), t.grid.Len())
	}
	for _, id := range t.ids {
		l, ok := t.lines[id]
		if !ok {
			return errors.Wrapf(ErrGridMismatch, "id %d has no line", id)
		}
		want := t.grid.Traverse(l.P1, l.P2)
		if !slices.Equal(want, t.grid.owned[id]) {
			return errors.Wrapf(ErrGridMismatch, "line %d cells", id)
		}
		for _, c := range want {
			if _, ok := t.grid.cells[c][id]; !ok {
				return errors.Wrapf(ErrGridMismatch, "line %d missing from cell %v", id, c)
			}
		}
	}
	for c, set := range t.grid.cells {
		for id := range set {
			if _, ok := t.lines[id]; !ok {
				return errors.Wrapf(ErrGridMismatch, "cell %v holds dead line %d", c, id)
			}
		}
	}
	return nil
}

// Clone returns an independent deep copy.
func (t *Track) Clone() *Track {
	c := &Track{
		name:      t.name,
		lines:     make(map[LineID]Line, len(t.lines)),
		ids:       slices.Clone(t.ids),
		grid:      t.grid.clone(),
		nextID:    t.nextID,
		start:     t.start,
		zeroStart: t.zeroStart,
		triggers:  slices.Clone(t.triggers),
	}
	for id, l := range t.lines {
		c.lines[id] = l
	}
	return c
}
