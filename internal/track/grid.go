package track

import (
	"math"
	"slices"

	"github.com/san-kum/ridersim/internal/geom"
)

// CellSize is the edge length of one grid cell in track units.
const CellSize = 14.0

// Cell addresses one grid cell.
type Cell struct {
	X, Y int
}

// Grid maps cells to the ids of the lines whose segment passes through them.
// Lines that span many cells are registered in each of them.
type Grid struct {
	size  float64
	cells map[Cell]map[LineID]struct{}
	owned map[LineID][]Cell
}

func NewGrid(size float64) *Grid {
	if size <= 0 {
		size = CellSize
	}
	return &Grid{
		size:  size,
		cells: make(map[Cell]map[LineID]struct{}),
		owned: make(map[LineID][]Cell),
	}
}

func (g *Grid) CellOf(p geom.Vec2) Cell {
	return Cell{int(math.Floor(p.X / g.size)), int(math.Floor(p.Y / g.size))}
}

// Traverse lists the cells crossed by segment ab, from the cell of a to the
// cell of b, each exactly once.
func (g *Grid) Traverse(a, b geom.Vec2) []Cell {
	cur, end := g.CellOf(a), g.CellOf(b)
	out := []Cell{cur}
	if cur == end {
		return out
	}

	dx, dy := b.X-a.X, b.Y-a.Y
	stepX, tMaxX, tDeltaX := axisSetup(a.X, dx, cur.X, g.size)
	stepY, tMaxY, tDeltaY := axisSetup(a.Y, dy, cur.Y, g.size)

	steps := abs(end.X-cur.X) + abs(end.Y-cur.Y)
	for i := 0; i < steps; i++ {
		switch {
		case cur.X == end.X:
			cur.Y += stepY
		case cur.Y == end.Y:
			cur.X += stepX
		case tMaxX < tMaxY:
			cur.X += stepX
			tMaxX += tDeltaX
		default:
			cur.Y += stepY
			tMaxY += tDeltaY
		}
		out = append(out, cur)
	}
	return out
}

func axisSetup(origin, delta float64, cell int, size float64) (step int, tMax, tDelta float64) {
	switch {
	case delta > 0:
		return 1, (float64(cell+1)*size - origin) / delta, size / delta
	case delta < 0:
		return -1, (float64(cell)*size - origin) / delta, -size / delta
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Insert registers l in every cell it crosses. Inserting an id that is
// already present replaces its previous memberships.
func (g *Grid) Insert(l Line) {
	if _, ok := g.owned[l.ID]; ok {
		g.Remove(l.ID)
	}
	cells := g.Traverse(l.P1, l.P2)
	for _, c := range cells {
		set, ok := g.cells[c]
		if !ok {
			set = make(map[LineID]struct{}, 1)
			g.cells[c] = set
		}
		set[l.ID] = struct{}{}
	}
	g.owned[l.ID] = cells
}

func (g *Grid) Remove(id LineID) {
	for _, c := range g.owned[id] {
		set := g.cells[c]
		delete(set, id)
		if len(set) == 0 {
			delete(g.cells, c)
		}
	}
	delete(g.owned, id)
}

// At returns the ids registered in c, sorted.
func (g *Grid) At(c Cell) []LineID {
	set := g.cells[c]
	if len(set) == 0 {
		return nil
	}
	out := make([]LineID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Region returns the ids registered in any cell overlapping r, sorted and
// without duplicates.
func (g *Grid) Region(r geom.Rect) []LineID {
	lo, hi := g.CellOf(r.Min), g.CellOf(r.Max)
	seen := make(map[LineID]struct{})
	span := float64(hi.X-lo.X+1) * float64(hi.Y-lo.Y+1)
	if span > float64(len(g.cells)) {
		for c, set := range g.cells {
			if c.X < lo.X || c.X > hi.X || c.Y < lo.Y || c.Y > hi.Y {
				continue
			}
			for id := range set {
				seen[id] = struct{}{}
			}
		}
	} else {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				for id := range g.cells[Cell{x, y}] {
					seen[id] = struct{}{}
				}
			}
		}
	}
	out := make([]LineID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (g *Grid) Len() int       { return len(g.owned) }
func (g *Grid) CellCount() int { return len(g.cells) }

func (g *Grid) clone() *Grid {
	c := NewGrid(g.size)
	for cell, set := range g.cells {
		cp := make(map[LineID]struct{}, len(set))
		for id := range set {
			cp[id] = struct{}{}
		}
		c.cells[cell] = cp
	}
	for id, cells := range g.owned {
		c.owned[id] = slices.Clone(cells)
	}
	return c
}
