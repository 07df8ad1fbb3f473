package track

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ridersim/internal/geom"
)

func addLine(t *testing.T, trk *Track, x1, y1, x2, y2 float64) Line {
	t.Helper()
	l, err := trk.AddLine(NewLine(Standard, geom.V(x1, y1), geom.V(x2, y2)))
	require.NoError(t, err)
	return l
}

func ids(lines []Line) []LineID {
	out := make([]LineID, len(lines))
	for i, l := range lines {
		out[i] = l.ID
	}
	return out
}

func TestAddLineAssignsIDs(t *testing.T) {
	trk := New("t")
	a := addLine(t, trk, 0, 0, 10, 0)
	b := addLine(t, trk, 0, 10, 10, 10)
	assert.Equal(t, LineID(1), a.ID)
	assert.Equal(t, LineID(2), b.ID)

	c, err := trk.AddLine(Line{ID: 10, P1: geom.V(1, 1), P2: geom.V(2, 2)})
	require.NoError(t, err)
	assert.Equal(t, LineID(10), c.ID)

	d := addLine(t, trk, 5, 5, 6, 6)
	assert.Equal(t, LineID(11), d.ID)

	_, err = trk.AddLine(Line{ID: 2})
	assert.True(t, errors.Is(err, ErrDuplicateLine))

	assert.Equal(t, []LineID{1, 2, 10, 11}, ids(trk.Lines()))
	require.NoError(t, trk.Validate())
}

func TestQueriesReturnSortedCandidates(t *testing.T) {
	trk := New("t")
	for i := 0; i < 5; i++ {
		addLine(t, trk, 0, float64(i), 100, float64(i))
	}
	near := trk.LinesNear(geom.V(50, 2), 1)
	assert.Equal(t, []LineID{1, 2, 3, 4, 5}, ids(near))

	assert.Empty(t, trk.LinesInCell(geom.V(500, 500)))
	assert.Empty(t, trk.LinesInRect(geom.Rect{Min: geom.V(200, 200), Max: geom.V(300, 300)}))
}

func TestLineEndsInRadius(t *testing.T) {
	trk := New("t")
	a := addLine(t, trk, 0, 0, 30, 0)
	b := addLine(t, trk, 0, 0, 0, 30)
	addLine(t, trk, 1, 1, 40, 40)
	addLine(t, trk, -50, -50, 50, 50)

	got := trk.LineEndsInRadius(geom.V(0, 0), 0.5)
	assert.Equal(t, []LineID{a.ID, b.ID}, ids(got))
}

func TestMoveUpdatesGrid(t *testing.T) {
	trk := New("t")
	l := addLine(t, trk, 0, 0, 10, 0)

	old, err := trk.MoveLine(l.ID, geom.V(500, 500), geom.V(510, 500))
	require.NoError(t, err)
	assert.Equal(t, l, old)

	assert.Empty(t, trk.LinesNear(geom.V(5, 0), 1))
	assert.Equal(t, []LineID{l.ID}, ids(trk.LinesNear(geom.V(505, 500), 1)))
	require.NoError(t, trk.Validate())

	_, err = trk.MoveLine(99, geom.V(0, 0), geom.V(1, 1))
	assert.True(t, errors.Is(err, ErrLineNotFound))
}

func TestRemoveLine(t *testing.T) {
	trk := New("t")
	l := addLine(t, trk, 0, 0, 100, 100)
	_, err := trk.RemoveLine(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, trk.LineCount())
	assert.Equal(t, 0, trk.grid.CellCount())
	require.NoError(t, trk.Validate())

	_, err = trk.RemoveLine(l.ID)
	assert.True(t, errors.Is(err, ErrLineNotFound))
}

func TestGridInvariantUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	trk := New("fuzz")
	coord := func() float64 { return rng.Float64()*400 - 200 }

	var live []LineID
	for step := 0; step < 500; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			l := addLine(t, trk, coord(), coord(), coord(), coord())
			live = append(live, l.ID)
		case op == 1:
			id := live[rng.Intn(len(live))]
			_, err := trk.MoveLine(id, geom.V(coord(), coord()), geom.V(coord(), coord()))
			require.NoError(t, err)
		default:
			i := rng.Intn(len(live))
			_, err := trk.RemoveLine(live[i])
			require.NoError(t, err)
			live = append(live[:i], live[i+1:]...)
		}
		require.NoError(t, trk.Validate(), "step %d", step)
	}
	assert.Equal(t, len(live), trk.LineCount())
}

func TestTraverseCoversSegment(t *testing.T) {
	g := NewGrid(CellSize)
	cells := g.Traverse(geom.V(1, 1), geom.V(50, 30))
	assert.Equal(t, Cell{0, 0}, cells[0])
	assert.Equal(t, Cell{3, 2}, cells[len(cells)-1])
	assert.Len(t, cells, 6)

	for i := 1; i < len(cells); i++ {
		dx := cells[i].X - cells[i-1].X
		dy := cells[i].Y - cells[i-1].Y
		assert.Equal(t, 1, abs(dx)+abs(dy), "cells must be 4-connected")
	}

	assert.Equal(t, []Cell{{-1, -1}}, g.Traverse(geom.V(-1, -1), geom.V(-2, -3)))
}

func TestSnapshotRoundTrip(t *testing.T) {
	trk, err := Sample("ramp")
	require.NoError(t, err)
	trk.SetStart(geom.V(3, -4))

	data, err := json.Marshal(trk.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accelerator"`)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, trk.Lines(), restored.Lines())
	assert.Equal(t, trk.Triggers(), restored.Triggers())
	assert.Equal(t, trk.Checksum(), restored.Checksum())
	require.NoError(t, restored.Validate())
}

func TestFromSnapshotRejectsDanglingTrigger(t *testing.T) {
	_, err := FromSnapshot(Snapshot{
		Lines:    []Line{{ID: 1, P2: geom.V(1, 0)}},
		Triggers: []Trigger{{LineID: 4}},
	})
	assert.True(t, errors.Is(err, ErrLineNotFound))
}

func TestChecksumTracksGeometry(t *testing.T) {
	trk := New("a")
	l := addLine(t, trk, 0, 0, 10, 0)
	sum := trk.Checksum()

	trk.SetName("renamed")
	assert.Equal(t, sum, trk.Checksum())

	_, err := trk.MoveLine(l.ID, geom.V(0, 0), geom.V(10, 1e-9))
	require.NoError(t, err)
	assert.NotEqual(t, sum, trk.Checksum())
}

func TestCloneIsIndependent(t *testing.T) {
	trk := New("a")
	l := addLine(t, trk, 0, 0, 10, 0)
	c := trk.Clone()

	_, err := c.RemoveLine(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, trk.LineCount())
	assert.NotEmpty(t, trk.LinesNear(geom.V(5, 0), 1))
	require.NoError(t, trk.Validate())
	require.NoError(t, c.Validate())
}

func TestSamples(t *testing.T) {
	for _, name := range SampleNames() {
		trk, err := Sample(name)
		require.NoError(t, err, name)
		assert.NotZero(t, trk.LineCount(), name)
		require.NoError(t, trk.Validate(), name)
	}
	_, err := Sample("nope")
	assert.True(t, errors.Is(err, ErrUnknownSample))
}

func TestLineTypeText(t *testing.T) {
	for _, lt := range []LineType{Standard, Accelerator, Scenery} {
		b, err := lt.MarshalText()
		require.NoError(t, err)
		var back LineType
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, lt, back)
	}
	_, err := ParseLineType("lava")
	assert.Error(t, err)
}
