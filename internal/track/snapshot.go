package track

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/san-kum/ridersim/internal/geom"
)

// Snapshot is a plain copy of a track, detached from its index.
type Snapshot struct {
	Name      string    `json:"name"`
	Start     geom.Vec2 `json:"start"`
	ZeroStart bool      `json:"zero_start,omitempty"`
	Lines     []Line    `json:"lines"`
	Triggers  []Trigger `json:"triggers,omitempty"`
}

func (t *Track) Snapshot() Snapshot {
	return Snapshot{
		Name:      t.name,
		Start:     t.start,
		ZeroStart: t.zeroStart,
		Lines:     t.Lines(),
		Triggers:  slices.Clone(t.triggers),
	}
}

// FromSnapshot builds a fully indexed track. Lines keep their ids.
func FromSnapshot(s Snapshot) (*Track, error) {
	t := New(s.Name)
	t.start = s.Start
	t.zeroStart = s.ZeroStart
	for _, l := range s.Lines {
		if l.ID == 0 {
			return nil, errors.Wrapf(ErrInvalidLine, "snapshot %q: line without id", s.Name)
		}
		if _, err := t.AddLine(l); err != nil {
			return nil, errors.Wrapf(err, "snapshot %q", s.Name)
		}
	}
	for _, tr := range s.Triggers {
		if _, ok := t.lines[tr.LineID]; !ok {
			return nil, errors.Wrapf(ErrLineNotFound, "snapshot %q: trigger on line %d", s.Name, tr.LineID)
		}
	}
	t.triggers = slices.Clone(s.Triggers)
	return t, nil
}

// Checksum hashes everything that affects the simulation or a saved copy:
// lines in id order, start pose and triggers. The name is not included.
func (s Snapshot) Checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	putF := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	putI := func(i int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		_, _ = d.Write(buf[:])
	}

	putF(s.Start.X)
	putF(s.Start.Y)
	if s.ZeroStart {
		putI(1)
	} else {
		putI(0)
	}
	putI(int64(len(s.Lines)))
	for _, l := range s.Lines {
		putI(int64(l.ID))
		putI(int64(l.Type))
		putF(l.P1.X)
		putF(l.P1.Y)
		putF(l.P2.X)
		putF(l.P2.Y)
		putF(l.Width)
		putF(l.Multiplier)
	}
	putI(int64(len(s.Triggers)))
	for _, tr := range s.Triggers {
		putI(int64(tr.LineID))
		putF(tr.Zoom)
		putI(int64(tr.Frames))
	}
	return d.Sum64()
}

func (t *Track) Checksum() uint64 { return t.Snapshot().Checksum() }
