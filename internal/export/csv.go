package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/san-kum/ridersim/internal/timeline"
)

var trailHeader = []string{"frame", "x", "y", "speed", "crashed", "sled_broken"}

// WriteTrailCSV writes one row per frame with the rider center and speed.
func WriteTrailCSV(w io.Writer, frames []*timeline.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trailHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	for _, fr := range frames {
		c := fr.State.Center()
		row := []string{
			strconv.Itoa(fr.Index),
			f(c.X),
			f(c.Y),
			f(fr.State.Speed()),
			strconv.FormatBool(fr.State.Crashed),
			strconv.FormatBool(fr.State.SledBroken),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write frame %d", fr.Index)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
