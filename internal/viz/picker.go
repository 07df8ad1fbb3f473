package viz

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/ridersim/internal/editor"
	"github.com/san-kum/ridersim/internal/storage"
	"github.com/san-kum/ridersim/internal/track"
)

// Entry is one track the picker can open.
type Entry struct {
	Label  string
	Detail string
	Load   editor.Loader
}

// SampleEntries lists the built-in tracks.
func SampleEntries() []Entry {
	names := track.SampleNames()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, Entry{
			Label:  name,
			Detail: "sample",
			Load: func(context.Context) (*track.Track, error) {
				return track.Sample(name)
			},
		})
	}
	return out
}

// BackupEntries lists the tracks in st, newest first.
func BackupEntries(st *storage.Store) ([]Entry, error) {
	list, err := st.List()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(list))
	for _, meta := range list {
		out = append(out, Entry{
			Label:  meta.Name,
			Detail: fmt.Sprintf("%s %s, %d lines", meta.Kind, meta.Timestamp.Format("01-02 15:04"), meta.Lines),
			Load: func(ctx context.Context) (*track.Track, error) {
				return st.LoadTrack(ctx, meta.ID)
			},
		})
	}
	return out, nil
}

type picker struct {
	entries []Entry
	cursor  int
}

func (p *picker) move(d int) {
	if len(p.entries) == 0 {
		return
	}
	p.cursor = (p.cursor + d + len(p.entries)) % len(p.entries)
}

func (p *picker) selected() (Entry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return Entry{}, false
	}
	return p.entries[p.cursor], true
}

func (p *picker) view(s styles, rows int) string {
	var b strings.Builder
	b.WriteString(s.title.Render("OPEN TRACK") + "\n\n")
	if len(p.entries) == 0 {
		b.WriteString(s.subtle.Render("(nothing to open)") + "\n")
	}
	first := 0
	if rows > 0 && p.cursor >= rows {
		first = p.cursor - rows + 1
	}
	for i := first; i < len(p.entries) && (rows <= 0 || i < first+rows); i++ {
		e := p.entries[i]
		line := fmt.Sprintf("%-12s %s", e.Label, s.subtle.Render(e.Detail))
		if i == p.cursor {
			b.WriteString(s.active.Render("> "+e.Label) + " " + s.subtle.Render(e.Detail) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n" + s.hint.Render("↑↓ choose  enter open  esc close"))
	return b.String()
}
