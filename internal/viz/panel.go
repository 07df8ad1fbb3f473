package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ridersim/internal/editor"
)

const graphPoints = 120

func (m Model) panel() string {
	if m.picker != nil {
		return m.st.panel.Render(m.picker.view(m.st, m.canvas.Height-4))
	}
	s := m.e.Status(m.ctx)
	st := m.st

	var b strings.Builder
	name := s.Name
	if name == "" {
		name = "untitled"
	}
	b.WriteString(st.title.Render(strings.ToUpper(name)) + "\n")
	b.WriteString(m.stateLabel(s) + "\n\n")

	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", s.Frame))
	row("Iteration", fmt.Sprintf("%d/%d", s.Iteration, m.e.Timeline().Iterations()))
	row("Zoom", fmt.Sprintf("%.2f", s.Zoom))
	row("Lines", fmt.Sprintf("%d", s.Lines))
	row("Tool", s.Tool)
	if s.HasFlag {
		row("Flag", fmt.Sprintf("frame %d", m.e.GetFlag().FrameID))
	}
	row("History", undoLabel(s))
	row("Locks", m.lockLabel())

	if tip := m.e.Overlay().Tooltip; tip != "" {
		b.WriteString("\n" + st.active.Render(tip) + "\n")
	}

	if len(m.speeds) > 1 {
		data := m.speeds
		if len(data) > graphPoints {
			data = data[len(data)-graphPoints:]
		}
		chart := asciigraph.Plot(data,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-12),
			asciigraph.Precision(1),
			asciigraph.Caption("speed"))
		b.WriteString("\n" + st.graph.Render(chart) + "\n")
	}

	if m.message != "" {
		b.WriteString("\n" + st.separator(panelWidth-4) + "\n")
		b.WriteString(st.subtle.Render(m.message) + "\n")
	}
	return st.panel.Render(b.String())
}

func (m Model) stateLabel(s editor.Status) string {
	switch {
	case s.Loading:
		return m.st.paused.Render("LOADING")
	case s.Failed && s.State != editor.Stopped:
		return m.st.failed.Render("CRASHED " + strings.ToUpper(s.State.String()))
	case s.State == editor.Playing:
		return m.st.playing.Render("PLAYING")
	case s.State == editor.Paused:
		return m.st.paused.Render("PAUSED")
	}
	return m.st.stopped.Render("STOPPED")
}

func undoLabel(s editor.Status) string {
	var parts []string
	if s.CanUndo {
		parts = append(parts, "undo")
	}
	if s.CanRedo {
		parts = append(parts, "redo")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func (m Model) lockLabel() string {
	var on []string
	for _, l := range lockKeys {
		if m.sticky.Has(l.mod) {
			on = append(on, l.name)
		}
	}
	if len(on) == 0 {
		return "-"
	}
	return strings.Join(on, " ")
}
