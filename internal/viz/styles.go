package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	panel   lipgloss.Style
	title   lipgloss.Style
	subtle  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	playing lipgloss.Style
	paused  lipgloss.Style
	stopped lipgloss.Style
	failed  lipgloss.Style
	active  lipgloss.Style
	hint    lipgloss.Style
	graph   lipgloss.Style
	menu    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 1).
			Width(panelWidth - 1),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		playing: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		stopped: lipgloss.NewStyle().Bold(true).Foreground(t.Muted),
		failed:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		active:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		graph:   lipgloss.NewStyle().Foreground(t.Success),
		menu: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),
	}
}

// Separator renders a decorative rule.
func (s styles) separator(width int) string {
	mid := width / 2
	if mid < 3 {
		return s.subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", max(width-mid-3, 0))
	return s.subtle.Render(left + " ◆ " + right)
}
