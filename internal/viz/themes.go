package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Standard  lipgloss.Color
	Accel     lipgloss.Color
	Scenery   lipgloss.Color
	Rider     lipgloss.Color
	Selection lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:      "classic",
		Primary:   lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
		Standard:  lipgloss.Color("#4488ff"),
		Accel:     lipgloss.Color("#ff3333"),
		Scenery:   lipgloss.Color("#33cc33"),
		Rider:     lipgloss.Color("#ffffff"),
		Selection: lipgloss.Color("#ff00ff"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		Standard:  lipgloss.Color("#00cc00"),
		Accel:     lipgloss.Color("#ccff00"),
		Scenery:   lipgloss.Color("#006600"),
		Rider:     lipgloss.Color("#aaffaa"),
		Selection: lipgloss.Color("#ffffff"),
	}

	ThemePaper = Theme{
		Name:      "paper",
		Primary:   lipgloss.Color("#222222"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#000000"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#008800"),
		Warning:   lipgloss.Color("#aa6600"),
		Error:     lipgloss.Color("#cc0000"),
		Standard:  lipgloss.Color("#000000"),
		Accel:     lipgloss.Color("#cc0000"),
		Scenery:   lipgloss.Color("#00aa00"),
		Rider:     lipgloss.Color("#333366"),
		Selection: lipgloss.Color("#0088ff"),
	}

	// Default theme
	CurrentTheme = ThemeClassic

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemePaper,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeClassic
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
