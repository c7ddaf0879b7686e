package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Good    lipgloss.Color
	Warn    lipgloss.Color
	Bad     lipgloss.Color
}

var (
	ThemeCockpit = Theme{
		Name:    "cockpit",
		Primary: lipgloss.Color("#00d7af"),
		Accent:  lipgloss.Color("#ffd75f"),
		Text:    lipgloss.Color("#e4e4e4"),
		Muted:   lipgloss.Color("#6c6c6c"),
		Good:    lipgloss.Color("#5fff87"),
		Warn:    lipgloss.Color("#ffaf00"),
		Bad:     lipgloss.Color("#ff5f5f"),
	}

	ThemeNight = Theme{
		Name:    "night",
		Primary: lipgloss.Color("#ff3b3b"),
		Accent:  lipgloss.Color("#ff8c69"),
		Text:    lipgloss.Color("#d08080"),
		Muted:   lipgloss.Color("#5a2a2a"),
		Good:    lipgloss.Color("#ff9f9f"),
		Warn:    lipgloss.Color("#ff6a00"),
		Bad:     lipgloss.Color("#ffffff"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#bcbcbc"),
		Text:    lipgloss.Color("#e4e4e4"),
		Muted:   lipgloss.Color("#767676"),
		Good:    lipgloss.Color("#ffffff"),
		Warn:    lipgloss.Color("#bcbcbc"),
		Bad:     lipgloss.Color("#8a8a8a"),
	}

	Themes = []Theme{ThemeCockpit, ThemeNight, ThemeMono}
)

// GetTheme returns the named theme, or the first one if name is unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// Next returns the theme after t in Themes, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
