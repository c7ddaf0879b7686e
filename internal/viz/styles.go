package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Warn   lipgloss.Style
	Bad    lipgloss.Style
	Canvas lipgloss.Style
	Panel  lipgloss.Style
	Graph  lipgloss.Style
	Key    lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:  lipgloss.NewStyle().Foreground(t.Text),
		Muted:  lipgloss.NewStyle().Foreground(t.Muted),
		Good:   lipgloss.NewStyle().Foreground(t.Good).Bold(true),
		Warn:   lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
		Bad:    lipgloss.NewStyle().Foreground(t.Bad).Bold(true),
		Canvas: lipgloss.NewStyle().Foreground(t.Primary).Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(46),
		Graph: lipgloss.NewStyle().Foreground(t.Accent),
		Key:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// Gauge renders a bar for value in [-1, 1] centered on zero.
func (s Styles) Gauge(value float64, width int) string {
	half := width / 2
	n := int(value*float64(half) + 0.5*sign(value))
	n = max(-half, min(half, n))

	left := strings.Repeat("─", half)
	right := strings.Repeat("─", half)
	if n < 0 {
		left = strings.Repeat("─", half+n) + strings.Repeat("█", -n)
	} else if n > 0 {
		right = strings.Repeat("█", n) + strings.Repeat("─", half-n)
	}
	return s.Muted.Render("[") + s.Value.Render(left+"┃"+right) + s.Muted.Render("]")
}

// Margin renders how close a state component is to its limit: fraction is
// |value|/limit.
func (s Styles) Margin(fraction float64, width int) string {
	filled := max(0, min(width, int(fraction*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return s.Bad.Render(bar)
	case fraction > 0.5:
		return s.Warn.Render(bar)
	}
	return s.Good.Render(bar)
}

// KeyHelp renders "key action" pairs on one line.
func (s Styles) KeyHelp(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s %s", s.Key.Render(pairs[i]), s.Muted.Render(pairs[i+1])))
	}
	return strings.Join(parts, "  ")
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
