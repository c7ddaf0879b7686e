package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/experiment"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one editable setting on the config screen.
type field struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var fields = []field{
	{"noise_scale", func(c *config.Config) float64 { return c.NoiseScale }, func(c *config.Config, v float64) { c.NoiseScale = max(0, v) }, 0.1},
	{"max_steps", func(c *config.Config) float64 { return float64(c.MaxSteps) }, func(c *config.Config, v float64) { c.MaxSteps = max(1, int(v)) }, 100},
	{"dt", func(c *config.Config) float64 { return c.Dt }, func(c *config.Config, v float64) {
		if v > 0 {
			c.Dt = v
		}
	}, 0.005},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = int64(v) }, 1},
}

var controllers = []string{"manual", "constant", "random", "none"}

// App lets the user pick a preset, adjust it and fly it.
type App struct {
	state    int
	airframe string
	registry *experiment.Registry

	presets []string
	cursor  int
	cfg     *config.Config

	fieldCursor int
	ctrlIdx     int
	editing     bool
	editBuf     string
	err         string

	live  Model
	theme Theme
}

func NewInteractiveApp(airframe string, registry *experiment.Registry) App {
	return App{
		state:    stateMenu,
		airframe: airframe,
		registry: registry,
		presets:  config.ListPresets(airframe),
		theme:    Themes[0],
	}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		if a.state == stateMenu {
			return a.menuKey(key)
		}
		return a.configKey(key)
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		a.cursor = max(0, a.cursor-1)
	case "down", "j":
		a.cursor = min(len(a.presets)-1, a.cursor+1)
	case "enter", " ":
		if len(a.presets) == 0 {
			return a, nil
		}
		a.cfg = config.GetPreset(a.airframe, a.presets[a.cursor])
		a.ctrlIdx = 0
		a.fieldCursor = 0
		a.err = ""
		a.state = stateConfig
	}
	return a, nil
}

func (a App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(a.editBuf, 64); err == nil {
				fields[a.fieldCursor].set(a.cfg, v)
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				a.editBuf += s
			}
		}
		return a, nil
	}

	f := fields[a.fieldCursor]
	switch msg.String() {
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		a.fieldCursor = max(0, a.fieldCursor-1)
	case "down", "j":
		a.fieldCursor = min(len(fields)-1, a.fieldCursor+1)
	case "left", "h":
		f.set(a.cfg, f.get(a.cfg)-f.step)
	case "right", "l":
		f.set(a.cfg, f.get(a.cfg)+f.step)
	case "enter":
		a.editing, a.editBuf = true, strconv.FormatFloat(f.get(a.cfg), 'g', -1, 64)
	case "tab":
		a.ctrlIdx = (a.ctrlIdx + 1) % len(controllers)
	case "s":
		return a.start()
	}
	return a, nil
}

func (a App) start() (App, tea.Cmd) {
	cfg := *a.cfg
	cfg.Controller = controllers[a.ctrlIdx]
	if err := cfg.Validate(); err != nil {
		a.err = err.Error()
		return a, nil
	}
	live, err := NewModelFromConfig(&cfg, a.registry)
	if err != nil {
		a.err = err.Error()
		return a, nil
	}
	a.live = live.WithTheme(a.theme.Name)
	a.state = stateSim
	return a, a.live.Init()
}

func (a App) View() string {
	switch a.state {
	case stateSim:
		return a.live.View()
	case stateConfig:
		return a.viewConfig()
	}
	return a.viewMenu()
}

func (a App) viewMenu() string {
	st := a.theme.Styles()
	var b strings.Builder
	b.WriteString("\n  " + st.Header.Render("HOVERSIM") + "\n  " + st.Muted.Render(a.airframe+" presets") + "\n\n")
	for i, name := range a.presets {
		p := config.GetPreset(a.airframe, name)
		desc := fmt.Sprintf("%s, noise x%.1f, %d steps", p.Controller, p.NoiseScale, p.MaxSteps)
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", st.Key.Render("▸"), st.Value.Bold(true).Render(fmt.Sprintf("%-10s", name)), st.Graph.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", st.Muted.Render(fmt.Sprintf("%-10s", name)), st.Muted.Render(desc)))
		}
	}
	b.WriteString("\n  " + st.KeyHelp("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a App) viewConfig() string {
	st := a.theme.Styles()
	var b strings.Builder
	b.WriteString("\n  " + st.Header.Render(strings.ToUpper(a.presets[a.cursor])) + "\n\n")
	for i, f := range fields {
		val := strconv.FormatFloat(f.get(a.cfg), 'g', -1, 64)
		if a.editing && i == a.fieldCursor {
			val = a.editBuf + "_"
		}
		if i == a.fieldCursor {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", st.Key.Render("▸"), st.Value.Bold(true).Render(fmt.Sprintf("%-12s", f.name)), st.Graph.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", st.Muted.Render(fmt.Sprintf("%-12s", f.name)), st.Muted.Render(val)))
		}
	}
	b.WriteString(fmt.Sprintf("\n    %s %s\n", st.Muted.Render(fmt.Sprintf("%-12s", "controller")), st.Value.Render(controllers[a.ctrlIdx])))
	if a.err != "" {
		b.WriteString("\n  " + st.Bad.Render(a.err) + "\n")
	}
	b.WriteString("\n  " + st.KeyHelp("j/k", "select", "h/l", "adjust", "enter", "edit", "tab", "controller", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive starts the preset menu full screen.
func RunInteractive(airframe string, registry *experiment.Registry) error {
	_, err := tea.NewProgram(NewInteractiveApp(airframe, registry), tea.WithAltScreen()).Run()
	return err
}
