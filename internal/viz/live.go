package viz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/control"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
)

const (
	historyCapacity = 600
	chartWidth      = 36
	nudge           = 0.05
)

type TickMsg time.Time

// frame is one recorded control step.
type frame struct {
	snap   heli.Snapshot
	action heli.Action
	cost   float64
}

// Model runs one simulator in real time under a controller. When the
// controller is a *control.Manual the arrow keys fly the helicopter.
type Model struct {
	name       string
	sim        *heli.Simulator
	controller experiment.Controller
	manual     *control.Manual

	obs        heli.Observation
	cost       float64
	totalCost  float64
	lastAction heli.Action

	running  bool
	history  []frame
	playHead int
	episodes int

	theme    Theme
	camera   *Camera
	attitude *Canvas
	track    *Canvas
	recorder *Recorder
	gifPath  string
	tick     time.Duration

	recording bool
	showHelp  bool
	message   string
	width     int
}

// NewModel wraps sim and controller. The simulator is reset.
func NewModel(name string, sim *heli.Simulator, controller experiment.Controller) Model {
	m := Model{
		name:       name,
		sim:        sim,
		controller: controller,
		running:    true,
		history:    make([]frame, 0, historyCapacity),
		playHead:   -1,
		theme:      Themes[0],
		camera:     NewCamera(),
		attitude:   NewCanvas(36, 12),
		track:      NewCanvas(36, 10),
		recorder:   NewRecorder(),
		gifPath:    "hover.gif",
		tick:       time.Duration(heli.ControlPeriod * float64(time.Second)),
		width:      100,
	}
	if mc, ok := controller.(*control.Manual); ok {
		m.manual = mc
	}
	m.reset()
	return m
}

// NewModelFromConfig builds a live model for cfg. The manual controller is
// trimmed to the hover collective of the airframe.
func NewModelFromConfig(cfg *config.Config, registry *experiment.Registry) (Model, error) {
	af, err := cfg.ResolveAirframe()
	if err != nil {
		return Model{}, err
	}
	sim, err := heli.New(af.Params[:], af.NoiseStd[:], cfg.SimConfig(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return Model{}, err
	}
	ctrl, err := registry.GetController(cfg.Controller, registry.ControllerParams(cfg, af, cfg.Seed+1))
	if err != nil {
		return Model{}, err
	}
	return NewModel(af.Name, sim, ctrl), nil
}

// WithTheme selects the named theme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

// WithGIFPath sets where recordings are written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

// WithTick sets the wall-clock time between control steps.
func (m Model) WithTick(d time.Duration) Model {
	if d > 0 {
		m.tick = d
	}
	return m
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.nextTick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.attitude)
		}
		return m, m.nextTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "[":
		m.scrub(-1)
	case "]":
		m.scrub(1)
	case "up":
		m.fly(heli.Elevator, nudge)
	case "down":
		m.fly(heli.Elevator, -nudge)
	case "left":
		m.fly(heli.Aileron, -nudge)
	case "right":
		m.fly(heli.Aileron, nudge)
	case ",":
		m.fly(heli.Rudder, -nudge)
	case ".":
		m.fly(heli.Rudder, nudge)
	case "w":
		m.fly(heli.Collective, nudge/2)
	case "s":
		m.fly(heli.Collective, -nudge/2)
	case "c":
		if m.manual != nil {
			m.manual.Center()
		}
	case "g":
		m.toggleRecording()
	case "t":
		m.theme = m.theme.Next()
	case "?":
		m.showHelp = !m.showHelp
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

func (m *Model) fly(channel int, delta float64) {
	if m.manual == nil {
		m.message = "controller is not manual"
		return
	}
	m.manual.Nudge(channel, delta)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.message = "recording"
		return
	}
	m.recording = false
	n := m.recorder.Len()
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.message = "gif: " + err.Error()
		return
	}
	m.message = fmt.Sprintf("saved %d frames to %s", n, m.gifPath)
}

// step advances the simulator by one control period. A terminal episode
// pauses the view until it is reset.
func (m *Model) step() {
	if m.sim.Terminal() {
		m.running = false
		return
	}

	a := m.controller.Compute(m.obs, m.sim.Steps())
	m.obs, m.cost = m.sim.Update(a)
	m.totalCost += m.cost
	m.lastAction = a.Clamp()

	m.history = append(m.history, frame{snap: m.sim.Snapshot(), action: m.lastAction, cost: m.cost})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	if m.sim.Terminal() {
		m.running = false
		m.message = fmt.Sprintf("episode over after %d steps, r to restart", m.sim.Steps())
	}
}

// scrub moves the replay position; stepping past the newest frame returns
// to live mode.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead = max(0, m.playHead+dir)
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.obs, m.cost = m.sim.Reset()
	m.totalCost = 0
	m.lastAction = heli.Action{}
	m.history = m.history[:0]
	m.history = append(m.history, frame{snap: m.sim.Snapshot(), cost: m.cost})
	m.playHead = -1
	m.running = true
	m.episodes++
	m.message = ""
	if m.manual != nil {
		m.manual.Center()
	}
}

// current returns the frame being shown.
func (m Model) current() frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	if len(m.history) > 0 {
		return m.history[len(m.history)-1]
	}
	return frame{snap: m.sim.Snapshot()}
}

func (m *Model) draw() {
	f := m.current()

	m.attitude.Clear()
	Render3D(m.attitude, AttitudeWireframe(f.snap.Orientation), m.camera)

	// top-down: north up, east right, limit square as the border
	m.track.Clear()
	lim := m.sim.Config().Limits.State[heli.X]
	vp := Viewport{Span: lim}
	corner := func(n, e float64) (int, int) { return vp.Map(m.track, e, n) }
	x0, y0 := corner(lim, -lim)
	x1, y1 := corner(-lim, lim)
	m.track.DrawLine(x0, y0, x1, y0)
	m.track.DrawLine(x1, y0, x1, y1)
	m.track.DrawLine(x1, y1, x0, y1)
	m.track.DrawLine(x0, y1, x0, y0)

	end := len(m.history)
	if m.playHead >= 0 {
		end = m.playHead + 1
	}
	for _, h := range m.history[:end] {
		m.track.Set(corner(h.snap.State[heli.X], h.snap.State[heli.Y]))
	}
	cx, cy := corner(f.snap.State[heli.X], f.snap.State[heli.Y])
	m.track.DrawCircle(cx, cy, 2)
}

func (m Model) costSeries() []float64 {
	end := len(m.history)
	if m.playHead >= 0 {
		end = m.playHead + 1
	}
	start := max(0, end-chartWidth*3)
	out := make([]float64, 0, end-start)
	for _, h := range m.history[start:end] {
		out = append(out, h.cost)
	}
	return out
}

func (m Model) View() string {
	m.draw()
	st := m.theme.Styles()
	f := m.current()
	s := f.snap.State
	lim := m.sim.Config().Limits

	status := st.Good.Render("FLYING")
	switch {
	case m.playHead >= 0:
		status = st.Warn.Render(fmt.Sprintf("REPLAY %+.1fs", float64(m.playHead-len(m.history)+1)*heli.ControlPeriod))
	case m.sim.Terminal():
		status = st.Bad.Render("TERMINAL")
	case !m.running:
		status = st.Warn.Render("PAUSED")
	}
	if m.recording {
		status += " " + st.Bad.Render("● REC")
	}

	var b strings.Builder
	b.WriteString(st.Header.Render(strings.ToUpper(m.name)) + "  " + status + "\n\n")

	row := func(label, value string) {
		b.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Episode", fmt.Sprintf("%d", m.episodes))
	row("Time", fmt.Sprintf("%.1fs  step %d/%d", float64(f.snap.Steps)*heli.ControlPeriod, f.snap.Steps, m.sim.Config().MaxSteps))
	row("Cost", fmt.Sprintf("%.3f  total %.1f", f.cost, m.totalCost))
	row("Altitude", fmt.Sprintf("%+.2f m", -s[heli.Z]))
	row("Position", fmt.Sprintf("n %+.2f  e %+.2f", s[heli.X], s[heli.Y]))
	row("Velocity", fmt.Sprintf("%+.2f %+.2f %+.2f", s[heli.U], s[heli.V], s[heli.W]))
	row("Rates", fmt.Sprintf("%+.2f %+.2f %+.2f", s[heli.P], s[heli.Q], s[heli.R]))
	row("Tilt", fmt.Sprintf("%.1f°", f.snap.Orientation.Tilt()*180/math.Pi))

	b.WriteString("\n")
	worst := 0.0
	for i, v := range s {
		worst = max(worst, math.Abs(v)/lim.State[i])
	}
	tiltLimit := 2 * math.Acos(lim.Tilt)
	b.WriteString(st.Label.Render("Envelope") + st.Margin(worst, 20) + "\n")
	b.WriteString(st.Label.Render("Tilt") + st.Margin(f.snap.Orientation.Tilt()/tiltLimit, 20) + "\n")

	b.WriteString("\n")
	for i, name := range []string{"Aileron", "Elevator", "Rudder", "Collective"} {
		b.WriteString(st.Label.Render(name) + st.Gauge(f.action[i], 20) + st.Muted.Render(fmt.Sprintf(" %+.2f", f.action[i])) + "\n")
	}

	if costs := m.costSeries(); len(costs) > 1 {
		chart := asciigraph.Plot(costs, asciigraph.Height(5), asciigraph.Width(chartWidth), asciigraph.Caption("cost"))
		b.WriteString("\n" + st.Graph.Render(chart) + "\n")
	}

	if m.message != "" {
		b.WriteString("\n" + st.Muted.Render(m.message) + "\n")
	}
	b.WriteString("\n" + st.KeyHelp("space", "pause", "r", "reset", "[ ]", "replay", "?", "help", "q", "quit"))

	views := lipgloss.JoinVertical(lipgloss.Left,
		st.Canvas.Render(m.attitude.String()),
		st.Canvas.Render(m.track.String()),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, views, st.Panel.Render(b.String()))

	if m.showHelp {
		return helpText(st) + "\n\n" + main
	}
	return main
}

func helpText(st Styles) string {
	lines := []string{
		st.KeyHelp("↑ ↓", "elevator", "← →", "aileron", ", .", "rudder", "w s", "collective", "c", "center sticks"),
		st.KeyHelp("space", "pause", "r", "reset", "[ ]", "replay", "g", "record gif", "t", "theme"),
		st.KeyHelp("x y", "rotate camera", "+ -", "zoom", "?", "close help", "q", "quit"),
	}
	return strings.Join(lines, "\n")
}

// RunLive runs m full screen until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
