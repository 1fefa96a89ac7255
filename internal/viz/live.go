package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/magpend/internal/config"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/experiment"
	"github.com/san-kum/magpend/internal/metrics"
	"github.com/san-kum/magpend/internal/scene"
)

const (
	canvasWidth     = 40
	canvasHeight    = 12
	historyCapacity = 600
)

// Snapshot stores state at a specific time for replay.
type Snapshot struct {
	State  dynamo.State
	Force  dynamo.Control
	Time   float64
	Energy float64
}

type TickMsg time.Time

// Model steps one scene and renders it.
type Model struct {
	cfg    *config.Config
	reg    *experiment.Registry
	sc     *scene.Context
	energy *metrics.Energy

	state    dynamo.State
	force    dynamo.Control
	t, dt    float64
	fps      int
	frames   int // UI ticks
	simFrame int // simulation frames since the last reset
	err      error

	top, side *Canvas
	trail     []mgl64.Vec3
	trailCap  int

	running       bool
	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	energyHistory []float64
	forceHistory  []float64
	history       []Snapshot
	playHead      int

	theme    int
	style    styles
	showHelp bool
}

// NewModel builds a scene from cfg. The model starts running.
func NewModel(cfg *config.Config, reg *experiment.Registry) (Model, error) {
	m := Model{
		cfg:       cfg,
		reg:       reg,
		dt:        cfg.Dt,
		fps:       cfg.Live.FPS,
		trailCap:  cfg.Live.Trail,
		top:       NewCanvas(canvasWidth, canvasHeight),
		side:      NewCanvas(canvasWidth, canvasHeight),
		running:   true,
		paramKeys: []string{"remanence", "damping"},
		playHead:  -1,
		style:     newStyles(Themes[0]),
	}
	for i, t := range Themes {
		if t.Name == cfg.Live.Theme {
			m.theme = i
			m.style = newStyles(t)
		}
	}
	if m.fps <= 0 {
		m.fps = config.DefaultFPS
	}
	if m.trailCap <= 0 {
		m.trailCap = historyCapacity
	}
	if err := m.build(); err != nil {
		return Model{}, err
	}
	m.initialParams = m.sc.GetParams()
	m.params = m.sc.GetParams()
	return m, nil
}

func (m *Model) build() error {
	integ, err := m.reg.GetIntegrator(m.cfg.Integrator)
	if err != nil {
		return err
	}
	sc, err := scene.Build(m.cfg.ToOptions(), integ)
	if err != nil {
		return err
	}
	state, err := sc.State()
	if err != nil {
		return err
	}
	m.sc = sc
	m.energy = metrics.NewEnergy(sc.Mass, sc.Gravity)
	m.state = state
	m.force = dynamo.Control{0, 0, 0}
	m.t = 0
	m.simFrame = 0
	m.err = nil
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// stepsPerFrame keeps simulated time in step with wall time.
func (m Model) stepsPerFrame() int {
	return max(1, int(math.Round(1/(float64(m.fps)*m.dt))))
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "x":
			m.prod(scene.AxisX)
		case "z":
			m.prod(scene.AxisZ)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.style = newStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				for i := 0; i < m.stepsPerFrame() && m.err == nil; i++ {
					m.step()
				}
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.frames++
		return m, m.tick()
	}
	return m, nil
}

// step advances the scene by one frame. A failed or non-finite frame pauses
// the view and leaves the error on screen.
func (m *Model) step() {
	if m.err != nil {
		return
	}

	u, err := scene.Step(m.sc, m.dt)
	if err != nil {
		m.fail(err)
		return
	}
	x, err := m.sc.State()
	if err != nil {
		m.fail(err)
		return
	}
	if !x.IsValid() {
		m.fail(dynamo.SimError{Time: m.t, Step: m.simFrame, Message: "invalid state (NaN/Inf)"})
		return
	}

	m.state, m.force = x, u
	m.t += m.dt
	m.simFrame++

	e := m.energy.Of(x)
	m.energyHistory = appendCapped(m.energyHistory, e, historyCapacity)
	m.forceHistory = appendCapped(m.forceHistory, u.Magnitude(), historyCapacity)

	m.trail = append(m.trail, x.Position())
	if len(m.trail) > m.trailCap {
		m.trail = m.trail[1:]
	}

	m.history = append(m.history, Snapshot{State: x.Clone(), Force: u, Time: m.t, Energy: e})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) fail(err error) {
	m.err = err
	m.running = false
}

func appendCapped(s []float64, v float64, n int) []float64 {
	s = append(s, v)
	if len(s) > n {
		s = s[1:]
	}
	return s
}

func (m *Model) prod(axis mgl64.Vec3) {
	if m.err != nil {
		return
	}
	m.playHead = -1
	if err := scene.Prod(m.sc, axis, scene.DefaultProd); err != nil {
		m.fail(err)
		return
	}
	if x, err := m.sc.State(); err == nil {
		m.state = x
	}
}

func (m *Model) adjustParam(factor float64) {
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 && factor > 1 {
		val = 0.01
	}
	if err := m.sc.SetParam(key, val); err != nil {
		return
	}
	m.params[key] = val
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the scene and restores the initial parameters.
func (m *Model) reset() {
	if err := m.build(); err != nil {
		m.fail(err)
		return
	}
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
	m.forceHistory = m.forceHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
	for k, v := range m.initialParams {
		m.params[k] = v
		_ = m.sc.SetParam(k, v)
	}
	m.running = true
}

// displayed returns the snapshot being shown, live or replayed.
func (m Model) displayed() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return Snapshot{State: m.state, Force: m.force, Time: m.t, Energy: m.energy.Of(m.state)}
}

// View renders the TUI interface.
func (m Model) View() string {
	snap := m.displayed()
	m.draw(snap)

	st := m.style
	views := lipgloss.JoinVertical(lipgloss.Left,
		st.panel.Render(st.title.Render("TOP  x-z")+"\n"+m.top.String()),
		st.panel.Render(st.title.Render("SIDE x-y")+"\n"+m.side.String()),
	)

	var s strings.Builder
	s.WriteString(st.title.Render("MAGNETIC PENDULUM") + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Energy", fmt.Sprintf("%.4f J", snap.Energy))
	if len(snap.Force) == 3 {
		row("|F|", fmt.Sprintf("%.4f N", snap.Force.Magnitude()))
	}
	row("Swing", fmt.Sprintf("%.1f°", metrics.SwingAngle(m.sc.Pivot, snap.State)))
	row("Law", m.sc.LawName)
	row("Integrator", m.cfg.Integrator)

	s.WriteString("\n" + st.title.Render("PARAMETERS") + "\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-10s %s %.3f", k, ParamBar(m.params[k], m.initialParams[k], 10), m.params[k])
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.UnsetWidth().Render(line) + "\n")
		}
	}

	if len(m.energyHistory) > 1 {
		s.WriteString("\n" + st.graph.Render(asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(36), asciigraph.Caption("energy"))) + "\n")
	}
	if len(m.forceHistory) > 1 {
		s.WriteString("\n" + st.graph.Render(asciigraph.Plot(m.forceHistory,
			asciigraph.Height(4), asciigraph.Width(36), asciigraph.Caption("|F|"))) + "\n")
	}

	s.WriteString(st.help.Render("\nspace pause  x/z prod  r reset  q quit\ntab select  ↑↓ tune  [ ] replay  t theme  ? help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, views, st.panel.Render(s.String()))
	if m.showHelp {
		return st.panel.Render(helpText) + "\n" + main
	}
	return main
}

const helpText = `space   pause / resume
x, z    prod the bob along x or z
r       reset the scene
tab     select parameter
↑ / ↓   tune parameter ±5%
[ / ]   step back / forward through history
t       cycle theme
q       quit`

func (m Model) status() string {
	st := m.style
	switch {
	case m.err != nil:
		return st.failed.Render("FAILED: " + m.err.Error())
	case m.playHead != -1:
		label := "REPLAY"
		if !m.running {
			label = "REPLAY PAUSED"
		}
		return st.paused.Render(fmt.Sprintf("%s (%.1fs)", label, m.history[m.playHead].Time-m.t))
	case !m.running:
		return st.paused.Render("PAUSED")
	default:
		return st.running.Render("RUNNING " + spinner(m.frames))
	}
}

func spinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return frames[frame%len(frames)]
}

// viewport maps a world-space rectangle onto a canvas, keeping aspect ratio.
type viewport struct {
	cx, cy float64
	scale  float64
	w, h   int
}

func newViewport(c *Canvas, cx, cy, halfSpan float64) viewport {
	w, h := c.PixelWidth(), c.PixelHeight()
	return viewport{cx: cx, cy: cy, scale: float64(min(w, h)) / 2 / halfSpan, w: w, h: h}
}

func (v viewport) project(a, b float64) (int, int) {
	return v.w/2 + int(math.Round((a-v.cx)*v.scale)), v.h/2 - int(math.Round((b-v.cy)*v.scale))
}

func (m Model) draw(snap Snapshot) {
	m.top.Clear()
	m.side.Clear()

	x := snap.State
	if len(x) < 3 || !x.IsValid() {
		return
	}

	pivot := m.sc.Pivot
	length := m.cfg.Pendulum.Length
	basePose, err := m.sc.Engine.Pose(m.sc.Base)
	if err != nil {
		return
	}
	base := basePose.Position
	magnetR := max(1, int(m.cfg.Magnet.Diameter/2*newViewport(m.top, 0, 0, 1.2*length).scale))

	// top view: z grows downward on screen
	top := newViewport(m.top, pivot.X(), pivot.Z(), 1.2*length)
	bx, bz := top.project(base.X(), -base.Z())
	m.top.Disc(bx, bz, magnetR)
	for _, p := range m.trail {
		m.top.Set(top.project(p.X(), -p.Z()))
	}
	px, pz := top.project(x[0], -x[2])
	m.top.Disc(px, pz, 2)

	// side view
	groundY := pivot.Y() - 1.6*length
	if ground, err := m.sc.Engine.Pose(m.sc.Ground); err == nil {
		groundY = ground.Position.Y()
	}
	midY := (pivot.Y() + groundY) / 2
	side := newViewport(m.side, pivot.X(), midY, 0.6*(pivot.Y()-groundY))

	gl, gy := side.project(pivot.X()-2*length, groundY)
	gr, _ := side.project(pivot.X()+2*length, groundY)
	m.side.DrawLine(gl, gy, gr, gy)

	sx, sy := side.project(base.X(), base.Y())
	m.side.Disc(sx, sy, max(1, magnetR/2))

	ax, ay := side.project(pivot.X(), pivot.Y())
	bobX, bobY := side.project(x[0], x[1])
	m.side.DrawLine(ax, ay, bobX, bobY)
	m.side.Disc(bobX, bobY, 2)
	m.side.Disc(ax, ay, 1)
}

// Run starts the live view and blocks until the user quits.
func Run(cfg *config.Config, reg *experiment.Registry) error {
	m, err := NewModel(cfg, reg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
