package viz

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gassim/internal/config"
	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/experiment"
	"github.com/san-kum/gassim/internal/metrics"
	"github.com/san-kum/gassim/internal/physics"
)

const (
	canvasCols      = 50
	canvasRows      = 25
	historyCapacity = 600
	maxStepsPerTick = 64
)

const (
	penWall uint8 = iota
	penDivider
	penA
	penB
)

// Snapshot stores state at a specific time for replay.
type Snapshot struct {
	State  dynamo.State
	Energy float64
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

// Model renders a running gas and forwards the few commands a viewer may
// issue: pause, step rate, divider removal and reset.
type Model struct {
	cfg           *config.Config
	seed          int64
	gas           *physics.Gas
	sim           *dynamo.Simulator
	state         dynamo.State
	canvas        *Canvas
	running       bool
	stepsPerTick  int
	temps         [2]*metrics.Temperature
	mixing        *metrics.Mixing
	energyHistory []float64
	mixingHistory []float64
	history       []Snapshot
	playHead      int
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	invalid       bool
	err           error
}

// NewModel builds the gas described by cfg from seed.
func NewModel(cfg *config.Config, seed int64) (Model, error) {
	gas, err := experiment.Build(cfg, seed)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:           cfg,
		seed:          seed,
		gas:           gas,
		sim:           dynamo.New(gas),
		canvas:        NewCanvas(canvasCols, canvasRows),
		running:       true,
		stepsPerTick:  4,
		temps:         [2]*metrics.Temperature{metrics.NewTemperature(physics.SpeciesA), metrics.NewTemperature(physics.SpeciesB)},
		mixing:        metrics.NewMixing(),
		energyHistory: make([]float64, 0, historyCapacity),
		mixingHistory: make([]float64, 0, historyCapacity),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
	}
	m.observe()
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
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
		case "d":
			m.gas.RemoveDivider()
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "g":
			if m.recording {
				m.err = m.saveGIF(m.cfg.Name + ".gif")
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running && !m.invalid {
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
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the gas by stepsPerTick steps and re-reads its state. A
// scheduled divider removal falling inside the batch is passed on to the
// simulator relative to the batch start.
func (m *Model) step() {
	cfg := dynamo.Config{Steps: m.stepsPerTick, RemoveDividerAt: -1, ValidateState: true}
	if at := m.cfg.RemoveDividerAt - m.gas.Steps(); at >= 0 && at < m.stepsPerTick {
		cfg.RemoveDividerAt = at
	}
	if err := m.sim.RunWithCallback(context.Background(), cfg, func(dynamo.State) bool { return true }); err != nil {
		m.err = err
	}
	m.observe()
}

func (m *Model) observe() {
	m.state = m.gas.State()
	if !m.state.IsValid() {
		m.invalid = true
		m.running = false
		return
	}
	for _, t := range m.temps {
		t.Observe(m.state)
	}
	m.mixing.Observe(m.state)

	energy := m.gas.Energy()
	m.energyHistory = appendCapped(m.energyHistory, energy)
	m.mixingHistory = appendCapped(m.mixingHistory, m.mixing.Value())

	m.history = append(m.history, Snapshot{State: m.state, Energy: energy})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) > 0 {
			m.playHead = len(m.history) - 1
			m.running = false
		} else {
			return
		}
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the initial gas from the same seed.
func (m *Model) reset() {
	gas, err := experiment.Build(m.cfg, m.seed)
	if err != nil {
		m.err = fmt.Errorf("reset: %w", err)
		return
	}
	m.gas = gas
	m.sim = dynamo.New(gas)
	m.invalid = false
	m.err = nil
	m.playHead = -1
	m.energyHistory = m.energyHistory[:0]
	m.mixingHistory = m.mixingHistory[:0]
	m.history = m.history[:0]
	for _, t := range m.temps {
		t.Reset()
	}
	m.mixing.Reset()
	m.observe()
}

// displayed returns the state currently on screen, live or replayed.
func (m *Model) displayed() dynamo.State {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead].State
	}
	return m.state
}

// project maps box coordinates to canvas sub-pixels, y pointing up.
func (m *Model) project(box dynamo.Box, x, y float64) (int, int) {
	n := float64(min(m.canvas.Width*2, m.canvas.Height*4) - 1)
	scale := n / box.Size()
	px := int(math.Round((x - box.Min) * scale))
	py := int(n) - int(math.Round((y-box.Min)*scale))
	return px, py
}

// draw renders walls, the divider while present, species A as filled disks
// and species B as rings.
func (m *Model) draw() {
	s := m.displayed()
	c := m.canvas
	c.Clear()

	c.Pen = penWall
	x0, y0 := m.project(s.Box, s.Box.Min, s.Box.Min)
	x1, y1 := m.project(s.Box, s.Box.Max, s.Box.Max)
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
	if s.Divider {
		c.Pen = penDivider
		cx, _ := m.project(s.Box, s.Box.Center(), 0)
		c.DrawLine(cx, y0, cx, y1)
	}

	n := float64(min(c.Width*2, c.Height*4) - 1)
	for _, p := range s.Particles {
		px, py := m.project(s.Box, p.Position.X, p.Position.Y)
		r := int(math.Round(p.Radius() * n / s.Box.Size()))
		if p.Species() == physics.SpeciesA {
			c.Pen = penA
			c.FillCircle(px, py, r)
		} else {
			c.Pen = penB
			c.DrawCircle(px, py, r)
		}
	}
}

func penStyles() [4]lipgloss.Style {
	var styles [4]lipgloss.Style
	for pen, c := range CurrentTheme.penColors() {
		styles[pen] = lipgloss.NewStyle().Foreground(c)
	}
	return styles
}

// renderCanvas colours every cell by the pen that last drew into it.
func renderCanvas(c *Canvas) string {
	styles := penStyles()
	var b strings.Builder
	for row := range c.Grid {
		for col, r := range c.Grid[row] {
			if r == 0x2800 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(styles[int(c.Pens[row][col])%len(styles)].Render(string(r)))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func formatTemp(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(renderCanvas(m.canvas))
	s := m.displayed()

	status := "RUNNING"
	switch {
	case m.invalid:
		status = errorStyle.Render("INVALID STATE (NaN)")
	case m.playHead != -1:
		status = fmt.Sprintf("REPLAY (%.3fs)", s.Time-m.state.Time)
	case !m.running:
		status = "PAUSED"
	}
	if m.recording {
		status += "  ● REC"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	b.WriteString(status + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3f", s.Time))
	row("Step", fmt.Sprintf("%d", s.Step))
	row("Particles", fmt.Sprintf("A %d  B %d", s.Count(physics.SpeciesA), s.Count(physics.SpeciesB)))
	row("Energy", fmt.Sprintf("%.6f", s.KineticEnergy()))
	row("Temp A", formatTemp(m.temps[0].Value()))
	row("Temp B", formatTemp(m.temps[1].Value()))
	row("Mixing", MixingBar(m.mixing.Value(), 16)+fmt.Sprintf(" %.2f", m.mixing.Value()))
	divider := "present"
	if !s.Divider {
		divider = "removed"
	}
	row("Divider", divider)
	row("Steps/frame", fmt.Sprintf("%d", m.stepsPerTick))

	if len(m.mixingHistory) > 1 {
		chart := asciigraph.Plot(m.mixingHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mixing"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.energyHistory) > 1 {
		b.WriteString(labelStyle.Render("Energy") + Sparkline(m.energyHistory, 30, CurrentTheme.GasA) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render("─────────────────────\nSP:Pause D:Divider R:Reset\n+/-:Speed T:Theme G:Record\n[ ]:Replay ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  D        - Remove the divider       ║
║  R        - Reset to initial gas     ║
║  +/-      - Double/halve step rate   ║
║  [        - Rewind (replay)          ║
║  ]        - Forward (replay)         ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) captureFrame() {
	const dot = 4
	c := m.canvas
	w, h := c.Width*2, c.Height*4
	img := image.NewPaletted(image.Rect(0, 0, w*dot, h*dot), CurrentTheme.Palette())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			idx := c.PenAt(x, y) + 1
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, idx)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

// saveGIF writes the recorded frames to path.
func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save gif: %w", err)
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return fmt.Errorf("save gif: %w", err)
	}
	return f.Close()
}

// Run opens the live view for cfg in the alternate screen.
func Run(cfg *config.Config, seed int64) error {
	m, err := NewModel(cfg, seed)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
