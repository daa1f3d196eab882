package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/servosim/internal/joint"
	"github.com/san-kum/servosim/internal/servo"
	"github.com/san-kum/servosim/internal/sim"
)

const (
	canvasWidth     = 46
	canvasHeight    = 15
	historyCapacity = 240
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model runs a servo-controlled joint in real time and renders the
// loop state: an ASCII joint view, angle vs reference traces, and the
// applied force.
type Model struct {
	jnt       joint.Steppable
	motor     *servo.Motor
	commander sim.Commander

	dt            float64
	stepsPerFrame int
	frameRate     int
	t             float64
	paused        bool

	positions  []float64
	references []float64
	forces     []float64
	last       sim.Tick
}

func NewModel(j joint.Steppable, m *servo.Motor, c sim.Commander, dt float64, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	steps := int(1.0 / (float64(frameRate) * dt))
	if steps < 1 {
		steps = 1
	}
	return Model{
		jnt:           j,
		motor:         m,
		commander:     c,
		dt:            dt,
		stepsPerFrame: steps,
		frameRate:     frameRate,
		positions:     make([]float64, 0, historyCapacity),
		references:    make([]float64, 0, historyCapacity),
		forces:        make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case TickMsg:
		if !m.paused {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		ref := m.commander.Reference(m.t)
		m.motor.SetReference(ref)
		applied := m.motor.Update(m.dt)

		m.last = sim.Tick{
			Time:      m.t,
			Position:  m.jnt.Position(),
			Velocity:  m.jnt.Velocity(),
			Effort:    m.jnt.MeasuredEffort(),
			Reference: ref,
			Applied:   applied,
		}

		m.jnt.Step(m.dt)
		m.t += m.dt
	}

	m.positions = push(m.positions, m.last.Position)
	m.references = push(m.references, m.last.Reference)
	m.forces = push(m.forces, m.last.Applied)
}

func push(history []float64, v float64) []float64 {
	history = append(history, v)
	if len(history) > historyCapacity {
		history = history[1:]
	}
	return history
}

func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("servosim  %s mode  t=%.2fs", m.motor.Mode(), m.t)
	b.WriteString(headerStyle.Render(title))
	if m.paused {
		b.WriteString("  " + pausedStyle.Render("[paused]"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderJoint())
	b.WriteString("\n")

	stats := []struct {
		label string
		value string
	}{
		{"position", fmt.Sprintf("%8.3f rad", m.last.Position)},
		{"velocity", fmt.Sprintf("%8.3f rad/s", m.last.Velocity)},
		{"reference", fmt.Sprintf("%8.3f", m.last.Reference)},
		{"force", fmt.Sprintf("%8.3f N·m", m.last.Applied)},
	}
	for _, s := range stats {
		b.WriteString(labelStyle.Render(s.label))
		b.WriteString(valueStyle.Render(s.value))
		b.WriteString("\n")
	}

	if len(m.positions) > 2 {
		graph := asciigraph.PlotMany(
			[][]float64{m.references, m.positions},
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("reference / position"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")

		force := asciigraph.Plot(m.forces,
			asciigraph.Height(5),
			asciigraph.Width(70),
			asciigraph.Caption("applied force"),
		)
		b.WriteString(graphStyle.Render(force))
	}

	b.WriteString(helpStyle.Render("space pause · q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderJoint draws the joint as a rotating arm with a marker at the
// reference angle (position mode only).
func (m Model) renderJoint() string {
	canvas := make([][]rune, canvasHeight)
	for i := range canvas {
		canvas[i] = make([]rune, canvasWidth)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	set := func(x, y int, c rune) {
		if x >= 0 && x < canvasWidth && y >= 0 && y < canvasHeight {
			canvas[y][x] = c
		}
	}

	cx, cy := canvasWidth/2, canvasHeight/2
	armLen := 6.0

	if m.motor.Mode() == servo.Position {
		rx := cx + int(2*armLen*math.Sin(m.last.Reference))
		ry := cy + int(armLen*math.Cos(m.last.Reference))
		set(rx, ry, 'x')
	}

	theta := m.last.Position
	bx := cx + int(2*armLen*math.Sin(theta))
	by := cy + int(armLen*math.Cos(theta))
	drawLine(set, cx, cy, bx, by, '·')
	set(cx, cy, '+')
	set(bx, by, 'O')

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}

func drawLine(set func(x, y int, c rune), x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Run starts the live view and blocks until the user quits.
func Run(j joint.Steppable, m *servo.Motor, c sim.Commander, dt float64, frameRate int) error {
	p := tea.NewProgram(NewModel(j, m, c, dt, frameRate))
	_, err := p.Run()
	return err
}
