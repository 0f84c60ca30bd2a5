package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
)

const historyLen = 48

// Inspector steps a simulation on demand and shows the probe of the cell
// under the cursor.
type Inspector struct {
	sim        *flow.Simulation
	run        flow.RunConfig
	iterations int

	cx, cy        int
	width, height int
	history       []float64
	last          flow.StepStats
	err           error
}

func NewInspector(sim *flow.Simulation, run flow.RunConfig) Inspector {
	return Inspector{
		sim:        sim,
		run:        run,
		iterations: run.IterationsFor(sim.Field().H()),
		width:      80,
		height:     24,
	}
}

func (m Inspector) Cursor() (ix, iy int) { return m.cx, m.cy }
func (m Inspector) Err() error           { return m.err }

func (m Inspector) Init() tea.Cmd { return nil }

func (m Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Inspector) handleKey(msg tea.KeyMsg) (Inspector, tea.Cmd) {
	f := m.sim.Field()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.cx = max(m.cx-1, 0)
	case "right", "l":
		m.cx = min(m.cx+1, f.NX()-1)
	case "up", "k":
		m.cy = max(m.cy-1, 0)
	case "down", "j":
		m.cy = min(m.cy+1, f.NY()-1)
	case "o":
		if m.sim.IsObstacle(m.cx, m.cy) {
			m.sim.RemoveObstacle(m.cx, m.cy, m.cx+1, m.cy+1)
		} else {
			m.sim.AddObstacle(m.cx, m.cy, m.cx+1, m.cy+1)
		}
	case "n", "enter":
		m.step(1)
	case "N":
		m.step(10)
	}
	return m, nil
}

func (m *Inspector) step(n int) {
	for i := 0; i < n; i++ {
		st, err := m.sim.Step(m.run.Dt, m.iterations, m.run.Omega, m.run.Force)
		if err != nil {
			m.err = err
			return
		}
		m.last = st
		m.history = append(m.history, st.Projection.Residual)
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
		if !m.sim.Field().Finite() {
			m.err = flow.ErrUnstable
			return
		}
	}
	m.err = nil
}

func (m Inspector) View() string {
	var b strings.Builder
	f := m.sim.Field()

	b.WriteString(Title.Render("EULERFLOW") + "  " +
		Metric("step", fmt.Sprintf("%d", m.sim.Steps())) + "  " +
		Metric("t", fmt.Sprintf("%.3f", m.sim.Time())) + "  " +
		Metric("grid", fmt.Sprintf("%dx%d", f.NX(), f.NY())) + "\n\n")

	sh := Shade(f, max(m.width-4, 8), max(m.height-14, 4))
	bc, br := sh.Block(m.cx, m.cy)
	field := make([]string, len(sh.Rows))
	for r, row := range sh.Rows {
		var line strings.Builder
		for c, g := range row {
			switch {
			case c == bc && r == br:
				line.WriteString(Selected.Render("+"))
			case g == solidGlyph:
				line.WriteString(Solid.Render(string(g)))
			default:
				line.WriteRune(g)
			}
		}
		field[r] = line.String()
	}
	b.WriteString(Panel.Render(strings.Join(field, "\n")) + "\n")

	if p, err := m.sim.Probe(m.cx, m.cy); err == nil {
		b.WriteString(p.String() + "\n")
	}
	v := m.sim.SampleVelocity((float64(m.cx)+0.5)*f.H(), (float64(m.cy)+0.5)*f.H())
	b.WriteString(Metric("velocity", fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)) + "  " +
		Metric("residual", fmt.Sprintf("%.3e", m.last.Projection.Residual)) + "  " +
		Metric("skipped", fmt.Sprintf("%d", m.last.Projection.Skipped)) + "\n")
	b.WriteString(Sparkline(m.history, historyLen) + "\n")

	if m.err != nil {
		b.WriteString(StatusError.Render(m.err.Error()) + "\n")
	} else {
		b.WriteString(StatusOK.Render("ok") + "\n")
	}

	hints := []string{"hjkl move", "o obstacle", "n step", "N step x10", "q quit"}
	b.WriteString(KeyHint.Render(strings.Join(hints, "  ")))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

// RunInspector opens the inspector on the alternate screen.
func RunInspector(sim *flow.Simulation, run flow.RunConfig) error {
	_, err := tea.NewProgram(NewInspector(sim, run), tea.WithAltScreen()).Run()
	return err
}
