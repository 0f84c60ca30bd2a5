package viz

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/boundary"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

func tunnel(t *testing.T, nx, ny int) *flow.Simulation {
	t.Helper()
	sim, err := flow.Build(nx, ny, 0.5, boundary.WindTunnel(1))
	require.NoError(t, err)
	return sim
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Inspector, keys ...string) (Inspector, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Inspector)
	}
	return m, cmd
}

func TestShadeSolidAndRamp(t *testing.T) {
	f, err := grid.New(4, 2, 1)
	require.NoError(t, err)
	f.Set(f.HFace(1, 0), 2)
	f.Set(f.HFace(2, 0), 2)
	f.SetObstacle(3, 1, 4, 2)

	sh := Shade(f, 10, 10)
	require.Len(t, sh.Rows, 2)
	require.Len(t, sh.Rows[0], 4)
	assert.Equal(t, 1, sh.SX)
	assert.Equal(t, solidGlyph, sh.Rows[1][3])
	assert.Equal(t, '@', sh.Rows[0][1], "fastest cell uses the top of the ramp")
	assert.Equal(t, ' ', sh.Rows[1][0], "still cell is blank")
}

func TestShadeDownsamples(t *testing.T) {
	f, err := grid.New(20, 10, 1)
	require.NoError(t, err)

	sh := Shade(f, 5, 5)
	assert.Equal(t, 4, sh.SX)
	assert.Equal(t, 2, sh.SY)
	assert.Len(t, sh.Rows, 5)
	assert.Len(t, sh.Lines()[0], 5)
	c, r := sh.Block(19, 9)
	assert.Equal(t, 4, c)
	assert.Equal(t, 4, r)
}

func TestCellSpeed(t *testing.T) {
	f, err := grid.New(2, 2, 1)
	require.NoError(t, err)
	f.Set(f.HFace(0, 0), 3)
	f.Set(f.HFace(1, 0), 3)
	f.Set(f.VFace(0, 0), 4)
	f.Set(f.VFace(0, 1), 4)
	assert.InDelta(t, 5, CellSpeed(f, 0, 0), 1e-12)
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "────", Sparkline(nil, 4))
	out := Sparkline([]float64{1, 2, 3, 4, 5, 6}, 3)
	assert.Equal(t, 3, strings.Count(out, "▁")+strings.Count(out, "▄")+strings.Count(out, "█"))
}

func TestInspectorCursor(t *testing.T) {
	m := NewInspector(tunnel(t, 3, 2), flow.RunConfig{Dt: 0.1, Iterations: 5, Omega: 1.5})

	m, _ = press(m, "left")
	ix, iy := m.Cursor()
	assert.Equal(t, 0, ix)
	assert.Equal(t, 0, iy)

	m, _ = press(m, "right", "right", "right", "down", "j")
	ix, iy = m.Cursor()
	assert.Equal(t, 2, ix, "cursor stops at the last column")
	assert.Equal(t, 1, iy, "cursor stops at the last row")
}

func TestInspectorObstacleToggle(t *testing.T) {
	sim := tunnel(t, 3, 2)
	m := NewInspector(sim, flow.RunConfig{Dt: 0.1, Iterations: 5, Omega: 1.5})

	m, _ = press(m, "l", "o")
	assert.True(t, sim.IsObstacle(1, 0))
	assert.True(t, sim.Field().Fixed(sim.Field().HFace(1, 0)))

	_, _ = press(m, "o")
	assert.False(t, sim.IsObstacle(1, 0))
}

func TestInspectorStep(t *testing.T) {
	sim := tunnel(t, 4, 2)
	m := NewInspector(sim, flow.RunConfig{Dt: 0.1, Iterations: 5, Omega: 1.5})

	m, _ = press(m, "n")
	assert.Equal(t, 1, sim.Steps())
	m, _ = press(m, "N")
	assert.Equal(t, 11, sim.Steps())
	assert.NoError(t, m.Err())
	assert.Len(t, m.history, 11)

	view := m.View()
	assert.Contains(t, view, "cell (0,0)")
	assert.Contains(t, view, "EULERFLOW")
}

func TestInspectorStepError(t *testing.T) {
	sim := tunnel(t, 2, 2)
	m := NewInspector(sim, flow.RunConfig{Dt: 0.1, Iterations: 5, Omega: 2.5})

	m, _ = press(m, "n")
	assert.True(t, errors.Is(m.Err(), grid.ErrConfiguration))
	assert.Equal(t, 0, sim.Steps())
}

func TestInspectorQuit(t *testing.T) {
	m := NewInspector(tunnel(t, 2, 2), flow.RunConfig{Dt: 0.1, Iterations: 1, Omega: 1})
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestInspectorResize(t *testing.T) {
	m := NewInspector(tunnel(t, 2, 2), flow.RunConfig{Dt: 0.1, Iterations: 1, Omega: 1})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, next.(Inspector).width)
}

func TestLiveRendersEveryStep(t *testing.T) {
	var buf bytes.Buffer
	live := NewLive(&buf, "tunnel", 8, 4, 0)

	sim, err := flow.Build(8, 4, 0.5, boundary.WindTunnel(1), flow.WithObserver(live))
	require.NoError(t, err)

	live.Start()
	for i := 0; i < 2; i++ {
		_, err := sim.Step(0.1, 5, 1.5, r2.Vec{})
		require.NoError(t, err)
	}
	live.Stop()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, hideCursor))
	assert.True(t, strings.HasSuffix(out, showCursor))
	assert.Equal(t, 2, strings.Count(out, clearScreen))
	assert.Contains(t, out, "tunnel  step 2")
	assert.Len(t, live.history, 2)
}

func TestLiveFrameRate(t *testing.T) {
	var buf bytes.Buffer
	live := NewLive(&buf, "tunnel", 8, 4, 1)

	sim, err := flow.Build(8, 4, 0.5, boundary.WindTunnel(1), flow.WithObserver(live))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := sim.Step(0.1, 5, 1.5, r2.Vec{})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, strings.Count(buf.String(), clearScreen), "later steps fall inside the first frame")
	assert.Len(t, live.history, 3)
}
