package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Live redraws the speed field after steps, at most frameRate times a
// second. A frameRate of zero draws every step.
type Live struct {
	w         io.Writer
	name      string
	cols      int
	rows      int
	frameRate int
	lastFrame time.Time
	history   []float64
}

func NewLive(w io.Writer, name string, cols, rows, frameRate int) *Live {
	return &Live{w: w, name: name, cols: cols, rows: rows, frameRate: frameRate}
}

func (r *Live) OnStep(f *grid.Field, st flow.StepStats) {
	r.history = append(r.history, st.Projection.Residual)
	if len(r.history) > r.cols {
		r.history = r.history[1:]
	}

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  step %d  t=%.3fs\n", r.name, st.Step, st.Time))
	b.WriteString("  " + strings.Repeat("-", r.cols) + "\n")

	for _, line := range Shade(f, r.cols, r.rows).Lines() {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", r.cols) + "\n")
	b.WriteString(fmt.Sprintf("  residual=%.3e skipped=%d advected=%d\n",
		st.Projection.Residual, st.Projection.Skipped, st.Advected))
	b.WriteString("  " + Sparkline(r.history, r.cols) + "\n")

	fmt.Fprint(r.w, b.String())
}

func (r *Live) Start() { fmt.Fprint(r.w, hideCursor) }
func (r *Live) Stop()  { fmt.Fprint(r.w, showCursor) }
