package viz

import (
	"math"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

const (
	ramp       = " .:-=+*#%@"
	solidGlyph = '█'
)

// Shading is a character image of a field. Each glyph covers a block of
// SX×SY cells.
type Shading struct {
	Rows   [][]rune
	SX, SY int
	Peak   float64
}

// CellSpeed is the speed at the center of cell (ix, iy), averaging the
// opposite faces.
func CellSpeed(f *grid.Field, ix, iy int) float64 {
	u := 0.5 * (f.U(ix, iy) + f.U(ix+1, iy))
	v := 0.5 * (f.V(ix, iy) + f.V(ix, iy+1))
	return math.Hypot(u, v)
}

// Shade renders f into at most cols×rows glyphs. Fluid blocks are shaded by
// their mean speed relative to the fastest block; blocks that are entirely
// obstacle are drawn solid.
func Shade(f *grid.Field, cols, rows int) Shading {
	cols = max(cols, 1)
	rows = max(rows, 1)
	sx := (f.NX() + cols - 1) / cols
	sy := (f.NY() + rows - 1) / rows
	nc := (f.NX() + sx - 1) / sx
	nr := (f.NY() + sy - 1) / sy

	speed := make([]float64, nc*nr)
	solid := make([]bool, nc*nr)
	peak := 0.0
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			sum, fluid := 0.0, 0
			for iy := r * sy; iy < min((r+1)*sy, f.NY()); iy++ {
				for ix := c * sx; ix < min((c+1)*sx, f.NX()); ix++ {
					if f.IsObstacle(ix, iy) {
						continue
					}
					sum += CellSpeed(f, ix, iy)
					fluid++
				}
			}
			if fluid == 0 {
				solid[r*nc+c] = true
				continue
			}
			s := sum / float64(fluid)
			speed[r*nc+c] = s
			if s > peak {
				peak = s
			}
		}
	}

	sh := Shading{Rows: make([][]rune, nr), SX: sx, SY: sy, Peak: peak}
	glyphs := []rune(ramp)
	for r := range sh.Rows {
		sh.Rows[r] = make([]rune, nc)
		for c := range sh.Rows[r] {
			if solid[r*nc+c] {
				sh.Rows[r][c] = solidGlyph
				continue
			}
			sh.Rows[r][c] = glyphs[level(speed[r*nc+c], peak, len(glyphs))]
		}
	}
	return sh
}

func level(s, peak float64, n int) int {
	if !(peak > 0) || math.IsInf(peak, 0) || !(s > 0) {
		return 0
	}
	return max(0, min(int(s/peak*float64(n-1)+0.5), n-1))
}

// Block returns the glyph position covering cell (ix, iy).
func (s Shading) Block(ix, iy int) (c, r int) { return ix / s.SX, iy / s.SY }

func (s Shading) Lines() []string {
	out := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = string(row)
	}
	return out
}
