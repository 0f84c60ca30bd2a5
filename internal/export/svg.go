package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

var palette = []string{"#00ff00", "#00d7ff", "#ff8700", "#ff5fd7", "#ffff5f", "#af87ff"}

// Series is one line of a time plot.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// SeriesToSVG plots every series on shared axes. Series shorter than two
// points are skipped.
func SeriesToSVG(series []Series, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	drawn := 0
	for _, s := range series {
		n := min(len(s.X), len(s.Y))
		if n < 2 {
			continue
		}
		drawn++
		for i := 0; i < n; i++ {
			minX, maxX = math.Min(minX, s.X[i]), math.Max(maxX, s.X[i])
			minY, maxY = math.Min(minY, s.Y[i]), math.Max(maxY, s.Y[i])
		}
	}
	if drawn == 0 {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	k := 0
	for _, s := range series {
		n := min(len(s.X), len(s.Y))
		if n < 2 {
			continue
		}
		color := palette[k%len(palette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i := 0; i < n; i++ {
			x := (s.X[i] - minX) / rangeX * float64(width)
			y := float64(height) - (s.Y[i]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(`"/>` + "\n")
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n",
			16*(k+1), color, s.Name))
		k++
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FieldToSVG draws one square per cell shaded by the speed at its center.
// Obstacle cells are grey.
func FieldToSVG(snap *grid.Snapshot, scale float64) string {
	if snap == nil || snap.NX <= 0 || snap.NY <= 0 {
		return ""
	}

	speeds := make([]float64, snap.NX*snap.NY)
	peak := 0.0
	for iy := 0; iy < snap.NY; iy++ {
		for ix := 0; ix < snap.NX; ix++ {
			u := 0.5 * (snap.U[iy*(snap.NX+1)+ix] + snap.U[iy*(snap.NX+1)+ix+1])
			v := 0.5 * (snap.V[iy*snap.NX+ix] + snap.V[(iy+1)*snap.NX+ix])
			s := math.Hypot(u, v)
			speeds[iy*snap.NX+ix] = s
			if s > peak {
				peak = s
			}
		}
	}
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		peak = 1
	}

	width := float64(snap.NX) * scale
	height := float64(snap.NY) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for iy := 0; iy < snap.NY; iy++ {
		for ix := 0; ix < snap.NX; ix++ {
			fill := "#808080"
			if !snap.Obstacle[iy*snap.NX+ix] {
				fill = heat(speeds[iy*snap.NX+ix] / peak)
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				float64(ix)*scale, float64(iy)*scale, scale, scale, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// heat maps [0,1] from dark blue to yellow.
func heat(t float64) string {
	if !(t >= 0) {
		t = 0
	}
	t = math.Min(t, 1)
	r := int(255 * t)
	g := int(255 * math.Sqrt(t))
	b := int(128 * (1 - t))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
