package metrics

import "github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"

// Divergence averages Σ|d| over the observed steps.
type Divergence struct {
	name    string
	sum     float64
	samples int
}

func NewDivergence() *Divergence {
	return &Divergence{
		name: "divergence",
	}
}

func (d *Divergence) Name() string {
	return d.name
}

func (d *Divergence) Observe(f *grid.Field, t float64) {
	d.sum += f.TotalDivergence()
	d.samples++
}

func (d *Divergence) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *Divergence) Reset() {
	d.sum = 0
	d.samples = 0
}
