package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

type ExportProbe struct {
	Name string    `json:"name"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	U    []float64 `json:"u"`
	V    []float64 `json:"v"`
}

type ExportData struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	CellSize  float64            `json:"cell_size"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Residuals []float64          `json:"residuals"`
	Probes    []ExportProbe      `json:"probes"`
	Metrics   map[string]float64 `json:"metrics"`
	Faces     *grid.Snapshot     `json:"faces,omitempty"`
}

// Export gathers one stored run into a single JSON document.
func (s *Store) Export(runID string, withFaces bool) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadHistory(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		ID:        meta.ID,
		Scene:     meta.Scene.Name,
		Width:     meta.Scene.Width,
		Height:    meta.Scene.Height,
		CellSize:  meta.Scene.CellSize,
		Dt:        meta.Scene.Dt,
		Steps:     meta.StepsTaken,
		Times:     make([]float64, len(samples)),
		Residuals: make([]float64, len(samples)),
		Probes:    exportProbes(meta.Scene.Probes, samples),
		Metrics:   meta.Metrics,
	}
	for i, smp := range samples {
		data.Times[i] = smp.Time
		data.Residuals[i] = smp.Residual
	}

	if withFaces {
		snap, err := s.LoadSnapshot(runID)
		if err != nil {
			return nil, err
		}
		data.Faces = snap
	}
	return data, nil
}

func exportProbes(probes []flow.Probe, samples []flow.Sample) []ExportProbe {
	out := make([]ExportProbe, len(probes))
	for n, p := range probes {
		out[n] = ExportProbe{Name: p.Name, X: p.X, Y: p.Y}
		for _, smp := range samples {
			if n >= len(smp.Probes) {
				continue
			}
			out[n].U = append(out[n].U, smp.Probes[n].X)
			out[n].V = append(out[n].V, smp.Probes[n].Y)
		}
	}
	return out
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
