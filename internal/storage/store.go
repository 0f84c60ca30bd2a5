package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/config"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
	facesFile    = "faces.json"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Elapsed    time.Duration      `json:"elapsed_ns"`
	Scene      config.Scene       `json:"scene"`
	StepsTaken int                `json:"steps_taken"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes a run directory holding metadata.json, history.csv and, when
// the result carries a final field, faces.json.
func (s *Store) Save(sc *config.Scene, result *flow.Result, elapsed time.Duration) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", sc.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  now,
		Elapsed:    elapsed,
		Scene:      *sc,
		StepsTaken: result.StepsTaken,
		Metrics:    make(map[string]float64, len(result.Metrics)),
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	// JSON has no NaN or Inf.
	for name, v := range result.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			meta.Errors = append(meta.Errors, fmt.Sprintf("metric %s is %v", name, v))
			continue
		}
		meta.Metrics[name] = v
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), result); err != nil {
		return "", err
	}
	if result.Final != nil && finiteSnapshot(result.Final) {
		if err := writeJSON(filepath.Join(runDir, facesFile), result.Final); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func finiteSnapshot(snap *grid.Snapshot) bool {
	for _, arr := range [][]float64{snap.U, snap.V, snap.Pressure} {
		for _, x := range arr {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	return true
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistory(path string, result *flow.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"step", "time", "residual", "max_divergence", "skipped"}
	for _, p := range result.Probes {
		header = append(header, p.Name+"_u", p.Name+"_v")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range result.Samples {
		row := []string{
			strconv.Itoa(smp.Step),
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.FormatFloat(smp.Residual, 'g', 8, 64),
			strconv.FormatFloat(smp.MaxDivergence, 'g', 8, 64),
			strconv.Itoa(smp.Skipped),
		}
		for _, v := range smp.Probes {
			row = append(row,
				strconv.FormatFloat(v.X, 'g', 10, 64),
				strconv.FormatFloat(v.Y, 'g', 10, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Latest returns the ID of the newest run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrRunNotFound
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshot reads the final face field of a run.
func (s *Store) LoadSnapshot(runID string) (*grid.Snapshot, error) {
	data, err := s.read(runID, facesFile)
	if err != nil {
		return nil, err
	}

	var snap grid.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LoadHistory reads history.csv back into samples. Probe columns come in
// u/v pairs after the fixed columns.
func (s *Store) LoadHistory(runID string) ([]flow.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []flow.Sample{}, nil
	}

	samples := make([]flow.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 5 {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}

		smp := flow.Sample{Step: step}
		smp.Time, _ = strconv.ParseFloat(record[1], 64)
		smp.Residual, _ = strconv.ParseFloat(record[2], 64)
		smp.MaxDivergence, _ = strconv.ParseFloat(record[3], 64)
		smp.Skipped, _ = strconv.Atoi(record[4])

		for j := 5; j+1 < len(record); j += 2 {
			u, _ := strconv.ParseFloat(record[j], 64)
			v, _ := strconv.ParseFloat(record[j+1], 64)
			smp.Probes = append(smp.Probes, r2.Vec{X: u, Y: v})
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, notFound(runID, err)
	}
	return data, nil
}

func notFound(runID string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}
