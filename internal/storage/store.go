package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// Columns lists the states.csv header, excluding the leading step and time.
func Columns() []string {
	cols := append([]string{}, heli.StateNames()...)
	cols = append(cols, "qx", "qy", "qz", "qw")
	cols = append(cols, heli.ActionNames()...)
	return append(cols, "cost")
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Airframe    string             `json:"airframe"`
	Controller  string             `json:"controller"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	MaxSteps    int                `json:"max_steps"`
	NoiseScale  float64            `json:"noise_scale"`
	Renormalize bool               `json:"renormalize"`
	Overrides   map[string]float64 `json:"overrides,omitempty"`
	Steps       int                `json:"steps"`
	Terminal    bool               `json:"terminal"`
	TotalCost   float64            `json:"total_cost"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Duration is the simulated flight time in seconds.
func (m RunMetadata) Duration() float64 {
	return float64(m.Steps) * heli.ControlPeriod
}

// ReplayConfig rebuilds the settings of the stored run with the replay
// controller. Built with the same seed and fed the stored actions, it
// reproduces the recorded trajectory.
func (m RunMetadata) ReplayConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Airframe = m.Airframe
	cfg.Controller = "replay"
	cfg.Seed = m.Seed
	cfg.Dt = m.Dt
	cfg.MaxSteps = m.MaxSteps
	cfg.NoiseScale = m.NoiseScale
	cfg.Renormalize = m.Renormalize
	if len(m.Overrides) > 0 {
		cfg.Overrides = make(map[string]float64, len(m.Overrides))
		for k, v := range m.Overrides {
			cfg.Overrides[k] = v
		}
	}
	return cfg
}

// Save writes meta and the episode trace under a new run directory. ID,
// Timestamp and the episode summary fields of meta are filled in.
func (s *Store) Save(meta RunMetadata, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", meta.Airframe, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Seed = result.Seed
	meta.Steps = result.Steps
	meta.Terminal = result.Terminal
	meta.TotalCost = result.TotalCost
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	if err := w.Write(append([]string{"step", "time"}, Columns()...)); err != nil {
		return "", err
	}

	for i, snap := range result.Snapshots {
		row := make([]string, 0, 2+len(Columns()))
		row = append(row, strconv.Itoa(snap.Steps), formatFloat(float64(snap.Steps)*heli.ControlPeriod))

		for _, val := range snap.State {
			row = append(row, formatFloat(val))
		}
		for _, val := range snap.Orientation {
			row = append(row, formatFloat(val))
		}

		// the action in row i is the one applied after snapshot i
		var a heli.Action
		if i < len(result.Actions) {
			a = result.Actions[i]
		}
		for _, val := range a {
			row = append(row, formatFloat(val))
		}

		cost := 0.0
		if i < len(result.Costs) {
			cost = result.Costs[i]
		}
		row = append(row, formatFloat(cost))

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates returns the value columns of states.csv, one row per recorded
// step, plus the time column.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", statesFile, i+1, err)
		}
		times = append(times, t)

		row := make([]float64, 0, len(record)-2)
		for j := 2; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", statesFile, i+1, err)
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return rows, times, nil
}

// ColumnIndex resolves a column name, or a plain integer index, against Columns.
func ColumnIndex(name string) (int, error) {
	cols := Columns()
	for i, c := range cols {
		if strings.EqualFold(c, name) {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(cols) {
		return i, nil
	}
	return 0, fmt.Errorf("unknown column %q (available: %s)", name, strings.Join(cols, ", "))
}

// LoadColumn returns one named column of the run trace.
func (s *Store) LoadColumn(runID, name string) ([]float64, error) {
	idx, err := ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	rows, _, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, nil
}

// LoadActions returns the recorded action sequence of a run.
func (s *Store) LoadActions(runID string) ([]heli.Action, error) {
	rows, _, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}
	start, _ := ColumnIndex(heli.ActionNames()[0])
	if len(rows) == 0 {
		return nil, nil
	}
	// the final row carries no applied action
	actions := make([]heli.Action, 0, len(rows)-1)
	for _, row := range rows[:len(rows)-1] {
		if len(row) < start+heli.ActionDim {
			return nil, fmt.Errorf("run %s: truncated action columns", runID)
		}
		actions = append(actions, heli.ActionFromSlice(row[start:start+heli.ActionDim]))
	}
	return actions, nil
}
