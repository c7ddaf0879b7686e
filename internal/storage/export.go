package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
)

type ExportData struct {
	Airframe     string             `json:"airframe"`
	Controller   string             `json:"controller"`
	Seed         int64              `json:"seed"`
	Dt           float64            `json:"dt"`
	Steps        int                `json:"steps"`
	Terminal     bool               `json:"terminal"`
	TotalCost    float64            `json:"total_cost"`
	Times        []float64          `json:"times"`
	States       [][]float64        `json:"states"`
	Orientations [][]float64        `json:"orientations"`
	Observations [][]float64        `json:"observations"`
	Actions      [][]float64        `json:"actions"`
	Costs        []float64          `json:"costs"`
	Metrics      map[string]float64 `json:"metrics"`
}

func newExportData(meta RunMetadata, result *experiment.Result) ExportData {
	data := ExportData{
		Airframe:     meta.Airframe,
		Controller:   meta.Controller,
		Seed:         result.Seed,
		Dt:           meta.Dt,
		Steps:        result.Steps,
		Terminal:     result.Terminal,
		TotalCost:    result.TotalCost,
		Times:        result.Times(),
		States:       make([][]float64, len(result.Snapshots)),
		Orientations: make([][]float64, len(result.Snapshots)),
		Observations: make([][]float64, len(result.Observations)),
		Actions:      make([][]float64, len(result.Actions)),
		Costs:        result.Costs,
		Metrics:      result.Metrics,
	}

	for i, s := range result.Snapshots {
		st, q := s.State, s.Orientation
		data.States[i] = st[:]
		data.Orientations[i] = q[:]
	}
	for i := range result.Observations {
		obs := result.Observations[i]
		data.Observations[i] = obs[:]
	}
	for i := range result.Actions {
		a := result.Actions[i]
		data.Actions[i] = a[:]
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, result)
}

func ExportJSONStdout(meta RunMetadata, result *experiment.Result) error {
	return WriteJSON(os.Stdout, meta, result)
}

func WriteJSON(w io.Writer, meta RunMetadata, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}

// ResultFromRows rebuilds a result from a stored trace. Observations are
// recomputed from the stored state and orientation.
func ResultFromRows(meta RunMetadata, rows [][]float64) *experiment.Result {
	result := &experiment.Result{
		Metrics:   meta.Metrics,
		Steps:     meta.Steps,
		Terminal:  meta.Terminal,
		TotalCost: meta.TotalCost,
		Seed:      meta.Seed,
	}
	qStart := heli.StateDim
	aStart := qStart + 4
	costIdx := aStart + heli.ActionDim
	for i, row := range rows {
		if len(row) <= costIdx {
			continue
		}
		var snap heli.Snapshot
		copy(snap.State[:], row[:heli.StateDim])
		copy(snap.Orientation[:], row[qStart:aStart])
		snap.Steps = i
		result.Snapshots = append(result.Snapshots, snap)
		result.Observations = append(result.Observations, heli.Observe(snap))
		result.Costs = append(result.Costs, row[costIdx])
		if i < len(rows)-1 {
			result.Actions = append(result.Actions, heli.ActionFromSlice(row[aStart:costIdx]))
		}
	}
	if n := len(result.Snapshots); n > 0 {
		result.Snapshots[n-1].Terminal = meta.Terminal
	}
	return result
}
