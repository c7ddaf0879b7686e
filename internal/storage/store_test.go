package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/control"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
)

func testResult() *experiment.Result {
	s0 := heli.InitialSnapshot()
	s1 := s0
	s1.State[heli.W] = 0.981
	s1.Steps = 1
	s2 := s1
	s2.State[heli.W] = 1.9
	s2.State[heli.Z] = 0.15
	s2.Steps = 2

	return &experiment.Result{
		Snapshots:    []heli.Snapshot{s0, s1, s2},
		Observations: []heli.Observation{heli.Observe(s0), heli.Observe(s1), heli.Observe(s2)},
		Actions:      []heli.Action{{0, 0, 0, 0.1}, {0.2, -0.1, 0, 0.3}},
		Costs:        []float64{0, 0.96, 3.63},
		Metrics:      map[string]float64{"control_effort": 0.35},
		Steps:        2,
		TotalCost:    4.59,
		Seed:         42,
	}
}

func testMeta() RunMetadata {
	return RunMetadata{Airframe: "xcell_tempest", Controller: "constant", Dt: 0.01, MaxSteps: 6000}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "xcell_tempest_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", meta.Steps)
	}
	if meta.Metrics["control_effort"] != 0.35 {
		t.Errorf("expected control_effort 0.35, got %f", meta.Metrics["control_effort"])
	}
	if d := meta.Duration(); d < 0.2-1e-12 || d > 0.2+1e-12 {
		t.Errorf("expected duration 0.2, got %f", d)
	}

	rows, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(rows) != 3 || len(times) != 3 {
		t.Fatalf("expected 3 rows and times, got %d and %d", len(rows), len(times))
	}
	if len(rows[0]) != len(Columns()) {
		t.Errorf("expected %d columns, got %d", len(Columns()), len(rows[0]))
	}
	if rows[2][heli.Z] != 0.15 {
		t.Errorf("expected z 0.15, got %f", rows[2][heli.Z])
	}
	if times[1] != 0.1 {
		t.Errorf("expected time 0.1, got %f", times[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 3; i++ {
		if _, err := st.Save(testMeta(), testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, statesFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, runID, statesFile))
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if !strings.HasPrefix(header, "step,time,u,v,w,x,y,z,p,q,r,qx,qy,qz,qw,aileron") {
		t.Errorf("unexpected header %q", header)
	}
	if !strings.HasSuffix(header, "collective,cost") {
		t.Errorf("unexpected header %q", header)
	}
}

func TestLoadColumn(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	w, err := st.LoadColumn(runID, "w")
	if err != nil {
		t.Fatalf("load column failed: %v", err)
	}
	want := []float64{0, 0.981, 1.9}
	for i := range want {
		if w[i] != want[i] {
			t.Errorf("w[%d]: expected %f, got %f", i, want[i], w[i])
		}
	}

	if _, err := st.LoadColumn(runID, "altitude"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"u", 0, true},
		{"R", 8, true},
		{"qw", 12, true},
		{"collective", 16, true},
		{"cost", 17, true},
		{"3", 3, true},
		{"99", 0, false},
		{"thrust", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColumnIndex(tt.name)
			if (err == nil) != tt.ok {
				t.Fatalf("ColumnIndex(%q) error = %v", tt.name, err)
			}
			if tt.ok && got != tt.want {
				t.Errorf("ColumnIndex(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoadActions(t *testing.T) {
	st := New(t.TempDir())
	result := testResult()
	runID, err := st.Save(testMeta(), result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	actions, err := st.LoadActions(runID)
	if err != nil {
		t.Fatalf("load actions failed: %v", err)
	}
	if len(actions) != len(result.Actions) {
		t.Fatalf("expected %d actions, got %d", len(result.Actions), len(actions))
	}
	for i := range actions {
		if actions[i] != result.Actions[i] {
			t.Errorf("action %d: expected %v, got %v", i, result.Actions[i], actions[i])
		}
	}
}

func TestResultFromRows(t *testing.T) {
	st := New(t.TempDir())
	orig := testResult()
	runID, err := st.Save(testMeta(), orig)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	rows, _, err := st.LoadStates(runID)
	if err != nil {
		t.Fatal(err)
	}

	got := ResultFromRows(*meta, rows)
	if len(got.Snapshots) != 3 || len(got.Actions) != 2 {
		t.Fatalf("expected 3 snapshots and 2 actions, got %d and %d", len(got.Snapshots), len(got.Actions))
	}
	for i := range orig.Observations {
		if got.Observations[i] != orig.Observations[i] {
			t.Errorf("observation %d mismatch", i)
		}
	}
	if got.Costs[2] != 3.63 {
		t.Errorf("expected cost 3.63, got %f", got.Costs[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testMeta(), testResult()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Airframe != "xcell_tempest" {
		t.Errorf("expected airframe xcell_tempest, got %s", data.Airframe)
	}
	if len(data.States) != 3 || len(data.States[0]) != heli.StateDim {
		t.Errorf("unexpected states shape")
	}
	if len(data.Observations[0]) != heli.ObservationDim {
		t.Errorf("expected %d observation values, got %d", heli.ObservationDim, len(data.Observations[0]))
	}
	if data.Orientations[0][3] != 1 {
		t.Errorf("expected identity orientation, got %v", data.Orientations[0])
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, testMeta(), testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestReplayConfigReproducesRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Controller = "random"
	cfg.Dt = 0.02
	cfg.MaxSteps = 40
	cfg.Renormalize = true
	cfg.Overrides = map[string]float64{"side_thrust": -0.3}

	registry := experiment.NewRegistry()
	exp, err := registry.Build(cfg, 1234)
	if err != nil {
		t.Fatal(err)
	}
	original, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{
		Airframe:    cfg.Airframe,
		Controller:  cfg.Controller,
		Dt:          cfg.Dt,
		MaxSteps:    cfg.MaxSteps,
		NoiseScale:  cfg.NoiseScale,
		Renormalize: cfg.Renormalize,
		Overrides:   cfg.Overrides,
	}, original)
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	replayCfg := meta.ReplayConfig()
	if replayCfg.Seed != 1234 || replayCfg.Dt != 0.02 || replayCfg.MaxSteps != 40 ||
		!replayCfg.Renormalize || replayCfg.Overrides["side_thrust"] != -0.3 {
		t.Fatalf("replay config lost run settings: %+v", replayCfg)
	}
	if err := replayCfg.Validate(); err != nil {
		t.Fatal(err)
	}

	actions, err := st.LoadActions(runID)
	if err != nil {
		t.Fatal(err)
	}
	registry.Register("replay", func(experiment.ControllerParams) experiment.Controller {
		return control.NewReplay(actions)
	})

	exp, err = registry.Build(replayCfg, replayCfg.Seed)
	if err != nil {
		t.Fatal(err)
	}
	replayed, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if replayed.Steps != original.Steps {
		t.Fatalf("expected %d steps, got %d", original.Steps, replayed.Steps)
	}
	if !reflect.DeepEqual(replayed.Snapshots, original.Snapshots) {
		t.Error("replayed snapshots differ from the stored run")
	}
	if replayed.TotalCost != original.TotalCost {
		t.Errorf("expected total cost %f, got %f", original.TotalCost, replayed.TotalCost)
	}
}
