package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/hoversim/internal/analysis"
	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/experiment"
)

func shortEpisode(t *testing.T) *experiment.Result {
	t.Helper()
	cfg := config.GetPreset("xcell_tempest", "hover")
	cfg.MaxSteps = 20

	exp, err := experiment.NewRegistry().Build(cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestSaveEpisodePNGs(t *testing.T) {
	dir := t.TempDir()
	paths, err := SaveEpisodePNGs(dir, shortEpisode(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if len(paths) != 5 {
		t.Fatalf("expected 5 figures, got %d", len(paths))
	}

	magic := []byte("\x89PNG")
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !bytes.HasPrefix(data, magic) {
			t.Errorf("%s is not a png", filepath.Base(p))
		}
	}
}

func TestEpisodeFigures(t *testing.T) {
	result := shortEpisode(t)
	figures := EpisodeFigures(result)

	files := make([]string, len(figures))
	for i, f := range figures {
		files[i] = f.File
		for _, s := range f.Series {
			if len(s.Y) == 0 {
				t.Errorf("%s/%s has no samples", f.File, s.Name)
			}
		}
	}
	want := "position.png velocity.png rates.png cost.png actions.png"
	if got := strings.Join(files, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if len(figures[0].Series) != 3 || figures[0].Series[2].Name != "z" {
		t.Errorf("unexpected position series: %+v", figures[0].Series)
	}
}

func TestFigureWithoutData(t *testing.T) {
	if _, err := (Figure{Title: "empty"}).Plot(); err == nil {
		t.Error("expected error for empty figure")
	}
	if _, err := SavePNG(t.TempDir(), Figure{Title: "empty", X: []float64{0}}); err == nil {
		t.Error("expected error for figure without series")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	result := shortEpisode(t)
	track := GroundTrack(result)
	if len(track) != len(result.Snapshots) {
		t.Fatalf("expected %d points, got %d", len(result.Snapshots), len(track))
	}

	svg := TrajectoryToSVG(track, 200, 100, "#00ff00")
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("malformed svg document")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color missing")
	}
	if strings.Count(svg, " L") != len(track)-1 {
		t.Errorf("expected %d segments", len(track)-1)
	}

	if TrajectoryToSVG([]analysis.Point{{X: 1, Y: 1}}, 200, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
}
