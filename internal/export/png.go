package export

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 150

// Series is one named curve of a figure.
type Series struct {
	Name string
	Y    []float64
}

// Figure describes one line chart sharing a common x axis.
type Figure struct {
	File   string
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Series []Series
}

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)

	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)

	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
	p.X.Tick.Marker = limitedTicker(8, "%.1f")
	p.Y.Tick.Marker = limitedTicker(8, "%.2f")

	p.Legend.Top = true
	p.Add(plotter.NewGrid())
}

// Plot builds the gonum plot of f without writing it.
func (f Figure) Plot() (*plot.Plot, error) {
	if len(f.X) == 0 || len(f.Series) == 0 {
		return nil, fmt.Errorf("figure %q has no data", f.Title)
	}

	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	stylePlot(p)

	for i, s := range f.Series {
		n := min(len(f.X), len(s.Y))
		pts := make(plotter.XYs, n)
		for j := 0; j < n; j++ {
			pts[j].X = f.X[j]
			pts[j].Y = s.Y[j]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if len(f.Series) > 1 {
			p.Legend.Add(s.Name, line)
		}
	}

	return p, nil
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// SavePNG writes f into dir and returns the file path.
func SavePNG(dir string, f Figure) (string, error) {
	p, err := f.Plot()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, f.File)
	return path, savePlotPNG(p, 8.0, 4.5, path)
}

// EpisodeFigures lays out the standard charts of an episode: position,
// velocity, angular rates, actions and cost against time.
func EpisodeFigures(result *experiment.Result) []Figure {
	times := result.Times()
	column := func(idx int) []float64 {
		out := make([]float64, len(result.Snapshots))
		for i, s := range result.Snapshots {
			out[i] = s.State[idx]
		}
		return out
	}
	names := heli.StateNames()
	group := func(idx ...int) []Series {
		series := make([]Series, len(idx))
		for i, j := range idx {
			series[i] = Series{Name: names[j], Y: column(j)}
		}
		return series
	}

	actions := make([]Series, heli.ActionDim)
	for k := range actions {
		ys := make([]float64, len(result.Actions))
		for i, a := range result.Actions {
			ys[i] = a.Clamp()[k]
		}
		actions[k] = Series{Name: heli.ActionNames()[k], Y: ys}
	}

	figures := []Figure{
		{File: "position.png", Title: "Position", XLabel: "time (s)", YLabel: "m", X: times, Series: group(heli.X, heli.Y, heli.Z)},
		{File: "velocity.png", Title: "Velocity", XLabel: "time (s)", YLabel: "m/s", X: times, Series: group(heli.U, heli.V, heli.W)},
		{File: "rates.png", Title: "Angular rates", XLabel: "time (s)", YLabel: "rad/s", X: times, Series: group(heli.P, heli.Q, heli.R)},
		{File: "cost.png", Title: "Cost", XLabel: "time (s)", YLabel: "cost", X: times, Series: []Series{{Name: "cost", Y: result.Costs}}},
	}
	if len(result.Actions) > 0 {
		figures = append(figures, Figure{
			File: "actions.png", Title: "Actions", XLabel: "time (s)", YLabel: "command", X: times, Series: actions,
		})
	}
	return figures
}

// SaveEpisodePNGs renders every episode figure into dir.
func SaveEpisodePNGs(dir string, result *experiment.Result) ([]string, error) {
	paths := make([]string, 0, 5)
	for _, f := range EpisodeFigures(result) {
		path, err := SavePNG(dir, f)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
