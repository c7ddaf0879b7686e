package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hoversim/internal/analysis"
	"github.com/san-kum/hoversim/internal/control"
	"github.com/san-kum/hoversim/internal/export"
	"github.com/san-kum/hoversim/internal/heli"
	"github.com/san-kum/hoversim/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAIRFRAME\tCTRL\tTIME\tSTEPS\tFLIGHT\tTERMINAL\tCOST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1fs\t%v\t%.2f\n",
			run.ID,
			run.Airframe,
			run.Controller,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Duration(),
			run.Terminal,
			run.TotalCost,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("airframe: %s\n", meta.Airframe)
	fmt.Printf("steps: %d\n\n", meta.Steps)

	for _, name := range columns {
		data, err := st.LoadColumn(runID, name)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("no data to plot")
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	xs, err := st.LoadColumn(runID, xAxis)
	if err != nil {
		return err
	}
	ys, err := st.LoadColumn(runID, yAxis)
	if err != nil {
		return err
	}
	if len(xs) < 2 {
		return fmt.Errorf("not enough data for a phase portrait")
	}

	portrait := analysis.NewPhasePortrait(xAxis, xs, yAxis, ys)
	fmt.Printf("phase portrait: %s (%s vs %s)\n\n", runID, yAxis, xAxis)
	fmt.Print(portrait.ASCII(70, 24))

	crossings := portrait.Crossings(xs, 0)
	fmt.Printf("\n%s crosses zero upward %d time(s)\n", xAxis, len(crossings))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	rows, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"time"}, storage.Columns()...)); err != nil {
		return err
	}

	for i := range rows {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range rows[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(*meta, storage.ResultFromRows(*meta, rows))
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	data, err := st.LoadColumn(runID, column)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("run %s has too few samples to analyze", runID)
	}

	sampleRate := 1 / heli.ControlPeriod

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("airframe: %s, column %s, %d samples at %.0f hz\n\n", meta.Airframe, column, len(data), sampleRate)

	ps := analysis.PowerSpectrum(analysis.Detrend(data))
	graph := asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", column)),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Println(analysis.Summarize(data))

	freq := analysis.DominantFrequency(data, sampleRate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	for _, lag := range []int{1, 10, 50} {
		if lag < len(data) {
			fmt.Printf("autocorrelation lag %d (%.1fs): %.4f\n",
				lag, float64(lag)*heli.ControlPeriod, analysis.Autocorrelation(data, lag))
		}
	}

	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to render")
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Join(dataDir, runID)
	}

	result := storage.ResultFromRows(*meta, rows)
	files, err := export.SaveEpisodePNGs(dir, result)
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(export.GroundTrack(result), 600, 600, "#00ff88")
	if svg != "" {
		path := filepath.Join(dir, "ground_track.svg")
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		files = append(files, path)
	}

	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

func stabilityReport(cmd *cobra.Command, args []string) error {
	af, err := heli.LookupAirframe(airframeArg(args))
	if err != nil {
		return err
	}

	cfg := heli.DefaultConfig()
	trim := control.NewTrim(af).Compute(heli.Observation{}, 0)
	spectrum := analysis.DivergenceSpectrum(af.Params, cfg, trim, heli.InitialSnapshot(), divEps, divSteps)

	fmt.Printf("perturbation growth around hover trim: %s\n", af.Name)
	fmt.Printf("collective %.4f, %d control steps, eps %g\n\n", trim[heli.Collective], divSteps, divEps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tRATE (1/s)\tTIME CONSTANT")
	for i, name := range heli.StateNames() {
		tc := "-"
		if spectrum[i] < 0 {
			tc = fmt.Sprintf("%.2fs", -1/spectrum[i])
		}
		fmt.Fprintf(w, "%s\t%+.4f\t%s\n", name, spectrum[i], tc)
	}
	return w.Flush()
}
