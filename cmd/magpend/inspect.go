package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/magpend/internal/analysis"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/storage"
	"github.com/san-kum/magpend/internal/viz"
	"github.com/spf13/cobra"
)

var (
	xAxis     int
	yAxis     int
	metaOnly  bool
	component int
)

var stateNames = []string{"x", "y", "z", "vx", "vy", "vz"}

func stateName(idx int) string {
	if idx >= 0 && idx < len(stateNames) {
		return stateNames[idx]
	}
	return fmt.Sprintf("x%d", idx)
}

// checkComponent rejects state indices outside x..vz.
func checkComponent(flag string, idx int) error {
	if idx < 0 || idx >= len(stateNames) {
		return fmt.Errorf("--%s %d out of range [0, %d)", flag, idx, len(stateNames))
	}
	return nil
}

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tINTEG\tLAW\tNEGATE\tBR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%v\t%.2f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Law,
			run.Negate,
			run.Remanence,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	states, forces, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(forces) > 0 {
		forces = forces[:len(forces)-1]
	}
	return meta, &dynamo.Result{
		States:     states,
		Controls:   forces,
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	if err := checkComponent("x-axis", xAxis); err != nil {
		return err
	}
	if err := checkComponent("y-axis", yAxis); err != nil {
		return err
	}
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("law: %s  negate: %v\n", meta.Law, meta.Negate)
	fmt.Printf("samples: %d\n\n", len(result.States))

	for idx := 0; idx < 3; idx++ {
		graph := asciigraph.Plot(analysis.Column(result.States, idx),
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(stateName(idx)+" (m) vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(result.Controls) > 1 {
		mags := make([]float64, len(result.Controls))
		for i, f := range result.Controls {
			mags[i] = f.Magnitude()
		}
		fmt.Println(asciigraph.Plot(mags,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("|F| (N) vs time"),
		))
		fmt.Println()
	}

	portrait := analysis.NewPhasePortrait(result.States, xAxis, yAxis)
	fmt.Printf("%s vs %s\n", stateName(yAxis), stateName(xAxis))
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 60, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if metaOnly {
		result = &dynamo.Result{Metrics: meta.Metrics}
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	if err := checkComponent("component", component); err != nil {
		return err
	}
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.States) < 2 {
		return fmt.Errorf("no data")
	}

	data := analysis.Column(result.States, component)
	if len(data) == 0 {
		return fmt.Errorf("state has no component %d", component)
	}

	fmt.Printf("analysis: %s (%s)\n\n", meta.ID, stateName(component))

	s := analysis.Summarize(data)
	fmt.Printf("samples: %d\n", s.N)
	fmt.Printf("mean:    %.6f\n", s.Mean)
	fmt.Printf("stddev:  %.6f\n", s.StdDev)
	fmt.Printf("range:   [%.6f, %.6f]\n\n", s.Min, s.Max)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:min(len(ps), max(2, len(ps)/4))]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+stateName(component)+")"),
	))
	fmt.Println(viz.Sparkline(plotData, 80))
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if math.Abs(s.Max-s.Min) > 0 {
		pos := component % 3
		section := analysis.PoincareSection(result.States, component, s.Mean, pos, pos+3)
		fmt.Printf("upward crossings of mean: %d\n", len(section.Points))
	}
	return nil
}
