package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/magpend/internal/analysis"
	"github.com/san-kum/magpend/internal/config"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/experiment"
	"github.com/san-kum/magpend/internal/optim"
	"github.com/san-kum/magpend/internal/scene"
	"github.com/san-kum/magpend/internal/storage"
	"github.com/san-kum/magpend/internal/viz"
	"github.com/spf13/cobra"
)

var (
	sweepMetric  string
	sweepLimit   int
	perturbation float64
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg)
	exp.SetLogger(log.Logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	exp.Runner().AddObserver(&progress{every: max(1, cfg.ToSimConfig().Steps()/10)})

	log.Info().
		Str("preset", preset).
		Str("integrator", cfg.Integrator).
		Str("law", cfg.Force.Law).
		Float64("duration", cfg.Duration).
		Msg("running simulation")
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Int("steps", result.StepsTaken).Msg("run ended early")
	}
	for _, e := range result.Errors {
		log.Warn().Err(e).Msg("run error")
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if final := result.Final(); len(final) >= 3 {
		fmt.Printf("final position: (%.4f, %.4f, %.4f) m\n", final[0], final[1], final[2])
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(metadataFor(cfg), result)
		if err != nil {
			return err
		}
		// rerun with: magpend run --config <data>/<id>/config.yaml
		if err := config.Save(filepath.Join(st.RunDir(runID), "config.yaml"), cfg); err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	printMetrics(result.Metrics)
	return err
}

// progress logs the bob state at debug level every few frames.
type progress struct {
	every int
	n     int
}

func (p *progress) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	p.n++
	if p.n%p.every == 0 {
		log.Debug().Float64("t", t).Floats64("state", x).Floats64("force", u).Msg("progress")
	}
}

func metadataFor(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:     preset,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Law:        cfg.Force.Law,
		Negate:     cfg.Force.Negate,
		Remanence:  cfg.Magnet.Remanence,
	}
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-14s %.6f\n", name, metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, experiment.NewRegistry())
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	params := make([]optim.Param, 0, len(args))
	for _, arg := range args {
		p, err := optim.ParseParam(arg)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := optim.NewSweep(params)
	sweep.SetLogger(log.Logger)
	if sweepLimit > 0 {
		sweep.SetLimit(sweepLimit)
	}

	result, err := sweep.Run(ctx, cfg, experiment.NewRegistry(), sweepMetric)
	if result == nil {
		return err
	}

	for _, p := range result.Points {
		line := formatParams(params, p.Params)
		if p.Err != nil {
			fmt.Printf("%s  error: %v\n", line, p.Err)
			continue
		}
		fmt.Printf("%s  %s=%.6f\n", line, sweepMetric, p.Metrics[sweepMetric])
	}
	if result.Best != nil {
		fmt.Printf("\nbest: %s  %s=%.6f\n", formatParams(params, result.Best.Params), sweepMetric, result.Best.Metrics[sweepMetric])
	}
	return err
}

func formatParams(order []optim.Param, values map[string]float64) string {
	out := ""
	for i, p := range order {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%-8.4g", p.Name, values[p.Name])
	}
	return out
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	build := func(offset float64) (*scene.Context, error) {
		c := cfg.Clone()
		c.InitState.Theta += offset
		exp := experiment.New(c)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp.Scene(), nil
	}

	a, err := build(0)
	if err != nil {
		return err
	}
	b, err := build(perturbation)
	if err != nil {
		return err
	}

	steps := cfg.ToSimConfig().Steps()
	sep, err := analysis.Separation(a, b, cfg.Dt, steps)
	if err != nil {
		log.Warn().Err(err).Int("frames", len(sep)).Msg("separation stopped early")
	}

	lambda := analysis.LyapunovExponent(sep, cfg.Dt)
	fmt.Printf("frames: %d\n", len(sep))
	fmt.Printf("lyapunov exponent: %.4f 1/s\n", lambda)
	if lambda > 0 {
		fmt.Println("trajectories diverge (chaotic)")
	} else {
		fmt.Println("trajectories stay together")
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-10s law=%-8s negate=%-5v theta=%.2f duration=%.0fs\n",
			name, cfg.Force.Law, cfg.Force.Negate, cfg.InitState.Theta, cfg.Duration)
	}

	reg := experiment.NewRegistry()
	fmt.Printf("\nforce laws:  %s\n", joinNames(reg.ListLaws()))
	fmt.Printf("integrators: %s\n", joinNames(reg.ListIntegrators()))
	return nil
}
