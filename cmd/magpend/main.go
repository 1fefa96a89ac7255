package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/san-kum/magpend/internal/config"
	"github.com/san-kum/magpend/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	dt         float64
	duration   float64
	integrator string
	theta      float64
	phi        float64
	remanence  float64
	damping    float64
	law        string
	negate     bool
	strict     bool

	frameRate int
	theme     string

	noSave bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "magpend",
		Short:         "magnetic pendulum simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".magpend", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "", "colour theme "+joinNames(viz.ThemeNames()))

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for the phase plot x axis")
	plotCmd.Flags().IntVar(&yAxis, "y-axis", 2, "state index for the phase plot y axis")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&metaOnly, "meta", false, "metadata only")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and summary analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&component, "component", 0, "state index to analyse")

	forceCmd := &cobra.Command{
		Use:   "force r1 m1 r2 m2",
		Short: "evaluate the force law for explicit vectors (x,y,z each)",
		Args:  cobra.ExactArgs(4),
		RunE:  evalForce,
	}
	forceCmd.Flags().StringVar(&law, "law", "literal", "force law")
	forceCmd.Flags().BoolVar(&strict, "strict", false, "reject degenerate input")

	sweepCmd := &cobra.Command{
		Use:   "sweep name=start:stop:n [name=v1,v2,...]",
		Short: "evaluate a parameter grid and report the best point",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "max_swing", "metric to minimise")
	sweepCmd.Flags().IntVar(&sweepLimit, "parallel", 0, "concurrent runs (0 = GOMAXPROCS)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate sensitivity to the initial angle",
		Args:  cobra.NoArgs,
		RunE:  runLyapunov,
	}
	addSceneFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturbation, "eps", 1e-6, "initial angle perturbation (rad)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, analyzeCmd, forceCmd, sweepCmd, lyapunovCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("magpend failed")
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "initial angle from vertical (rad)")
	cmd.Flags().Float64Var(&phi, "phi", 0, "initial azimuth (rad)")
	cmd.Flags().Float64Var(&remanence, "remanence", 1.2, "magnet remanence (T)")
	cmd.Flags().Float64Var(&damping, "damping", 0, "linear damping (N·s/m)")
	cmd.Flags().StringVar(&law, "law", "literal", "force law")
	cmd.Flags().BoolVar(&negate, "negate", true, "negate the computed force")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on degenerate geometry instead of producing NaN")
}

func joinNames(names []string) string {
	out := "("
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + ")"
}
