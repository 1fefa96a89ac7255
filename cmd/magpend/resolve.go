package main

import (
	"fmt"

	"github.com/san-kum/magpend/internal/config"
	"github.com/spf13/cobra"
)

// resolveConfig layers the preset, then the config file, then explicitly set
// flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("theta") {
		cfg.InitState.Theta = theta
	}
	if flags.Changed("phi") {
		cfg.InitState.Phi = phi
	}
	if flags.Changed("remanence") {
		cfg.Magnet.Remanence = remanence
	}
	if flags.Changed("damping") {
		cfg.Pendulum.Damping = damping
	}
	if flags.Changed("law") {
		cfg.Force.Law = law
	}
	if flags.Changed("negate") {
		cfg.Force.Negate = negate
	}
	if flags.Changed("strict") {
		cfg.Force.Strict = strict
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.Live.FPS = frameRate
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Live.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
