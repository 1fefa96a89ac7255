package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/magpend/internal/config"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.Equal(t, []string{"euler", "leapfrog", "rk4", "verlet"}, reg.ListIntegrators())

	a, err := reg.GetIntegrator("rk4")
	require.NoError(t, err)
	b, err := reg.GetIntegrator("rk4")
	require.NoError(t, err)
	require.NotSame(t, a, b)

	_, err = reg.GetIntegrator("rk45")
	require.Error(t, err)

	require.Contains(t, reg.ListLaws(), "literal")
	_, err = reg.GetLaw("dipole")
	require.NoError(t, err)
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5

	exp := New(cfg)
	_, err := exp.Run(context.Background())
	require.ErrorIs(t, err, ErrNotSetup)

	require.NoError(t, exp.Setup(NewRegistry()))
	require.NotNil(t, exp.Scene())

	result, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 50, result.StepsTaken)
	require.Len(t, result.States, 51)
	require.Empty(t, result.Errors)

	for _, name := range []string{"energy", "max_swing", "force_effort", "nonfinite"} {
		require.Contains(t, result.Metrics, name)
	}
	require.Zero(t, result.Metrics["nonfinite"])
	require.InDelta(t, 28.6, result.Metrics["max_swing"], 2)
}

func TestExperimentSetupErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Integrator = "magic"
	require.Error(t, New(cfg).Setup(NewRegistry()))

	cfg = config.DefaultConfig()
	cfg.Dt = 0
	require.ErrorIs(t, New(cfg).Setup(NewRegistry()), dynamo.ErrInvalidConfig)
}
