package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/magpend/internal/config"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/scene"
	"github.com/san-kum/magpend/internal/sim"
)

var ErrNotSetup = errors.New("experiment not setup")

// Experiment is one configured run of the rig.
type Experiment struct {
	cfg    *config.Config
	scene  *scene.Context
	runner *sim.Runner
	log    zerolog.Logger
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg: cfg,
		log: zerolog.Nop(),
	}
}

func (e *Experiment) SetLogger(l zerolog.Logger) { e.log = l }

// Setup builds the scene and a runner carrying the default metrics.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	sc, err := scene.Build(e.cfg.ToOptions(), integ)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	runner := sim.New()
	runner.SetLogger(e.log)
	for _, m := range reg.DefaultMetrics(sc) {
		runner.AddMetric(m)
	}

	e.scene = sc
	e.runner = runner
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.runner == nil {
		return nil, ErrNotSetup
	}
	return e.runner.Run(ctx, e.scene, e.cfg.ToSimConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Scene() *scene.Context  { return e.scene }

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *sim.Runner { return e.runner }
