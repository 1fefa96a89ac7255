package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/scene"
)

// Runner drives a scene frame by frame and records the trajectory.
type Runner struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	log       zerolog.Logger
}

func New() *Runner {
	return &Runner{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		log:       zerolog.Nop(),
	}
}

func (r *Runner) AddMetric(m dynamo.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o dynamo.Observer) { r.observers = append(r.observers, o) }
func (r *Runner) SetLogger(l zerolog.Logger)    { r.log = l }

// Run advances sc for cfg.Duration. On cancellation the partial result is returned
// with ctx.Err(). A frame that fails outright (strict mode) ends the run with an
// error; a frame that merely produces a non-finite state ends it with a SimError
// recorded in the result.
func (r *Runner) Run(ctx context.Context, sc *scene.Context, cfg Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &dynamo.Result{
		States:   make([]dynamo.State, 0, steps+1),
		Controls: make([]dynamo.Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	impulses := append([]Impulse(nil), cfg.Impulses...)
	sort.SliceStable(impulses, func(i, j int) bool { return impulses[i].Time < impulses[j].Time })
	next := 0

	x, err := sc.State()
	if err != nil {
		return nil, err
	}
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	r.log.Debug().
		Int("steps", steps).
		Float64("dt", cfg.Dt).
		Str("law", sc.LawName).
		Bool("negate", sc.Negate).
		Bool("strict", sc.Strict).
		Msg("run started")

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		for next < len(impulses) && impulses[next].Time <= t+cfg.Dt/2 {
			imp := impulses[next]
			next++
			if err := scene.Prod(sc, imp.Direction, imp.Magnitude); err != nil {
				return result, fmt.Errorf("impulse at t=%.4f: %w", imp.Time, err)
			}
			r.log.Debug().Float64("t", t).Float64("magnitude", imp.Magnitude).Msg("impulse applied")
			if x, err = sc.State(); err != nil {
				return result, err
			}
		}

		u, err := scene.Step(sc, cfg.Dt)
		if err != nil {
			err = fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
			result.Errors = append(result.Errors, err)
			r.finish(result)
			r.log.Error().Err(err).Msg("frame failed")
			return result, err
		}

		for _, m := range r.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(x, u, t)
		}

		newX, err := sc.State()
		if err != nil {
			return result, err
		}

		if cfg.ValidateState && !newX.IsValid() {
			simErr := dynamo.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, simErr)
			r.log.Warn().Err(simErr).Msg("run stopped")
			break
		}

		x = newX
		t += cfg.Dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	r.finish(result)
	r.log.Debug().Int("steps", result.StepsTaken).Int("errors", len(result.Errors)).Msg("run finished")
	return result, nil
}

func (r *Runner) finish(result *dynamo.Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrInvalidConfig)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrInvalidConfig)
	}
	return nil
}
