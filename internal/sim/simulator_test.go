package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dipole"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/integrators"
	"github.com/san-kum/magpend/internal/scene"
)

func buildScene(t *testing.T, mutate func(*scene.Options)) *scene.Context {
	t.Helper()
	opts := scene.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	sc, err := scene.Build(opts, integrators.NewRK4())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return sc
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(x dynamo.State, u dynamo.Control, t float64) {
	m.count++
	m.sum += u[1]
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestRunnerRun(t *testing.T) {
	sc := buildScene(t, func(o *scene.Options) { o.Theta = 0.3 })

	cfg := DefaultConfig()
	cfg.Dt = 0.1
	cfg.Duration = 1.0

	result, err := New().Run(context.Background(), sc, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if len(result.Controls) != 10 {
		t.Errorf("expected 10 controls, got %d", len(result.Controls))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	sc := buildScene(t, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Run(context.Background(), sc, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunnerMetrics(t *testing.T) {
	sc := buildScene(t, nil)
	r := New()
	metric := &testMetric{}
	r.AddMetric(metric)

	result, err := r.Run(context.Background(), sc, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if result.Metrics["test"] <= 0 {
		t.Errorf("expected upward magnetic force at rest, got %v", result.Metrics["test"])
	}
}

func TestRunnerCanceled(t *testing.T) {
	sc := buildScene(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, sc, Config{Dt: 0.01, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %+v", result)
	}
}

func TestRunnerStopsOnNonFiniteState(t *testing.T) {
	at := mgl64.Vec3{}
	sc := buildScene(t, func(o *scene.Options) { o.BasePosition = &at })

	result, err := New().Run(context.Background(), sc, Config{Dt: 0.01, Duration: 1.0, ValidateState: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps taken, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Errorf("expected one invalid state error, got %v", result.Errors)
	}
}

func TestRunnerStrictFailsFast(t *testing.T) {
	at := mgl64.Vec3{}
	sc := buildScene(t, func(o *scene.Options) {
		o.BasePosition = &at
		o.Strict = true
	})

	result, err := New().Run(context.Background(), sc, Config{Dt: 0.01, Duration: 1.0})
	if !errors.Is(err, dipole.ErrCoincident) {
		t.Fatalf("expected ErrCoincident, got %v", err)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected the failure recorded, got %v", result.Errors)
	}
}

func TestRunnerImpulses(t *testing.T) {
	sc := buildScene(t, nil)
	cfg := Config{
		Dt:       0.01,
		Duration: 0.5,
		Impulses: []Impulse{
			{Time: 0.2, Direction: scene.AxisZ, Magnitude: 0.5},
			{Time: 0, Direction: scene.AxisX, Magnitude: 0.5},
		},
	}

	result, err := New().Run(context.Background(), sc, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if x := result.States[1]; x[0] <= 0 {
		t.Errorf("expected bob pushed along +x after first frame, got %v", x)
	}
	if x := result.States[20]; x[2] != 0 {
		t.Errorf("z impulse applied early: %v", x)
	}
	if x := result.States[21]; x[2] <= 0 {
		t.Errorf("expected z impulse at t=0.2, got %v", x)
	}
}

type recorder struct {
	times []float64
}

func (r *recorder) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	r.times = append(r.times, t)
}

func TestRunnerObservers(t *testing.T) {
	sc := buildScene(t, nil)

	cfg := DefaultConfig()
	cfg.Dt = 0.05
	cfg.Duration = 0.5

	rec := &recorder{}
	r := New()
	r.AddObserver(rec)

	result, err := r.Run(context.Background(), sc, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(rec.times) != result.StepsTaken {
		t.Fatalf("observer saw %d frames, want %d", len(rec.times), result.StepsTaken)
	}
	if rec.times[0] != 0 {
		t.Errorf("first frame at t=%v, want 0", rec.times[0])
	}
}
