package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/magpend/internal/dipole"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/integrators"
	"github.com/san-kum/magpend/internal/metrics"
	"github.com/san-kum/magpend/internal/scene"
)

// Registry resolves integrator and force-law names. Integrators hold scratch
// buffers, so every lookup returns a fresh instance.
type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) GetLaw(name string) (dipole.ForceLaw, error) {
	return dipole.LookupLaw(name)
}

func (r *Registry) ListLaws() []string {
	return dipole.LawNames()
}

func (r *Registry) DefaultMetrics(sc *scene.Context) []dynamo.Metric {
	return metrics.Default(sc.Mass, sc.Gravity, sc.Pivot)
}
