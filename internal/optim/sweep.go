package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/san-kum/magpend/internal/config"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/experiment"
	"golang.org/x/sync/errgroup"
)

// Param is one sweep axis.
type Param struct {
	Name   string
	Values []float64
}

// Point is one evaluated grid point. Err is set when the run itself failed.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

type Result struct {
	Metric string
	Points []Point
	Best   *Point
}

// Sweep evaluates the cartesian product of its params, each point on its own
// scene, at most limit at a time.
type Sweep struct {
	params []Param
	limit  int
	log    zerolog.Logger
}

func NewSweep(params []Param) *Sweep {
	return &Sweep{
		params: params,
		limit:  runtime.GOMAXPROCS(0),
		log:    zerolog.Nop(),
	}
}

func (s *Sweep) SetLimit(n int)             { s.limit = n }
func (s *Sweep) SetLogger(l zerolog.Logger) { s.log = l }

// Grid enumerates the parameter combinations, last axis varying fastest.
func (s *Sweep) Grid() []map[string]float64 {
	grid := []map[string]float64{{}}
	for _, p := range s.params {
		next := make([]map[string]float64, 0, len(grid)*len(p.Values))
		for _, current := range grid {
			for _, v := range p.Values {
				point := make(map[string]float64, len(current)+1)
				for k, val := range current {
					point[k] = val
				}
				point[p.Name] = v
				next = append(next, point)
			}
		}
		grid = next
	}
	return grid
}

// Run evaluates every grid point against base and reports the one that
// minimises metric. Failed points are kept with Err set and never chosen as best.
func (s *Sweep) Run(ctx context.Context, base *config.Config, reg *experiment.Registry, metric string) (*Result, error) {
	for _, p := range s.params {
		if err := base.Clone().Override(p.Name, 0); err != nil {
			return nil, err
		}
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("param %s has no values: %w", p.Name, dynamo.ErrInvalidConfig)
		}
	}

	grid := s.Grid()
	points := make([]Point, len(grid))

	g, gctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}

	for i, params := range grid {
		i, params := i, params
		g.Go(func() error {
			points[i] = s.evaluate(gctx, base, reg, params)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Metric: metric, Points: points}
	bestVal := math.Inf(1)
	for i := range points {
		if points[i].Err != nil {
			continue
		}
		val, ok := points[i].Metrics[metric]
		if !ok || math.IsNaN(val) {
			continue
		}
		if val < bestVal {
			bestVal = val
			result.Best = &points[i]
		}
	}

	if result.Best == nil {
		return result, fmt.Errorf("no successful point reported %q", metric)
	}
	s.log.Info().Str("metric", metric).Float64("best", bestVal).Int("points", len(points)).Msg("sweep finished")
	return result, nil
}

func (s *Sweep) evaluate(ctx context.Context, base *config.Config, reg *experiment.Registry, params map[string]float64) Point {
	point := Point{Params: params}

	cfg := base.Clone()
	for name, v := range params {
		if err := cfg.Override(name, v); err != nil {
			point.Err = err
			return point
		}
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(reg); err != nil {
		point.Err = err
		return point
	}

	result, err := exp.Run(ctx)
	if err != nil {
		point.Err = err
		return point
	}
	if len(result.Errors) > 0 {
		point.Err = result.Errors[0]
	}
	point.Metrics = result.Metrics

	s.log.Debug().Interface("params", params).Interface("metrics", result.Metrics).Msg("point evaluated")
	return point
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// ParseParam parses "name=start:stop:n" or "name=v1,v2,...".
func ParseParam(s string) (Param, error) {
	name, rhs, ok := strings.Cut(s, "=")
	if !ok || name == "" || rhs == "" {
		return Param{}, fmt.Errorf("bad param %q, want name=start:stop:n or name=v1,v2: %w", s, dynamo.ErrInvalidConfig)
	}

	if parts := strings.Split(rhs, ":"); len(parts) == 3 {
		start, err1 := strconv.ParseFloat(parts[0], 64)
		stop, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return Param{}, fmt.Errorf("bad range %q: %w", rhs, dynamo.ErrInvalidConfig)
		}
		return Param{Name: name, Values: Linspace(start, stop, n)}, nil
	}

	var values []float64
	for _, field := range strings.Split(rhs, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Param{}, fmt.Errorf("bad value %q: %w", field, dynamo.ErrInvalidConfig)
		}
		values = append(values, v)
	}
	return Param{Name: name, Values: values}, nil
}
