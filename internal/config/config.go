package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dipole"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/scene"
	"github.com/san-kum/magpend/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultTheta    = 0.5
	DefaultFPS      = 30
)

type Config struct {
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`

	Pendulum  PendulumConfig  `yaml:"pendulum"`
	Magnet    MagnetConfig    `yaml:"magnet"`
	Base      BaseConfig      `yaml:"base"`
	Force     ForceConfig     `yaml:"force"`
	InitState InitStateConfig `yaml:"init_state"`
	Impulses  []ImpulseConfig `yaml:"impulses,omitempty"`
	Live      LiveConfig      `yaml:"live"`
}

type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Config) Vec3() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

type PendulumConfig struct {
	Length      float64    `yaml:"length"`
	RodDiameter float64    `yaml:"rod_diameter"`
	Mass        float64    `yaml:"mass"`
	Restitution float64    `yaml:"restitution"`
	Damping     float64    `yaml:"damping"`
	Gravity     Vec3Config `yaml:"gravity"`
}

type MagnetConfig struct {
	Diameter  float64 `yaml:"diameter"`
	Height    float64 `yaml:"height"`
	Remanence float64 `yaml:"remanence"`
}

type BaseConfig struct {
	Direction Vec3Config  `yaml:"direction"`
	Position  *Vec3Config `yaml:"position,omitempty"`
}

type ForceConfig struct {
	Law    string `yaml:"law"`
	Negate bool   `yaml:"negate"`
	Strict bool   `yaml:"strict"`
}

type InitStateConfig struct {
	Theta float64 `yaml:"theta"`
	Phi   float64 `yaml:"phi"`
}

type ImpulseConfig struct {
	Time      float64    `yaml:"time"`
	Direction Vec3Config `yaml:"direction"`
	Magnitude float64    `yaml:"magnitude"`
}

type LiveConfig struct {
	FPS   int    `yaml:"fps"`
	Trail int    `yaml:"trail"`
	Theme string `yaml:"theme,omitempty"`
}

func DefaultConfig() *Config {
	opts := scene.DefaultOptions()
	return &Config{
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Pendulum: PendulumConfig{
			Length:      opts.Length,
			RodDiameter: opts.RodDiameter,
			Mass:        opts.Mass,
			Restitution: opts.Restitution,
			Damping:     opts.Damping,
			Gravity:     vec3Config(opts.Gravity),
		},
		Magnet: MagnetConfig{
			Diameter:  opts.MagnetDiameter,
			Height:    opts.MagnetHeight,
			Remanence: opts.Remanence,
		},
		Base: BaseConfig{
			Direction: vec3Config(opts.BaseDirection),
		},
		Force: ForceConfig{
			Law:    opts.Law,
			Negate: opts.Negate,
		},
		InitState: InitStateConfig{
			Theta: DefaultTheta,
		},
		Live: LiveConfig{
			FPS:   DefaultFPS,
			Trail: 400,
		},
	}
}

func vec3Config(v mgl64.Vec3) Vec3Config {
	return Vec3Config{X: v[0], Y: v[1], Z: v[2]}
}

// Load reads a YAML file on top of the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g: %w", c.Dt, dynamo.ErrInvalidConfig)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g: %w", c.Duration, dynamo.ErrInvalidConfig)
	}
	if c.Pendulum.Length <= 0 || c.Pendulum.Mass <= 0 {
		return fmt.Errorf("pendulum length and mass must be positive: %w", dynamo.ErrParameterBounds)
	}
	if c.Magnet.Diameter <= 0 || c.Magnet.Height <= 0 {
		return fmt.Errorf("magnet dimensions must be positive: %w", dynamo.ErrParameterBounds)
	}
	if _, err := dipole.LookupLaw(c.Force.Law); err != nil {
		return fmt.Errorf("%v: %w", err, dynamo.ErrInvalidConfig)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Base.Position != nil {
		p := *c.Base.Position
		out.Base.Position = &p
	}
	out.Impulses = append([]ImpulseConfig(nil), c.Impulses...)
	return &out
}

func (c *Config) ToOptions() scene.Options {
	opts := scene.Options{
		Length:         c.Pendulum.Length,
		RodDiameter:    c.Pendulum.RodDiameter,
		Mass:           c.Pendulum.Mass,
		Restitution:    c.Pendulum.Restitution,
		Damping:        c.Pendulum.Damping,
		Gravity:        c.Pendulum.Gravity.Vec3(),
		MagnetDiameter: c.Magnet.Diameter,
		MagnetHeight:   c.Magnet.Height,
		Remanence:      c.Magnet.Remanence,
		BaseDirection:  c.Base.Direction.Vec3(),
		Law:            c.Force.Law,
		Negate:         c.Force.Negate,
		Strict:         c.Force.Strict,
		Theta:          c.InitState.Theta,
		Phi:            c.InitState.Phi,
	}
	if c.Base.Position != nil {
		p := c.Base.Position.Vec3()
		opts.BasePosition = &p
	}
	return opts
}

func (c *Config) ToSimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Duration = c.Duration
	for _, imp := range c.Impulses {
		cfg.Impulses = append(cfg.Impulses, sim.Impulse{
			Time:      imp.Time,
			Direction: imp.Direction.Vec3(),
			Magnitude: imp.Magnitude,
		})
	}
	return cfg
}

// Override sets a scalar parameter by name, as used by sweeps.
func (c *Config) Override(name string, value float64) error {
	switch name {
	case "remanence":
		c.Magnet.Remanence = value
	case "damping":
		c.Pendulum.Damping = value
	case "theta":
		c.InitState.Theta = value
	case "phi":
		c.InitState.Phi = value
	case "length":
		c.Pendulum.Length = value
	case "mass":
		c.Pendulum.Mass = value
	case "restitution":
		c.Pendulum.Restitution = value
	case "dt":
		c.Dt = value
	default:
		return fmt.Errorf("%s: %w", name, dynamo.ErrUnknownParam)
	}
	return nil
}
