package config

import "sort"

// Presets are named starting points. Each entry only lists what differs from
// DefaultConfig.
var Presets = map[string]func(c *Config){
	// The rig as first built: literal force law, negated.
	"classic": func(c *Config) {},

	// Textbook dipole law with the base magnet flipped so it attracts the bob.
	"physical": func(c *Config) {
		c.Force.Law = "dipole"
		c.Force.Negate = false
		c.Base.Direction = Vec3Config{Y: -1}
		c.Magnet.Remanence = 0.3
		c.InitState.Theta = 0.4
	},

	// Dipole law with aligned magnets pushing the bob away.
	"repel": func(c *Config) {
		c.Force.Law = "dipole"
		c.Force.Negate = false
		c.Magnet.Remanence = 0.3
		c.InitState.Theta = 0.4
		c.Duration = 20
	},

	// Heavily damped swing that settles quickly.
	"quiet": func(c *Config) {
		c.Pendulum.Damping = 0.5
		c.InitState.Theta = 0.2
	},

	// Starts at rest and is prodded along x then z.
	"kicked": func(c *Config) {
		c.InitState.Theta = 0
		c.Duration = 15
		c.Impulses = []ImpulseConfig{
			{Time: 1, Direction: Vec3Config{X: 1}, Magnitude: 0.5},
			{Time: 5, Direction: Vec3Config{Z: 1}, Magnitude: 0.5},
		}
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
