// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Sim       SimConfig       `yaml:"sim"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds the trail grid dimensions. Field coordinates double as
// world coordinates: one grid cell per world unit.
type FieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SimConfig holds the simulation rates. All rates are per unit of simulated
// time except decay and diffusion, which apply once per tick.
type SimConfig struct {
	DT           float64 `yaml:"dt"`            // simulated seconds per tick
	NParticles   int     `yaml:"n_particles"`   // agent count
	MoveSpeed    float64 `yaml:"move_speed"`    // distance per second
	TurnSpeed    float64 `yaml:"turn_speed"`    // radians per second
	SensorSpread float64 `yaml:"sensor_spread"` // angular offset of side sensors (radians)
	SampleDist   float64 `yaml:"sample_dist"`   // sensor probe distance
	DepositRate  float64 `yaml:"deposit_rate"`  // trail added per second per agent
	Decay        float64 `yaml:"decay"`         // fraction of trail removed per tick [0,1]
	Diffusion    float64 `yaml:"diffusion"`     // blend weight toward neighbor average [0,1]
	DeathRate    float64 `yaml:"death_rate"`    // respawn probability per second per agent [0,1]
}

// RenderConfig holds presentation parameters. None of these feed back into
// the simulation.
type RenderConfig struct {
	AgentSize        float64 `yaml:"agent_size"`        // point sprite size in screen pixels
	TrailGain        float64 `yaml:"trail_gain"`        // brightness multiplier for the trail texture
	DiscardThreshold float64 `yaml:"discard_threshold"` // skip agents whose color magnitude is below this (0 disables)
	Contrast         bool    `yaml:"contrast"`          // apply the fixed contrast transform to agent colors
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Sim.DT as float32
	FieldW32  float32 // Field.Width as float32
	FieldH32  float32 // Field.Height as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The loaded config is
// validated; out-of-range rates are an error, not something to simulate with.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks that all parameters are inside the ranges the simulation
// formulas are valid for. The decay and diffusion blends only preserve the
// field's non-negativity for rates in [0,1], so violations are fatal rather
// than clamped.
func (c *Config) Validate() error {
	s := &c.Sim
	if s.Decay < 0 || s.Decay > 1 {
		return fmt.Errorf("sim.decay must be in [0,1], got %g", s.Decay)
	}
	if s.Diffusion < 0 || s.Diffusion > 1 {
		return fmt.Errorf("sim.diffusion must be in [0,1], got %g", s.Diffusion)
	}
	if s.DeathRate < 0 || s.DeathRate > 1 {
		return fmt.Errorf("sim.death_rate must be in [0,1], got %g", s.DeathRate)
	}
	if s.NParticles < 1 {
		return fmt.Errorf("sim.n_particles must be positive, got %d", s.NParticles)
	}
	if s.DT <= 0 {
		return fmt.Errorf("sim.dt must be positive, got %g", s.DT)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"sim.move_speed", s.MoveSpeed},
		{"sim.turn_speed", s.TurnSpeed},
		{"sim.sensor_spread", s.SensorSpread},
		{"sim.sample_dist", s.SampleDist},
		{"sim.deposit_rate", s.DepositRate},
	} {
		if p.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", p.name, p.v)
		}
	}
	if c.Field.Width < 1 || c.Field.Height < 1 {
		return fmt.Errorf("field dimensions must be positive, got %dx%d", c.Field.Width, c.Field.Height)
	}
	if c.Screen.Width < 1 || c.Screen.Height < 1 {
		return fmt.Errorf("screen dimensions must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config. Call after
// mutating parameters programmatically (tests, tuning tools).
func (c *Config) ComputeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.FieldW32 = float32(c.Field.Width)
	c.Derived.FieldH32 = float32(c.Field.Height)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
