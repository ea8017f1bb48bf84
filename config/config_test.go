package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Field.Width < 1 || cfg.Field.Height < 1 {
		t.Errorf("field dimensions not set: %dx%d", cfg.Field.Width, cfg.Field.Height)
	}
	if cfg.Sim.NParticles < 1 {
		t.Errorf("n_particles not set: %d", cfg.Sim.NParticles)
	}
	if cfg.Sim.DT <= 0 {
		t.Errorf("dt not set: %g", cfg.Sim.DT)
	}
	if cfg.Derived.DT32 != float32(cfg.Sim.DT) {
		t.Errorf("Derived.DT32 = %g, want %g", cfg.Derived.DT32, float32(cfg.Sim.DT))
	}
	if cfg.Derived.FieldW32 != float32(cfg.Field.Width) {
		t.Errorf("Derived.FieldW32 = %g, want %g", cfg.Derived.FieldW32, float32(cfg.Field.Width))
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("sim:\n  decay: 0.2\n  n_particles: 123\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Sim.Decay != 0.2 {
		t.Errorf("decay = %g, want 0.2", cfg.Sim.Decay)
	}
	if cfg.Sim.NParticles != 123 {
		t.Errorf("n_particles = %d, want 123", cfg.Sim.NParticles)
	}

	// Fields absent from the file keep their defaults.
	defaults, _ := Load("")
	if cfg.Sim.MoveSpeed != defaults.Sim.MoveSpeed {
		t.Errorf("move_speed = %g, want default %g", cfg.Sim.MoveSpeed, defaults.Sim.MoveSpeed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("loading a missing file: want error, got nil")
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("loading defaults: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"decay above 1", func(c *Config) { c.Sim.Decay = 1.5 }},
		{"decay negative", func(c *Config) { c.Sim.Decay = -0.1 }},
		{"diffusion above 1", func(c *Config) { c.Sim.Diffusion = 2 }},
		{"death_rate above 1", func(c *Config) { c.Sim.DeathRate = 1.1 }},
		{"zero particles", func(c *Config) { c.Sim.NParticles = 0 }},
		{"negative particles", func(c *Config) { c.Sim.NParticles = -5 }},
		{"zero dt", func(c *Config) { c.Sim.DT = 0 }},
		{"negative move_speed", func(c *Config) { c.Sim.MoveSpeed = -1 }},
		{"negative sample_dist", func(c *Config) { c.Sim.SampleDist = -1 }},
		{"zero field width", func(c *Config) { c.Field.Width = 0 }},
	}

	for _, c := range cases {
		cfg := base()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: want error, got nil", c.name)
		}
	}
}

func TestValidateAcceptsBoundaryRates(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	cfg.Sim.Decay = 0
	cfg.Sim.Diffusion = 1
	cfg.Sim.DeathRate = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("boundary rates rejected: %v", err)
	}

	cfg.Sim.Decay = 1
	cfg.Sim.Diffusion = 0
	cfg.Sim.DeathRate = 1
	if err := cfg.Validate(); err != nil {
		t.Errorf("boundary rates rejected: %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Sim.Decay = 0.123
	cfg.Field.Width = 77

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("reloading yaml: %v", err)
	}
	if got.Sim.Decay != 0.123 {
		t.Errorf("decay = %g, want 0.123", got.Sim.Decay)
	}
	if got.Field.Width != 77 {
		t.Errorf("field width = %d, want 77", got.Field.Width)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	old := global
	global = nil
	defer func() {
		global = old
		if recover() == nil {
			t.Error("Cfg() before Init: want panic")
		}
	}()
	Cfg()
}

func TestInitSetsGlobal(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Cfg() == nil {
		t.Fatal("Cfg() returned nil after Init")
	}
}
