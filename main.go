package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/game"
	"github.com/pthm-cable/slime/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	restorePath := flag.String("restore", "", "Snapshot file to restore state from")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	// Per-parameter overrides on top of the loaded config
	nParticles := flag.Int("n-particles", 0, "Override sim.n_particles")
	dt := flag.Float64("dt", 0, "Override sim.dt")
	moveSpeed := flag.Float64("move-speed", 0, "Override sim.move_speed")
	turnSpeed := flag.Float64("turn-speed", 0, "Override sim.turn_speed")
	sensorSpread := flag.Float64("sensor-spread", 0, "Override sim.sensor_spread")
	sampleDist := flag.Float64("sample-dist", 0, "Override sim.sample_dist")
	depositRate := flag.Float64("deposit-rate", 0, "Override sim.deposit_rate")
	decay := flag.Float64("decay", -1, "Override sim.decay")
	diffusion := flag.Float64("diffusion", -1, "Override sim.diffusion")
	deathRate := flag.Float64("death-rate", -1, "Override sim.death_rate")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Apply overrides for flags the user actually set, then re-validate.
	overridden := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n-particles":
			cfg.Sim.NParticles = *nParticles
		case "dt":
			cfg.Sim.DT = *dt
		case "move-speed":
			cfg.Sim.MoveSpeed = *moveSpeed
		case "turn-speed":
			cfg.Sim.TurnSpeed = *turnSpeed
		case "sensor-spread":
			cfg.Sim.SensorSpread = *sensorSpread
		case "sample-dist":
			cfg.Sim.SampleDist = *sampleDist
		case "deposit-rate":
			cfg.Sim.DepositRate = *depositRate
		case "decay":
			cfg.Sim.Decay = *decay
		case "diffusion":
			cfg.Sim.Diffusion = *diffusion
		case "death-rate":
			cfg.Sim.DeathRate = *deathRate
		default:
			return
		}
		overridden = true
	})
	if overridden {
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid parameter override", "error", err)
			os.Exit(1)
		}
		cfg.ComputeDerived()
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := game.NewGameWithOptions(opts)
		defer g.Unload()

		if err := restore(g, *restorePath); err != nil {
			slog.Error("failed to restore snapshot", "error", err)
			os.Exit(1)
		}

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"stats_window", statsWindowSec,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	} else {
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Slime")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		g := game.NewGameWithOptions(opts)
		defer g.Unload()

		if err := restore(g, *restorePath); err != nil {
			slog.Error("failed to restore snapshot", "error", err)
			os.Exit(1)
		}

		for !rl.WindowShouldClose() {
			g.Update()
			g.Draw()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				break
			}
		}
	}
}

// restore loads a snapshot file into the game if a path was given.
func restore(g *game.Game, path string) error {
	if path == "" {
		return nil
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := snap.RestoreInto(g.Sim()); err != nil {
		return err
	}
	slog.Info("snapshot restored", "path", path, "tick", snap.Tick)
	return nil
}
