// Package game wires the simulation core to rendering, input and telemetry.
package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/camera"
	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/renderer"
	"github.com/pthm-cable/slime/sim"
	"github.com/pthm-cable/slime/telemetry"
	"github.com/pthm-cable/slime/ui"
)

// Options configures game creation.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the simulation and everything around it.
type Game struct {
	sim  *sim.Simulation
	seed int64

	// Rendering (nil in headless mode)
	camera   *camera.Camera
	trail    *renderer.TrailRenderer
	agents   *renderer.AgentRenderer
	hud      *ui.HUD
	controls *ui.ControlsPanel

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	windowTicks   int32
	lastStats     telemetry.WindowStats

	logStats    bool
	snapshotDir string

	stepsPerUpdate int
	paused         bool
	stepOnce       bool
	headless       bool

	// Scratch buffers reused across windows and frames
	agentBuf []sim.AgentState

	// Render time of the previous frame, folded into the next tick's perf
	// sample since rendering happens between ticks.
	pendingRenderDur time.Duration
}

// NewGameWithOptions creates a game instance. In graphical mode the raylib
// window must already be open.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindowSec := opts.StatsWindowSec
	if statsWindowSec <= 0 {
		statsWindowSec = cfg.Telemetry.StatsWindow
	}
	windowTicks := int32(statsWindowSec / cfg.Sim.DT)
	if windowTicks < 1 {
		windowTicks = 1
	}

	g := &Game{
		sim:            sim.New(cfg, opts.Seed),
		seed:           opts.Seed,
		collector:      telemetry.NewCollector(cfg.Sim.DT),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		windowTicks:    windowTicks,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		stepsPerUpdate: opts.StepsPerUpdate,
		headless:       opts.Headless,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else {
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	if !opts.Headless {
		g.camera = camera.New(
			cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
			cfg.Derived.FieldW32, cfg.Derived.FieldH32,
		)
		g.trail = renderer.NewTrailRenderer(
			cfg.Field.Width, cfg.Field.Height,
			float32(cfg.Render.TrailGain),
		)
		g.agents = renderer.NewAgentRenderer(
			float32(cfg.Render.AgentSize),
			float32(cfg.Render.DiscardThreshold),
			cfg.Render.Contrast,
		)
		g.hud = ui.NewHUD(10, 10)
		g.controls = ui.NewControlsPanel(cfg.Derived.ScreenW32-260, 10, 240)
	}

	return g
}

// Update runs input handling and simulation steps for one frame.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		if !g.stepOnce {
			return
		}
		g.stepOnce = false
		g.step()
	} else {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step()
		}
	}

	if g.trail != nil {
		g.trail.Update(g.sim.Field().Cells())
	}
}

// UpdateHeadless runs simulation steps with no input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one simulation tick plus telemetry around it.
func (g *Game) step() {
	g.perfCollector.StartTick()
	if g.pendingRenderDur > 0 {
		g.perfCollector.AddPhase(telemetry.PhaseRender, g.pendingRenderDur)
		g.pendingRenderDur = 0
	}

	if !g.sim.Step() {
		g.perfCollector.EndTick()
		return
	}

	timing := g.sim.Timing()
	g.perfCollector.AddPhase(telemetry.PhaseSnapshot, timing.Snapshot)
	g.perfCollector.AddPhase(telemetry.PhaseAgents, timing.Agents)
	g.perfCollector.AddPhase(telemetry.PhaseField, timing.Field)

	if g.sim.Tick()%g.windowTicks == 0 {
		t0 := time.Now()
		g.flushTelemetry()
		g.perfCollector.AddPhase(telemetry.PhaseTelemetry, time.Since(t0))
	}

	g.perfCollector.EndTick()
}

// flushTelemetry computes window stats and pushes them to the log and CSVs.
func (g *Game) flushTelemetry() {
	g.agentBuf = g.sim.Agents(g.agentBuf)
	faults, respawns := g.sim.TakeCounters()

	stats := g.collector.Collect(g.sim.Tick(), g.sim.Field().Cells(), g.agentBuf, faults, respawns)
	g.lastStats = stats
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteWindow(stats); err != nil {
		slog.Error("failed to write window stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// saveSnapshot writes the full simulation state to the snapshot directory.
func (g *Game) saveSnapshot() {
	dir := g.snapshotDir
	if dir == "" {
		dir = "snapshots"
	}

	snap := telemetry.Capture(g.sim, g.seed)
	path, err := snap.Save(dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", snap.Tick)
}

// Draw renders one frame. Graphical mode only.
func (g *Game) Draw() {
	t0 := time.Now()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.trail.Draw(g.camera)

	g.agentBuf = g.sim.Agents(g.agentBuf)
	g.agents.Draw(g.agentBuf, g.camera)

	perfStats := g.perfCollector.Stats()
	g.hud.Draw(ui.HUDData{
		Tick:      g.sim.Tick(),
		Agents:    len(g.agentBuf),
		Speed:     g.stepsPerUpdate,
		Paused:    g.paused,
		TicksPerS: perfStats.TicksPerSecond,
		TrailMean: g.lastStats.TrailMean,
		TrailMax:  g.lastStats.TrailMax,
	})

	p := g.sim.Params()
	if g.controls.Draw(&p, g.agents) {
		g.sim.SetParams(p)
	}

	rl.EndDrawing()

	g.perfCollector.RecordFrame()
	g.pendingRenderDur = time.Since(t0)
}

// Sim exposes the simulation, e.g. for snapshot restore at startup.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// Tick returns the number of committed simulation ticks.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Unload flushes outputs and releases all resources.
func (g *Game) Unload() {
	g.sim.Stop()
	g.sim.Unload()

	if g.trail != nil {
		g.trail.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output manager", "error", err)
	}
}
