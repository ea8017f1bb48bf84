// Package sim implements the slime mold simulation core: agents steering
// over a shared trail field that diffuses and decays each tick.
package sim

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slime/components"
	"github.com/pthm-cable/slime/config"
)

// Params holds the runtime simulation rates as float32. They start as a copy
// of the validated config and may be replaced between ticks (the UI sliders
// do this); the config itself is never mutated.
type Params struct {
	DT           float32
	MoveSpeed    float32
	TurnSpeed    float32
	SensorSpread float32
	SampleDist   float32
	DepositRate  float32
	Decay        float32
	Diffusion    float32
	DeathRate    float32
}

// ParamsFromConfig converts the validated config rates to runtime params.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		DT:           float32(cfg.Sim.DT),
		MoveSpeed:    float32(cfg.Sim.MoveSpeed),
		TurnSpeed:    float32(cfg.Sim.TurnSpeed),
		SensorSpread: float32(cfg.Sim.SensorSpread),
		SampleDist:   float32(cfg.Sim.SampleDist),
		DepositRate:  float32(cfg.Sim.DepositRate),
		Decay:        float32(cfg.Sim.Decay),
		Diffusion:    float32(cfg.Sim.Diffusion),
		DeathRate:    float32(cfg.Sim.DeathRate),
	}
}

// TickTiming records how long the phases of the last tick took.
type TickTiming struct {
	Snapshot time.Duration // ECS read into flat snapshots
	Agents   time.Duration // sense/steer/move/deposit + write-back
	Field    time.Duration // diffusion/decay pass
}

// Simulation owns the agents, the trail field and the per-tick pipeline.
//
// A tick is atomic from the outside: agents all sense the same pre-tick
// field, deposits accumulate separately, and the field advances exactly once
// after the last deposit. Observers only ever see fully committed ticks.
type Simulation struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Heading, components.Age]
	filter *ecs.Filter3[components.Position, components.Heading, components.Age]

	posMap  *ecs.Map1[components.Position]
	headMap *ecs.Map1[components.Heading]
	ageMap  *ecs.Map1[components.Age]

	field    *TrailField
	factory  *Factory
	rng      *rand.Rand
	params   Params
	parallel *parallelState

	tick    int32
	stopped atomic.Bool
	timing  TickTiming

	// Counters since the last TakeCounters call
	faults   int
	respawns int
}

// New creates a simulation from a validated config and spawns
// cfg.Sim.NParticles agents with the seeded factory. The engine itself also
// tolerates an empty agent set.
func New(cfg *config.Config, seed int64) *Simulation {
	world := ecs.NewWorld()

	s := &Simulation{
		world:    world,
		mapper:   ecs.NewMap3[components.Position, components.Heading, components.Age](world),
		filter:   ecs.NewFilter3[components.Position, components.Heading, components.Age](world),
		posMap:   ecs.NewMap1[components.Position](world),
		headMap:  ecs.NewMap1[components.Heading](world),
		ageMap:   ecs.NewMap1[components.Age](world),
		rng:      rand.New(rand.NewSource(seed)),
		parallel: newParallelState(),
	}

	s.field = NewTrailField(cfg.Field.Width, cfg.Field.Height)
	s.factory = NewFactory(cfg.Field.Width, cfg.Field.Height, s.rng)
	s.params = ParamsFromConfig(cfg)

	for i := 0; i < cfg.Sim.NParticles; i++ {
		pos, heading := s.factory.Spawn()
		age := components.Age{}
		s.mapper.NewEntity(&pos, &heading, &age)
	}

	return s
}

// Step runs one tick: snapshot agents, run sense/steer/move/deposit (in
// parallel above the threshold), apply intents, then advance the field.
// Returns false without doing anything once Stop has been called, so a
// shutdown request lands between ticks, never inside one.
func (s *Simulation) Step() bool {
	if s.stopped.Load() {
		return false
	}

	t0 := time.Now()
	s.buildSnapshots()
	t1 := time.Now()

	n := len(s.parallel.snapshots)
	if n > 0 {
		if n < parallelThreshold {
			s.computeChunk(0, n)
		} else {
			s.computeParallel(n)
		}
		s.applyIntents()
	}
	t2 := time.Now()

	// Tick barrier: every deposit for this tick has been applied.
	s.field.Step(s.params.Decay, s.params.Diffusion)
	s.tick++
	t3 := time.Now()

	s.timing = TickTiming{Snapshot: t1.Sub(t0), Agents: t2.Sub(t1), Field: t3.Sub(t2)}
	return true
}

// buildSnapshots copies agent state out of the ECS for the parallel phase.
func (s *Simulation) buildSnapshots() {
	s.parallel.snapshots = s.parallel.snapshots[:0]

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, head, _ := query.Get()
		s.parallel.snapshots = append(s.parallel.snapshots, agentSnapshot{
			entity:  entity,
			pos:     *pos,
			heading: head.Radians,
		})
	}

	n := len(s.parallel.snapshots)
	if cap(s.parallel.intents) < n {
		s.parallel.intents = make([]agentIntent, n)
	}
	s.parallel.intents = s.parallel.intents[:n]
}

// computeChunk processes a range of agents. Runs on worker goroutines; reads
// only the immutable snapshot and the pre-tick field, writes only this
// chunk's intents and the atomic deposit buffer.
func (s *Simulation) computeChunk(i0, i1 int) {
	p := s.params
	step := p.MoveSpeed * p.DT
	deposit := p.DepositRate * p.DT

	for i := i0; i < i1; i++ {
		snap := &s.parallel.snapshots[i]

		h := snap.heading
		fault := false
		if !finite(h) {
			// Degenerate trig upstream; recover the agent instead of
			// poisoning the tick.
			h = 0
			fault = true
		}

		r := Sense(s.field, snap.pos.X, snap.pos.Y, h, p.SensorSpread, p.SampleDist)
		h += SteerDelta(r, p.TurnSpeed, p.DT)

		x := snap.pos.X + fastCos(h)*step
		y := snap.pos.Y + fastSin(h)*step
		if !finite(x) || !finite(y) {
			s.parallel.intents[i] = agentIntent{fault: true, respawn: true}
			continue
		}
		x, y = s.field.Wrap(x, y)

		s.field.Deposit(x, y, deposit)

		s.parallel.intents[i] = agentIntent{
			x:       x,
			y:       y,
			heading: normalizeAngle(h),
			fault:   fault,
		}
	}
}

// applyIntents writes computed results back to the ECS. Single-threaded, and
// the only phase that touches the main rng, which keeps seeded runs
// reproducible regardless of worker count.
func (s *Simulation) applyIntents() {
	deathP := s.params.DeathRate * s.params.DT

	for i := range s.parallel.snapshots {
		snap := &s.parallel.snapshots[i]
		in := &s.parallel.intents[i]

		pos := s.posMap.Get(snap.entity)
		head := s.headMap.Get(snap.entity)
		age := s.ageMap.Get(snap.entity)
		if pos == nil || head == nil || age == nil {
			continue
		}

		if in.fault {
			s.faults++
		}

		respawn := in.respawn
		if deathP > 0 && s.rng.Float32() < deathP {
			respawn = true
		}
		if respawn {
			p, h := s.factory.Spawn()
			*pos = p
			*head = h
			age.Ticks = 0
			s.respawns++
			continue
		}

		pos.X, pos.Y = in.x, in.y
		head.Radians = in.heading
		age.Ticks++
	}
}

// Agents appends a flat copy of every agent to buf and returns it. The
// result reflects the last committed tick.
func (s *Simulation) Agents(buf []AgentState) []AgentState {
	buf = buf[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, head, age := query.Get()
		buf = append(buf, AgentState{X: pos.X, Y: pos.Y, Heading: head.Radians, Age: age.Ticks})
	}
	return buf
}

// Restore overwrites agent and field state, e.g. from a saved snapshot. The
// agent count must match the simulation's population and the cell slice must
// match the field size.
func (s *Simulation) Restore(agents []AgentState, cells []float32, tick int32) error {
	var entities []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	if len(entities) != len(agents) {
		return fmt.Errorf("restore: have %d agents, snapshot has %d", len(entities), len(agents))
	}
	if cells != nil && len(cells) != s.field.W*s.field.H {
		return fmt.Errorf("restore: field size mismatch: have %d cells, snapshot has %d",
			s.field.W*s.field.H, len(cells))
	}

	for i, entity := range entities {
		a := agents[i]
		pos := s.posMap.Get(entity)
		head := s.headMap.Get(entity)
		age := s.ageMap.Get(entity)
		pos.X, pos.Y = a.X, a.Y
		head.Radians = a.Heading
		age.Ticks = a.Age
	}
	if cells != nil {
		s.field.SetCells(cells)
	}
	s.tick = tick
	return nil
}

// Stop requests a halt. The current tick, if any, completes; Step then
// becomes a no-op.
func (s *Simulation) Stop() {
	s.stopped.Store(true)
}

// Running reports whether the simulation will accept further ticks.
func (s *Simulation) Running() bool {
	return !s.stopped.Load()
}

// Tick returns the number of committed ticks.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Field returns the trail field. Callers must treat it as read-only between
// their own calls to Step.
func (s *Simulation) Field() *TrailField {
	return s.field
}

// Params returns the current runtime rates.
func (s *Simulation) Params() Params {
	return s.params
}

// SetParams replaces the runtime rates. Call only between ticks; decay and
// diffusion must stay in [0,1].
func (s *Simulation) SetParams(p Params) {
	s.params = p
}

// Timing returns the phase durations of the last tick.
func (s *Simulation) Timing() TickTiming {
	return s.timing
}

// TakeCounters returns and resets the fault and respawn counters.
func (s *Simulation) TakeCounters() (faults, respawns int) {
	faults, respawns = s.faults, s.respawns
	s.faults, s.respawns = 0, 0
	return faults, respawns
}

// Unload stops the worker pool. The simulation is unusable afterwards.
func (s *Simulation) Unload() {
	s.parallel.stopWorkers()
}
