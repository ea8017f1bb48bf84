package sim

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/slime/components"
)

// AgentState is a flat copy of one agent, used for renderer snapshots,
// telemetry and state restore.
type AgentState struct {
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Heading float32 `json:"heading"`
	Age     uint32  `json:"age"`
}

// Factory spawns agents at seeded-random positions and headings.
type Factory struct {
	w, h float32
	rng  *rand.Rand
}

// NewFactory creates a factory spawning into a w x h field using the given
// rng. The rng is shared with the simulation's apply phase and must only be
// used single-threaded.
func NewFactory(w, h int, rng *rand.Rand) *Factory {
	return &Factory{w: float32(w), h: float32(h), rng: rng}
}

// Spawn produces a fresh agent with uniform random position and heading.
func (f *Factory) Spawn() (components.Position, components.Heading) {
	pos := components.Position{
		X: f.rng.Float32() * f.w,
		Y: f.rng.Float32() * f.h,
	}
	heading := components.Heading{
		Radians: normalizeAngle(f.rng.Float32() * 2 * math.Pi),
	}
	return pos, heading
}
