// Package components defines the ECS components attached to slime agents.
package components

// Position is an agent location in field coordinates.
type Position struct {
	X, Y float32
}

// Heading is an agent direction of travel in radians, kept in [-pi, pi].
type Heading struct {
	Radians float32
}

// Age counts ticks since the agent was last spawned or respawned.
type Age struct {
	Ticks uint32
}
