package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/slime/sim"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for replay and offline
// rendering.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	FieldW int `json:"field_w"`
	FieldH int `json:"field_h"`

	Agents []sim.AgentState `json:"agents"`
	Field  []float32        `json:"field"`
}

// Capture copies the full state of the simulation. Call between ticks.
func Capture(s *sim.Simulation, seed int64) *Snapshot {
	field := s.Field()
	cells := make([]float32, len(field.Cells()))
	copy(cells, field.Cells())

	return &Snapshot{
		Version: SnapshotVersion,
		Seed:    seed,
		Tick:    s.Tick(),
		FieldW:  field.W,
		FieldH:  field.H,
		Agents:  s.Agents(nil),
		Field:   cells,
	}
}

// Save writes the snapshot as JSON into dir and returns the file path.
func (s *Snapshot) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%08d.json", s.Tick))
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot file written by Save.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported (want %d)", snap.Version, SnapshotVersion)
	}
	if len(snap.Field) != snap.FieldW*snap.FieldH {
		return nil, fmt.Errorf("snapshot field has %d cells, header says %dx%d",
			len(snap.Field), snap.FieldW, snap.FieldH)
	}
	return snap, nil
}

// RestoreInto loads the snapshot's agents, field and tick into a simulation.
func (s *Snapshot) RestoreInto(target *sim.Simulation) error {
	return target.Restore(s.Agents, s.Field, s.Tick)
}
