package telemetry

import (
	"strings"
	"testing"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
)

func snapshotTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Field.Width = 16
	cfg.Field.Height = 16
	cfg.Sim.NParticles = 5
	cfg.ComputeDerived()
	return cfg
}

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := snapshotTestConfig(t)

	s := sim.New(cfg, 42)
	defer s.Unload()
	for i := 0; i < 10; i++ {
		s.Step()
	}

	snap := Capture(s, 42)
	if snap.Tick != 10 {
		t.Errorf("snapshot tick = %d, want 10", snap.Tick)
	}
	if len(snap.Agents) != 5 {
		t.Errorf("snapshot agents = %d, want 5", len(snap.Agents))
	}
	if len(snap.Field) != 16*16 {
		t.Errorf("snapshot field = %d cells, want 256", len(snap.Field))
	}

	dir := t.TempDir()
	path, err := snap.Save(dir)
	if err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("snapshot path %q missing .json suffix", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}

	if loaded.Seed != 42 || loaded.Tick != 10 {
		t.Errorf("loaded header (seed %d, tick %d), want (42, 10)", loaded.Seed, loaded.Tick)
	}
	if len(loaded.Agents) != len(snap.Agents) {
		t.Fatalf("loaded agents = %d, want %d", len(loaded.Agents), len(snap.Agents))
	}
	for i := range snap.Agents {
		if loaded.Agents[i] != snap.Agents[i] {
			t.Errorf("agent %d mismatch: %+v vs %+v", i, loaded.Agents[i], snap.Agents[i])
		}
	}
	for i := range snap.Field {
		if loaded.Field[i] != snap.Field[i] {
			t.Fatalf("cell %d mismatch: %g vs %g", i, loaded.Field[i], snap.Field[i])
		}
	}
}

func TestSnapshotRestoreInto(t *testing.T) {
	cfg := snapshotTestConfig(t)

	source := sim.New(cfg, 42)
	defer source.Unload()
	for i := 0; i < 10; i++ {
		source.Step()
	}

	snap := Capture(source, 42)

	target := sim.New(cfg, 99)
	defer target.Unload()
	if err := snap.RestoreInto(target); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if target.Tick() != 10 {
		t.Errorf("restored tick = %d, want 10", target.Tick())
	}

	want := source.Agents(nil)
	got := target.Agents(nil)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("agent %d mismatch after restore: %+v vs %+v", i, got[i], want[i])
		}
	}

	srcCells := source.Field().Cells()
	dstCells := target.Field().Cells()
	for i := range srcCells {
		if dstCells[i] != srcCells[i] {
			t.Fatalf("cell %d mismatch after restore: %g vs %g", i, dstCells[i], srcCells[i])
		}
	}
}

func TestLoadSnapshotRejectsCorrupt(t *testing.T) {
	cfg := snapshotTestConfig(t)
	s := sim.New(cfg, 1)
	defer s.Unload()

	snap := Capture(s, 1)

	snap.Version = 999
	dir := t.TempDir()
	path, err := snap.Save(dir)
	if err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("loading unsupported version: want error, got nil")
	}

	snap.Version = SnapshotVersion
	snap.Field = snap.Field[:10]
	path, err = snap.Save(dir)
	if err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("loading truncated field: want error, got nil")
	}
}
