package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/slime/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("disabled manager: %v", err)
	}
	if om != nil {
		t.Fatal("empty dir should disable output")
	}

	// The nil manager swallows everything.
	if err := om.WriteWindow(WindowStats{}); err != nil {
		t.Errorf("nil WriteWindow: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("nil WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("creating manager: %v", err)
	}

	if err := om.WriteWindow(WindowStats{WindowEndTick: 50, TrailMean: 0.25}); err != nil {
		t.Fatalf("writing window: %v", err)
	}
	if err := om.WriteWindow(WindowStats{WindowEndTick: 100, TrailMean: 0.5}); err != nil {
		t.Fatalf("writing window: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 100); err != nil {
		t.Fatalf("writing perf: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if err := om.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "trail.csv"))
	if err != nil {
		t.Fatalf("reading trail.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("trail.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.Contains(lines[0], "window_end") {
		t.Errorf("trail.csv header missing window_end: %q", lines[0])
	}
	if !strings.Contains(lines[1], "50") {
		t.Errorf("first row missing tick 50: %q", lines[1])
	}

	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Errorf("perf.csv missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}
