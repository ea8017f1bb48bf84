package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/slime/sim"
)

func TestCollectFieldStats(t *testing.T) {
	c := NewCollector(0.1)

	cells := []float32{0, 0, 1, 1}
	agents := []sim.AgentState{
		{X: 1, Y: 1, Age: 10},
		{X: 2, Y: 2, Age: 20},
	}

	ws := c.Collect(100, cells, agents, 2, 3)

	if ws.WindowEndTick != 100 {
		t.Errorf("window end tick = %d, want 100", ws.WindowEndTick)
	}
	if math.Abs(ws.SimTimeSec-10.0) > 1e-9 {
		t.Errorf("sim time = %f, want 10.0", ws.SimTimeSec)
	}
	if ws.Agents != 2 {
		t.Errorf("agents = %d, want 2", ws.Agents)
	}
	if ws.Faults != 2 || ws.Respawns != 3 {
		t.Errorf("counters = (%d, %d), want (2, 3)", ws.Faults, ws.Respawns)
	}

	if math.Abs(ws.TrailMean-0.5) > 1e-9 {
		t.Errorf("trail mean = %f, want 0.5", ws.TrailMean)
	}
	if ws.TrailMax != 1 {
		t.Errorf("trail max = %f, want 1", ws.TrailMax)
	}
	if ws.TrailStd <= 0 {
		t.Errorf("trail std = %f, want > 0", ws.TrailStd)
	}
	if math.Abs(ws.TrailCoverage-0.5) > 1e-9 {
		t.Errorf("trail coverage = %f, want 0.5", ws.TrailCoverage)
	}
	if ws.TrailP50 > ws.TrailP90 {
		t.Errorf("p50 %f > p90 %f", ws.TrailP50, ws.TrailP90)
	}
	if ws.TrailP90 != 1 {
		t.Errorf("trail p90 = %f, want 1", ws.TrailP90)
	}

	// Mean age: (10+20)/2 ticks at dt 0.1.
	if math.Abs(ws.MeanAgeSec-1.5) > 1e-9 {
		t.Errorf("mean age = %f, want 1.5", ws.MeanAgeSec)
	}
}

func TestCollectCoverageEpsilon(t *testing.T) {
	c := NewCollector(0.1)

	// Values at or below the epsilon do not count as covered.
	cells := []float32{0, 1e-4, 0.01, 0.5}
	ws := c.Collect(1, cells, nil, 0, 0)

	if math.Abs(ws.TrailCoverage-0.5) > 1e-9 {
		t.Errorf("coverage = %f, want 0.5", ws.TrailCoverage)
	}
}

func TestCollectEmptyInputs(t *testing.T) {
	c := NewCollector(0.1)

	ws := c.Collect(1, nil, nil, 0, 0)
	if ws.Agents != 0 {
		t.Errorf("agents = %d, want 0", ws.Agents)
	}
	if ws.TrailCoverage != 0 || ws.TrailMax != 0 || ws.MeanAgeSec != 0 {
		t.Errorf("empty stats not zero: %+v", ws)
	}
}

func TestCollectReusesScratch(t *testing.T) {
	c := NewCollector(0.1)

	big := make([]float32, 1024)
	big[7] = 1
	first := c.Collect(1, big, nil, 0, 0)

	small := []float32{1, 1}
	second := c.Collect(2, small, nil, 0, 0)

	if first.TrailMax != 1 {
		t.Errorf("first max = %f, want 1", first.TrailMax)
	}
	if math.Abs(second.TrailMean-1) > 1e-9 {
		t.Errorf("scratch reuse corrupted mean: %f, want 1", second.TrailMean)
	}
}
