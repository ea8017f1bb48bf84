package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartTick()
	p.AddPhase(PhaseAgents, 2*time.Millisecond)
	p.AddPhase(PhaseField, time.Millisecond)
	p.AddPhase(PhaseField, time.Millisecond)
	p.EndTick()

	stats := p.Stats()

	if got := stats.PhaseAvg[PhaseAgents]; got != 2*time.Millisecond {
		t.Errorf("agents phase avg = %v, want 2ms", got)
	}
	if got := stats.PhaseAvg[PhaseField]; got != 2*time.Millisecond {
		t.Errorf("field phase avg = %v, want accumulated 2ms", got)
	}
	if stats.AvgTickDuration < 0 {
		t.Errorf("avg tick duration negative: %v", stats.AvgTickDuration)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(4)

	for i := 0; i < 10; i++ {
		p.StartTick()
		p.AddPhase(PhaseAgents, time.Duration(i)*time.Millisecond)
		p.EndTick()
	}

	stats := p.Stats()

	// Only the last windowSize samples contribute: ticks 6..9.
	want := (6 + 7 + 8 + 9) * time.Millisecond / 4
	if got := stats.PhaseAvg[PhaseAgents]; got != want {
		t.Errorf("rolling phase avg = %v, want %v", got, want)
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	p := NewPerfCollector(10)

	stats := p.Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats not zero: %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("empty collector returned nil maps")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	p := NewPerfCollector(10)

	p.RecordFrame()
	time.Sleep(5 * time.Millisecond)
	p.RecordFrame()

	stats := p.Stats()
	if stats.FrameDuration < 5*time.Millisecond {
		t.Errorf("frame duration = %v, want >= 5ms", stats.FrameDuration)
	}
	if stats.FPS <= 0 {
		t.Errorf("fps = %f, want > 0", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartTick()
	p.AddPhase(PhaseAgents, time.Millisecond)
	p.EndTick()

	row := p.Stats().ToCSV(42)
	if row.WindowEnd != 42 {
		t.Errorf("window end = %d, want 42", row.WindowEnd)
	}
	if row.AgentsPct <= 0 {
		t.Errorf("agents pct = %f, want > 0", row.AgentsPct)
	}
}
