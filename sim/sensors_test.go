package sim

import (
	"math"
	"testing"
)

func TestSteerDeltaForwardWinsTies(t *testing.T) {
	cases := []struct {
		name                string
		left, center, right float32
		want                float32
	}{
		{"all equal", 0.5, 0.5, 0.5, 0},
		{"left greatest", 0.9, 0.5, 0.5, 1},
		{"right greatest", 0.5, 0.5, 0.9, -1},
		{"center greatest", 0.5, 0.9, 0.5, 0},
		{"sides tie above center", 0.9, 0.5, 0.9, 0},
		{"left ties center", 0.9, 0.9, 0.5, 0},
		{"right ties center", 0.5, 0.9, 0.9, 0},
		{"all zero", 0, 0, 0, 0},
	}

	for _, c := range cases {
		r := Reading{Left: c.left, Center: c.center, Right: c.right}
		got := SteerDelta(r, 1, 1)
		if got != c.want {
			t.Errorf("%s: SteerDelta = %f, want %f", c.name, got, c.want)
		}
	}
}

func TestSteerDeltaScalesWithTurnSpeedAndDT(t *testing.T) {
	r := Reading{Left: 1, Center: 0, Right: 0}
	if got := SteerDelta(r, 2, 0.1); got != 0.2 {
		t.Errorf("SteerDelta = %f, want 0.2", got)
	}
	r = Reading{Left: 0, Center: 0, Right: 1}
	if got := SteerDelta(r, 2, 0.1); got != -0.2 {
		t.Errorf("SteerDelta = %f, want -0.2", got)
	}
}

// plant fills a 3x3 block so the probe reads the planted value even with the
// small error of the polynomial trig placing it slightly off-center.
func plant(f *TrailField, cx, cy int, v float32) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			f.Deposit(float32(modInt(cx+dx, f.W)), float32(modInt(cy+dy, f.H)), v)
		}
	}
}

func TestSenseProbeGeometry(t *testing.T) {
	f := NewTrailField(32, 32)

	// Agent at (16,16) heading +x with spread pi/2 and dist 4:
	// center probe at (20,16), left at (16,20), right at (16,12).
	plant(f, 20, 16, 0.3)
	plant(f, 16, 20, 0.6)
	plant(f, 16, 12, 0.9)
	f.Step(0, 0)

	r := Sense(f, 16, 16, 0, math.Pi/2, 4)

	if diff := absf(r.Center - 0.3); diff > 1e-5 {
		t.Errorf("Center = %f, want 0.3", r.Center)
	}
	if diff := absf(r.Left - 0.6); diff > 1e-5 {
		t.Errorf("Left = %f, want 0.6", r.Left)
	}
	if diff := absf(r.Right - 0.9); diff > 1e-5 {
		t.Errorf("Right = %f, want 0.9", r.Right)
	}

	if r.CenterDir != 0 {
		t.Errorf("CenterDir = %f, want 0", r.CenterDir)
	}
	if r.LeftDir != float32(math.Pi/2) {
		t.Errorf("LeftDir = %f, want pi/2", r.LeftDir)
	}
	if r.RightDir != float32(-math.Pi/2) {
		t.Errorf("RightDir = %f, want -pi/2", r.RightDir)
	}
}

func TestSenseWrapsAcrossEdge(t *testing.T) {
	f := NewTrailField(32, 32)

	// Agent near the right edge probing forward lands past x=31.
	plant(f, 1, 16, 0.8)
	f.Step(0, 0)

	r := Sense(f, 29, 16, 0, math.Pi/2, 4)
	if diff := absf(r.Center - 0.8); diff > 1e-5 {
		t.Errorf("Center across edge = %f, want 0.8", r.Center)
	}
}

func TestSenseDeterministic(t *testing.T) {
	f := NewTrailField(16, 16)
	f.Deposit(5, 5, 1.0)
	f.Deposit(10, 3, 0.7)
	f.Step(0, 0)

	a := Sense(f, 7.3, 4.1, 0.8, 0.8, 3)
	b := Sense(f, 7.3, 4.1, 0.8, 0.8, 3)
	if a != b {
		t.Errorf("Sense not deterministic: %+v vs %+v", a, b)
	}
}
