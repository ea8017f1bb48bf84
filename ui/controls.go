package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/renderer"
	"github.com/pthm-cable/slime/sim"
)

// ControlsPanel edits the live simulation rates and the renderer's
// presentation toggles. Slider changes take effect on the next tick; the
// loaded config is never touched.
type ControlsPanel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewControlsPanel creates a hidden controls panel anchored at (x, y).
func NewControlsPanel(x, y, width float32) *ControlsPanel {
	return &ControlsPanel{x: x, y: y, width: width}
}

// Toggle switches panel visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the panel and applies slider values. Returns true if any
// simulation rate changed.
func (c *ControlsPanel) Draw(p *sim.Params, agents *renderer.AgentRenderer) bool {
	if !c.visible {
		return false
	}

	panelH := float32(9*38 + 60)
	rl.DrawRectangle(int32(c.x-10), int32(c.y-10), int32(c.width+20), int32(panelH), rl.Color{R: 0, G: 0, B: 0, A: 180})
	rl.DrawText("Parameters [c]", int32(c.x), int32(c.y), 18, rl.White)

	y := c.y + 30
	changed := false

	slider := func(label string, v *float32, min, max float32) {
		rl.DrawText(label, int32(c.x), int32(y), 14, rl.Gray)
		got := gui.SliderBar(
			rl.Rectangle{X: c.x, Y: y + 16, Width: c.width - 60, Height: 16},
			"", fmt.Sprintf("%.3f", *v),
			*v, min, max,
		)
		if got != *v {
			*v = got
			changed = true
		}
		y += 38
	}

	slider("decay (per tick)", &p.Decay, 0, 1)
	slider("diffusion", &p.Diffusion, 0, 1)
	slider("turn speed (rad/s)", &p.TurnSpeed, 0, 6)
	slider("sensor spread (rad)", &p.SensorSpread, 0, 2)
	slider("sample dist", &p.SampleDist, 0, 16)
	slider("move speed", &p.MoveSpeed, 0, 8)
	slider("deposit rate", &p.DepositRate, 0, 4)

	// Presentation toggles; these never affect the simulation.
	rl.DrawText("discard threshold", int32(c.x), int32(y), 14, rl.Gray)
	agents.DiscardThreshold = gui.SliderBar(
		rl.Rectangle{X: c.x, Y: y + 16, Width: c.width - 60, Height: 16},
		"", fmt.Sprintf("%.2f", agents.DiscardThreshold),
		agents.DiscardThreshold, 0, 1,
	)
	y += 38

	agents.Contrast = gui.CheckBox(
		rl.Rectangle{X: c.x, Y: y, Width: 16, Height: 16},
		"contrast transform", agents.Contrast,
	)

	return changed
}
