// Package ui renders the HUD and the live parameter controls.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the values the HUD displays each frame.
type HUDData struct {
	Tick      int32
	Agents    int
	Speed     int
	Paused    bool
	TicksPerS float64
	TrailMean float64
	TrailMax  float64
}

// HUD draws the status overlay in the top-left corner.
type HUD struct {
	x, y int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{x: x, y: y}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawRectangle(h.x-4, h.y-4, 250, 112, rl.Color{R: 0, G: 0, B: 0, A: 160})

	y := h.y
	rl.DrawText(fmt.Sprintf("Tick: %d", data.Tick), h.x, y, 20, rl.White)
	y += 25
	rl.DrawText(fmt.Sprintf("Agents: %d  Speed: %dx [</>]", data.Agents, data.Speed), h.x, y, 20, rl.White)
	y += 25
	rl.DrawText(fmt.Sprintf("TPS: %.0f  FPS: %d", data.TicksPerS, rl.GetFPS()), h.x, y, 20, rl.White)
	y += 25
	rl.DrawText(fmt.Sprintf("Trail mean %.3f max %.2f", data.TrailMean, data.TrailMax), h.x, y, 20, rl.Gray)
	y += 25
	if data.Paused {
		rl.DrawText("PAUSED [space]  step [n]", h.x, y, 20, rl.Yellow)
	}
}
