package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/camera"
	"github.com/pthm-cable/slime/sim"
)

// AgentRenderer draws agents as point sprites colored by heading. The
// discard and contrast transforms are presentation toggles only; nothing
// here feeds back into the simulation.
type AgentRenderer struct {
	// Size is the sprite edge length in screen pixels.
	Size float32

	// DiscardThreshold skips agents whose color vector magnitude falls
	// below it, masking low-signal points. Zero disables the mask.
	DiscardThreshold float32

	// Contrast applies the fixed transform color = (color - 0.1) * 1.1.
	Contrast bool
}

// NewAgentRenderer creates an agent renderer with the given presentation
// settings.
func NewAgentRenderer(size, discardThreshold float32, contrast bool) *AgentRenderer {
	return &AgentRenderer{
		Size:             size,
		DiscardThreshold: discardThreshold,
		Contrast:         contrast,
	}
}

// Draw renders every visible agent. agents is the last committed tick's
// snapshot.
func (r *AgentRenderer) Draw(agents []sim.AgentState, cam *camera.Camera) {
	rl.BeginBlendMode(rl.BlendAdditive)

	half := r.Size / 2
	for i := range agents {
		a := &agents[i]

		cr, cg, cb := headingColor(a.Heading)

		if r.DiscardThreshold > 0 {
			mag := float32(math.Sqrt(float64(cr*cr + cg*cg + cb*cb)))
			if mag < r.DiscardThreshold {
				continue
			}
		}
		if r.Contrast {
			cr = clamp01((cr - 0.1) * 1.1)
			cg = clamp01((cg - 0.1) * 1.1)
			cb = clamp01((cb - 0.1) * 1.1)
		}

		if !cam.IsVisible(a.X, a.Y, 1) {
			continue
		}
		sx, sy := cam.WorldToScreen(a.X, a.Y)

		col := rl.Color{
			R: uint8(cr * 255),
			G: uint8(cg * 255),
			B: uint8(cb * 255),
			A: 255,
		}
		rl.DrawRectangleV(rl.Vector2{X: sx - half, Y: sy - half}, rl.Vector2{X: r.Size, Y: r.Size}, col)
	}

	rl.EndBlendMode()
}

// headingColor maps a direction of travel to RGB: the unit heading vector
// spans red/green, blue balances overall brightness.
func headingColor(heading float32) (r, g, b float32) {
	vx := cosf(heading)
	vy := sinf(heading)
	r = 0.5 + 0.5*vx
	g = 0.5 + 0.5*vy
	b = 1 - 0.5*(r+g)/2
	return r, g, b
}
