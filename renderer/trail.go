// Package renderer draws the trail field and the agent set with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/camera"
)

// TrailRenderer uploads the trail field into a grayscale texture each frame
// and draws it tiled under the camera, so pan and zoom wrap seamlessly.
type TrailRenderer struct {
	tex    rl.Texture2D
	pixels []rl.Color
	w, h   int

	// Gain multiplies trail intensity before it is mapped to brightness.
	Gain float32
}

// NewTrailRenderer creates the field texture. Requires a live window.
func NewTrailRenderer(w, h int, gain float32) *TrailRenderer {
	img := rl.GenImageColor(w, h, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	return &TrailRenderer{
		tex:    tex,
		pixels: make([]rl.Color, w*h),
		w:      w,
		h:      h,
		Gain:   gain,
	}
}

// Update re-uploads the field into the texture. cells is row-major w*h.
func (r *TrailRenderer) Update(cells []float32) {
	for i, v := range cells {
		g := v * r.Gain * 255
		if g > 255 {
			g = 255
		} else if g < 0 {
			g = 0
		}
		b := uint8(g)
		r.pixels[i] = rl.Color{R: b, G: b, B: b, A: 255}
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the field under the camera, tiling copies so the toroidal
// world has no visible seam.
func (r *TrailRenderer) Draw(cam *camera.Camera) {
	scale := cam.Zoom
	wpx := float32(r.w) * scale
	hpx := float32(r.h) * scale

	sx, sy := cam.WorldToScreen(0, 0)
	for sx > 0 {
		sx -= wpx
	}
	for sy > 0 {
		sy -= hpx
	}

	for y := sy; y < cam.ViewportH; y += hpx {
		for x := sx; x < cam.ViewportW; x += wpx {
			rl.DrawTextureEx(r.tex, rl.Vector2{X: x, Y: y}, 0, scale, rl.White)
		}
	}
}

// Unload releases the texture.
func (r *TrailRenderer) Unload() {
	rl.UnloadTexture(r.tex)
}

// clamp01 restricts a value to [0, 1].
func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// cosf and sinf are float32 wrappers; the renderer is not hot enough to need
// the sim package's polynomial approximations.
func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }
func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
