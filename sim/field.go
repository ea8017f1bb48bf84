package sim

import (
	"math"
	"sync/atomic"
)

// TrailField is a toroidal float32 grid holding deposited trail intensity.
//
// Two cell buffers exist at all times: agents sense the current buffer while
// Step writes the advanced field into the spare one, then the buffers swap.
// Deposits made during a tick accumulate in a separate pending buffer and are
// folded in by Step, so no agent ever sees another agent's deposit from the
// same tick. All cell values stay >= 0.
type TrailField struct {
	W, H int

	cells []float32 // current buffer, read by Sample
	next  []float32 // spare buffer, written by Step, recycled on swap

	// Pending deposits as float32 bit patterns, accumulated with CAS so
	// concurrent agent workers never lose a deposit to the same cell.
	pending []uint32
}

// NewTrailField creates an empty w x h trail field.
func NewTrailField(w, h int) *TrailField {
	return &TrailField{
		W: w, H: h,
		cells:   make([]float32, w*h),
		next:    make([]float32, w*h),
		pending: make([]uint32, w*h),
	}
}

// Wrap maps continuous coordinates onto the torus.
func (f *TrailField) Wrap(x, y float32) (float32, float32) {
	return mod(x, float32(f.W)), mod(y, float32(f.H))
}

// Sample returns the bilinearly interpolated trail intensity at continuous
// coordinates. Out-of-bounds coordinates wrap toroidally, matching the
// movement boundary policy.
func (f *TrailField) Sample(x, y float32) float32 {
	x0f := float32(math.Floor(float64(x)))
	y0f := float32(math.Floor(float64(y)))
	tx := x - x0f
	ty := y - y0f

	x0 := modInt(int(x0f), f.W)
	y0 := modInt(int(y0f), f.H)
	x1 := modInt(x0+1, f.W)
	y1 := modInt(y0+1, f.H)

	i00 := y0*f.W + x0
	i10 := y0*f.W + x1
	i01 := y1*f.W + x0
	i11 := y1*f.W + x1

	a := f.cells[i00] + (f.cells[i10]-f.cells[i00])*tx
	b := f.cells[i01] + (f.cells[i11]-f.cells[i01])*tx
	return a + (b-a)*ty
}

// Deposit adds amount to the cell containing (x, y) in the pending buffer.
// Safe to call concurrently from multiple agent workers; simultaneous
// deposits to the same cell are both reflected.
func (f *TrailField) Deposit(x, y, amount float32) {
	if amount == 0 {
		return
	}
	xi := modInt(int(math.Floor(float64(x))), f.W)
	yi := modInt(int(math.Floor(float64(y))), f.H)
	addr := &f.pending[yi*f.W+xi]
	for {
		old := atomic.LoadUint32(addr)
		sum := math.Float32bits(math.Float32frombits(old) + amount)
		if atomic.CompareAndSwapUint32(addr, old, sum) {
			return
		}
	}
}

// Step advances the field by one tick: each cell is blended toward the
// average of its 4-neighborhood by diffusion, scaled by (1 - decay), and the
// tick's pending deposits are added on top. Deposits made this tick are
// therefore not decayed or diffused until the next tick.
//
// Both rates must be in [0,1]; callers validate at startup. Must not run
// concurrently with Deposit - it is the tick barrier.
func (f *TrailField) Step(decay, diffusion float32) {
	w, h := f.W, f.H
	keep := 1 - decay
	src, dst := f.cells, f.next

	for y := 0; y < h; y++ {
		yN := modInt(y-1, h)
		yS := modInt(y+1, h)
		for x := 0; x < w; x++ {
			xW := modInt(x-1, w)
			xE := modInt(x+1, w)

			i := y*w + x
			c := src[i]
			avg := (src[yN*w+x] + src[yS*w+x] + src[y*w+xE] + src[y*w+xW]) * 0.25

			v := (c + diffusion*(avg-c)) * keep
			v += math.Float32frombits(f.pending[i])
			if v < 0 {
				// Rounding guard; the blend itself cannot go negative.
				v = 0
			}
			dst[i] = v
		}
	}

	f.cells, f.next = dst, src
	clear(f.pending)
}

// Cells returns the current cell buffer, row-major. Read-only for callers;
// valid until the next Step.
func (f *TrailField) Cells() []float32 {
	return f.cells
}

// SetCells overwrites the current buffer, discarding pending deposits.
// Used when restoring a snapshot.
func (f *TrailField) SetCells(cells []float32) {
	copy(f.cells, cells)
	clear(f.pending)
}
