package sim

// Reading holds the three trail samples ahead of one agent, plus the
// directions they were taken in.
type Reading struct {
	Left, Center, Right          float32 // trail intensity at each probe
	LeftDir, CenterDir, RightDir float32 // probe headings in radians
}

// Sense probes the field at three points: forward, forward-left and
// forward-right of (x, y), each at distance dist along headings offset by
// spread. Probes wrap toroidally like everything else touching the field.
func Sense(field *TrailField, x, y, heading, spread, dist float32) Reading {
	l := heading + spread
	r := heading - spread

	return Reading{
		Left:      field.Sample(x+fastCos(l)*dist, y+fastSin(l)*dist),
		Center:    field.Sample(x+fastCos(heading)*dist, y+fastSin(heading)*dist),
		Right:     field.Sample(x+fastCos(r)*dist, y+fastSin(r)*dist),
		LeftDir:   l,
		CenterDir: heading,
		RightDir:  r,
	}
}

// SteerDelta returns the heading change for one tick under greedy-ascent
// steering: turn toward a side probe only when it is strictly the greatest
// of the three. Forward wins every tie, which keeps runs with a fixed seed
// reproducible.
func SteerDelta(r Reading, turnSpeed, dt float32) float32 {
	switch {
	case r.Left > r.Center && r.Left > r.Right:
		return turnSpeed * dt
	case r.Right > r.Center && r.Right > r.Left:
		return -turnSpeed * dt
	default:
		return 0
	}
}
