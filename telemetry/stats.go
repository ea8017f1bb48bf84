// Package telemetry collects window statistics, performance metrics and
// snapshots from the running simulation.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/slime/sim"
)

// coverageEpsilon is the intensity above which a cell counts as covered.
const coverageEpsilon = 1e-3

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	Agents   int `csv:"agents"`
	Faults   int `csv:"faults"`
	Respawns int `csv:"respawns"`

	// Trail field distribution at window end
	TrailMean     float64 `csv:"trail_mean"`
	TrailStd      float64 `csv:"trail_std"`
	TrailMax      float64 `csv:"trail_max"`
	TrailP50      float64 `csv:"trail_p50"`
	TrailP90      float64 `csv:"trail_p90"`
	TrailCoverage float64 `csv:"trail_coverage"` // fraction of cells above epsilon

	MeanAgeSec float64 `csv:"mean_age_sec"`
}

// Collector computes window stats, reusing scratch buffers across windows.
type Collector struct {
	dt      float64
	scratch []float64
}

// NewCollector creates a stats collector. dt is simulated seconds per tick,
// used to convert tick counts to time.
func NewCollector(dt float64) *Collector {
	return &Collector{dt: dt}
}

// Collect computes stats over the current field and agent set. faults and
// respawns are the counts accumulated since the previous window.
func (c *Collector) Collect(tick int32, cells []float32, agents []sim.AgentState, faults, respawns int) WindowStats {
	ws := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    float64(tick) * c.dt,
		Agents:        len(agents),
		Faults:        faults,
		Respawns:      respawns,
	}

	if cap(c.scratch) < len(cells) {
		c.scratch = make([]float64, len(cells))
	}
	vals := c.scratch[:len(cells)]

	covered := 0
	maxV := 0.0
	for i, v := range cells {
		f := float64(v)
		vals[i] = f
		if f > coverageEpsilon {
			covered++
		}
		if f > maxV {
			maxV = f
		}
	}

	ws.TrailMean = stat.Mean(vals, nil)
	ws.TrailStd = stat.StdDev(vals, nil)
	ws.TrailMax = maxV
	if len(cells) > 0 {
		ws.TrailCoverage = float64(covered) / float64(len(cells))
	}

	// Quantiles need a sorted copy; reuse the scratch in place.
	sort.Float64s(vals)
	if len(vals) > 0 {
		ws.TrailP50 = stat.Quantile(0.50, stat.Empirical, vals, nil)
		ws.TrailP90 = stat.Quantile(0.90, stat.Empirical, vals, nil)
	}

	if len(agents) > 0 {
		var ageSum float64
		for i := range agents {
			ageSum += float64(agents[i].Age)
		}
		ws.MeanAgeSec = ageSum / float64(len(agents)) * c.dt
	}

	return ws
}

// LogStats logs the window via slog.
func (ws WindowStats) LogStats() {
	slog.Info("window",
		"tick", ws.WindowEndTick,
		"sim_time", ws.SimTimeSec,
		"agents", ws.Agents,
		"faults", ws.Faults,
		"respawns", ws.Respawns,
		"trail_mean", ws.TrailMean,
		"trail_std", ws.TrailStd,
		"trail_max", ws.TrailMax,
		"trail_coverage", ws.TrailCoverage,
		"mean_age_sec", ws.MeanAgeSec,
	)
}
