package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/slime/config"
	"github.com/pthm-cable/slime/sim"
)

// FitnessEvaluator runs headless simulations and scores the settled field.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// Evaluate computes fitness for a parameter vector (lower = better).
// The score is the negated coefficient of variation of the settled trail
// field averaged over seeds: a flat field scores near zero, a strongly
// networked field scores well below it.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	scores := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			scores[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, s := range scores {
		total += s
	}
	return -total / float64(len(fe.seeds))
}

// runSimulation runs one seed to maxTicks and returns the field's
// coefficient of variation.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	s := sim.New(cfg, seed)
	defer s.Unload()

	for s.Tick() < fe.maxTicks {
		s.Step()
	}

	return fieldCV(s.Field().Cells())
}

// copyConfig creates a copy of the base config for one run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// fieldCV computes the coefficient of variation (std/mean) of the field.
func fieldCV(cells []float32) float64 {
	vals := make([]float64, len(cells))
	for i, v := range cells {
		vals[i] = float64(v)
	}

	mean := stat.Mean(vals, nil)
	if mean <= 0 || math.IsNaN(mean) {
		return 0
	}
	return stat.StdDev(vals, nil) / mean
}
