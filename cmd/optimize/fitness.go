package main

import (
	"math"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/displacement"
)

const (
	strokeFrames = 30 // Half a second at 60 fps
	frameDT      = 1.0 / 60
	maxFadeSec   = 30.0 // Give up measuring fade after this long
	visibleLevel = 0.1  // Fraction of MaxValue counted as visible
)

// Targets describe the desired feel of a pointer stroke.
type Targets struct {
	FadeSeconds float64 // Time for a stroke to vanish completely
	Coverage    float64 // Fraction of the grid visibly disturbed right after the stroke
	Trail       float64 // Stroke-start value relative to stroke-end value right after the stroke
}

// Metrics are what a stroke actually produced.
type Metrics struct {
	FadeSeconds float64
	Coverage    float64
	Trail       float64
}

// Measure runs a horizontal stroke across the middle of a fresh field and
// measures how it looks and fades.
func Measure(tc config.TouchConfig) Metrics {
	f := displacement.New(tc)

	for i := 0; i < strokeFrames; i++ {
		u := 0.2 + 0.6*float64(i)/float64(strokeFrames-1)
		f.AddImpulse(u, 0.5)
		f.Tick(frameDT)
	}

	var m Metrics
	n := tc.Size * tc.Size
	visible := 0
	for y := 0; y < tc.Size; y++ {
		for x := 0; x < tc.Size; x++ {
			if f.At(x, y) > visibleLevel*tc.MaxValue {
				visible++
			}
		}
	}
	m.Coverage = float64(visible) / float64(n)

	if end := f.Sample(0.8, 0.5); end > 0 {
		m.Trail = f.Sample(0.2, 0.5) / end
	}

	for f.Peak() > 0 && m.FadeSeconds < maxFadeSec {
		f.Tick(frameDT)
		m.FadeSeconds += frameDT
	}
	return m
}

// FitnessEvaluator scores parameter vectors against targets. Lower is better.
type FitnessEvaluator struct {
	params  *ParamVector
	base    config.TouchConfig
	targets Targets
	last    Metrics
}

// NewFitnessEvaluator creates an evaluator around the base touch config.
func NewFitnessEvaluator(params *ParamVector, base config.TouchConfig, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{params: params, base: base, targets: targets}
}

// Evaluate returns the summed squared relative error of the stroke metrics.
func (e *FitnessEvaluator) Evaluate(raw []float64) float64 {
	m := Measure(e.params.ApplyToTouch(e.base, raw))
	e.last = m
	return relErr(m.FadeSeconds, e.targets.FadeSeconds) +
		relErr(m.Coverage, e.targets.Coverage) +
		relErr(m.Trail, e.targets.Trail)
}

// LastMetrics returns the metrics of the most recent evaluation.
func (e *FitnessEvaluator) LastMetrics() Metrics { return e.last }

func relErr(got, want float64) float64 {
	if want == 0 {
		return got * got
	}
	d := (got - want) / want
	if math.IsNaN(d) {
		return 1e6
	}
	return d * d
}
