package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/pixeldust/config"
)

func init() {
	config.MustInit("")
}

func TestMeasureDecayLengthensFade(t *testing.T) {
	tc := config.Cfg().Touch
	tc.Decay = 0.88
	short := Measure(tc)
	tc.Decay = 0.98
	long := Measure(tc)

	if short.FadeSeconds <= 0 {
		t.Fatalf("expected stroke to take time to fade, got %v", short.FadeSeconds)
	}
	if long.FadeSeconds <= short.FadeSeconds {
		t.Errorf("expected slower decay to fade later: %v vs %v", long.FadeSeconds, short.FadeSeconds)
	}
	if long.Trail <= short.Trail {
		t.Errorf("expected slower decay to keep more trail: %v vs %v", long.Trail, short.Trail)
	}
}

func TestMeasureRadiusWidensCoverage(t *testing.T) {
	tc := config.Cfg().Touch
	tc.Radius = 0.05
	narrow := Measure(tc)
	tc.Radius = 0.25
	wide := Measure(tc)

	if narrow.Coverage <= 0 || wide.Coverage > 1 {
		t.Fatalf("coverage out of range: narrow %v wide %v", narrow.Coverage, wide.Coverage)
	}
	if wide.Coverage <= narrow.Coverage {
		t.Errorf("expected larger radius to cover more: %v vs %v", wide.Coverage, narrow.Coverage)
	}
}

func TestEvaluateZeroAtOwnMetrics(t *testing.T) {
	params := NewParamVector()
	base := config.Cfg().Touch
	raw := params.ExtractFromConfig(config.Cfg())
	m := Measure(params.ApplyToTouch(base, raw))

	e := NewFitnessEvaluator(params, base, Targets{FadeSeconds: m.FadeSeconds, Coverage: m.Coverage, Trail: m.Trail})
	if got := e.Evaluate(raw); got > 1e-12 {
		t.Errorf("expected zero error against own metrics, got %v", got)
	}

	off := append([]float64(nil), raw...)
	off[0] = params.Specs[0].Min
	if got := e.Evaluate(off); got <= 0 {
		t.Errorf("expected positive error for different decay, got %v", got)
	}
}

func TestParamVectorBounds(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: expected %v after normalize round trip, got %v", pv.Specs[i].Name, def[i], back[i])
		}
	}

	tc := pv.ApplyToTouch(config.Cfg().Touch, []float64{2, -1, 1.5})
	if tc.Decay != 0.99 || tc.Radius != 0.05 || tc.MaxValue != 1.5 {
		t.Errorf("expected clamped values, got decay %v radius %v max %v", tc.Decay, tc.Radius, tc.MaxValue)
	}
}
