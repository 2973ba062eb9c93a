package main

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/displacement"
)

func init() {
	config.MustInit("")
}

func TestYAMLParsesAsTouchConfig(t *testing.T) {
	p := TouchParams{Radius: 0.2, Decay: 0.95, MaxValue: 1.5, Strength: 12}
	var doc struct {
		Touch config.TouchConfig `yaml:"touch"`
	}
	if err := yaml.Unmarshal([]byte(p.YAML(64)), &doc); err != nil {
		t.Fatalf("parsing yaml: %v", err)
	}
	tc := doc.Touch
	if tc.Size != 64 || tc.Radius != 0.2 || tc.Decay != 0.95 || tc.MaxValue != 1.5 || tc.Strength != 12 {
		t.Errorf("unexpected touch config %+v", tc)
	}
}

func TestApplyKeepsCells(t *testing.T) {
	f := displacement.New(config.Cfg().Touch)
	f.AddImpulse(0.5, 0.5)
	before := f.Peak()

	TouchParams{Radius: 0.3, Decay: 0.9, MaxValue: 2}.apply(f)
	if f.Radius != 0.3 || f.Decay != 0.9 || f.MaxValue != 2 {
		t.Errorf("expected params applied, got radius %v decay %v max %v", f.Radius, f.Decay, f.MaxValue)
	}
	if f.Peak() != before {
		t.Errorf("expected cells untouched, peak %v -> %v", before, f.Peak())
	}
}

func TestHeatRamp(t *testing.T) {
	lo, hi := heat(-1), heat(2)
	if lo != heat(0) || hi != heat(1) {
		t.Error("expected out-of-range values clamped")
	}
	if hi.R != 255 || hi.G != 255 || hi.B != 255 {
		t.Errorf("expected white at the top, got %v", hi)
	}
	if lo.B <= lo.R {
		t.Errorf("expected blue at the bottom, got %v", lo)
	}
}

func TestYAMLLines(t *testing.T) {
	lines := strings.Split(TouchParams{}.YAML(8), "\n")
	if len(lines) != 6 || lines[0] != "touch:" || !strings.HasPrefix(lines[1], "  size:") {
		t.Errorf("unexpected lines %q", lines)
	}
}
