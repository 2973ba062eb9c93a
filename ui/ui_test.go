package ui

import (
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/telemetry"
)

func init() {
	config.MustInit("")
}

func TestSettingsSlidersBindDistinctFields(t *testing.T) {
	var s Settings
	seen := make(map[*float32]string)
	for _, sd := range SettingsSliders() {
		p := sd.Value(&s)
		if other, dup := seen[p]; dup {
			t.Errorf("sliders %s and %s share a field", sd.ID, other)
		}
		seen[p] = sd.ID
		if sd.Min >= sd.Max {
			t.Errorf("slider %s: empty range [%v, %v]", sd.ID, sd.Min, sd.Max)
		}
	}
}

func TestSettingsSlidersCoverDefaults(t *testing.T) {
	cfg := config.Cfg()
	s := Settings{
		Spread:      float32(cfg.Defaults.Spread),
		Depth:       float32(cfg.Defaults.Depth),
		Size:        float32(cfg.Defaults.Size),
		TouchRadius: float32(cfg.Touch.Radius),
	}
	for _, sd := range SettingsSliders() {
		v := *sd.Value(&s)
		if v < sd.Min || v > sd.Max {
			t.Errorf("slider %s: default %v outside [%v, %v]", sd.ID, v, sd.Min, sd.Max)
		}
	}
}

func TestOverlayToggleAndExclusive(t *testing.T) {
	reg := NewOverlayRegistry()
	if !reg.IsEnabled(OverlayHUD) {
		t.Error("expected HUD enabled by default")
	}

	id, on, ok := reg.HandleKeyPress(rl.KeyG)
	if !ok || id != OverlaySliders || !on {
		t.Fatalf("expected G to enable sliders, got %q %v %v", id, on, ok)
	}
	reg.Toggle(OverlayPerf)
	if reg.IsEnabled(OverlaySliders) {
		t.Error("expected perf panel to close sliders")
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("expected unbound key to be ignored")
	}

	got := reg.EnabledOverlays()
	if len(got) != 2 || got[0] != OverlayHUD || got[1] != OverlayPerf {
		t.Errorf("expected [hud perf], got %v", got)
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()
	cats := reg.Categories()
	if len(cats) != 2 || cats[0] != "info" || cats[1] != "debug" {
		t.Errorf("expected [info debug], got %v", cats)
	}
	if n := len(reg.ByCategory("debug")); n != 3 {
		t.Errorf("expected 3 debug overlays, got %d", n)
	}
}

func TestHUDLines(t *testing.T) {
	tests := []struct {
		data   HUDData
		title  string
		status string
	}{
		{HUDData{Title: "Dune", Index: 2, Count: 12}, "Dune  3 / 12", ""},
		{HUDData{Title: "Solo"}, "Solo", ""},
		{HUDData{Title: "Dune", Count: 1, Spatial: true}, "Dune  1 / 1", "Spatial mode [S to exit]"},
		{HUDData{Title: "Dune", Count: 1, Spatial: true, Busy: true}, "Dune  1 / 1", "Loading..."},
	}
	for _, tc := range tests {
		if got := TitleLine(tc.data); got != tc.title {
			t.Errorf("title: expected %q, got %q", tc.title, got)
		}
		if got := StatusLine(tc.data); got != tc.status {
			t.Errorf("status: expected %q, got %q", tc.status, got)
		}
	}
}

func TestHUDSectionFields(t *testing.T) {
	data := HUDData{State: "idle", Instances: 1234, Spread: 2}
	texts := map[string]string{}
	for _, sd := range hudSections {
		for _, fd := range sd.Fields {
			if fd.Widget == WidgetText {
				texts[fd.ID] = FieldText(fd, data)
			}
		}
	}
	if texts["state"] != "idle" || texts["points"] != "1234" || texts["spread"] != "2.00" {
		t.Errorf("unexpected field texts: %v", texts)
	}

	r := NewRenderer()
	if h := r.SectionHeight(hudSections[1], data); h != 4+r.Theme.LineHeight*5+2 {
		t.Errorf("unexpected params section height %d", h)
	}
}

func TestSortedPhases(t *testing.T) {
	stats := telemetry.PerfStats{PhaseAvg: map[string]time.Duration{
		telemetry.PhaseInput:  time.Microsecond,
		telemetry.PhaseRender: 5 * time.Microsecond,
		telemetry.PhaseAdvance: 3 * time.Microsecond,
	}}
	got := SortedPhases(stats)
	want := []string{telemetry.PhaseRender, telemetry.PhaseAdvance, telemetry.PhaseInput}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSettingsPanelContains(t *testing.T) {
	p := NewSettingsPanel(260)
	x, y, w, h := p.Bounds(1280)
	if x+w != 1270 || y != 10 || h <= 0 {
		t.Fatalf("unexpected bounds %d %d %d %d", x, y, w, h)
	}
	if !p.Contains(float32(x+5), float32(y+5), 1280) {
		t.Error("expected point inside panel")
	}
	if p.Contains(640, 360, 1280) {
		t.Error("expected centre of screen outside panel")
	}
}
