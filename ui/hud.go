package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Index     int // Zero-based gallery position
	Count     int
	State     string
	Spread    float64
	Depth     float64
	Size      float64
	Instances int
	Layout    string
	TouchPeak float64
	FPS       int32
	Spatial   bool
	Busy      bool // Navigation is waiting for a hide to finish
}

// hudSections describes the engine readout under the title.
var hudSections = []SectionDescriptor{
	{
		ID: "engine",
		Fields: []FieldDescriptor{
			{ID: "state", Label: "State", Widget: WidgetText, TextGetter: func(d any) string { return d.(HUDData).State }},
			{ID: "points", Label: "Points", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprintf("%d", d.(HUDData).Instances) }},
			{ID: "layout", Label: "Layout", Widget: WidgetText, TextGetter: func(d any) string { return d.(HUDData).Layout }},
			{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(d.(HUDData).FPS) }},
		},
	},
	{
		ID:    "params",
		Title: "Parameters",
		Fields: []FieldDescriptor{
			{ID: "spread", Label: "Spread", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return float32(d.(HUDData).Spread) }},
			{ID: "depth", Label: "Depth", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return float32(d.(HUDData).Depth) }},
			{ID: "size", Label: "Size", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return float32(d.(HUDData).Size) }},
			{ID: "touch", Label: "Touch", Widget: WidgetBar, Getter: func(d any) float32 { return float32(d.(HUDData).TouchPeak) }},
		},
	},
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := int32(10), int32(10)

	rl.DrawText(TitleLine(data), x, y, 20, rl.White)
	y += 26
	if status := StatusLine(data); status != "" {
		rl.DrawText(status, x, y, 14, rl.Yellow)
		y += 20
	}

	for _, sd := range hudSections {
		y = r.DrawSection(x, y, sd, data, 220)
	}
}

// TitleLine formats "Title  3 / 12".
func TitleLine(data HUDData) string {
	if data.Count == 0 {
		return data.Title
	}
	return fmt.Sprintf("%s  %d / %d", data.Title, data.Index+1, data.Count)
}

// StatusLine describes transient modes, or "" when there is nothing to say.
func StatusLine(data HUDData) string {
	switch {
	case data.Busy:
		return "Loading..."
	case data.Spatial:
		return "Spatial mode [S to exit]"
	}
	return ""
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the frame timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Draw renders the performance panel at the right edge of the screen.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, screenWidth int32) {
	r := p.renderer
	padding := r.Theme.Padding
	names := SortedPhases(stats)

	x := screenWidth - p.width - padding
	y := padding
	r.DrawPanel(x, y, p.width, int32(len(names))*14+56)

	x += padding
	y += padding
	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  FPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.FPS), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range names {
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// SortedPhases returns phase names ordered by descending average duration.
func SortedPhases(stats telemetry.PerfStats) []string {
	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := stats.PhaseAvg[names[i]], stats.PhaseAvg[names[j]]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})
	return names
}
