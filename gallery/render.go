package gallery

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/particles"
	"github.com/pthm-cable/pixeldust/renderer"
	"github.com/pthm-cable/pixeldust/telemetry"
	"github.com/pthm-cable/pixeldust/ui"
)

const controlsLegend = "Left/Right image   S spatial   G sliders   O overlays   F11 fullscreen"

// Draw renders the frame. Window mode only.
func (g *Gallery) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.cloud.Draw(g.cam, g.field.Uniforms())

	if g.overlays.IsEnabled(ui.OverlaySurface) && g.field.Built() {
		renderer.DrawPlaneOutline(g.cam, g.field.Surface())
	}
	g.drawUI()

	rl.EndDrawing()

	g.perf.EndTick()
}

func (g *Gallery) drawUI() {
	sw, sh := int32(g.screenW), int32(g.screenH)

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(g.hudData())
		g.hud.DrawControls(sh, controlsLegend)
	}
	if g.overlays.IsEnabled(ui.OverlayLegend) {
		g.legend.Draw(g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayTouch) {
		g.cloud.DrawTouchPreview(sw-138, sh-170, 128)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfUI.Draw(g.perf.Stats(), sw)
	}
	if g.overlays.IsEnabled(ui.OverlaySliders) {
		s := g.settings
		if g.sliders.Draw(&s, sw) {
			g.ApplySettings(s)
		}
	}
}

func (g *Gallery) hudData() ui.HUDData {
	cur := g.field.Current()
	data := ui.HUDData{
		Title:     g.title(),
		Index:     g.index,
		Count:     len(g.images),
		State:     g.field.State().String(),
		Spread:    cur.Spread,
		Depth:     cur.Depth,
		Size:      cur.Size,
		Layout:    g.field.Layout().String(),
		TouchPeak: g.field.Touch().Peak(),
		FPS:       rl.GetFPS(),
		Spatial:   g.field.State() == particles.SpatialActive,
		Busy:      g.Busy(),
	}
	if inst := g.field.Instances(); inst != nil {
		data.Instances = inst.Len()
	}
	return data
}

// title returns the display name of the current image.
func (g *Gallery) title() string {
	if g.index < 0 || g.index >= len(g.images) {
		return "pixeldust"
	}
	if name := g.images[g.index].Name; name != "" {
		return name
	}
	return g.images[g.index].Source
}
