package gallery

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/particles"
	"github.com/pthm-cable/pixeldust/ui"
)

// handleInput processes keyboard input and window events.
func (g *Gallery) handleInput() {
	g.handleResize()
	g.handleDroppedFiles()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyRight) {
		g.Next()
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		g.Prev()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.ToggleSpatial()
	}

	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	if g.field.State() == particles.SpatialActive {
		m := rl.GetMousePosition()
		g.field.SetSpatialPointer(float64(m.X/g.screenW), 1-float64(m.Y/g.screenH))
	}
}

// pointerOverUI reports whether the mouse is over a panel that takes input.
func (g *Gallery) pointerOverUI() bool {
	if !g.overlays.IsEnabled(ui.OverlaySliders) {
		return false
	}
	m := rl.GetMousePosition()
	return g.sliders.Contains(m.X, m.Y, int32(g.screenW))
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Gallery) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}

// handleDroppedFiles adds dropped images to the gallery and shows the first one.
func (g *Gallery) handleDroppedFiles() {
	if !rl.IsFileDropped() {
		return
	}
	first := -1
	for _, path := range rl.LoadDroppedFiles() {
		idx := g.AddSample(path, "")
		if first < 0 {
			first = idx
		}
	}
	rl.UnloadDroppedFiles()
	if first >= 0 {
		g.Goto(first)
	}
}
