// Touch field preview tool - paint impulses with the mouse and tune decay with sliders.
//
// Usage: go run ./cmd/touchpreview
package main

import (
	"fmt"
	"image/color"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/displacement"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// TouchParams holds the tunable touch settings.
type TouchParams struct {
	Radius   float32
	Decay    float32
	MaxValue float32
	Strength float32
}

func paramsFrom(tc config.TouchConfig) TouchParams {
	return TouchParams{
		Radius:   float32(tc.Radius),
		Decay:    float32(tc.Decay),
		MaxValue: float32(tc.MaxValue),
		Strength: float32(tc.Strength),
	}
}

// apply copies the slider values onto a field without clearing it.
func (p TouchParams) apply(f *displacement.Field) {
	f.SetRadius(float64(p.Radius))
	f.Decay = float64(p.Decay)
	f.MaxValue = float64(p.MaxValue)
}

// YAML renders the params as a touch config section.
func (p TouchParams) YAML(size int) string {
	return fmt.Sprintf(`touch:
  size: %d
  radius: %.3f
  max_value: %.2f
  decay: %.3f
  strength: %.1f`, size, p.Radius, p.MaxValue, p.Decay, p.Strength)
}

func main() {
	config.MustInit("")
	defaults := config.Cfg().Touch

	rl.InitWindow(windowWidth, windowHeight, "Touch Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := paramsFrom(defaults)
	field := displacement.New(defaults)
	size := field.Size

	img := rl.GenImageColor(size, size, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(texture, rl.FilterBilinear)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, size*size)

	paused := false
	preview := rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize}

	for !rl.WindowShouldClose() {
		// Paint while the left button is held over the preview
		mouse := rl.GetMousePosition()
		if rl.IsMouseButtonDown(rl.MouseLeftButton) && rl.CheckCollisionPointRec(mouse, preview) {
			u := float64((mouse.X - preview.X) / preview.Width)
			v := 1 - float64((mouse.Y-preview.Y)/preview.Height)
			field.AddImpulse(u, v)
		}

		if !paused {
			field.Tick(float64(rl.GetFrameTime()))
		}
		updateTexture(texture, field, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Row 0 is v = 0, so draw with a negative source height
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(size), Height: -float32(size)},
			preview,
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Peak: %.3f  Energy: %.2f", field.Peak(), field.Energy()), 15, statsY, 16, rl.DarkGray)
		fade := float64(field.TicksToZero()) / field.ReferenceRate
		rl.DrawText(fmt.Sprintf("Fades in: %.2fs (%d ticks)", fade, field.TicksToZero()), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText("Drag on the preview to paint", 15, statsY+40, 14, rl.Gray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Touch Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		sliders := []struct {
			label    string
			value    *float32
			min, max float32
			format   string
		}{
			{"Radius (footprint in uv units)", &params.Radius, 0.02, 0.5, "%.3f"},
			{"Decay (factor per reference tick)", &params.Decay, 0.8, 0.995, "%.3f"},
			{"Max value (per-cell clamp)", &params.MaxValue, 0.2, 3, "%.2f"},
			{"Strength (vertex displacement)", &params.Strength, 0, 60, "%.1f"},
		}
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			*s.value = gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				*s.value, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
		}
		params.apply(field)

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Clear") {
			field.Clear()
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Stroke") {
			for i := 0; i < 20; i++ {
				field.AddImpulse(0.2+0.6*float64(i)/19, 0.5)
			}
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = paramsFrom(defaults)
			field.Clear()
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := params.YAML(size)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture uploads the field through the heat colour ramp.
func updateTexture(texture rl.Texture2D, f *displacement.Field, pixels []color.RGBA) {
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			pixels[y*f.Size+x] = heat(float32(f.At(x, y) / f.MaxValue))
		}
	}
	rl.UpdateTexture(texture, pixels)
}

// heat maps [0,1] through dark blue -> cyan -> yellow -> white.
func heat(v float32) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	var r, g, b uint8
	if v < 0.25 {
		// Dark blue to blue
		t := v / 0.25
		r = uint8(10 + t*30)
		g = uint8(20 + t*60)
		b = uint8(60 + t*100)
	} else if v < 0.5 {
		// Blue to cyan
		t := (v - 0.25) / 0.25
		r = uint8(40 + t*20)
		g = uint8(80 + t*120)
		b = uint8(160 + t*40)
	} else if v < 0.75 {
		// Cyan to yellow-green
		t := (v - 0.5) / 0.25
		r = uint8(60 + t*140)
		g = uint8(200 - t*40)
		b = uint8(200 - t*150)
	} else {
		// Yellow-green to white
		t := (v - 0.75) / 0.25
		r = uint8(200 + t*55)
		g = uint8(160 + t*95)
		b = uint8(50 + t*205)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
