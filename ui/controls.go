package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Settings are the user-tunable values behind the slider panel.
type Settings struct {
	Spread      float32
	Depth       float32
	Size        float32
	TouchRadius float32
}

// SettingsSliders returns the slider layout of the settings panel.
func SettingsSliders() []SliderDescriptor {
	return []SliderDescriptor{
		{ID: "spread", Label: "Spread", Min: 0, Max: 10, Format: "%.2f", Value: func(s *Settings) *float32 { return &s.Spread }},
		{ID: "depth", Label: "Depth", Min: 0, Max: 20, Format: "%.2f", Value: func(s *Settings) *float32 { return &s.Depth }},
		{ID: "size", Label: "Size", Min: 0.2, Max: 5, Format: "%.2f", Value: func(s *Settings) *float32 { return &s.Size }},
		{ID: "radius", Label: "Touch radius", Min: 0.02, Max: 0.5, Format: "%.3f", Value: func(s *Settings) *float32 { return &s.TouchRadius }},
	}
}

// SettingsPanel renders the parameter sliders on the right edge of the screen.
type SettingsPanel struct {
	renderer *Renderer
	sliders  []SliderDescriptor
	width    int32
}

// NewSettingsPanel creates a settings panel of the given width.
func NewSettingsPanel(width int32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		sliders:  SettingsSliders(),
		width:    width,
	}
}

// Bounds returns the panel rectangle for a screen of the given width.
func (p *SettingsPanel) Bounds(screenWidth int32) (x, y, w, h int32) {
	r := p.renderer
	padding := r.Theme.Padding
	h = int32(len(p.sliders))*(r.Theme.LineHeight+24) + padding*2 + r.Theme.LineHeight
	return screenWidth - p.width - padding, padding, p.width, h
}

// Contains reports whether the screen point lies over the panel.
func (p *SettingsPanel) Contains(px, py float32, screenWidth int32) bool {
	x, y, w, h := p.Bounds(screenWidth)
	return px >= float32(x) && px < float32(x+w) && py >= float32(y) && py < float32(y+h)
}

// Draw renders the sliders and writes changes into s. Returns true if any value changed.
func (p *SettingsPanel) Draw(s *Settings, screenWidth int32) bool {
	r := p.renderer
	padding := r.Theme.Padding
	x, y, w, h := p.Bounds(screenWidth)
	r.DrawPanel(x, y, w, h)

	x += padding
	y += padding
	y = r.DrawSectionHeader(x, y, "Parameters")

	changed := false
	for _, sd := range p.sliders {
		v := sd.Value(s)
		var nv float32
		nv, y = r.DrawSlider(x, y, sd, *v, p.width-padding*2)
		if nv != *v {
			*v = nv
			changed = true
		}
	}
	return changed
}

// LegendPanel lists the overlays and their toggle keys.
type LegendPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewLegendPanel creates a legend panel.
func NewLegendPanel(x, y, width int32) *LegendPanel {
	return &LegendPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the legend.
func (c *LegendPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}

		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *LegendPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 220, G: 220, B: 220, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "info":
		return "Info"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
