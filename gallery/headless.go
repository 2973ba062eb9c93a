package gallery

import (
	"log/slog"

	"github.com/pthm-cable/pixeldust/interact"
	"github.com/pthm-cable/pixeldust/particles"
)

// Script drives the virtual device through a fixed interaction cycle per image:
// a pointer sweep across the cloud, a press and release, a spell in spatial mode,
// then navigation to the next image.
type Script struct {
	Cycle      float64 // Seconds spent on each image
	Sweep      float64 // Pointer sweep start
	Press      float64 // Primary press (explode)
	Release    float64 // Primary release (reform)
	SpatialOn  float64 // Enter spatial mode
	SpatialOff float64 // Leave spatial mode
}

// DefaultScript returns the standard ten second cycle.
func DefaultScript() Script {
	return Script{
		Cycle:      10,
		Sweep:      1,
		Press:      2,
		Release:    3,
		SpatialOn:  6.5,
		SpatialOff: 8,
	}
}

// Start shows the first image, or the fallback texture when the gallery is empty.
func (g *Gallery) Start() {
	if len(g.images) == 0 {
		slog.Warn("no images configured, showing fallback")
		g.field.Resize(g.viewport(), g.override())
		g.field.LoadImage(particles.Fallback(g.cfg.Mask.FallbackSize))
		return
	}
	g.Goto(0)
}

// RunHeadless runs frames fixed-step updates, applying script to the virtual device.
func (g *Gallery) RunHeadless(frames int, script Script) {
	dt := g.cfg.Derived.FrameDT
	perCycle := int(script.Cycle/dt + 0.5)
	if perCycle < 1 {
		perCycle = 1
	}

	g.Start()
	for i := 0; i < frames; i++ {
		g.applyScript(script, i%perCycle, dt)
		g.Update(dt)
		if i%perCycle == perCycle-1 {
			g.Next()
		}
	}
	slog.Info("headless run finished",
		"frames", g.frame,
		"index", g.index,
		"state", g.field.State().String(),
		"events", g.field.Handled(),
		"dropped", g.router.Dropped(),
	)
}

// applyScript emits the scripted input for frame f of the cycle.
func (g *Gallery) applyScript(s Script, f int, dt float64) {
	at := func(sec float64) bool { return f == int(sec/dt+0.5) }
	cx, cy := g.screenW/2, g.screenH/2

	sweepFrames := int(0.5/dt + 0.5)
	start := int(s.Sweep/dt + 0.5)
	if f >= start && f < start+sweepFrames {
		k := float32(f-start) / float32(sweepFrames)
		g.pointer(interact.MouseMove, g.screenW*(0.3+0.4*k), cy)
	}

	switch {
	case at(s.Press):
		g.pointer(interact.MouseDown, cx, cy)
	case at(s.Release):
		g.pointer(interact.MouseUp, cx, cy)
	case at(s.SpatialOn):
		g.field.EnterSpatial()
	case at(s.SpatialOff):
		g.field.ExitSpatial()
	}

	if g.field.State() == particles.SpatialActive {
		k := float64(f-int(s.SpatialOn/dt+0.5)) / ((s.SpatialOff - s.SpatialOn) / dt)
		g.field.SetSpatialPointer(k, 0.5)
	}
}

// pointer emits a mouse event, or the equivalent touch event on touch devices.
func (g *Gallery) pointer(kind interact.InputKind, x, y float32) {
	d := g.virtual
	if !d.Touch {
		switch kind {
		case interact.MouseMove:
			d.MouseMoveTo(x, y)
		case interact.MouseDown:
			d.MousePress(x, y, interact.ButtonLeft)
		case interact.MouseUp:
			d.MouseRelease(x, y, interact.ButtonLeft)
		}
		return
	}
	p := interact.Point{X: x, Y: y}
	switch kind {
	case interact.MouseMove:
		d.TouchesMove(p)
	case interact.MouseDown:
		d.TouchesStart(p)
	case interact.MouseUp:
		d.TouchesEnd()
	}
}
