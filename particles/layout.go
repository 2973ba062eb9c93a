package particles

import (
	"fmt"
	"math"

	"github.com/pthm-cable/pixeldust/config"
)

// DeviceClass distinguishes narrow (mobile) viewports from desktop ones.
type DeviceClass uint8

const (
	Desktop DeviceClass = iota
	Mobile
)

func (c DeviceClass) String() string {
	if c == Mobile {
		return "mobile"
	}
	return "desktop"
}

// Orientation of the viewport.
type Orientation uint8

const (
	Landscape Orientation = iota
	Portrait
)

func (o Orientation) String() string {
	if o == Portrait {
		return "portrait"
	}
	return "landscape"
}

// Viewport describes the render target for a resize.
type Viewport struct {
	Width, Height float64
	Class         DeviceClass
	Orientation   Orientation
}

// Classify derives class and orientation from the window size. Widths at or
// below breakpoint are mobile; portrait means taller than wide.
func Classify(width, height, breakpoint float64) Viewport {
	vp := Viewport{Width: width, Height: height}
	if width <= breakpoint {
		vp.Class = Mobile
	}
	if height > width {
		vp.Orientation = Portrait
	}
	return vp
}

// LayoutOverride carries per-image layout data supplied by the caller.
type LayoutOverride struct {
	OffsetX float64 // Horizontal world offset, applied on mobile only
}

// Policy is the scaling rule chosen for a viewport.
type Policy uint8

const (
	// Contain fits the shorter dimension so the whole image stays visible.
	Contain Policy = iota
	// FitHeight fills the frustum height; width may overflow.
	FitHeight
)

func (p Policy) String() string {
	if p == FitHeight {
		return "fit-height"
	}
	return "contain"
}

// Layout is the uniform scale and horizontal offset shared by geometry and pick surface.
type Layout struct {
	Policy  Policy
	Scale   float64
	OffsetX float64
}

func (l Layout) String() string {
	return fmt.Sprintf("%s scale=%.4f offset=%.1f", l.Policy, l.Scale, l.OffsetX)
}

// ComputeLayout derives the scale so that an imgW×imgH cloud matches the visible
// frustum slice (fovW×fovH world units at the image plane).
//
// Mobile portrait fits by height, magnified by min(H/portraitBase, portraitMax).
// Mobile landscape contains, magnified by max(H/landscapeBase, 1). Desktop contains.
func ComputeLayout(vp Viewport, ov LayoutOverride, fovW, fovH float64, imgW, imgH int, cfg config.LayoutConfig) Layout {
	scaleY := fovH / float64(imgH)
	scaleX := fovW / float64(imgW)

	var l Layout
	switch {
	case vp.Class == Mobile && vp.Orientation == Portrait:
		l.Policy = FitHeight
		l.Scale = scaleY * math.Min(vp.Height/cfg.PortraitBaseHeight, cfg.PortraitMaxFactor)
	case vp.Class == Mobile:
		l.Policy = Contain
		l.Scale = math.Min(scaleX, scaleY) * math.Max(vp.Height/cfg.LandscapeBaseHeight, 1)
	default:
		l.Policy = Contain
		l.Scale = math.Min(scaleX, scaleY)
	}

	if vp.Class == Mobile {
		l.OffsetX = ov.OffsetX
	}
	return l
}
