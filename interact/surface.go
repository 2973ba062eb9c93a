package interact

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pixeldust/camera"
)

// Hit describes a ray intersection with a surface.
type Hit struct {
	Distance float32
	Point    mgl32.Vec3
	// UV is the intersection in the surface's own texture space, (0,0) bottom-left.
	UV mgl32.Vec2
}

// Surface is a ray-intersectable proxy used for picking only.
type Surface interface {
	Intersect(r camera.Ray) (Hit, bool)
}

// PickPlane is an axis-aligned rectangle facing +Z, centred on Position.
type PickPlane struct {
	Width, Height float32
	Position      mgl32.Vec3
	Scale         float32
}

// NewPickPlane creates a unit-scale plane of the given size at the origin.
func NewPickPlane(width, height float32) *PickPlane {
	return &PickPlane{Width: width, Height: height, Scale: 1}
}

// Intersect implements Surface.
func (p *PickPlane) Intersect(r camera.Ray) (Hit, bool) {
	if p.Scale <= 0 || p.Width <= 0 || p.Height <= 0 {
		return Hit{}, false
	}
	t, ok := r.IntersectPlane(p.Position, mgl32.Vec3{0, 0, 1})
	if !ok {
		return Hit{}, false
	}
	pt := r.At(t)
	local := pt.Sub(p.Position).Mul(1 / p.Scale)

	u := local.X()/p.Width + 0.5
	v := local.Y()/p.Height + 0.5
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return Hit{}, false
	}
	return Hit{Distance: t, Point: pt, UV: mgl32.Vec2{u, v}}, true
}
