// Package camera provides the perspective camera that frames the point cloud and
// builds picking rays from normalized device coordinates.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pixeldust/config"
)

// Camera looks down -Z at the image plane (z = 0) from Position.
type Camera struct {
	// Vertical field of view in degrees
	FOV float32

	// Viewport aspect ratio (width / height)
	Aspect float32

	// Clip planes
	Near, Far float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	// Viewport dimensions in pixels
	ViewportW, ViewportH float32

	proj, view  mgl32.Mat4
	invViewProj mgl32.Mat4
}

// New creates a camera at (0, 0, cfg.Z) sized to the given viewport.
func New(cfg config.CameraConfig, viewportW, viewportH float32) *Camera {
	c := &Camera{
		FOV:      float32(cfg.FOV),
		Near:     float32(cfg.Near),
		Far:      float32(cfg.Far),
		Position: mgl32.Vec3{0, 0, float32(cfg.Z)},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates the viewport and recomputes the projection.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	if viewportH > 0 {
		c.Aspect = viewportW / viewportH
	} else {
		c.Aspect = 1
	}
	c.update()
}

// update recomputes the cached matrices.
func (c *Camera) update() {
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	c.view = mgl32.LookAtV(c.Position, c.Target, c.Up)
	c.invViewProj = c.proj.Mul4(c.view).Inv()
}

// Distance returns the distance from the camera to the image plane.
func (c *Camera) Distance() float32 {
	return c.Position.Sub(c.Target).Len()
}

// FovHeight returns the world-space height of the frustum slice at the image plane.
func (c *Camera) FovHeight() float32 {
	half := float64(mgl32.DegToRad(c.FOV)) / 2
	return float32(2 * math.Tan(half) * float64(c.Distance()))
}

// FovWidth returns the world-space width of the frustum slice at the image plane.
func (c *Camera) FovWidth() float32 {
	return c.FovHeight() * c.Aspect
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.proj.Mul4(c.view)
}

// Ray builds a picking ray through normalized device coordinates (x right, y up, both in [-1, 1]).
func (c *Camera) Ray(ndcX, ndcY float32) Ray {
	far := c.invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	p := far.Vec3().Mul(1 / far.W())
	return Ray{
		Origin:    c.Position,
		Direction: p.Sub(c.Position).Normalize(),
	}
}

// Project maps a world point to normalized device coordinates.
func (c *Camera) Project(p mgl32.Vec3) (ndcX, ndcY float32) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	return clip.X() / clip.W(), clip.Y() / clip.W()
}

// Ray is a half-line from Origin along unit Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane returns the distance along the ray to the plane through point with normal n.
// ok is false for parallel rays and planes behind the origin.
func (r Ray) IntersectPlane(point, n mgl32.Vec3) (t float32, ok bool) {
	denom := n.Dot(r.Direction)
	if absf(denom) < 1e-8 {
		return 0, false
	}
	t = point.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
