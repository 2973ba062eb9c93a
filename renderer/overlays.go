package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/camera"
	"github.com/pthm-cable/pixeldust/interact"
)

var outlineColor = rl.Color{R: 255, G: 200, B: 60, A: 200}

// DrawPlaneOutline draws the bounds of a pick plane in world space.
func DrawPlaneOutline(cam *camera.Camera, p *interact.PickPlane) {
	if p == nil || p.Scale <= 0 {
		return
	}
	hw := p.Width * p.Scale / 2
	hh := p.Height * p.Scale / 2
	cx, cy, cz := p.Position.X(), p.Position.Y(), p.Position.Z()

	corners := [4]rl.Vector3{
		rl.NewVector3(cx-hw, cy-hh, cz),
		rl.NewVector3(cx+hw, cy-hh, cz),
		rl.NewVector3(cx+hw, cy+hh, cz),
		rl.NewVector3(cx-hw, cy+hh, cz),
	}

	rl.BeginMode3D(Camera3D(cam))
	for i := range corners {
		rl.DrawLine3D(corners[i], corners[(i+1)%4], outlineColor)
	}
	rl.DrawLine3D(corners[0], corners[2], rl.Fade(outlineColor, 0.3))
	rl.EndMode3D()
}

// DrawTouchPreview draws the touch texture as a size x size square at (x, y),
// flipped so screen up matches uv up.
func (p *PointCloud) DrawTouchPreview(x, y, size int32) {
	if p.touchW == 0 {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(p.touchW), Height: -float32(p.touchW)}
	dst := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(size), Height: float32(size)}
	rl.DrawRectangle(x-1, y-1, size+2, size+2, rl.DarkGray)
	rl.DrawTexturePro(p.touch, src, dst, rl.Vector2{}, 0, rl.White)
	rl.DrawText("touch", x, y+size+4, 12, rl.LightGray)
}
