package main

import (
	"image/color"
	"sort"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pixeldust/camera"
	"github.com/pthm-cable/pixeldust/particles"
)

// Render rasterizes points as seen through cam onto a w x h canvas.
// Points are painted back to front.
func Render(pts []particles.Point, cam *camera.Camera, w, h int, bg color.Color) *gg.Context {
	dc := gg.NewContext(w, h)
	dc.SetColor(bg)
	dc.Clear()

	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Z < pts[j].Z })

	pxPerUnit := float64(h) / float64(cam.FovHeight())
	for _, p := range pts {
		nx, ny := cam.Project(mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)})
		if nx < -1.1 || nx > 1.1 || ny < -1.1 || ny > 1.1 {
			continue
		}
		x := (float64(nx) + 1) * 0.5 * float64(w)
		y := (1 - float64(ny)) * 0.5 * float64(h)

		// Perspective: closer points cover more pixels
		dist := float64(cam.Distance()) - p.Z
		if dist <= 0 {
			continue
		}
		r := 0.5 * p.Size * pxPerUnit * float64(cam.Distance()) / dist
		if r < 0.5 {
			r = 0.5
		}

		dc.SetColor(p.Color)
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}
	return dc
}
