package particles

import (
	"image/color"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// SpatialParallax is how far points shift per unit of depth when the spatial
// pointer moves off centre. Shared with the vertex shader.
const SpatialParallax = 0.5

// Point is one instance placed the way the vertex stage places it.
type Point struct {
	X, Y, Z float64 // World position
	Size    float64 // Sprite edge length in world units
	Color   color.NRGBA
}

// Mirror evaluates the vertex stage on the CPU for snapshots and telemetry.
// Noise comes from OpenSimplex, so positions match the GPU in distribution
// rather than bit for bit.
type Mirror struct {
	noise opensimplex.Noise
	scale float64
}

// NewMirror creates a mirror. noiseScale is the frequency of the depth noise.
func NewMirror(seed int64, noiseScale float64) *Mirror {
	if noiseScale <= 0 {
		noiseScale = 0.1
	}
	return &Mirror{noise: opensimplex.New(seed), scale: noiseScale}
}

// hash is the shader's per-index pseudo random number in [0, 1).
func hash(n float64) float64 {
	v := math.Sin(n) * 43758.5453123
	return v - math.Floor(v)
}

// Evaluate appends the placed points of f's current cloud to dst, in the
// order of f's instance store.
func (m *Mirror) Evaluate(f *Field, dst []Point) []Point {
	inst := f.Instances()
	tex := f.Texture()
	if inst == nil || tex == nil {
		return dst
	}

	u := f.Uniforms()
	touch := f.Touch()
	w, h := float64(inst.Width), float64(inst.Height)
	t := float64(u.Time)
	spread, depth, size := float64(u.Spread), float64(u.Depth), float64(u.Size)
	strength := float64(u.Strength)
	scale, offsetX := float64(u.Scale), float64(u.OffsetX)
	if scale == 0 {
		scale = 1
	}
	px, py := float64(u.Pointer[0])-0.5, float64(u.Pointer[1])-0.5
	spatial := float64(u.SpatialMode)

	f.Store().Each(func(idx uint32, ox32, oy32, angle32 float32) {
		pindex := float64(idx)
		ox, oy := float64(ox32), float64(oy32)
		angle := float64(angle32)

		c := tex.NRGBAAt(int(ox), inst.Height-1-int(oy))
		grey := (0.21*float64(c.R) + 0.71*float64(c.G) + 0.07*float64(c.B)) / 255

		x := ox + (hash(pindex)-0.5)*spread
		y := oy + (hash(ox+pindex)-0.5)*spread

		rndz := hash(pindex) + m.noise.Eval2(pindex*m.scale, t*m.scale)
		z := rndz * hash(pindex) * 2 * depth

		x -= w * 0.5
		y -= h * 0.5

		tv := touch.Sample((ox+0.5)/w, (oy+0.5)/h)
		z += tv * strength * rndz
		x += math.Cos(angle) * tv * strength * rndz
		y += math.Sin(angle) * tv * strength * rndz

		x += px * z * spatial * SpatialParallax
		y += py * z * spatial * SpatialParallax

		psize := (m.noise.Eval2(t*0.5, pindex*0.5) + 2) * math.Max(grey, 0.2) * size

		dst = append(dst, Point{
			X:     x*scale + offsetX,
			Y:     y * scale,
			Z:     z,
			Size:  psize * scale,
			Color: c,
		})
	})
	return dst
}
