// Package displacement implements the touch field: a decaying 2D grid of contact impulses
// sampled by the point renderer to push particles away from the pointer.
package displacement

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/pixeldust/config"
)

// Field is a fixed-resolution grid addressed by normalized (u, v) in [0,1]².
// Row 0 is v = 0 (texture space, v up).
type Field struct {
	Size int

	// Radius of an impulse footprint in uv units.
	Radius float64
	// Amplitude written at the centre of a footprint.
	Amplitude float64
	// MaxValue clamps every cell.
	MaxValue float64
	// Decay is the multiplicative factor applied per reference tick.
	Decay float64
	// ReferenceRate is the tick rate (Hz) the decay factor is tuned for.
	ReferenceRate float64
	// Epsilon is the snap-to-zero threshold.
	Epsilon float64

	cells []float64
	img   *image.Gray

	// version increments whenever img is refreshed so uploaders can skip redundant copies.
	version uint64
}

// New creates a field from the touch section of the configuration.
func New(cfg config.TouchConfig) *Field {
	f := &Field{
		Size:          cfg.Size,
		Radius:        cfg.Radius,
		Amplitude:     1,
		MaxValue:      cfg.MaxValue,
		Decay:         cfg.Decay,
		ReferenceRate: cfg.ReferenceRate,
		Epsilon:       cfg.Epsilon,
		cells:         make([]float64, cfg.Size*cfg.Size),
		img:           image.NewGray(image.Rect(0, 0, cfg.Size, cfg.Size)),
	}
	if f.MaxValue <= 0 {
		f.MaxValue = 1
	}
	if f.ReferenceRate <= 0 {
		f.ReferenceRate = 60
	}
	return f
}

// SetRadius changes the footprint radius for subsequent impulses.
func (f *Field) SetRadius(r float64) {
	if r < 0 {
		r = 0
	}
	f.Radius = r
}

// AddImpulse writes a radial falloff footprint centred at (u, v), additively,
// clamped to MaxValue. Points outside [0,1]² are clamped onto the grid edge.
func (f *Field) AddImpulse(u, v float64) {
	if f == nil || f.cells == nil {
		panic("displacement: AddImpulse on uninitialized field")
	}
	if f.Radius <= 0 {
		return
	}
	u = clamp01(u)
	v = clamp01(v)

	n := float64(f.Size)
	rCells := f.Radius * n
	cx := u * n
	cy := v * n

	x0 := max(0, int(math.Floor(cx-rCells)))
	x1 := min(f.Size-1, int(math.Ceil(cx+rCells)))
	y0 := max(0, int(math.Floor(cy-rCells)))
	y1 := min(f.Size-1, int(math.Ceil(cy+rCells)))

	for y := y0; y <= y1; y++ {
		dy := (float64(y) + 0.5 - cy) / rCells
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - cx) / rCells
			d2 := dx*dx + dy*dy
			if d2 >= 1 {
				continue
			}
			// Smooth quartic falloff: 1 at centre, 0 with zero slope at the rim
			w := 1 - d2
			i := y*f.Size + x
			f.cells[i] += f.Amplitude * w * w
			if f.cells[i] > f.MaxValue {
				f.cells[i] = f.MaxValue
			}
		}
	}
}

// Tick decays every cell by Decay^(dt·ReferenceRate), which makes the visual
// fade independent of the frame rate, then refreshes the upload image.
func (f *Field) Tick(dt float64) {
	if dt <= 0 {
		f.refresh()
		return
	}
	f.decayBy(math.Pow(f.Decay, dt*f.ReferenceRate))
}

// TickFixed decays every cell by exactly Decay, regardless of elapsed time.
func (f *Field) TickFixed() {
	f.decayBy(f.Decay)
}

func (f *Field) decayBy(factor float64) {
	floats.Scale(factor, f.cells)
	for i, c := range f.cells {
		if c < f.Epsilon {
			f.cells[i] = 0
		}
	}
	f.refresh()
}

// refresh rewrites the 8-bit image from the cell values.
func (f *Field) refresh() {
	inv := 255 / f.MaxValue
	for i, c := range f.cells {
		f.img.Pix[i] = uint8(math.Round(c * inv))
	}
	f.version++
}

// TicksToZero returns how many fixed ticks take a saturated cell to exactly zero.
func (f *Field) TicksToZero() int {
	if f.MaxValue < f.Epsilon {
		return 0
	}
	n := int(math.Ceil(math.Log(f.Epsilon/f.MaxValue) / math.Log(f.Decay)))
	if n < 0 {
		n = 0
	}
	for f.MaxValue*math.Pow(f.Decay, float64(n)) >= f.Epsilon {
		n++
	}
	return n
}

// Clear zeroes the grid.
func (f *Field) Clear() {
	for i := range f.cells {
		f.cells[i] = 0
	}
	f.refresh()
}

// At returns the raw cell value at grid coordinates.
func (f *Field) At(x, y int) float64 {
	return f.cells[y*f.Size+x]
}

// CellAt returns the grid coordinates containing (u, v).
func (f *Field) CellAt(u, v float64) (int, int) {
	x := min(f.Size-1, int(clamp01(u)*float64(f.Size)))
	y := min(f.Size-1, int(clamp01(v)*float64(f.Size)))
	return x, y
}

// Sample returns the bilinearly interpolated value at (u, v), normalized to [0, 1].
func (f *Field) Sample(u, v float64) float64 {
	n := float64(f.Size)
	fx := clamp01(u)*n - 0.5
	fy := clamp01(v)*n - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := min(max(x0+1, 0), f.Size-1)
	y1 := min(max(y0+1, 0), f.Size-1)
	x0 = min(max(x0, 0), f.Size-1)
	y0 = min(max(y0, 0), f.Size-1)

	a := f.cells[y0*f.Size+x0] + (f.cells[y0*f.Size+x1]-f.cells[y0*f.Size+x0])*tx
	b := f.cells[y1*f.Size+x0] + (f.cells[y1*f.Size+x1]-f.cells[y1*f.Size+x0])*tx
	return (a + (b-a)*ty) / f.MaxValue
}

// Peak returns the largest cell value.
func (f *Field) Peak() float64 {
	return floats.Max(f.cells)
}

// Energy returns the sum over all cells.
func (f *Field) Energy() float64 {
	return floats.Sum(f.cells)
}

// Image returns the 8-bit view of the grid, refreshed on every tick.
func (f *Field) Image() *image.Gray {
	return f.img
}

// Version increments each time Image is refreshed.
func (f *Field) Version() uint64 {
	return f.version
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
