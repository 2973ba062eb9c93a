package particles

import (
	"image"
	"image/draw"
)

// Mask is the visibility map of a source image in texture space: row 0 is the
// bottom row of the picture, so pixel index i maps to (i mod w, i div w) with v up.
type Mask struct {
	Width, Height int
	Threshold     uint8

	red   []uint8
	count int
}

// ToNRGBA returns img as a tightly packed *image.NRGBA anchored at (0, 0).
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// NewMask extracts the red channel of img, flipped vertically, and counts the
// pixels strictly above threshold.
func NewMask(img *image.NRGBA, threshold uint8) *Mask {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	m := &Mask{
		Width:     w,
		Height:    h,
		Threshold: threshold,
		red:       make([]uint8, w*h),
	}
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride:]
		row := (h - 1 - y) * w
		for x := 0; x < w; x++ {
			r := src[x*4]
			m.red[row+x] = r
			if r > threshold {
				m.count++
			}
		}
	}
	return m
}

// Len returns the number of pixels.
func (m *Mask) Len() int { return len(m.red) }

// Count returns the number of visible pixels found by the pre-pass.
func (m *Mask) Count() int { return m.count }

// Visible reports whether pixel i passes the threshold.
func (m *Mask) Visible(i int) bool { return m.red[i] > m.Threshold }

// Red returns the masking channel of pixel i.
func (m *Mask) Red(i int) uint8 { return m.red[i] }
