package particles

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FallbackCaption is drawn across the centre of the fallback texture.
const FallbackCaption = "Image Loading Error"

// Fallback generates the substitute texture used when a source cannot be decoded:
// a size×size radial gradient (#fff centre, #ccc midway, #888 edge) with a caption.
func Fallback(size int) image.Image {
	if size <= 0 {
		size = 512
	}
	c := float64(size) / 2

	dc := gg.NewContext(size, size)
	grad := gg.NewRadialGradient(c, c, 0, c, c, c)
	grad.AddColorStop(0, color.RGBA{0xff, 0xff, 0xff, 0xff})
	grad.AddColorStop(0.5, color.RGBA{0xcc, 0xcc, 0xcc, 0xff})
	grad.AddColorStop(1, color.RGBA{0x88, 0x88, 0x88, 0xff})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	if ttf, err := truetype.Parse(goregular.TTF); err == nil {
		dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
			Size:    24,
			DPI:     72,
			Hinting: font.HintingFull,
		}))
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(FallbackCaption, c, c, 0.5, 0)
	}

	return dc.Image()
}
