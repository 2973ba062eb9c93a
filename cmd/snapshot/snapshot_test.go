package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/gallery"
	"github.com/pthm-cable/pixeldust/particles"
)

func init() {
	config.MustInit("")
}

func writeSample(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 180, B: 60, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating sample: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding sample: %v", err)
	}
	return path
}

func newGallery(t *testing.T, src string) *gallery.Gallery {
	t.Helper()
	g, err := gallery.New(gallery.Options{
		Images:   []config.GalleryImage{{Source: src}},
		Seed:     7,
		Headless: true,
		SyncLoad: true,
	})
	if err != nil {
		t.Fatalf("creating gallery: %v", err)
	}
	t.Cleanup(g.Unload)
	g.Resize(320, 240)
	return g
}

func litPixels(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r|g|bl != 0 {
				n++
			}
		}
	}
	return n
}

func TestSimulateAndRender(t *testing.T) {
	g := newGallery(t, writeSample(t))
	if err := Simulate(g, 2, -1, 1.0/60); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	pts := particles.NewMirror(7, config.Cfg().Mask.NoiseScale).Evaluate(g.Field(), nil)
	if len(pts) != 24*16 {
		t.Fatalf("expected %d points, got %d", 24*16, len(pts))
	}

	dc := Render(pts, g.Camera(), 320, 240, color.Black)
	img := dc.Image()
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Fatalf("expected 320x240 canvas, got %v", b)
	}
	if litPixels(img) == 0 {
		t.Error("expected some points drawn")
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r|g|b != 0 {
		t.Error("expected background in the corner")
	}

	out := filepath.Join(t.TempDir(), "out.png")
	if err := dc.SavePNG(out); err != nil {
		t.Fatalf("saving png: %v", err)
	}
}

func TestSimulateExplodes(t *testing.T) {
	g := newGallery(t, writeSample(t))
	if err := Simulate(g, 2.5, 2, 1.0/60); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if s := g.Field().State(); s != particles.Exploding {
		t.Errorf("expected exploding state, got %s", s)
	}
}

func TestRenderSkipsPointsBehindCamera(t *testing.T) {
	g := newGallery(t, writeSample(t))
	cam := g.Camera()
	pts := []particles.Point{{X: 0, Y: 0, Z: float64(cam.Distance()) + 10, Size: 5, Color: color.NRGBA{R: 255, A: 255}}}
	if n := litPixels(Render(pts, cam, 64, 48, color.Black).Image()); n != 0 {
		t.Errorf("expected nothing drawn, got %d lit pixels", n)
	}
}
