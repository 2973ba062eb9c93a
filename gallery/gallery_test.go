package gallery

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/particles"
)

func init() {
	config.MustInit("")
}

// writeImages writes n small PNGs of increasing width and returns their catalog.
func writeImages(t *testing.T, n int) []config.GalleryImage {
	t.Helper()
	dir := t.TempDir()
	var out []config.GalleryImage
	for i := 0; i < n; i++ {
		img := image.NewNRGBA(image.Rect(0, 0, 10+i, 8))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = 200, 200, 200, 255
		}
		path := filepath.Join(dir, "img"+string(rune('a'+i))+".png")
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("creating %s: %v", path, err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatalf("encoding %s: %v", path, err)
		}
		f.Close()
		out = append(out, config.GalleryImage{Source: path})
	}
	return out
}

func newHeadless(t *testing.T, images []config.GalleryImage) *Gallery {
	t.Helper()
	g, err := New(Options{Images: images, Headless: true, SyncLoad: true, Seed: 5})
	if err != nil {
		t.Fatalf("creating gallery: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

// settle updates until navigation is idle.
func settle(t *testing.T, g *Gallery) {
	t.Helper()
	for i := 0; g.Busy(); i++ {
		if i > 600 {
			t.Fatal("navigation never completed")
		}
		g.Update(1.0 / 60)
	}
}

func TestNavigationWrapsAround(t *testing.T) {
	g := newHeadless(t, writeImages(t, 3))
	g.Start()
	if g.Index() != 0 || !g.Field().Built() {
		t.Fatalf("expected first image built, got index %d built %v", g.Index(), g.Field().Built())
	}

	if !g.Prev() {
		t.Fatal("expected prev to be accepted")
	}
	if g.Field().State() != particles.Hidden || !g.Busy() {
		t.Errorf("expected hide in flight, got %s busy %v", g.Field().State(), g.Busy())
	}
	settle(t, g)
	if g.Index() != 2 {
		t.Errorf("expected wrap to last image, got %d", g.Index())
	}
	if w := g.Field().Instances().Width; w != 12 {
		t.Errorf("expected the 12px wide image, got width %d", w)
	}

	g.Next()
	settle(t, g)
	if g.Index() != 0 {
		t.Errorf("expected wrap to first image, got %d", g.Index())
	}
}

func TestNavigationSerializedWhileHiding(t *testing.T) {
	g := newHeadless(t, writeImages(t, 4))
	g.Start()
	g.Update(1.0 / 60)

	if !g.Next() {
		t.Fatal("expected first next to be accepted")
	}
	if g.Next() || g.Goto(3) {
		t.Error("expected navigation to be ignored while hiding")
	}
	settle(t, g)
	if g.Index() != 1 {
		t.Errorf("expected exactly one step, got index %d", g.Index())
	}
	if g.Field().State() != particles.Showing {
		t.Errorf("expected new cloud showing, got %s", g.Field().State())
	}
}

func TestAddSample(t *testing.T) {
	imgs := writeImages(t, 2)
	g := newHeadless(t, imgs[:1])
	g.Start()

	idx := g.AddSample(imgs[1].Source, "")
	if idx != 1 || g.Len() != 2 {
		t.Fatalf("expected sample at index 1 of 2, got %d of %d", idx, g.Len())
	}
	if name := g.images[1].Name; name != "imgb" {
		t.Errorf("expected name from file, got %q", name)
	}

	g.Goto(idx)
	settle(t, g)
	if g.Field().Source() != imgs[1].Source {
		t.Errorf("expected %s loaded, got %s", imgs[1].Source, g.Field().Source())
	}
}

func TestEmptyGalleryShowsFallback(t *testing.T) {
	g := newHeadless(t, nil)
	g.Start()
	if !g.Field().Built() {
		t.Fatal("expected fallback cloud built")
	}
	if g.Next() {
		t.Error("expected navigation to be refused without images")
	}
	if g.title() != "pixeldust" {
		t.Errorf("unexpected title %q", g.title())
	}
}

func TestMissingImageFallsBack(t *testing.T) {
	g := newHeadless(t, []config.GalleryImage{{Source: filepath.Join(t.TempDir(), "gone.png"), Name: "Gone"}})
	g.Start()
	if !g.Field().Built() || g.Field().Instances().Width != config.Cfg().Mask.FallbackSize {
		t.Error("expected fallback texture for a missing file")
	}
	if g.title() != "Gone" {
		t.Errorf("expected catalog name as title, got %q", g.title())
	}
}

func TestLayoutOffsetFollowsIndex(t *testing.T) {
	g := newHeadless(t, writeImages(t, 6))
	g.Resize(400, 800)
	g.Start()
	if off := g.Field().Layout().OffsetX; off != 0 {
		t.Errorf("expected no offset for image 0, got %v", off)
	}

	g.Goto(5)
	settle(t, g)
	l := g.Field().Layout()
	if l.OffsetX != 45 || l.Policy != particles.FitHeight {
		t.Errorf("expected fit-height with offset 45, got %s offset %v", l.Policy, l.OffsetX)
	}

	g.Resize(1600, 900)
	if l := g.Field().Layout(); l.OffsetX != 0 || l.Policy != particles.Contain {
		t.Errorf("expected desktop contain without offset, got %s offset %v", l.Policy, l.OffsetX)
	}
}

func TestAsyncLoad(t *testing.T) {
	g, err := New(Options{Images: writeImages(t, 1), Headless: true})
	if err != nil {
		t.Fatalf("creating gallery: %v", err)
	}
	defer g.Unload()

	g.Start()
	deadline := time.Now().Add(2 * time.Second)
	for g.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("async load never completed")
		}
		g.Update(1.0 / 60)
		time.Sleep(time.Millisecond)
	}
	if !g.Field().Built() || g.Index() != 0 {
		t.Errorf("expected image 0 built, got index %d built %v", g.Index(), g.Field().Built())
	}
}

func TestApplySettings(t *testing.T) {
	g := newHeadless(t, writeImages(t, 1))
	g.Start()
	for i := 0; i < 90; i++ {
		g.Update(1.0 / 60)
	}

	s := g.settings
	s.Spread = 7
	s.TouchRadius = 0.3
	g.ApplySettings(s)

	if got := g.Field().Current().Spread; got != 7 {
		t.Errorf("expected spread snapped to 7 while idle, got %v", got)
	}
	if got := g.Field().Params().Spread; got != 7 {
		t.Errorf("expected baseline spread 7, got %v", got)
	}
}

func TestHeadlessRunWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	g, err := New(Options{Images: writeImages(t, 2), Headless: true, SyncLoad: true, OutputDir: dir, Seed: 3})
	if err != nil {
		t.Fatalf("creating gallery: %v", err)
	}
	g.RunHeadless(700, DefaultScript())
	g.Unload()

	if g.Index() != 1 {
		t.Errorf("expected second image after one cycle, got %d", g.Index())
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 701 {
		t.Errorf("expected header plus 700 rows, got %d lines", len(lines))
	}
	for _, want := range []string{"exploding", "reforming", "spatial"} {
		if !strings.Contains(string(data), ","+want+",") {
			t.Errorf("expected %s state in telemetry", want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config snapshot: %v", err)
	}
}
