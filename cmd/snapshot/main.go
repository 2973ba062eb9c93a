// Package main renders the point cloud of an image to a PNG without a window.
// The cloud is placed on the CPU, so the result matches the GPU in layout and
// distribution but not pixel for pixel.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/gallery"
	"github.com/pthm-cable/pixeldust/particles"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file (empty = use defaults)")
	input := flag.String("image", "", "Image path or URL (empty = fallback texture)")
	output := flag.String("output", "snapshot.png", "Output PNG path")
	seconds := flag.Float64("seconds", 3, "Seconds to simulate before capturing")
	explode := flag.Float64("explode-at", -1, "Trigger an explosion this many seconds in (negative = never)")
	width := flag.Int("width", 0, "Output width (0 = screen width from config)")
	height := flag.Int("height", 0, "Output height (0 = screen height from config)")
	seed := flag.Int64("seed", 0, "Instance RNG seed (0 = config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	w, h := *width, *height
	if w <= 0 {
		w = cfg.Screen.Width
	}
	if h <= 0 {
		h = cfg.Screen.Height
	}

	var images []config.GalleryImage
	if *input != "" {
		images = append(images, config.GalleryImage{Source: *input})
	}

	g, err := gallery.New(gallery.Options{
		Images:   images,
		Seed:     *seed,
		Headless: true,
		SyncLoad: true,
	})
	if err != nil {
		log.Fatalf("failed to create gallery: %v", err)
	}
	defer g.Unload()

	g.Resize(float32(w), float32(h))
	if err := Simulate(g, *seconds, *explode, cfg.Derived.FrameDT); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	mirrorSeed := cfg.Mask.Seed
	if *seed != 0 {
		mirrorSeed = *seed
	}
	f := g.Field()
	pts := particles.NewMirror(mirrorSeed, cfg.Mask.NoiseScale).Evaluate(f, nil)
	dc := Render(pts, g.Camera(), w, h, color.Black)
	if err := dc.SavePNG(*output); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}

	fmt.Printf("Wrote %s: %d points, state %s, %.2fs simulated\n", *output, len(pts), f.State(), f.Elapsed())
}

// Simulate starts the gallery and advances it for seconds at fixed dt, firing
// an explosion at explodeAt when it is non-negative.
func Simulate(g *gallery.Gallery, seconds, explodeAt, dt float64) error {
	if dt <= 0 {
		dt = 1.0 / 60
	}
	g.Start()

	exploded := explodeAt < 0
	for t := 0.0; t < seconds; t += dt {
		if !exploded && t >= explodeAt {
			exploded = g.Field().Explode()
		}
		g.Update(dt)
	}
	if !g.Field().Built() {
		return fmt.Errorf("no cloud built after %.2fs", seconds)
	}
	return nil
}
