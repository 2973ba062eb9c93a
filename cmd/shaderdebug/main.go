// Shader debug tool - renders the point cloud shader to a PNG file for inspection.
//
// Usage: go run ./cmd/shaderdebug -image photo.jpg -seconds 2 -out debug.png
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/camera"
	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/interact"
	"github.com/pthm-cable/pixeldust/particles"
	"github.com/pthm-cable/pixeldust/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file (empty = use defaults)")
	imagePath := flag.String("image", "", "Image path or URL (empty = fallback texture)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	width := flag.Int("width", 1024, "Render width")
	height := flag.Int("height", 768, "Render height")
	seconds := flag.Float64("seconds", 1, "Seconds to simulate before rendering")
	explode := flag.Bool("explode", false, "Explode the cloud before rendering")
	spatial := flag.Bool("spatial", false, "Enter spatial mode before rendering")
	touchU := flag.Float64("touch-u", -1, "Stroke the touch field at this u while simulating (negative = off)")
	touchV := flag.Float64("touch-v", 0.5, "v coordinate of the touch stroke")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	w, h := float32(*width), float32(*height)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	cam := camera.New(cfg.Camera, w, h)
	router := interact.NewRouter(cam, interact.NewVirtualDevice(w, h, false), cfg.Input.QueueSize)
	cloud := renderer.NewPointCloud()
	defer cloud.Unload()

	field := particles.New(cfg, cam, router, cloud)
	field.Resize(particles.Classify(float64(w), float64(h), cfg.Layout.MobileBreakpoint), particles.LayoutOverride{})
	if *imagePath != "" {
		field.Load(context.Background(), *imagePath)
	} else {
		field.LoadImage(particles.Fallback(cfg.Mask.FallbackSize))
	}

	if *spatial {
		field.EnterSpatial()
		field.SetSpatialPointer(0.8, 0.7)
	}

	dt := cfg.Derived.FrameDT
	for t := 0.0; t < *seconds; t += dt {
		if *explode && field.State() == particles.Idle {
			field.Explode()
		}
		if *touchU >= 0 {
			field.Touch().AddImpulse(*touchU, *touchV)
		}
		field.Update(dt)
	}

	// Create render texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	// Render cloud to texture
	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	cloud.Draw(cam, field.Uniforms())
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)

	// Export to PNG
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Cloud rendered to: %s (%dx%d, %d points, %s)\n",
			*outPath, *width, *height, field.Instances().Len(), field.State())
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
