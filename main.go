package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/gallery"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	images := flag.String("images", "", "Comma-separated image paths/URLs or a directory (appended to gallery.images)")
	headless := flag.Bool("headless", false, "Run without graphics using scripted input")
	frames := flag.Int("frames", 600, "Frames to run in headless mode")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	catalog := append([]config.GalleryImage(nil), cfg.Gallery.Images...)
	extra, err := expandImages(*images)
	if err != nil {
		slog.Error("failed to read images", "error", err)
		os.Exit(1)
	}
	catalog = append(catalog, extra...)

	opts := gallery.Options{
		Images:    catalog,
		Seed:      *seed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Headless:  *headless,
		SyncLoad:  *headless,
	}

	if *headless {
		g, err := gallery.New(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless run",
			"seed", *seed,
			"frames", *frames,
			"images", len(catalog),
		)
		g.RunHeadless(*frames, gallery.DefaultScript())
		return
	}

	// Graphical mode
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "pixeldust")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := gallery.New(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	g.Start()
	for !rl.WindowShouldClose() {
		g.Update(float64(rl.GetFrameTime()))
		g.Draw()
	}
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// expandImages turns the -images flag into catalog entries. A directory expands
// to its image files in name order.
func expandImages(arg string) ([]config.GalleryImage, error) {
	if arg == "" {
		return nil, nil
	}

	var out []config.GalleryImage
	for _, src := range strings.Split(arg, ",") {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			// URLs and missing files go through as-is; the loader reports them
			out = append(out, config.GalleryImage{Source: src})
			continue
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, config.GalleryImage{
				Source: filepath.Join(src, name),
				Name:   strings.TrimSuffix(name, filepath.Ext(name)),
			})
		}
	}
	return out, nil
}
