// Package gallery is the thin shell around particles.Field: it owns the image
// list, chains hide and load when navigating, forwards window input and writes
// telemetry. It runs either in a raylib window or headless against a virtual
// device and the null backend.
package gallery

import (
	"context"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/pixeldust/camera"
	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/interact"
	"github.com/pthm-cable/pixeldust/particles"
	"github.com/pthm-cable/pixeldust/renderer"
	"github.com/pthm-cable/pixeldust/telemetry"
	"github.com/pthm-cable/pixeldust/ui"
)

// Options configures a gallery.
type Options struct {
	Images    []config.GalleryImage
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
	SyncLoad  bool // Decode on the render thread instead of a goroutine
}

// loadResult carries a finished decode back to the render thread.
type loadResult struct {
	index int
	src   string
	img   image.Image
	err   error
}

// Gallery holds the shell state.
type Gallery struct {
	cfg      *config.Config
	cam      *camera.Camera
	router   *interact.Router
	field    *particles.Field
	headless bool
	syncLoad bool

	// Input devices; exactly one is set
	window  *RaylibDevice
	virtual *interact.VirtualDevice

	cloud *renderer.PointCloud // nil headless

	images []config.GalleryImage
	index  int
	target int

	ctx      context.Context
	cancel   context.CancelFunc
	hideDone <-chan struct{}
	loading  chan loadResult

	screenW, screenH float32
	settings         ui.Settings

	// UI
	overlays *ui.OverlayRegistry
	hud      *ui.HUD
	sliders  *ui.SettingsPanel
	legend   *ui.LegendPanel
	perfUI   *ui.PerfPanel

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	frame         int
}

// New creates a gallery. In window mode the raylib window must already be open.
func New(opts Options) (*Gallery, error) {
	c := *config.Cfg()
	cfg := &c
	if opts.Seed != 0 {
		cfg.Mask.Seed = opts.Seed
	}

	w, h := float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	cam := camera.New(cfg.Camera, w, h)

	g := &Gallery{
		cfg:      cfg,
		cam:      cam,
		headless: opts.Headless,
		syncLoad: opts.SyncLoad,
		images:   append([]config.GalleryImage(nil), opts.Images...),
		index:    -1,
		screenW:  w,
		screenH:  h,
		settings: ui.Settings{
			Spread:      float32(cfg.Defaults.Spread),
			Depth:       float32(cfg.Defaults.Depth),
			Size:        float32(cfg.Defaults.Size),
			TouchRadius: float32(cfg.Touch.Radius),
		},
		collector: telemetry.NewCollector(cfg.Telemetry.Every),
		perf:      telemetry.NewPerfCollector(60),
		logStats:  opts.LogStats,
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())

	var backend particles.Backend
	if opts.Headless {
		g.virtual = interact.NewVirtualDevice(w, h, cfg.Input.Touch == "on")
		g.router = interact.NewRouter(cam, g.virtual, cfg.Input.QueueSize)
	} else {
		g.window = NewRaylibDevice(cfg.Input.Touch)
		g.router = interact.NewRouter(cam, g.window, cfg.Input.QueueSize)
		g.cloud = renderer.NewPointCloud()
		g.cloud.Init()
		backend = g.cloud

		g.overlays = ui.NewOverlayRegistry()
		g.hud = ui.NewHUD()
		g.sliders = ui.NewSettingsPanel(260)
		g.legend = ui.NewLegendPanel(10, 200, 220)
		g.perfUI = ui.NewPerfPanel(260)
	}

	g.field = particles.New(cfg, cam, g.router, backend)
	g.field.SetPhaseTimer(g.perf)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	return g, nil
}

// Field returns the engine.
func (g *Gallery) Field() *particles.Field { return g.field }

// Camera returns the camera framing the cloud.
func (g *Gallery) Camera() *camera.Camera { return g.cam }

// Router returns the interaction router.
func (g *Gallery) Router() *interact.Router { return g.router }

// Device returns the virtual input device, nil in window mode.
func (g *Gallery) Device() *interact.VirtualDevice { return g.virtual }

// Index returns the index of the image currently shown, -1 before the first load.
func (g *Gallery) Index() int { return g.index }

// Len returns the number of images.
func (g *Gallery) Len() int { return len(g.images) }

// Frame returns the number of updates run.
func (g *Gallery) Frame() int { return g.frame }

// Busy reports whether a hide or load is in flight. Navigation is ignored while busy.
func (g *Gallery) Busy() bool { return g.hideDone != nil || g.loading != nil }

// AddSample appends an image to the gallery and returns its index.
func (g *Gallery) AddSample(src, name string) int {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	g.images = append(g.images, config.GalleryImage{Source: src, Name: name})
	slog.Info("sample added", "src", src, "index", len(g.images)-1)
	return len(g.images) - 1
}

// Next shows the following image, wrapping around.
func (g *Gallery) Next() bool { return g.Goto(g.index + 1) }

// Prev shows the preceding image, wrapping around.
func (g *Gallery) Prev() bool { return g.Goto(g.index - 1) }

// Goto hides the current cloud and loads image i once the hide completes.
// Returns false when the gallery is empty or busy.
func (g *Gallery) Goto(i int) bool {
	n := len(g.images)
	if n == 0 || g.Busy() {
		return false
	}
	g.target = ((i % n) + n) % n

	if g.field.Built() {
		g.hideDone = g.field.Hide()
		return true
	}
	g.startLoad()
	return true
}

func (g *Gallery) startLoad() {
	idx := g.target
	src := g.images[idx].Source
	loader := g.field.Loader()

	if g.syncLoad {
		img, err := loader.Decode(g.ctx, src)
		g.finishLoad(loadResult{index: idx, src: src, img: img, err: err})
		return
	}

	ch := make(chan loadResult, 1)
	g.loading = ch
	ctx := g.ctx
	go func() {
		img, err := loader.Decode(ctx, src)
		ch <- loadResult{index: idx, src: src, img: img, err: err}
	}()
}

func (g *Gallery) finishLoad(res loadResult) {
	g.index = res.index
	g.field.Resize(g.viewport(), g.override())
	g.field.LoadDecoded(res.src, res.img, res.err)
}

// advanceNavigation completes a pending hide or load without blocking.
func (g *Gallery) advanceNavigation() {
	if g.hideDone != nil {
		select {
		case <-g.hideDone:
			g.hideDone = nil
			g.startLoad()
		default:
		}
	}
	if g.loading != nil {
		select {
		case res := <-g.loading:
			g.loading = nil
			g.finishLoad(res)
		default:
		}
	}
}

func (g *Gallery) viewport() particles.Viewport {
	return particles.Classify(float64(g.screenW), float64(g.screenH), g.cfg.Layout.MobileBreakpoint)
}

func (g *Gallery) override() particles.LayoutOverride {
	return particles.LayoutOverride{OffsetX: g.cfg.Offset(g.index)}
}

// Resize propagates new screen dimensions to the camera and layout.
func (g *Gallery) Resize(w, h float32) {
	if w == g.screenW && h == g.screenH {
		return
	}
	g.screenW, g.screenH = w, h
	if g.virtual != nil {
		g.virtual.Rect = interact.Rect{W: w, H: h}
	}
	g.field.Resize(g.viewport(), g.override())
}

// ToggleSpatial enters or leaves spatial mode.
func (g *Gallery) ToggleSpatial() bool {
	if g.field.State() == particles.SpatialActive {
		return g.field.ExitSpatial()
	}
	return g.field.EnterSpatial()
}

// ApplySettings pushes the slider values into the engine.
func (g *Gallery) ApplySettings(s ui.Settings) {
	g.settings = s
	g.field.SetParameters(particles.Params{
		Spread: float64(s.Spread),
		Depth:  float64(s.Depth),
		Size:   float64(s.Size),
	})
	g.field.SetTouchRadius(float64(s.TouchRadius))
}

// Update runs one frame of input, engine and telemetry. dt is in seconds.
func (g *Gallery) Update(dt float64) {
	g.perf.StartTick()
	g.perf.RecordFrame()

	g.perf.StartPhase(telemetry.PhaseInput)
	if g.window != nil {
		g.handleInput()
		if !g.pointerOverUI() {
			g.window.Poll()
		}
	}

	g.field.Update(dt)

	g.perf.StartPhase(telemetry.PhaseNavigate)
	g.advanceNavigation()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.frame++
	g.collector.Observe(g.field)
	g.flushTelemetry()

	if g.window == nil {
		g.perf.EndTick()
	}
}

// Unload releases GPU resources and closes output files.
func (g *Gallery) Unload() {
	g.cancel()
	g.field.Destroy()
	if g.cloud != nil {
		g.cloud.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
