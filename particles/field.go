// Package particles turns an image into an instanced point cloud and drives its
// shape through animated spread/depth/size parameters and a small state machine
// (hidden, showing, idle, exploding, reforming, spatial).
//
// Everything runs on the caller's render thread. Update must be called once per
// frame: it drains the interaction router, advances interpolation records, then
// decays the touch field, so impulses written by this frame's events are always
// part of this frame's decay and upload.
package particles

import (
	"context"
	"image"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pixeldust/camera"
	"github.com/pthm-cable/pixeldust/config"
	"github.com/pthm-cable/pixeldust/displacement"
	"github.com/pthm-cable/pixeldust/interact"
	"github.com/pthm-cable/pixeldust/tween"
)

// Field is the point-cloud engine for one image at a time.
type Field struct {
	cfg     *config.Config
	cam     *camera.Camera
	router  *interact.Router
	touch   *displacement.Field
	backend Backend
	loader  *Loader
	rng     *rand.Rand

	state  State
	params Params

	spread, depth, size tween.Value

	clock   float64 // Engine clock driving interpolation records
	elapsed float64 // Shader time since the current cloud was built

	// Built cloud
	src     string
	texture *image.NRGBA
	mask    *Mask
	inst    *Instances
	store   *Store
	surface *interact.PickPlane
	built   bool

	viewport *Viewport
	override LayoutOverride
	layout   Layout

	spatial bool
	pointer *spatialPointer

	hiding   bool
	hideDone chan struct{}

	reformPending bool
	reformAt      float64

	touchVersion uint64
	handled      int
	timer        PhaseTimer
}

// New creates a hidden field. The router must already be bound to the same camera.
func New(cfg *config.Config, cam *camera.Camera, router *interact.Router, backend Backend) *Field {
	seed := cfg.Mask.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if backend == nil {
		backend = &NullBackend{}
	}
	return &Field{
		cfg:     cfg,
		cam:     cam,
		router:  router,
		touch:   displacement.New(cfg.Touch),
		store:   NewStore(),
		backend: backend,
		loader:  NewLoader(),
		rng:     rand.New(rand.NewSource(seed)),
		params: Params{
			Spread: cfg.Defaults.Spread,
			Depth:  cfg.Defaults.Depth,
			Size:   cfg.Defaults.Size,
		},
		pointer: newSpatialPointer(cfg.Motion.SpatialFrequency, cfg.Motion.SpatialDamping),
	}
}

// SetLoader replaces the image loader.
func (f *Field) SetLoader(l *Loader) { f.loader = l }

// Loader returns the image loader.
func (f *Field) Loader() *Loader { return f.loader }

// Load decodes src and builds a new cloud from it. Decode failures are logged and
// replaced by the fallback texture, so Load always ends in Showing. A cloud that is
// still built (visible or mid-hide) is destroyed first.
func (f *Field) Load(ctx context.Context, src string) {
	img, err := f.loader.Decode(ctx, src)
	f.LoadDecoded(src, img, err)
}

// LoadDecoded builds from the result of a decode done elsewhere, typically on
// another goroutine. A non-nil err selects the fallback texture as in Load.
func (f *Field) LoadDecoded(src string, img image.Image, err error) {
	if err != nil {
		slog.Warn("image load failed, using fallback texture", "src", src, "error", err)
		img = Fallback(f.cfg.Mask.FallbackSize)
	}
	f.src = src
	f.build(img)
}

// LoadImage builds a new cloud from an already decoded image.
func (f *Field) LoadImage(img image.Image) {
	f.src = ""
	f.build(img)
}

func (f *Field) build(img image.Image) {
	if f.built || f.hiding {
		f.Destroy()
	}

	tex := ToNRGBA(img)
	mask := NewMask(tex, f.cfg.Mask.Threshold)
	inst := f.store.Build(mask, f.rng)

	if err := f.backend.Upload(inst, tex); err != nil {
		slog.Error("uploading point cloud", "src", f.src, "instances", inst.Len(), "error", err)
	}

	f.texture = tex
	f.mask = mask
	f.inst = inst
	f.surface = interact.NewPickPlane(float32(mask.Width), float32(mask.Height))
	f.built = true
	f.elapsed = 0
	f.spatial = false
	f.pointer.snap(0.5, 0.5)
	f.touch.Clear()

	f.applyLayout()
	f.router.Register(f.surface)
	f.router.Enable()

	slog.Info("point cloud built",
		"src", f.src,
		"width", mask.Width,
		"height", mask.Height,
		"instances", inst.Len(),
	)
	f.show()
}

func (f *Field) show() {
	m := f.cfg.Motion
	now := f.clock

	f.size.Set(0)
	f.spread.Set(1)
	f.size.To(now, f.params.Size, m.ShowDuration, tween.QuadOut, tagShow)
	f.spread.To(now, f.params.Spread, m.ShowDuration, tween.QuadOut, tagShow)
	f.depth.FromTo(now, m.DeployDepth, f.params.Depth, m.ShowDuration*m.ShowDepthFactor, tween.QuadOut, tagShow)
	f.setState(Showing)
}

// Hide collapses the cloud and returns a channel closed once the collapse has
// finished and every resource is released. The state is Hidden immediately.
// Calling Hide again during the collapse returns the same channel; calling it
// with nothing built returns a closed channel.
func (f *Field) Hide() <-chan struct{} {
	if f.hiding {
		return f.hideDone
	}
	done := make(chan struct{})
	if !f.built {
		close(done)
		f.setState(Hidden)
		return done
	}

	f.cancelReform()
	m := f.cfg.Motion
	now := f.clock
	f.spread.To(now, m.HideSpread, m.HideDuration, tween.QuadOut, tagHide)
	f.depth.To(now, m.HideDepth, m.HideDuration, tween.QuadIn, tagHide)
	f.size.To(now, 0, m.HideDuration*m.HideSizeFactor, tween.QuadOut, tagHide)

	f.hiding = true
	f.hideDone = done
	f.setState(Hidden)
	return done
}

// Hiding reports whether a hide sequence is in flight.
func (f *Field) Hiding() bool { return f.hiding }

func (f *Field) finishHide() {
	f.release()
	done := f.hideDone
	f.hiding = false
	f.hideDone = nil
	close(done)
}

// Destroy releases everything immediately. Safe to call repeatedly. A pending
// hide channel is closed so waiters never block.
func (f *Field) Destroy() {
	if f.hiding {
		close(f.hideDone)
		f.hiding = false
		f.hideDone = nil
	}
	f.release()
	f.spread.Set(f.spread.Get())
	f.depth.Set(f.depth.Get())
	f.size.Set(f.size.Get())
	f.setState(Hidden)
}

func (f *Field) release() {
	f.cancelReform()
	if !f.built {
		return
	}
	f.backend.Release()
	f.router.Unregister(f.surface)
	f.router.Disable()

	f.texture = nil
	f.mask = nil
	f.inst = nil
	f.store.Reset()
	f.surface = nil
	f.built = false
	f.spatial = false
	f.touch.Clear()

	slog.Debug("point cloud released", "src", f.src)
}

// Update advances the engine by dt seconds.
func (f *Field) Update(dt float64) {
	f.clock += dt
	if f.built {
		f.elapsed += dt
	}

	f.mark(PhaseDrain)
	f.router.Drain(f.handle)

	f.mark(PhaseAdvance)
	if f.reformPending && f.clock >= f.reformAt {
		f.reformPending = false
		if f.state == Exploding || f.state == Idle {
			f.reform()
		}
	}

	f.advance()

	if f.spatial {
		f.pointer.step(dt)
	}

	f.mark(PhaseTouch)
	f.touch.Tick(dt)

	f.mark(PhaseUpload)
	if v := f.touch.Version(); f.built && v != f.touchVersion {
		f.backend.UpdateTouch(f.touch.Image())
		f.touchVersion = v
	}
}

// SetPhaseTimer installs t to be told when each Update step begins.
func (f *Field) SetPhaseTimer(t PhaseTimer) { f.timer = t }

func (f *Field) mark(phase string) {
	if f.timer != nil {
		f.timer.StartPhase(phase)
	}
}

func (f *Field) advance() {
	spreadDone := f.spread.Advance(f.clock)
	f.depth.Advance(f.clock)
	f.size.Advance(f.clock)

	switch {
	case f.hiding:
		if spreadDone && f.spread.Tag() == tagHide {
			f.finishHide()
		}
	case f.state == Showing && !f.animating(tagShow):
		f.setState(Idle)
	case f.state == Reforming && !f.animating(tagReform):
		f.setState(Idle)
	}
}

// animating reports whether any parameter has an in-flight record tagged tag.
func (f *Field) animating(tag int) bool {
	for _, v := range [...]*tween.Value{&f.spread, &f.depth, &f.size} {
		if v.Active() && v.Tag() == tag {
			return true
		}
	}
	return false
}

func (f *Field) handle(ev interact.Event) {
	f.handled++
	if !f.built || f.hiding {
		return
	}
	switch ev.Kind {
	case interact.EventMove:
		if f.state == SpatialActive || ev.Surface != interact.Surface(f.surface) || !ev.HasHit {
			return
		}
		f.touch.AddImpulse(float64(ev.UV.X()), float64(ev.UV.Y()))
	case interact.EventDown:
		if ev.IsPrimary {
			f.Explode()
		}
	case interact.EventUp:
		if ev.IsPrimary {
			f.Reform()
		}
	}
}

// Explode scatters the cloud. Allowed from Idle, Showing and Reforming; cancels a
// scheduled reform. Returns whether the transition was taken.
func (f *Field) Explode() bool {
	switch f.state {
	case Idle, Showing, Reforming:
	default:
		return false
	}
	f.cancelReform()

	m := f.cfg.Motion
	d := m.ExplodeDesktop
	if f.router.IsTouch() {
		d = m.ExplodeTouch
	}
	now := f.clock
	f.spread.To(now, m.ExplodeSpread, d, tween.Power2Out, tagExplode)
	f.depth.To(now, m.ExplodeDepth, d, tween.Power2Out, tagExplode)
	f.setState(Exploding)
	return true
}

// Reform returns the cloud to the caller's parameters. Allowed from Exploding and
// Idle; ignored while already Reforming. With a configured reform delay the
// transition is scheduled instead, replacing any earlier schedule.
func (f *Field) Reform() bool {
	switch f.state {
	case Exploding, Idle:
	default:
		return false
	}
	f.cancelReform()

	if delay := f.cfg.Motion.ReformDelay; delay > 0 {
		f.reformPending = true
		f.reformAt = f.clock + delay
		return true
	}
	f.reform()
	return true
}

func (f *Field) reform() {
	m := f.cfg.Motion
	base := m.ReformBaseDesktop
	if f.router.IsTouch() {
		base = m.ReformBaseTouch
	}
	now := f.clock
	f.size.To(now, f.params.Size, base*m.ReformSizeFactor, tween.Power2InOut, tagReform)
	f.spread.To(now, f.params.Spread, base*m.ReformSpreadFactor, tween.Power2InOut, tagReform)
	f.depth.To(now, f.params.Depth, base*m.ReformDepthFactor, tween.Power2InOut, tagReform)
	f.setState(Reforming)
}

func (f *Field) cancelReform() {
	f.reformPending = false
}

// ReformPending reports whether a delayed reform is scheduled.
func (f *Field) ReformPending() bool { return f.reformPending }

// EnterSpatial switches to spatial mode: the pointer uniform snaps to the centre,
// parameters snap to the caller's values and touch impulses are suppressed.
func (f *Field) EnterSpatial() bool {
	if !f.built || f.hiding || f.state == SpatialActive {
		return false
	}
	f.cancelReform()
	f.pointer.snap(0.5, 0.5)
	f.spatial = true
	f.spread.Set(f.params.Spread)
	f.depth.Set(f.params.Depth)
	f.size.Set(f.params.Size)
	f.setState(SpatialActive)
	return true
}

// ExitSpatial leaves spatial mode and animates back to the caller's values.
func (f *Field) ExitSpatial() bool {
	if f.state != SpatialActive {
		return false
	}
	f.spatial = false

	d := f.cfg.Motion.SpatialExit
	now := f.clock
	f.size.To(now, f.params.Size, d, tween.Power2InOut, tagSpatial)
	f.spread.To(now, f.params.Spread, d, tween.Power2InOut, tagSpatial)
	f.depth.To(now, f.params.Depth, d, tween.Power2InOut, tagSpatial)
	f.setState(Idle)
	return true
}

// SetSpatialPointer sets the target of the spring-smoothed spatial pointer.
// Ignored outside spatial mode.
func (f *Field) SetSpatialPointer(u, v float64) {
	if !f.spatial {
		return
	}
	f.pointer.setTarget(u, v)
}

// SetParameters replaces the caller's baseline. Settled values snap to it;
// transitions heading back to the baseline (show, reform, spatial exit) are
// steered onto the new values without changing their end time. While exploding
// or hidden the values become the targets of the next baseline transition.
func (f *Field) SetParameters(p Params) {
	f.params = p
	switch f.state {
	case SpatialActive:
		f.spread.Set(p.Spread)
		f.depth.Set(p.Depth)
		f.size.Set(p.Size)
	case Idle, Showing, Reforming:
		now := f.clock
		f.spread.Retarget(now, p.Spread)
		f.depth.Retarget(now, p.Depth)
		f.size.Retarget(now, p.Size)
	}
}

// SetTouchRadius changes the impulse footprint radius in uv units.
func (f *Field) SetTouchRadius(r float64) { f.touch.SetRadius(r) }

// Resize recomputes the layout for vp and applies it to geometry and pick surface.
// The viewport is remembered so clouds built later use it too.
func (f *Field) Resize(vp Viewport, ov LayoutOverride) Layout {
	v := vp
	f.viewport = &v
	f.override = ov
	f.cam.Resize(float32(vp.Width), float32(vp.Height))
	return f.applyLayout()
}

func (f *Field) applyLayout() Layout {
	if !f.built {
		return f.layout
	}
	vp := f.viewport
	if vp == nil {
		// No explicit resize yet: classify the camera's own viewport
		c := Classify(float64(f.cam.ViewportW), float64(f.cam.ViewportH), f.cfg.Layout.MobileBreakpoint)
		vp = &c
	}
	f.layout = ComputeLayout(*vp, f.override,
		float64(f.cam.FovWidth()), float64(f.cam.FovHeight()),
		f.mask.Width, f.mask.Height, f.cfg.Layout)

	f.surface.Scale = float32(f.layout.Scale)
	f.surface.Position = mgl32.Vec3{float32(f.layout.OffsetX), 0, 0}

	slog.Debug("layout applied",
		"width", vp.Width,
		"height", vp.Height,
		"class", vp.Class.String(),
		"orientation", vp.Orientation.String(),
		"policy", f.layout.Policy.String(),
		"scale", f.layout.Scale,
	)
	return f.layout
}

func (f *Field) setState(s State) {
	if f.state == s {
		return
	}
	slog.Debug("particle state", "from", f.state.String(), "to", s.String())
	f.state = s
}

// State returns the current engine state.
func (f *Field) State() State { return f.state }

// Params returns the caller's baseline.
func (f *Field) Params() Params { return f.params }

// Current returns the animated parameter values of this frame.
func (f *Field) Current() Params {
	return Params{Spread: f.spread.Get(), Depth: f.depth.Get(), Size: f.size.Get()}
}

// Targets returns the value each animated parameter is heading to.
func (f *Field) Targets() Params {
	return Params{Spread: f.spread.Target(), Depth: f.depth.Target(), Size: f.size.Target()}
}

// Built reports whether GPU resources and the pick surface exist.
func (f *Field) Built() bool { return f.built }

// Store returns the ECS store holding the current cloud's instances.
func (f *Field) Store() *Store { return f.store }

// Instances returns the built instance data, nil when nothing is built.
func (f *Field) Instances() *Instances { return f.inst }

// Texture returns the source texture of the built cloud.
func (f *Field) Texture() *image.NRGBA { return f.texture }

// Surface returns the pick surface of the built cloud.
func (f *Field) Surface() *interact.PickPlane { return f.surface }

// Layout returns the last applied layout.
func (f *Field) Layout() Layout { return f.layout }

// Touch returns the displacement field.
func (f *Field) Touch() *displacement.Field { return f.touch }

// Elapsed returns the shader time of the current cloud.
func (f *Field) Elapsed() float64 { return f.elapsed }

// Handled returns how many interaction events have been drained so far.
func (f *Field) Handled() int { return f.handled }

// Source returns the source the current cloud was loaded from.
func (f *Field) Source() string { return f.src }

// Uniforms returns the shader inputs for this frame.
func (f *Field) Uniforms() Uniforms {
	px, py := f.pointer.value()
	u := Uniforms{
		Time:     float32(f.elapsed),
		Spread:   float32(f.spread.Get()),
		Depth:    float32(f.depth.Get()),
		Size:     float32(f.size.Get()),
		Pointer:  [2]float32{float32(px), float32(py)},
		Strength: float32(f.cfg.Touch.Strength),
		Scale:    float32(f.layout.Scale),
		OffsetX:  float32(f.layout.OffsetX),
	}
	if f.inst != nil {
		u.TextureSize = [2]float32{float32(f.inst.Width), float32(f.inst.Height)}
	}
	if f.spatial {
		u.SpatialMode = 1
	}
	return u
}
