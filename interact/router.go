// Package interact turns raw pointer and touch input into semantic picking events
// (over, out, move, down, up) against a registry of ray-intersectable surfaces.
//
// Events are not delivered through callbacks. The router appends them to a bounded
// queue which the consumer drains once per frame, so dispatch never re-enters the
// surface registry.
//
// Precondition: the viewport rectangle must have non-zero width and height before
// the router is enabled. Coordinate normalization divides by both.
package interact

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pixeldust/camera"
)

// Router owns device listeners, the picking ray and the surface registry.
type Router struct {
	cam    *camera.Camera
	device Device

	surfaces []Surface
	viewport *Rect

	enabled  bool
	touch    bool
	attached []InputKind

	hovered  Surface
	selected Surface
	hit      Hit
	hasHit   bool
	isDown   bool

	// Last pointer position in normalized device coordinates
	ndc mgl32.Vec2

	queue *Queue
}

// NewRouter creates a disabled router.
func NewRouter(cam *camera.Camera, device Device, queueSize int) *Router {
	return &Router{
		cam:    cam,
		device: device,
		queue:  NewQueue(queueSize),
	}
}

// Register adds a pickable surface. Registering the same surface twice is a no-op.
func (r *Router) Register(s Surface) {
	if s == nil || r.indexOf(s) >= 0 {
		return
	}
	r.surfaces = append(r.surfaces, s)
}

// Unregister removes a surface. Unknown surfaces are ignored.
func (r *Router) Unregister(s Surface) {
	i := r.indexOf(s)
	if i < 0 {
		return
	}
	r.surfaces = append(r.surfaces[:i], r.surfaces[i+1:]...)
	if r.hovered == s {
		r.hovered = nil
		r.hasHit = false
	}
	if r.selected == s {
		r.selected = nil
	}
}

// Surfaces returns the number of registered surfaces.
func (r *Router) Surfaces() int { return len(r.surfaces) }

func (r *Router) indexOf(s Surface) int {
	for i, x := range r.surfaces {
		if x == s {
			return i
		}
	}
	return -1
}

// SetViewport sets the rectangle used for coordinate normalization.
// nil selects the full window reported by the device.
func (r *Router) SetViewport(rect *Rect) {
	if rect == nil {
		r.viewport = nil
		return
	}
	v := *rect
	r.viewport = &v
}

// Viewport returns the rectangle currently used for normalization.
func (r *Router) Viewport() Rect {
	if r.viewport != nil {
		return *r.viewport
	}
	return r.device.Bounds()
}

// Enabled reports whether device listeners are attached.
func (r *Router) Enabled() bool { return r.enabled }

// IsTouch reports the input class chosen at the last Enable.
func (r *Router) IsTouch() bool { return r.touch }

// Enable classifies the device and attaches listeners. Touch-capable devices get
// touch listeners only, all others mouse listeners only. Calling Enable twice is a no-op.
func (r *Router) Enable() {
	if r.enabled {
		return
	}
	r.touch = r.device.TouchCapable()

	if r.touch {
		r.attach(TouchStart, r.onDown)
		r.attach(TouchMove, r.onMove)
		r.attach(TouchEnd, r.onUp)
	} else {
		r.attach(MouseDown, r.onDown)
		r.attach(MouseMove, r.onMove)
		r.attach(MouseUp, r.onUp)
		r.attach(MouseLeave, r.onLeave)
		r.attach(ContextMenu, r.onContextMenu)
	}
	r.enabled = true

	slog.Debug("interaction router enabled", "touch", r.touch, "listeners", len(r.attached))
}

// Disable detaches every listener Enable attached and discards pending events.
// Calling Disable on a disabled router is a no-op.
func (r *Router) Disable() {
	if !r.enabled {
		return
	}
	for _, kind := range r.attached {
		r.device.RemoveListener(kind)
	}
	r.attached = r.attached[:0]
	r.enabled = false

	r.hovered = nil
	r.selected = nil
	r.hasHit = false
	r.isDown = false
	r.queue.Clear()
}

func (r *Router) attach(kind InputKind, fn Listener) {
	r.device.AddListener(kind, fn)
	r.attached = append(r.attached, kind)
}

// Drain hands every queued event to fn in arrival order and empties the queue.
func (r *Router) Drain(fn func(Event)) {
	for {
		ev, ok := r.queue.Pop()
		if !ok {
			return
		}
		fn(ev)
	}
}

// Pending returns the number of queued events.
func (r *Router) Pending() int { return r.queue.Len() }

// Dropped returns how many events overflowed the queue.
func (r *Router) Dropped() int { return r.queue.Dropped() }

// Hovered returns the surface currently under the pointer.
func (r *Router) Hovered() Surface { return r.hovered }

// IsDown reports whether a press is in progress.
func (r *Router) IsDown() bool { return r.isDown }

// normalize converts a device position to normalized device coordinates.
func (r *Router) normalize(p Point) mgl32.Vec2 {
	rect := r.Viewport()
	x := ((p.X-rect.X)/rect.W)*2 - 1
	y := -((p.Y-rect.Y)/rect.H)*2 + 1
	return mgl32.Vec2{x, y}
}

// pick returns the nearest hit among registered surfaces.
func (r *Router) pick(ndc mgl32.Vec2) (Surface, Hit, bool) {
	ray := r.cam.Ray(ndc.X(), ndc.Y())

	var best Surface
	var bestHit Hit
	for _, s := range r.surfaces {
		h, ok := s.Intersect(ray)
		if !ok {
			continue
		}
		if best == nil || h.Distance < bestHit.Distance {
			best = s
			bestHit = h
		}
	}
	return best, bestHit, best != nil
}

// track updates hover state from the pointer position and emits over/out/move.
func (r *Router) track(p Point) {
	r.ndc = r.normalize(p)
	s, h, ok := r.pick(r.ndc)

	if !ok {
		r.hasHit = false
		if r.hovered != nil {
			r.queue.Push(Event{Kind: EventOut, Surface: r.hovered})
			r.hovered = nil
		}
		return
	}

	r.hit = h
	r.hasHit = true

	if r.hovered != s {
		if r.hovered != nil {
			r.queue.Push(Event{Kind: EventOut, Surface: r.hovered})
		}
		r.queue.Push(Event{Kind: EventOver, Surface: s})
		r.hovered = s
		return
	}
	r.queue.Push(Event{Kind: EventMove, Surface: s, HasHit: true, Point: h.Point, UV: h.UV})
}

func (r *Router) onMove(in *Input) {
	if in.IsTouch() {
		// Keep the page from scrolling while dragging across the cloud
		in.PreventDefault()
	}
	p, ok := in.position()
	if !ok {
		return
	}
	r.track(p)
}

func (r *Router) onDown(in *Input) {
	r.isDown = true

	isPrimary := !in.IsTouch() && in.Button == ButtonLeft
	isSecondary := !in.IsTouch() && in.Button == ButtonMiddle
	if in.IsTouch() && len(in.Touches) == 2 {
		// Two fingers act as a left click and must not start a pinch-zoom
		isPrimary = true
		in.PreventDefault()
	}
	if isSecondary {
		in.PreventDefault()
	}

	if p, ok := in.position(); ok {
		r.track(p)
	}

	ev := Event{
		Kind:        EventDown,
		Surface:     r.hovered,
		Previous:    r.selected,
		IsPrimary:   isPrimary,
		IsSecondary: isSecondary,
	}
	if r.hasHit {
		ev.HasHit = true
		ev.Point = r.hit.Point
		ev.UV = r.hit.UV
	}
	r.queue.Push(ev)
	r.selected = r.hovered
}

func (r *Router) onUp(in *Input) {
	r.isDown = false

	isPrimary := !in.IsTouch() && in.Button == ButtonLeft
	isSecondary := !in.IsTouch() && in.Button == ButtonMiddle
	if in.Kind == TouchEnd && len(in.Touches) < 2 {
		// Fewer than two fingers left: whatever two fingers started is over
		isPrimary = true
	}

	r.queue.Push(Event{
		Kind:        EventUp,
		Surface:     r.hovered,
		IsPrimary:   isPrimary,
		IsSecondary: isSecondary,
	})
}

func (r *Router) onLeave(in *Input) {
	// Leaving the window releases the primary button
	up := Input{Kind: MouseUp, X: in.X, Y: in.Y, Button: ButtonLeft}
	r.onUp(&up)

	if r.hovered != nil {
		r.queue.Push(Event{Kind: EventOut, Surface: r.hovered})
	}
	r.hovered = nil
	r.hasHit = false
}

func (r *Router) onContextMenu(in *Input) {
	in.PreventDefault()
}
