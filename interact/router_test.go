package interact

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pixeldust/camera"
	"github.com/pthm-cable/pixeldust/config"
)

const (
	screenW = 800
	screenH = 600
)

func newTestRouter(touch bool) (*Router, *VirtualDevice, *PickPlane) {
	cam := camera.New(config.CameraConfig{FOV: 50, Z: 300, Near: 1, Far: 10000}, screenW, screenH)
	dev := NewVirtualDevice(screenW, screenH, touch)
	r := NewRouter(cam, dev, 64)
	plane := NewPickPlane(200, 150)
	r.Register(plane)
	return r, dev, plane
}

func drain(r *Router) []Event {
	var out []Event
	r.Drain(func(ev Event) { out = append(out, ev) })
	return out
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func equalKinds(a, b []EventKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEnableIdempotent(t *testing.T) {
	r, dev, _ := newTestRouter(false)

	r.Enable()
	r.Enable()

	if dev.Attaches() != 5 {
		t.Errorf("expected 5 listener attachments, got %d", dev.Attaches())
	}
	if !r.Enabled() {
		t.Error("expected router enabled")
	}
}

func TestDisableDetachesAll(t *testing.T) {
	r, dev, _ := newTestRouter(false)
	r.Enable()
	r.Disable()
	r.Disable()

	if dev.Listening() != 0 {
		t.Errorf("expected no listeners after disable, got %d", dev.Listening())
	}

	dev.MouseMoveTo(screenW/2, screenH/2)
	dev.MousePress(screenW/2, screenH/2, ButtonLeft)
	if n := r.Pending(); n != 0 {
		t.Errorf("expected no events after disable, got %d", n)
	}
}

func TestInputClassExclusive(t *testing.T) {
	tests := []struct {
		name      string
		touch     bool
		want      []InputKind
		forbidden []InputKind
	}{
		{"touch", true, []InputKind{TouchStart, TouchMove, TouchEnd}, []InputKind{MouseDown, MouseMove, MouseUp, MouseLeave, ContextMenu}},
		{"mouse", false, []InputKind{MouseDown, MouseMove, MouseUp, MouseLeave, ContextMenu}, []InputKind{TouchStart, TouchMove, TouchEnd}},
	}

	for _, tc := range tests {
		r, dev, _ := newTestRouter(tc.touch)
		r.Enable()
		for _, k := range tc.want {
			if !dev.Has(k) {
				t.Errorf("%s: expected listener for %s", tc.name, k)
			}
		}
		for _, k := range tc.forbidden {
			if dev.Has(k) {
				t.Errorf("%s: unexpected listener for %s", tc.name, k)
			}
		}
		if r.IsTouch() != tc.touch {
			t.Errorf("%s: expected IsTouch=%v", tc.name, tc.touch)
		}
	}
}

func TestHoverSequence(t *testing.T) {
	r, dev, plane := newTestRouter(false)
	r.Enable()

	dev.MouseMoveTo(screenW/2, screenH/2)
	dev.MouseMoveTo(screenW/2, screenH/2)
	dev.MouseMoveTo(5, 5)
	dev.MouseMoveTo(6, 6)

	events := drain(r)
	want := []EventKind{EventOver, EventMove, EventOut}
	if !equalKinds(kinds(events), want) {
		t.Fatalf("expected %v, got %v", want, kinds(events))
	}
	if events[0].Surface != plane || events[2].Surface != plane {
		t.Error("expected over/out to carry the plane")
	}

	uv := events[1].UV
	if math.Abs(float64(uv.X()-0.5)) > 1e-3 || math.Abs(float64(uv.Y()-0.5)) > 1e-3 {
		t.Errorf("expected centre uv (0.5, 0.5), got (%f, %f)", uv.X(), uv.Y())
	}
	if !events[1].HasHit {
		t.Error("expected move to carry intersection data")
	}
}

func TestMoveUVOrientation(t *testing.T) {
	r, dev, _ := newTestRouter(false)
	r.Enable()

	dev.MouseMoveTo(screenW/2, screenH/2)
	// Up and to the right of centre in screen space
	dev.MouseMoveTo(screenW/2+40, screenH/2-40)

	events := drain(r)
	last := events[len(events)-1]
	if last.Kind != EventMove {
		t.Fatalf("expected move, got %s", last.Kind)
	}
	if last.UV.X() <= 0.5 || last.UV.Y() <= 0.5 {
		t.Errorf("expected uv above and right of centre, got (%f, %f)", last.UV.X(), last.UV.Y())
	}
}

func TestNearestSurfaceWins(t *testing.T) {
	r, dev, far := newTestRouter(false)
	near := NewPickPlane(200, 150)
	near.Position = mgl32.Vec3{0, 0, 50}
	r.Register(near)
	r.Enable()

	dev.MouseMoveTo(screenW/2, screenH/2)
	events := drain(r)
	if len(events) != 1 || events[0].Surface != near {
		t.Fatalf("expected over on the nearer plane, got %+v", events)
	}
	if events[0].Surface == far {
		t.Error("farther plane must not win")
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r, _, plane := newTestRouter(false)
	r.Register(plane)
	if r.Surfaces() != 1 {
		t.Errorf("expected 1 surface, got %d", r.Surfaces())
	}

	r.Unregister(NewPickPlane(10, 10))
	if r.Surfaces() != 1 {
		t.Errorf("expected unknown unregister to be a no-op, got %d surfaces", r.Surfaces())
	}

	r.Unregister(plane)
	r.Unregister(plane)
	if r.Surfaces() != 0 {
		t.Errorf("expected 0 surfaces, got %d", r.Surfaces())
	}
}

func TestMouseDownUp(t *testing.T) {
	r, dev, plane := newTestRouter(false)
	r.Enable()

	dev.MousePress(screenW/2, screenH/2, ButtonLeft)
	dev.MouseRelease(screenW/2, screenH/2, ButtonLeft)
	dev.MousePress(screenW/2, screenH/2, ButtonMiddle)

	events := drain(r)
	want := []EventKind{EventOver, EventDown, EventUp, EventMove, EventDown}
	if !equalKinds(kinds(events), want) {
		t.Fatalf("expected %v, got %v", want, kinds(events))
	}

	down := events[1]
	if !down.IsPrimary || down.IsSecondary {
		t.Errorf("expected primary down, got %+v", down)
	}
	if down.Surface != plane || down.Previous != nil {
		t.Error("expected first down on plane with no previous selection")
	}
	if !events[2].IsPrimary {
		t.Error("expected primary up")
	}

	middle := events[4]
	if middle.IsPrimary || !middle.IsSecondary {
		t.Errorf("expected secondary down, got %+v", middle)
	}
	if middle.Previous != plane {
		t.Error("expected previous selection to be the plane")
	}
}

func TestDownAwayFromSurface(t *testing.T) {
	r, dev, _ := newTestRouter(false)
	r.Enable()

	dev.MousePress(5, 5, ButtonLeft)
	events := drain(r)
	if len(events) != 1 || events[0].Kind != EventDown {
		t.Fatalf("expected single down, got %v", kinds(events))
	}
	if events[0].Surface != nil || events[0].HasHit {
		t.Error("expected down with no surface and no hit")
	}
	if !events[0].IsPrimary {
		t.Error("left button is primary regardless of surface")
	}
}

func TestTwoFingerGesture(t *testing.T) {
	r, dev, _ := newTestRouter(true)
	r.Enable()

	a := Point{X: screenW / 2, Y: screenH / 2}
	b := Point{X: screenW/2 + 30, Y: screenH / 2}

	if dev.TouchesStart(a) {
		t.Error("single-finger start must not prevent default")
	}
	if !dev.TouchesStart(a, b) {
		t.Error("two-finger start must prevent default")
	}
	dev.TouchesEnd(a)
	dev.TouchesEnd()

	var downs, ups []Event
	for _, ev := range drain(r) {
		switch ev.Kind {
		case EventDown:
			downs = append(downs, ev)
		case EventUp:
			ups = append(ups, ev)
		}
	}
	if len(downs) != 2 || downs[0].IsPrimary || !downs[1].IsPrimary {
		t.Errorf("expected non-primary then primary down, got %+v", downs)
	}
	if len(ups) != 2 || !ups[0].IsPrimary || !ups[1].IsPrimary {
		t.Errorf("expected both releases below two fingers to be primary, got %+v", ups)
	}
}

func TestTouchMovePreventsDefault(t *testing.T) {
	r, dev, _ := newTestRouter(true)
	r.Enable()
	if !dev.TouchesMove(Point{X: 10, Y: 10}) {
		t.Error("expected touchmove to prevent default")
	}
}

func TestLeaveReleasesAndClearsHover(t *testing.T) {
	r, dev, plane := newTestRouter(false)
	r.Enable()

	dev.MouseMoveTo(screenW/2, screenH/2)
	drain(r)
	dev.Emit(Input{Kind: MouseLeave, X: screenW / 2, Y: 0})

	events := drain(r)
	want := []EventKind{EventUp, EventOut}
	if !equalKinds(kinds(events), want) {
		t.Fatalf("expected %v, got %v", want, kinds(events))
	}
	if !events[0].IsPrimary || events[1].Surface != plane {
		t.Error("expected primary release then out on plane")
	}
	if r.Hovered() != nil {
		t.Error("expected hover cleared")
	}
}

func TestContextMenuSuppressed(t *testing.T) {
	r, dev, _ := newTestRouter(false)
	r.Enable()
	if !dev.Emit(Input{Kind: ContextMenu}) {
		t.Error("expected context menu to be prevented")
	}
}

func TestCustomViewport(t *testing.T) {
	r, dev, _ := newTestRouter(false)
	r.SetViewport(&Rect{X: 100, Y: 0, W: 400, H: 300})
	r.Enable()

	// Centre of the custom rect
	dev.MouseMoveTo(300, 150)
	dev.MouseMoveTo(300, 150)
	events := drain(r)
	if len(events) != 2 || events[1].Kind != EventMove {
		t.Fatalf("expected over then move, got %v", kinds(events))
	}
	if math.Abs(float64(events[1].UV.X()-0.5)) > 1e-3 {
		t.Errorf("expected centred uv, got %f", events[1].UV.X())
	}

	r.SetViewport(nil)
	if r.Viewport() != dev.Rect {
		t.Errorf("expected full window viewport, got %+v", r.Viewport())
	}
}

func TestQueueDropsOldest(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 5; i++ {
		q.Push(Event{Kind: EventKind(i % 5)})
	}
	if q.Len() != 3 || q.Dropped() != 2 {
		t.Fatalf("expected len 3 dropped 2, got len %d dropped %d", q.Len(), q.Dropped())
	}
	ev, _ := q.Pop()
	if ev.Kind != EventMove {
		t.Errorf("expected oldest surviving event to be #2 (move), got %s", ev.Kind)
	}
}
