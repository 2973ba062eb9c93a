package gallery

import (
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pixeldust/interact"
)

var _ interact.Device = (*RaylibDevice)(nil)

// RaylibDevice polls raylib input once per frame and forwards changes to the
// attached listeners as raw interact.Input events.
type RaylibDevice struct {
	touch     bool
	listeners map[interact.InputKind]interact.Listener

	lastMouse   rl.Vector2
	onScreen    bool
	lastTouches []interact.Point
}

// NewRaylibDevice creates a device. mode is "on", "off" or "auto".
func NewRaylibDevice(mode string) *RaylibDevice {
	return &RaylibDevice{
		touch:     touchMode(mode, runtime.GOOS),
		listeners: make(map[interact.InputKind]interact.Listener),
		onScreen:  true,
	}
}

// touchMode resolves the configured touch mode; auto means mobile targets.
func touchMode(mode, goos string) bool {
	switch mode {
	case "on":
		return true
	case "auto":
		return goos == "android" || goos == "ios"
	}
	return false
}

func (d *RaylibDevice) TouchCapable() bool { return d.touch }

func (d *RaylibDevice) AddListener(kind interact.InputKind, fn interact.Listener) {
	d.listeners[kind] = fn
}

func (d *RaylibDevice) RemoveListener(kind interact.InputKind) { delete(d.listeners, kind) }

func (d *RaylibDevice) Bounds() interact.Rect {
	return interact.Rect{W: float32(rl.GetScreenWidth()), H: float32(rl.GetScreenHeight())}
}

// Listening returns the number of attached listeners.
func (d *RaylibDevice) Listening() int { return len(d.listeners) }

func (d *RaylibDevice) dispatch(in interact.Input) {
	if fn, ok := d.listeners[in.Kind]; ok {
		fn(&in)
	}
}

// Poll dispatches the input changes since the last poll.
// Call once per frame before the engine update.
func (d *RaylibDevice) Poll() {
	if d.touch {
		d.pollTouch()
		return
	}
	d.pollMouse()
}

func (d *RaylibDevice) pollTouch() {
	n := int(rl.GetTouchPointCount())
	touches := make([]interact.Point, n)
	for i := 0; i < n; i++ {
		p := rl.GetTouchPosition(int32(i))
		touches[i] = interact.Point{X: p.X, Y: p.Y}
	}
	if kind, ok := touchChange(d.lastTouches, touches); ok {
		d.dispatch(interact.Input{Kind: kind, Touches: touches})
	}
	d.lastTouches = touches
}

// touchChange picks the event kind for a change in the active touch list.
func touchChange(last, cur []interact.Point) (interact.InputKind, bool) {
	switch {
	case len(cur) > len(last):
		return interact.TouchStart, true
	case len(cur) < len(last):
		return interact.TouchEnd, true
	}
	for i := range cur {
		if cur[i] != last[i] {
			return interact.TouchMove, true
		}
	}
	return 0, false
}

var mouseButtons = [...]struct {
	rl     rl.MouseButton
	button int
}{
	{rl.MouseButtonLeft, interact.ButtonLeft},
	{rl.MouseButtonMiddle, interact.ButtonMiddle},
	{rl.MouseButtonRight, interact.ButtonRight},
}

func (d *RaylibDevice) pollMouse() {
	pos := rl.GetMousePosition()

	onScreen := rl.IsCursorOnScreen()
	if d.onScreen && !onScreen {
		d.dispatch(interact.Input{Kind: interact.MouseLeave, X: pos.X, Y: pos.Y})
	}
	d.onScreen = onScreen

	if pos != d.lastMouse {
		d.dispatch(interact.Input{Kind: interact.MouseMove, X: pos.X, Y: pos.Y})
		d.lastMouse = pos
	}

	for _, b := range mouseButtons {
		if rl.IsMouseButtonPressed(b.rl) {
			d.dispatch(interact.Input{Kind: interact.MouseDown, X: pos.X, Y: pos.Y, Button: b.button})
			if b.button == interact.ButtonRight {
				d.dispatch(interact.Input{Kind: interact.ContextMenu, X: pos.X, Y: pos.Y, Button: b.button})
			}
		}
		if rl.IsMouseButtonReleased(b.rl) {
			d.dispatch(interact.Input{Kind: interact.MouseUp, X: pos.X, Y: pos.Y, Button: b.button})
		}
	}
}
