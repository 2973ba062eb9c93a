package interact

// InputKind identifies a raw device listener slot.
type InputKind uint8

const (
	TouchStart InputKind = iota
	TouchMove
	TouchEnd
	MouseDown
	MouseMove
	MouseUp
	MouseLeave
	ContextMenu
)

var inputKindNames = [...]string{"touchstart", "touchmove", "touchend", "mousedown", "mousemove", "mouseup", "mouseleave", "contextmenu"}

func (k InputKind) String() string {
	if int(k) < len(inputKindNames) {
		return inputKindNames[k]
	}
	return "unknown"
}

// Mouse buttons as reported in Input.Button.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// Point is a device-space position in pixels.
type Point struct {
	X, Y float32
}

// Input is one raw device event.
type Input struct {
	Kind InputKind

	// Pointer position for mouse events
	X, Y float32

	// Mouse button for down/up events
	Button int

	// Active touches after the change (touch events only)
	Touches []Point

	defaultPrevented bool
}

// PreventDefault marks the event as consumed so the host skips its default gesture handling.
func (in *Input) PreventDefault() { in.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (in *Input) DefaultPrevented() bool { return in.defaultPrevented }

// IsTouch reports whether the input came from a touch listener.
func (in *Input) IsTouch() bool {
	return in.Kind == TouchStart || in.Kind == TouchMove || in.Kind == TouchEnd
}

// position returns the pointer position, using the first touch for touch events.
func (in *Input) position() (Point, bool) {
	if in.IsTouch() {
		if len(in.Touches) == 0 {
			return Point{}, false
		}
		return in.Touches[0], true
	}
	return Point{X: in.X, Y: in.Y}, true
}

// Listener receives raw input from a device.
type Listener func(in *Input)

// Device is a source of raw pointer input.
type Device interface {
	// TouchCapable reports whether the device delivers touch input.
	TouchCapable() bool
	// AddListener installs fn for kind, replacing any previous listener.
	AddListener(kind InputKind, fn Listener)
	// RemoveListener removes the listener for kind.
	RemoveListener(kind InputKind)
	// Bounds returns the full window rectangle.
	Bounds() Rect
}

// Rect is a viewport rectangle in device pixels.
type Rect struct {
	X, Y, W, H float32
}
