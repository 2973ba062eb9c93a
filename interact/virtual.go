package interact

// VirtualDevice is a scriptable Device for headless runs and tests.
type VirtualDevice struct {
	Touch bool
	Rect  Rect

	listeners map[InputKind]Listener
	adds      int
}

// NewVirtualDevice creates a device with the given window size.
func NewVirtualDevice(width, height float32, touch bool) *VirtualDevice {
	return &VirtualDevice{
		Touch:     touch,
		Rect:      Rect{W: width, H: height},
		listeners: make(map[InputKind]Listener),
	}
}

// TouchCapable implements Device.
func (d *VirtualDevice) TouchCapable() bool { return d.Touch }

// AddListener implements Device.
func (d *VirtualDevice) AddListener(kind InputKind, fn Listener) {
	d.listeners[kind] = fn
	d.adds++
}

// RemoveListener implements Device.
func (d *VirtualDevice) RemoveListener(kind InputKind) { delete(d.listeners, kind) }

// Bounds implements Device.
func (d *VirtualDevice) Bounds() Rect { return d.Rect }

// Listening returns the number of attached listeners.
func (d *VirtualDevice) Listening() int { return len(d.listeners) }

// Attaches returns the total number of AddListener calls so far.
func (d *VirtualDevice) Attaches() int { return d.adds }

// Has reports whether a listener is attached for kind.
func (d *VirtualDevice) Has(kind InputKind) bool {
	_, ok := d.listeners[kind]
	return ok
}

// Emit delivers in to the matching listener. Returns whether the listener
// prevented the default action. Inputs without a listener are dropped.
func (d *VirtualDevice) Emit(in Input) bool {
	fn, ok := d.listeners[in.Kind]
	if !ok {
		return false
	}
	fn(&in)
	return in.DefaultPrevented()
}

// MouseMoveTo emits a mouse move.
func (d *VirtualDevice) MouseMoveTo(x, y float32) {
	d.Emit(Input{Kind: MouseMove, X: x, Y: y})
}

// MousePress emits a button press at (x, y).
func (d *VirtualDevice) MousePress(x, y float32, button int) {
	d.Emit(Input{Kind: MouseDown, X: x, Y: y, Button: button})
}

// MouseRelease emits a button release at (x, y).
func (d *VirtualDevice) MouseRelease(x, y float32, button int) {
	d.Emit(Input{Kind: MouseUp, X: x, Y: y, Button: button})
}

// TouchesStart emits a touchstart with the given active touches.
func (d *VirtualDevice) TouchesStart(touches ...Point) bool {
	return d.Emit(Input{Kind: TouchStart, Touches: touches})
}

// TouchesMove emits a touchmove with the given active touches.
func (d *VirtualDevice) TouchesMove(touches ...Point) bool {
	return d.Emit(Input{Kind: TouchMove, Touches: touches})
}

// TouchesEnd emits a touchend with the remaining touches.
func (d *VirtualDevice) TouchesEnd(remaining ...Point) bool {
	return d.Emit(Input{Kind: TouchEnd, Touches: remaining})
}
