package telemetry

import "github.com/pthm-cable/pixeldust/particles"

// Collector samples the field every frame and produces WindowStats.
type Collector struct {
	windowFrames int

	// Current window tracking
	windowStart int
	frame       int
	lastState   particles.State
	lastHandled int
	lastDropped int

	// Counters for current window
	transitions int
	explodes    int
	reforms     int
	peak        float64
	energies    []float64
}

// NewCollector creates a collector that flushes every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: windowFrames,
		energies:     make([]float64, 0, windowFrames),
	}
}

// Observe records the field's state after one Update.
func (c *Collector) Observe(f *particles.Field) {
	c.frame++

	if s := f.State(); s != c.lastState {
		c.transitions++
		switch s {
		case particles.Exploding:
			c.explodes++
		case particles.Reforming:
			c.reforms++
		}
		c.lastState = s
	}

	touch := f.Touch()
	if p := touch.Peak(); p > c.peak {
		c.peak = p
	}
	c.energies = append(c.energies, touch.Energy())
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush() bool {
	return c.frame-c.windowStart >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
// handled and dropped are the router's cumulative event counts.
func (c *Collector) Flush(f *particles.Field, handled, dropped int) WindowStats {
	mean, p50, p90 := ComputeEnergyStats(c.energies)
	cur := f.Current()

	stats := WindowStats{
		WindowStartFrame: c.windowStart,
		WindowEndFrame:   c.frame,
		Elapsed:          f.Elapsed(),
		Source:           f.Source(),

		State:  f.State().String(),
		Spread: cur.Spread,
		Depth:  cur.Depth,
		Size:   cur.Size,
		Scale:  f.Layout().Scale,

		Events:      handled - c.lastHandled,
		Dropped:     dropped - c.lastDropped,
		Transitions: c.transitions,
		Explodes:    c.explodes,
		Reforms:     c.reforms,

		TouchPeak:       c.peak,
		TouchEnergyMean: mean,
		TouchEnergyP50:  p50,
		TouchEnergyP90:  p90,
	}
	if f.Built() {
		stats.Instances = f.Store().Len()
	}

	// Reset for next window
	c.windowStart = c.frame
	c.lastHandled = handled
	c.lastDropped = dropped
	c.transitions = 0
	c.explodes = 0
	c.reforms = 0
	c.peak = 0
	c.energies = c.energies[:0]

	return stats
}

// Frame returns the number of observed frames.
func (c *Collector) Frame() int { return c.frame }
