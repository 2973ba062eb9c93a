// Package tween provides explicit scalar interpolation records advanced by the caller's clock.
//
// A Value holds at most one in-flight interpolation. Requesting a new target
// retargets from the current value; there is no queue of steps.
package tween

import "github.com/tanema/gween/ease"

// Easing curves used by the engine. Each is an ease.TweenFunc evaluated over a
// unit range, so any curve from the ease package can be passed to To.
var (
	Linear      ease.TweenFunc = ease.Linear
	QuadOut     ease.TweenFunc = ease.OutQuad
	QuadIn      ease.TweenFunc = ease.InQuad
	Power2Out   ease.TweenFunc = ease.OutCubic
	Power2InOut ease.TweenFunc = ease.InOutCubic
	SineOut     ease.TweenFunc = ease.OutSine
)

// Progress evaluates e at normalized time t in [0, 1].
func Progress(e ease.TweenFunc, t float64) float64 {
	if e == nil {
		return t
	}
	return float64(e(float32(t), 0, 1, 1))
}

// Record is one interpolation from Start to Target.
type Record struct {
	Start     float64
	Target    float64
	StartTime float64
	Duration  float64
	Ease      ease.TweenFunc
	Tag       int // Caller-defined label of the transition that issued this record
}

// At evaluates the record at time now. Returns the value and whether the record is finished.
// A finished record evaluates to exactly Target.
func (r *Record) At(now float64) (float64, bool) {
	if r.Duration <= 0 || now >= r.StartTime+r.Duration {
		return r.Target, true
	}
	t := (now - r.StartTime) / r.Duration
	if t < 0 {
		t = 0
	}
	return r.Start + (r.Target-r.Start)*Progress(r.Ease, t), false
}

// Value is an animated scalar.
type Value struct {
	v      float64
	rec    Record
	active bool
}

// NewValue returns a settled value.
func NewValue(v float64) Value {
	return Value{v: v}
}

// Get returns the current value.
func (a *Value) Get() float64 { return a.v }

// Active reports whether an interpolation is in flight.
func (a *Value) Active() bool { return a.active }

// Tag returns the tag of the in-flight (or last) interpolation.
func (a *Value) Tag() int { return a.rec.Tag }

// Target returns the value the parameter is heading to.
func (a *Value) Target() float64 {
	if a.active {
		return a.rec.Target
	}
	return a.v
}

// Set snaps to v, cancelling any interpolation.
func (a *Value) Set(v float64) {
	a.v = v
	a.active = false
}

// To retargets from the current value toward target.
func (a *Value) To(now, target, duration float64, easing ease.TweenFunc, tag int) {
	a.FromTo(now, a.v, target, duration, easing, tag)
}

// FromTo jumps to from, then interpolates toward target.
func (a *Value) FromTo(now, from, target, duration float64, easing ease.TweenFunc, tag int) {
	a.v = from
	a.rec = Record{
		Start:     from,
		Target:    target,
		StartTime: now,
		Duration:  duration,
		Ease:      easing,
		Tag:       tag,
	}
	a.active = true
}

// Retarget steers an in-flight interpolation toward target, keeping its
// easing, tag and end time. A settled value snaps to target.
func (a *Value) Retarget(now, target float64) {
	if !a.active {
		a.Set(target)
		return
	}
	remaining := a.rec.StartTime + a.rec.Duration - now
	if remaining < 0 {
		remaining = 0
	}
	a.To(now, target, remaining, a.rec.Ease, a.rec.Tag)
}

// Advance evaluates the interpolation at now. Returns true exactly once, on the
// call where the interpolation completes.
func (a *Value) Advance(now float64) bool {
	if !a.active {
		return false
	}
	v, done := a.rec.At(now)
	a.v = v
	if done {
		a.active = false
		return true
	}
	return false
}
