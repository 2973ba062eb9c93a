// Package components defines ECS components for point-cloud instances.
package components

// PixelIndex is the row-major index of the source pixel an instance draws,
// in texture space (row 0 at the bottom).
type PixelIndex struct {
	I uint32
}

// Offset is the pixel coordinate of the instance, (i mod w, i div w).
type Offset struct {
	X, Y float32
}

// Angle is the per-instance jitter direction in [0, π), fixed at build time.
type Angle struct {
	Rad float32
}
