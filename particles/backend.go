package particles

import "image"

// Backend owns the GPU side of a built cloud: instanced geometry, the material
// with the source texture, and the touch texture.
type Backend interface {
	// Upload creates geometry and material for inst, sampling colours from tex.
	Upload(inst *Instances, tex *image.NRGBA) error
	// UpdateTouch re-uploads the displacement image.
	UpdateTouch(img *image.Gray)
	// Release disposes geometry and material. Safe to call when nothing is uploaded.
	Release()
}

// NullBackend records calls without touching a GPU. Used for headless runs and tests.
type NullBackend struct {
	Uploads      int
	Releases     int
	TouchUploads int

	Live      bool
	Instances int
}

// Upload implements Backend.
func (b *NullBackend) Upload(inst *Instances, tex *image.NRGBA) error {
	b.Uploads++
	b.Live = true
	b.Instances = inst.Len()
	return nil
}

// UpdateTouch implements Backend.
func (b *NullBackend) UpdateTouch(img *image.Gray) { b.TouchUploads++ }

// Release implements Backend.
func (b *NullBackend) Release() {
	if !b.Live {
		return
	}
	b.Releases++
	b.Live = false
	b.Instances = 0
}

// Update steps, in the order Field.Update runs them.
const (
	PhaseDrain   = "drain"   // Router events applied
	PhaseAdvance = "advance" // Interpolation records and timers
	PhaseTouch   = "touch"   // Displacement decay
	PhaseUpload  = "upload"  // Touch image handed to the backend
)

// PhaseTimer is told when each step of Field.Update begins.
type PhaseTimer interface {
	StartPhase(name string)
}
