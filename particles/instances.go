package particles

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pixeldust/components"
)

// Instances is the flattened per-instance data uploaded to the GPU.
// All slices have one entry per visible pixel (Offsets has two).
type Instances struct {
	Width, Height int

	Indices []uint32  // Source pixel index
	Offsets []float32 // (x, y) pixel coordinates, interleaved
	Angles  []float32 // Jitter direction in [0, π)
}

// Len returns the number of instances.
func (in *Instances) Len() int { return len(in.Indices) }

// Store keeps the instances of the current cloud as ECS entities, one per
// visible mask pixel. The world is reset on every build and on release.
type Store struct {
	world  *ecs.World
	mapper *ecs.Map3[components.PixelIndex, components.Offset, components.Angle]
	filter *ecs.Filter3[components.PixelIndex, components.Offset, components.Angle]
}

// NewStore creates an empty store.
func NewStore() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:  world,
		mapper: ecs.NewMap3[components.PixelIndex, components.Offset, components.Angle](world),
		filter: ecs.NewFilter3[components.PixelIndex, components.Offset, components.Angle](world),
	}
}

// Build replaces the stored entities with one per visible pixel of m and
// flattens them in pixel order. Panics if the stored count disagrees with the
// mask pre-pass.
func (s *Store) Build(m *Mask, rng *rand.Rand) *Instances {
	s.world.Reset()
	for i := 0; i < m.Len(); i++ {
		if !m.Visible(i) {
			continue
		}
		idx := components.PixelIndex{I: uint32(i)}
		off := components.Offset{X: float32(i % m.Width), Y: float32(i / m.Width)}
		ang := components.Angle{Rad: float32(rng.Float64() * math.Pi)}
		s.mapper.NewEntity(&idx, &off, &ang)
	}

	n := m.Count()
	inst := &Instances{
		Width:   m.Width,
		Height:  m.Height,
		Indices: make([]uint32, 0, n),
		Offsets: make([]float32, 0, 2*n),
		Angles:  make([]float32, 0, n),
	}
	s.Each(func(idx uint32, x, y, angle float32) {
		inst.Indices = append(inst.Indices, idx)
		inst.Offsets = append(inst.Offsets, x, y)
		inst.Angles = append(inst.Angles, angle)
	})

	if len(inst.Indices) != n {
		panic(fmt.Sprintf("particles: built %d instances, mask counted %d", len(inst.Indices), n))
	}
	return inst
}

// Each calls fn for every stored instance in build order.
func (s *Store) Each(fn func(idx uint32, x, y, angle float32)) {
	query := s.filter.Query()
	for query.Next() {
		idx, off, ang := query.Get()
		fn(idx.I, off.X, off.Y, ang.Rad)
	}
}

// Len returns the number of stored instances.
func (s *Store) Len() int {
	query := s.filter.Query()
	n := query.Count()
	query.Close()
	return n
}

// Reset removes every instance.
func (s *Store) Reset() { s.world.Reset() }

// BuildInstances builds instances for m in a fresh store.
func BuildInstances(m *Mask, rng *rand.Rand) *Instances {
	return NewStore().Build(m, rng)
}
