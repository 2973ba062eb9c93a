package particles

import "github.com/charmbracelet/harmonica"

// spatialPointer is the spring-smoothed pointer uniform used in spatial mode.
type spatialPointer struct {
	frequency, damping float64

	spring harmonica.Spring
	dt     float64

	pos, vel [2]float64
	target   [2]float64
}

func newSpatialPointer(frequency, damping float64) *spatialPointer {
	p := &spatialPointer{frequency: frequency, damping: damping}
	p.snap(0.5, 0.5)
	return p
}

// snap jumps to (u, v) with no motion.
func (p *spatialPointer) snap(u, v float64) {
	p.pos = [2]float64{u, v}
	p.target = p.pos
	p.vel = [2]float64{}
}

func (p *spatialPointer) setTarget(u, v float64) {
	p.target = [2]float64{clampUnit(u), clampUnit(v)}
}

// step advances the spring by dt seconds.
func (p *spatialPointer) step(dt float64) {
	if dt <= 0 {
		return
	}
	if dt != p.dt {
		p.spring = harmonica.NewSpring(dt, p.frequency, p.damping)
		p.dt = dt
	}
	for i := range p.pos {
		p.pos[i], p.vel[i] = p.spring.Update(p.pos[i], p.vel[i], p.target[i])
	}
}

func (p *spatialPointer) value() (float64, float64) { return p.pos[0], p.pos[1] }

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
