package mesh

import (
	"math"

	"github.com/san-kum/meshsim/internal/field"
)

// minRepelDist guards the normalization of the pointer-to-point vector. A
// point sitting exactly under the pointer gets no repulsion this frame.
const minRepelDist = 1e-9

// Step advances every point by one frame: pointer repulsion (gated by
// energy), spring return to origin, friction, then explicit Euler
// integration. Stability requires 0 < Friction < 1 and a small Spring,
// which Config.Validate enforces.
func (m *Mesh) Step(in field.Input) {
	g := m.grid
	cfg := &m.cfg
	radius := cfg.Radius
	radiusSq := radius * radius
	repel := in.Energy > cfg.EnergyEpsilon && in.Pointer.Present()
	mx, my := in.Pointer.X, in.Pointer.Y

	data := g.data
	for idx := 0; idx+stride <= len(data); idx += stride {
		x, y := data[idx+offX], data[idx+offY]

		if repel {
			dx, dy := x-mx, y-my
			distSq := dx*dx + dy*dy
			if distSq < radiusSq {
				dist := math.Sqrt(distSq)
				if dist > minRepelDist {
					force := (1 - dist/radius) * cfg.Repulsion * in.Energy
					data[idx+offVX] += dx / dist * force
					data[idx+offVY] += dy / dist * force
				}
			}
		}

		data[idx+offVX] += (data[idx+offOX] - x) * cfg.Spring
		data[idx+offVY] += (data[idx+offOY] - y) * cfg.Spring

		data[idx+offVX] *= cfg.Friction
		data[idx+offVY] *= cfg.Friction

		data[idx+offX] += data[idx+offVX]
		data[idx+offY] += data[idx+offVY]
	}
}

// RepulsionForce is the impulse magnitude applied at distance dist from the
// pointer. It is zero at and beyond the radius.
func (c Config) RepulsionForce(dist, energy float64) float64 {
	if dist >= c.Radius || dist < 0 {
		return 0
	}
	return (1 - dist/c.Radius) * c.Repulsion * energy
}
