package mesh_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/mesh"
)

func maxDisplacement(g *mesh.Grid) float64 {
	peak := 0.0
	for i := 0; i < g.Len(); i++ {
		peak = math.Max(peak, g.Displacement(i))
	}
	return peak
}

var _ = Describe("Mesh", func() {
	var m *mesh.Mesh

	BeforeEach(func() {
		var err error
		m, err = mesh.New(mesh.DefaultConfig(), rand.New(rand.NewSource(2024)))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Resize", func() {
		DescribeTable("lays out ceil(w/spacing)+1 by ceil(h/spacing)+1 points at rest",
			func(w, h float64, cols, rows int) {
				m.Resize(w, h)
				g := m.Grid()
				Expect(g.Cols()).To(Equal(cols))
				Expect(g.Rows()).To(Equal(rows))
				Expect(g.Len()).To(Equal(cols * rows))
				Expect(maxDisplacement(g)).To(BeZero())
			},
			Entry("800x600", 800.0, 600.0, 21, 16),
			Entry("1920x1080", 1920.0, 1080.0, 49, 28),
			Entry("terminal 640x384", 640.0, 384.0, 17, 11),
		)

		It("produces an empty, harmless mesh for a zero viewport", func() {
			m.Resize(0, 0)
			Expect(m.Grid().Len()).To(BeZero())
			Expect(func() {
				m.Step(field.Input{Pointer: field.Pointer{X: 5, Y: 5}, Energy: 1})
				m.Draw(nil, field.Input{Energy: 1})
			}).NotTo(Panic())
		})

		It("resets every point to zero displacement when repeated", func() {
			m.Resize(800, 600)
			for f := 0; f < 20; f++ {
				m.Step(field.Input{Pointer: field.Pointer{X: 400, Y: 300}, Energy: 1})
			}
			Expect(maxDisplacement(m.Grid())).To(BeNumerically(">", 1))

			m.Resize(800, 600)
			Expect(maxDisplacement(m.Grid())).To(BeZero())
		})
	})

	Describe("Step", func() {
		BeforeEach(func() {
			m.Resize(800, 600)
		})

		It("guards a pointer sitting exactly on a grid point", func() {
			g := m.Grid()
			i := g.Index(5, 5)
			ox, oy := g.Origin(i)

			m.Step(field.Input{Pointer: field.Pointer{X: ox, Y: oy}, Energy: 1})

			x, y := g.Position(i)
			Expect(math.IsNaN(x) || math.IsNaN(y)).To(BeFalse())
			Expect(g.Displacement(i)).To(BeZero())
		})

		It("applies no repulsion at exactly the radius", func() {
			cfg := mesh.DefaultConfig()
			Expect(cfg.RepulsionForce(cfg.Radius, 1)).To(BeZero())
		})

		It("returns to rest once the pointer leaves", func() {
			for f := 0; f < 30; f++ {
				m.Step(field.Input{Pointer: field.Pointer{X: 410, Y: 290}, Energy: 1})
			}
			Expect(maxDisplacement(m.Grid())).To(BeNumerically(">", 5))

			for f := 0; f < 400; f++ {
				m.Step(field.Input{Pointer: field.Absent, Energy: 0})
			}
			Expect(maxDisplacement(m.Grid())).To(BeNumerically("<", 1e-3))
		})

		It("never changes origins or densities", func() {
			g := m.Grid()
			origins := make([][2]float64, g.Len())
			densities := make([]float64, g.Len())
			for i := range origins {
				origins[i][0], origins[i][1] = g.Origin(i)
				densities[i] = g.Density(i)
			}

			for f := 0; f < 50; f++ {
				m.Step(field.Input{Pointer: field.Pointer{X: float64(f * 15), Y: 300}, Energy: 1})
			}

			for i := range origins {
				ox, oy := g.Origin(i)
				Expect([2]float64{ox, oy}).To(Equal(origins[i]))
				Expect(g.Density(i)).To(Equal(densities[i]))
			}
		})
	})
})
