package solver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trussim/internal/matrix"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/stiffness"
	"github.com/san-kum/trussim/internal/truss"
)

// pratt builds a six-panel pratt truss, 24 long and 4 high, pinned at the
// left end and on a roller at the right, with a load at every bottom node.
func pratt(load float64) *truss.Model {
	m := truss.New()
	m.Name = "pratt"
	const panels = 6
	for i := 0; i <= panels; i++ {
		m.AddNode(float64(4*i), 0, i == 0, i == 0 || i == panels)
	}
	for i := 1; i < panels; i++ {
		m.AddNode(float64(4*i), 4, false, false)
	}
	top := func(i int) int { return panels + i } // top node above bottom node i
	opts := []truss.MemberOption{truss.WithArea(3e-3), truss.WithModulus(2e11)}

	for i := 0; i < panels; i++ {
		m.AddMember(i, i+1, opts...)
	}
	for i := 1; i < panels-1; i++ {
		m.AddMember(top(i), top(i+1), opts...)
	}
	for i := 1; i < panels; i++ {
		m.AddMember(i, top(i), opts...)
	}
	m.AddMember(0, top(1), opts...)
	m.AddMember(panels, top(panels-1), opts...)
	for i := 1; i < panels/2; i++ {
		m.AddMember(top(i), i+1, opts...)
	}
	for i := panels / 2; i < panels-1; i++ {
		m.AddMember(top(i+1), i, opts...)
	}
	for i := 1; i < panels; i++ {
		m.AddLoad(i, 0, -load)
	}
	return m
}

var _ = Describe("Direct stiffness pipeline", func() {
	var model *truss.Model

	BeforeEach(func() {
		model = pratt(10e3)
	})

	It("assembles a symmetric 2N x 2N stiffness matrix", func() {
		K, err := stiffness.Assemble(model)
		Expect(err).NotTo(HaveOccurred())
		Expect(K.Rows()).To(Equal(2 * model.NumNodes()))
		Expect(K.IsSymmetric(0)).To(BeTrue())
	})

	Context("after a successful solve", func() {
		var s *solver.Solver

		BeforeEach(func() {
			s = solver.New(model)
			Expect(s.Solve()).To(Succeed())
		})

		It("balances applied loads with reactions", func() {
			r, err := s.Reactions()
			Expect(err).NotTo(HaveOccurred())
			dofs, _ := s.ReactionDOFs()
			Expect(dofs).To(Equal([]int{0, 1, 13}))

			Expect(r[0]).To(BeNumerically("~", 0, 1e-6))
			Expect(r[1] + r[2]).To(BeNumerically("~", 50e3, 1e-6))
			// symmetric truss, symmetric load
			Expect(r[1]).To(BeNumerically("~", 25e3, 1e-6))
		})

		It("sags downward at midspan", func() {
			d, _ := s.Displacements()
			_, mid := truss.DOFs(3)
			Expect(d[mid]).To(BeNumerically("<", 0))
		})

		It("puts the bottom chord in tension and the top chord in compression", func() {
			f, _ := s.Forces()
			for i := 0; i < 6; i++ {
				Expect(f[i]).To(BeNumerically(">", 0), "bottom chord member %d", i)
			}
			for i := 6; i < 10; i++ {
				Expect(f[i]).To(BeNumerically("<", 0), "top chord member %d", i)
			}
		})

		It("matches the method of sections at midspan", func() {
			f, _ := s.Forces()
			// moment at x=12: 25e3*12 - 10e3*(8+4) = 180e3; over a 4 m depth
			Expect(math.Abs(f[7])).To(BeNumerically("~", 45e3, 1e-3))
		})

		It("reports global equilibrium through metrics", func() {
			res, err := s.Result()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKey("equilibrium_x"))
			Expect(res.Metrics["equilibrium_x"]).To(BeNumerically("<", 1e-6))
			Expect(res.Metrics["equilibrium_y"]).To(BeNumerically("<", 1e-6))
			Expect(res.Metrics["strain_energy"]).To(BeNumerically(">", 0))
		})

		It("returns identical vectors when solved again", func() {
			d1, _ := s.Displacements()
			Expect(s.Solve()).To(Succeed())
			d2, _ := s.Displacements()
			Expect(d2).To(Equal(d1))
		})
	})

	Context("when a support is removed", func() {
		It("fails with a structural instability instead of returning numbers", func() {
			m := truss.New()
			m.AddNode(0, 0, true, true)
			m.AddNode(4, 0, false, false)
			m.AddNode(2, 3, false, false)
			m.AddMember(0, 1)
			m.AddMember(1, 2)
			m.AddMember(0, 2)
			m.AddLoad(2, 1, 0)

			s := solver.New(m)
			err := s.Solve()
			Expect(err).To(MatchError(solver.ErrUnstable))
			Expect(err).To(MatchError(matrix.ErrSingularMatrix))

			_, err = s.Displacements()
			Expect(err).To(MatchError(solver.ErrNotSolved))
		})
	})
})
