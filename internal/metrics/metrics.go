// Package metrics computes scalar summaries of a solved truss.
package metrics

import "math"

// Observation is the solved state a metric looks at.
type Observation struct {
	Displacements []float64 // by global DOF
	Load          []float64 // applied load by global DOF
	Forces        []float64 // axial force by member
	Elongations   []float64 // member length change by member
	Reactions     []float64 // by constrained DOF
	ReactionDOFs  []int
}

type Metric interface {
	Name() string
	Observe(o Observation)
	Value() float64
	Reset()
}

// Defaults returns the metrics attached to every solve.
func Defaults() []Metric {
	return []Metric{
		NewStrainEnergy(),
		NewEquilibrium(0),
		NewEquilibrium(1),
		NewMaxDisplacement(),
		NewMaxForce(),
	}
}

// StrainEnergy is 0.5 * sum(N * delta) over all members.
type StrainEnergy struct {
	energy float64
}

func NewStrainEnergy() *StrainEnergy { return &StrainEnergy{} }

func (e *StrainEnergy) Name() string { return "strain_energy" }

func (e *StrainEnergy) Observe(o Observation) {
	for i, f := range o.Forces {
		if i < len(o.Elongations) {
			e.energy += 0.5 * f * o.Elongations[i]
		}
	}
}

func (e *StrainEnergy) Value() float64 { return e.energy }
func (e *StrainEnergy) Reset()         { e.energy = 0 }

// Equilibrium is the absolute sum of applied loads and reactions along one
// axis (0 = x, 1 = y). It is zero for a solution in global force balance.
type Equilibrium struct {
	axis     int
	residual float64
}

func NewEquilibrium(axis int) *Equilibrium { return &Equilibrium{axis: axis} }

func (e *Equilibrium) Name() string {
	if e.axis == 0 {
		return "equilibrium_x"
	}
	return "equilibrium_y"
}

func (e *Equilibrium) Observe(o Observation) {
	sum := 0.0
	for i := e.axis; i < len(o.Load); i += 2 {
		sum += o.Load[i]
	}
	for k, dof := range o.ReactionDOFs {
		if dof%2 == e.axis && k < len(o.Reactions) {
			sum += o.Reactions[k]
		}
	}
	e.residual = math.Abs(sum)
}

func (e *Equilibrium) Value() float64 { return e.residual }
func (e *Equilibrium) Reset()         { e.residual = 0 }

// MaxDisplacement is the largest nodal displacement magnitude.
type MaxDisplacement struct {
	max float64
}

func NewMaxDisplacement() *MaxDisplacement { return &MaxDisplacement{} }

func (m *MaxDisplacement) Name() string { return "max_displacement" }

func (m *MaxDisplacement) Observe(o Observation) {
	for i := 0; i+1 < len(o.Displacements); i += 2 {
		if d := math.Hypot(o.Displacements[i], o.Displacements[i+1]); d > m.max {
			m.max = d
		}
	}
}

func (m *MaxDisplacement) Value() float64 { return m.max }
func (m *MaxDisplacement) Reset()         { m.max = 0 }

// MaxForce is the largest absolute member force.
type MaxForce struct {
	max float64
}

func NewMaxForce() *MaxForce { return &MaxForce{} }

func (m *MaxForce) Name() string { return "max_abs_force" }

func (m *MaxForce) Observe(o Observation) {
	for _, f := range o.Forces {
		if a := math.Abs(f); a > m.max {
			m.max = a
		}
	}
}

func (m *MaxForce) Value() float64 { return m.max }
func (m *MaxForce) Reset()         { m.max = 0 }
