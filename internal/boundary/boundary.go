// Package boundary reduces a global truss system to its free degrees of freedom.
package boundary

import (
	"fmt"

	"github.com/san-kum/trussim/internal/matrix"
	"github.com/san-kum/trussim/internal/truss"
)

// System is the reduced problem K * d = F over the free DOFs.
// K and F are nil when every DOF is constrained.
type System struct {
	K *matrix.Dense
	F []float64

	Free        []int     // global index of each reduced row, ascending
	Constrained []int     // global index of each fixed DOF, ascending
	Load        []float64 // full applied load vector, length 2N
}

// LoadVector accumulates every load into a vector of length 2N.
func LoadVector(model *truss.Model) []float64 {
	f := make([]float64, model.NumDOF())
	for _, ld := range model.Loads() {
		ix, iy := truss.DOFs(ld.Node)
		f[ix] += ld.Fx
		f[iy] += ld.Fy
	}
	return f
}

// Partition splits the global DOFs of model into free and constrained lists.
func Partition(model *truss.Model) (free, constrained []int) {
	free = make([]int, 0, model.NumDOF())
	constrained = make([]int, 0)
	for _, n := range model.Nodes() {
		ix, iy := truss.DOFs(n.ID)
		if n.FixedX {
			constrained = append(constrained, ix)
		} else {
			free = append(free, ix)
		}
		if n.FixedY {
			constrained = append(constrained, iy)
		} else {
			free = append(free, iy)
		}
	}
	return free, constrained
}

// Apply extracts the free rows and columns of K and the matching loads.
// K itself is not modified.
func Apply(K *matrix.Dense, model *truss.Model) (*System, error) {
	if K.Rows() != model.NumDOF() || K.Cols() != model.NumDOF() {
		return nil, fmt.Errorf("stiffness %dx%d for %d dofs: %w", K.Rows(), K.Cols(), model.NumDOF(), matrix.ErrDimensionMismatch)
	}

	free, constrained := Partition(model)
	load := LoadVector(model)
	sys := &System{Free: free, Constrained: constrained, Load: load}
	if len(free) == 0 {
		return sys, nil
	}

	kr, err := matrix.New(len(free), len(free))
	if err != nil {
		return nil, err
	}
	fr := make([]float64, len(free))
	for a, I := range free {
		fr[a] = load[I]
		for b, J := range free {
			v, err := K.At(I, J)
			if err != nil {
				return nil, err
			}
			if err := kr.Set(a, b, v); err != nil {
				return nil, err
			}
		}
	}
	sys.K = kr
	sys.F = fr
	return sys, nil
}

// Expand scatters a reduced solution back to a full vector of length n.
// Constrained entries are exactly zero.
func (s *System) Expand(reduced []float64, n int) ([]float64, error) {
	if len(reduced) != len(s.Free) {
		return nil, fmt.Errorf("reduced length %d, free dofs %d: %w", len(reduced), len(s.Free), matrix.ErrDimensionMismatch)
	}
	full := make([]float64, n)
	for a, I := range s.Free {
		full[I] = reduced[a]
	}
	return full, nil
}
