// Package stiffness builds the global stiffness matrix of a plane truss.
package stiffness

import (
	"fmt"

	"github.com/san-kum/trussim/internal/matrix"
	"github.com/san-kum/trussim/internal/truss"
)

// MemberMatrix returns the 4x4 stiffness of an axial bar expressed in global
// coordinates, ordered (u1, v1, u2, v2).
func MemberMatrix(ea, l, c, s float64) [4][4]float64 {
	α := ea / l
	cc, cs, ss := α*c*c, α*c*s, α*s*s
	return [4][4]float64{
		{+cc, +cs, -cc, -cs},
		{+cs, +ss, -cs, -ss},
		{-cc, -cs, +cc, +cs},
		{-cs, -ss, +cs, +ss},
	}
}

// Locations returns the assembly map of a member: the global DOF index of
// each row of its MemberMatrix.
func Locations(m truss.Member) [4]int {
	x1, y1 := truss.DOFs(m.Node1)
	x2, y2 := truss.DOFs(m.Node2)
	return [4]int{x1, y1, x2, y2}
}

// Assemble scatter-adds every member into a 2N x 2N global matrix.
// Member lengths are recomputed first.
func Assemble(model *truss.Model) (*matrix.Dense, error) {
	if err := model.ComputeMemberLengths(); err != nil {
		return nil, err
	}

	K, err := matrix.New(model.NumDOF(), model.NumDOF())
	if err != nil {
		return nil, fmt.Errorf("assemble %d nodes: %w", model.NumNodes(), err)
	}

	for _, mem := range model.Members() {
		c, s, err := model.DirectionCosines(mem.ID)
		if err != nil {
			return nil, err
		}
		ke := MemberMatrix(mem.Rigidity(), mem.Length, c, s)
		umap := Locations(mem)
		for i, I := range umap {
			for j, J := range umap {
				if err := K.Add(I, J, ke[i][j]); err != nil {
					return nil, fmt.Errorf("member %d: %w", mem.ID, err)
				}
			}
		}
	}

	return K, nil
}
