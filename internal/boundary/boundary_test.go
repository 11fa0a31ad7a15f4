package boundary

import (
	"testing"

	"github.com/san-kum/trussim/internal/stiffness"
	"github.com/san-kum/trussim/internal/truss"
)

func model() *truss.Model {
	m := truss.New()
	m.AddNode(0, 0, true, true)
	m.AddNode(4, 0, false, true)
	m.AddNode(4, 3, false, false)
	m.AddMember(0, 1)
	m.AddMember(1, 2)
	m.AddMember(0, 2)
	m.AddLoad(2, 10, 0)
	m.AddLoad(2, 5, -2)
	m.AddLoad(1, 1, 1)
	return m
}

func TestLoadVector_Accumulates(t *testing.T) {
	f := LoadVector(model())
	want := []float64{0, 0, 1, 1, 15, -2}
	for i := range want {
		if f[i] != want[i] {
			t.Errorf("f[%d] = %v, want %v", i, f[i], want[i])
		}
	}
}

func TestPartition(t *testing.T) {
	free, fixed := Partition(model())
	if len(free) != 3 || free[0] != 2 || free[1] != 4 || free[2] != 5 {
		t.Errorf("free = %v, want [2 4 5]", free)
	}
	if len(fixed) != 3 || fixed[0] != 0 || fixed[1] != 1 || fixed[2] != 3 {
		t.Errorf("constrained = %v, want [0 1 3]", fixed)
	}
}

func TestApply_ReducedSystem(t *testing.T) {
	m := model()
	K, err := stiffness.Assemble(m)
	if err != nil {
		t.Fatal(err)
	}
	before := K.Raw()

	sys, err := Apply(K, m)
	if err != nil {
		t.Fatal(err)
	}
	if sys.K.Rows() != 3 || sys.K.Cols() != 3 {
		t.Fatalf("reduced K is %dx%d, want 3x3", sys.K.Rows(), sys.K.Cols())
	}
	for a, I := range sys.Free {
		for b, J := range sys.Free {
			got, _ := sys.K.At(a, b)
			if got != before[I][J] {
				t.Errorf("Kr[%d][%d] = %v, want K[%d][%d] = %v", a, b, got, I, J, before[I][J])
			}
		}
	}
	if sys.F[0] != 1 || sys.F[1] != 15 || sys.F[2] != -2 {
		t.Errorf("reduced F = %v, want [1 15 -2]", sys.F)
	}

	after := K.Raw()
	for i := range before {
		for j := range before[i] {
			if before[i][j] != after[i][j] {
				t.Fatal("Apply mutated the global matrix")
			}
		}
	}
}

func TestExpand_ZeroAtConstrained(t *testing.T) {
	m := model()
	K, _ := stiffness.Assemble(m)
	sys, _ := Apply(K, m)

	full, err := sys.Expand([]float64{7, 8, 9}, m.NumDOF())
	if err != nil {
		t.Fatal(err)
	}
	for _, I := range sys.Constrained {
		if full[I] != 0 {
			t.Errorf("full[%d] = %v, want 0", I, full[I])
		}
	}
	if full[2] != 7 || full[4] != 8 || full[5] != 9 {
		t.Errorf("full = %v", full)
	}

	if _, err := sys.Expand([]float64{1}, m.NumDOF()); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestApply_FullyConstrained(t *testing.T) {
	m := truss.New()
	m.AddNode(0, 0, true, true)
	m.AddNode(1, 0, true, true)
	m.AddMember(0, 1)
	K, _ := stiffness.Assemble(m)
	sys, err := Apply(K, m)
	if err != nil {
		t.Fatal(err)
	}
	if sys.K != nil || len(sys.Free) != 0 || len(sys.Constrained) != 4 {
		t.Errorf("unexpected system: %+v", sys)
	}
}
