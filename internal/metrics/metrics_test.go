package metrics

import (
	"math"
	"testing"
)

func TestStrainEnergy(t *testing.T) {
	m := NewStrainEnergy()
	m.Observe(Observation{
		Forces:      []float64{10, -4},
		Elongations: []float64{0.2, -0.5},
	})
	if math.Abs(m.Value()-2.0) > 1e-12 {
		t.Errorf("energy = %v, want 2", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEquilibrium(t *testing.T) {
	o := Observation{
		Load:         []float64{0, 0, 0, 0, 10, -3},
		Reactions:    []float64{-10, 1, 2},
		ReactionDOFs: []int{0, 1, 3},
	}

	ex := NewEquilibrium(0)
	ex.Observe(o)
	if ex.Value() != 0 {
		t.Errorf("x residual = %v, want 0", ex.Value())
	}

	ey := NewEquilibrium(1)
	ey.Observe(o)
	if ey.Value() != 0 {
		t.Errorf("y residual = %v, want 0", ey.Value())
	}

	o.Reactions[0] = -9
	ex.Observe(o)
	if ex.Value() != 1 {
		t.Errorf("x residual = %v, want 1", ex.Value())
	}
}

func TestMaxima(t *testing.T) {
	d := NewMaxDisplacement()
	d.Observe(Observation{Displacements: []float64{0, 0, 3, -4, 1, 1}})
	if d.Value() != 5 {
		t.Errorf("max displacement = %v, want 5", d.Value())
	}

	f := NewMaxForce()
	f.Observe(Observation{Forces: []float64{2, -7, 5}})
	if f.Value() != 7 {
		t.Errorf("max force = %v, want 7", f.Value())
	}
}

func TestDefaults_UniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
}
