package config

import (
	"sort"

	"github.com/san-kum/trussim/internal/input"
	"github.com/san-kum/trussim/internal/truss"
)

func f64(v float64) *float64 { return &v }

var steel = struct{ A, E *float64 }{f64(3e-3), f64(2e11)}

// Presets are ready-made trusses for trying the solver without an input file.
var Presets = map[string]func() *input.File{
	"triangle": func() *input.File {
		return &input.File{
			Name: "triangle",
			Nodes: []input.NodeSpec{
				{X: 0, Y: 0, FixedX: true, FixedY: true},
				{X: 4, Y: 0, FixedY: true},
				{X: 0, Y: 3},
			},
			Members: []input.MemberSpec{{N1: 0, N2: 1}, {N1: 1, N2: 2}, {N1: 0, N2: 2}},
			Loads:   []input.LoadSpec{{Node: 2, Fx: 10}},
		}
	},
	"two-bar": func() *input.File {
		return &input.File{
			Name: "two-bar",
			Nodes: []input.NodeSpec{
				{X: -3, Y: 0, FixedX: true, FixedY: true},
				{X: 3, Y: 0, FixedX: true, FixedY: true},
				{X: 0, Y: 4},
			},
			Members: []input.MemberSpec{
				{N1: 0, N2: 2, Area: steel.A, Modulus: steel.E},
				{N1: 1, N2: 2, Area: steel.A, Modulus: steel.E},
			},
			Loads: []input.LoadSpec{{Node: 2, Fy: -10e3}},
		}
	},
	"pratt":  func() *input.File { return pratt(6, 4, 4, 10e3) },
	"warren": func() *input.File { return warren(4, 3, 2.5, 20e3) },
	"cantilever": func() *input.File {
		return &input.File{
			Name: "cantilever",
			Nodes: []input.NodeSpec{
				{X: 0, Y: 0, FixedX: true, FixedY: true},
				{X: 0, Y: 2, FixedX: true, FixedY: true},
				{X: 2, Y: 0},
				{X: 2, Y: 2},
				{X: 4, Y: 0},
			},
			Members: []input.MemberSpec{
				{N1: 0, N2: 2, Area: steel.A, Modulus: steel.E},
				{N1: 1, N2: 3, Area: steel.A, Modulus: steel.E},
				{N1: 2, N2: 3, Area: steel.A, Modulus: steel.E},
				{N1: 1, N2: 2, Area: steel.A, Modulus: steel.E},
				{N1: 2, N2: 4, Area: steel.A, Modulus: steel.E},
				{N1: 3, N2: 4, Area: steel.A, Modulus: steel.E},
			},
			Loads: []input.LoadSpec{{Node: 4, Fy: -5e3}},
		}
	},
}

// pratt lays out a pratt truss with the given panel count, panel width and depth,
// pinned at the left and on a roller at the right, loaded at each inner bottom node.
func pratt(panels int, width, depth, load float64) *input.File {
	f := &input.File{Name: "pratt"}
	for i := 0; i <= panels; i++ {
		f.Nodes = append(f.Nodes, input.NodeSpec{X: float64(i) * width, FixedX: i == 0, FixedY: i == 0 || i == panels})
	}
	for i := 1; i < panels; i++ {
		f.Nodes = append(f.Nodes, input.NodeSpec{X: float64(i) * width, Y: depth})
	}
	top := func(i int) int { return panels + i }
	add := func(a, b int) {
		f.Members = append(f.Members, input.MemberSpec{N1: a, N2: b, Area: steel.A, Modulus: steel.E})
	}
	for i := 0; i < panels; i++ {
		add(i, i+1)
	}
	for i := 1; i < panels-1; i++ {
		add(top(i), top(i+1))
	}
	for i := 1; i < panels; i++ {
		add(i, top(i))
	}
	add(0, top(1))
	add(panels, top(panels-1))
	for i := 1; i < panels/2; i++ {
		add(top(i), i+1)
	}
	for i := panels / 2; i < panels-1; i++ {
		add(top(i+1), i)
	}
	for i := 1; i < panels; i++ {
		f.Loads = append(f.Loads, input.LoadSpec{Node: i, Fy: -load})
	}
	return f
}

// warren lays out a warren truss without verticals, loaded at each top node.
func warren(panels int, width, depth, load float64) *input.File {
	f := &input.File{Name: "warren"}
	for i := 0; i <= panels; i++ {
		f.Nodes = append(f.Nodes, input.NodeSpec{X: float64(i) * width, FixedX: i == 0, FixedY: i == 0 || i == panels})
	}
	for i := 0; i < panels; i++ {
		f.Nodes = append(f.Nodes, input.NodeSpec{X: (float64(i) + 0.5) * width, Y: depth})
	}
	top := func(i int) int { return panels + 1 + i }
	add := func(a, b int) {
		f.Members = append(f.Members, input.MemberSpec{N1: a, N2: b, Area: steel.A, Modulus: steel.E})
	}
	for i := 0; i < panels; i++ {
		add(i, i+1)
		add(i, top(i))
		add(top(i), i+1)
	}
	for i := 0; i+1 < panels; i++ {
		add(top(i), top(i+1))
	}
	for i := 0; i < panels; i++ {
		f.Loads = append(f.Loads, input.LoadSpec{Node: top(i), Fy: -load})
	}
	return f
}

// GetPreset builds the named preset, or returns nil if there is none.
func GetPreset(name string) *truss.Model {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	m, err := fn().Build()
	if err != nil {
		return nil
	}
	return m
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
