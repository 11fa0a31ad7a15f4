package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

func triangle(t *testing.T) *solver.Result {
	t.Helper()
	m := truss.New()
	m.Name = "tri"
	m.AddNode(0, 0, true, true)
	m.AddNode(4, 0, false, true)
	m.AddNode(0, 3, false, false)
	m.AddMember(0, 1)
	m.AddMember(1, 2)
	m.AddMember(0, 2)
	m.AddLoad(2, 10, 0)

	s := solver.New(m)
	if err := s.Solve(); err != nil {
		t.Fatal(err)
	}
	res, err := s.Result()
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestSense(t *testing.T) {
	tests := []struct {
		force float64
		want  string
	}{
		{10, "T"},
		{-0.5, "C"},
		{0, "-"},
	}
	for _, tt := range tests {
		if got := Sense(tt.force); got != tt.want {
			t.Errorf("Sense(%v) = %q, want %q", tt.force, got, tt.want)
		}
	}
}

func TestPrinter_Print(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, 4).Print(triangle(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"tri", "Nodal displacements", "Member forces", "Support reactions", "1-2", "-12.5", "135", "22.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	var reactions []string
	for i, l := range lines {
		if strings.HasPrefix(l, "NODE") && strings.Contains(l, "REACTION") {
			reactions = lines[i+1 : i+4]
		}
	}
	if len(reactions) != 3 {
		t.Fatalf("reaction table not found:\n%s", out)
	}
	want := [][]string{{"0", "x", "-10"}, {"0", "y", "-7.5"}, {"1", "y", "7.5"}}
	for i, l := range reactions {
		f := strings.Fields(l)
		if len(f) != 3 || f[0] != want[i][0] || f[1] != want[i][1] || f[2] != want[i][2] {
			t.Errorf("reaction row %d = %q, want %v", i, l, want[i])
		}
	}
}

func TestPlotForces(t *testing.T) {
	if PlotForces([]float64{1}, 5, 10) != "" {
		t.Error("single member should not plot")
	}
	out := PlotForces([]float64{10, -12.5, 7.5}, 5, 30)
	if !strings.Contains(out, "member axial force") {
		t.Errorf("plot missing caption:\n%s", out)
	}
}

func TestExportJSON(t *testing.T) {
	res := triangle(t)
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSON(path, res); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"node1"`, `"fixed_x"`, `"modulus"`, `"reaction_dofs"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("json missing key %s", key)
		}
	}
	for _, key := range []string{`"Node1"`, `"ID"`, `"FixedX"`} {
		if bytes.Contains(data, []byte(key)) {
			t.Errorf("json has Go field name %s", key)
		}
	}

	var back solver.Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Name != "tri" || len(back.Forces) != 3 || back.ReactionDOFs[2] != 3 || back.Members[1].Node2 != 2 {
		t.Errorf("decoded %+v", back)
	}
}
