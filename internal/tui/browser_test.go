package tui

import (
	"math"
	"strings"
	"unicode/utf8"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

func result() *solver.Result {
	return &solver.Result{
		Name: "tri",
		Nodes: []truss.Node{
			{ID: 0, FixedX: true, FixedY: true},
			{ID: 1, X: 4, FixedY: true},
			{ID: 2, Y: 3},
		},
		Members: []truss.Member{
			{ID: 0, Node1: 0, Node2: 1},
			{ID: 1, Node1: 1, Node2: 2},
			{ID: 2, Node1: 0, Node2: 2},
		},
		Displacements: []float64{0, 0, 40, 0, 135, 22.5},
		Forces:        []float64{10, -12.5, 7.5},
		Reactions:     []float64{-10, -7.5, 7.5},
		ReactionDOFs:  []int{0, 1, 3},
		Metrics:       map[string]float64{"strain_energy": 675},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, keys ...string) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m.(model), cmd
}

func TestBrowser_Tabs(t *testing.T) {
	m := newModel(result())

	got, _ := send(m, "tab")
	if got.tab != tabForces {
		t.Errorf("after tab: %v, want forces", got.tab)
	}
	got, _ = send(m, "right", "right")
	if got.tab != tabReactions {
		t.Errorf("after right right: %v, want reactions", got.tab)
	}
	got, _ = send(m, "left")
	if got.tab != tabMetrics {
		t.Errorf("left from first tab: %v, want metrics", got.tab)
	}
}

func TestBrowser_Scroll(t *testing.T) {
	m := newModel(result())

	got, _ := send(m, "j", "j", "j", "j")
	if got.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", got.cursor)
	}
	got, _ = send(got, "k")
	if got.cursor != 1 {
		t.Errorf("cursor = %d, want 1", got.cursor)
	}
	got, _ = send(got, "tab")
	if got.cursor != 0 {
		t.Errorf("switching tabs kept cursor %d", got.cursor)
	}
}

func TestBrowser_Quit(t *testing.T) {
	_, cmd := send(newModel(result()), "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestBrowser_View(t *testing.T) {
	m := newModel(result())
	view := m.View()
	if !strings.Contains(view, "tri") || !strings.Contains(view, "135") {
		t.Errorf("displacement view:\n%s", view)
	}

	m, _ = send(m, "tab")
	view = m.View()
	if !strings.Contains(view, "-12.5") || !strings.Contains(view, "forces") {
		t.Errorf("force view:\n%s", view)
	}

	m, _ = send(m, "tab")
	if view = m.View(); !strings.Contains(view, "7.5") {
		t.Errorf("reaction view:\n%s", view)
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("sparkline = %q", got)
	}
}

func TestSparkline_NonFinite(t *testing.T) {
	tests := [][]float64{
		{1, math.NaN(), 3},
		{1, math.Inf(1), -2},
		{math.Inf(-1), 0, math.Inf(1)},
	}
	for _, data := range tests {
		got := sparkline(data, 10)
		if n := utf8.RuneCountInString(got); n != len(data) {
			t.Errorf("sparkline(%v) = %q, want %d bars", data, got, len(data))
		}
	}
}

func TestNewBrowser_Model(t *testing.T) {
	var m tea.Model = NewBrowser(result())
	if !strings.Contains(m.View(), "displacements") {
		t.Error("browser does not open on the displacement tab")
	}
}
