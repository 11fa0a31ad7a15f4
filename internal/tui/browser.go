// Package tui is an interactive terminal browser for solver results.
package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/trussim/internal/report"
	"github.com/san-kum/trussim/internal/solver"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

type tab int

const (
	tabDisplacements tab = iota
	tabForces
	tabReactions
	tabMetrics
	numTabs
)

var tabNames = [numTabs]string{"displacements", "forces", "reactions", "metrics"}

type model struct {
	res    *solver.Result
	tab    tab
	cursor int
	offset int

	width  int
	height int
}

// NewBrowser returns the bubbletea model for browsing res.
func NewBrowser(res *solver.Result) tea.Model {
	return newModel(res)
}

func newModel(res *solver.Result) model {
	return model{
		res:    res,
		width:  80,
		height: 24,
	}
}

// Run blocks until the user quits the browser.
func Run(res *solver.Result) error {
	p := tea.NewProgram(NewBrowser(res))
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clamp()
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % numTabs
		m.cursor, m.offset = 0, 0
	case "shift+tab", "left", "h":
		m.tab = (m.tab + numTabs - 1) % numTabs
		m.cursor, m.offset = 0, 0
	case "down", "j":
		if m.cursor < m.rows()-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(m.rows()-1, 0)
	}
	m.clamp()
	return m, nil
}

func (m model) pageSize() int {
	return max(m.height-10, 3)
}

func (m *model) clamp() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

func (m model) rows() int {
	switch m.tab {
	case tabDisplacements:
		return len(m.res.Nodes)
	case tabForces:
		return len(m.res.Members)
	case tabReactions:
		return len(m.res.ReactionDOFs)
	case tabMetrics:
		return len(m.res.Metrics)
	}
	return 0
}

func (m model) lines() []string {
	var out []string
	switch m.tab {
	case tabDisplacements:
		for i := range m.res.Nodes {
			ux, uy, _ := m.res.NodeDisplacement(i)
			out = append(out, fmt.Sprintf("node %-4d ux %12.5g   uy %12.5g", i, ux, uy))
		}
	case tabForces:
		for i, mem := range m.res.Members {
			f := m.res.Forces[i]
			sense := report.Sense(f)
			s := fmt.Sprintf("member %-4d %3d-%-3d %12.5g  %s", mem.ID, mem.Node1, mem.Node2, f, sense)
			switch sense {
			case "T":
				s = red.Render(s)
			case "C":
				s = blue.Render(s)
			}
			out = append(out, s)
		}
	case tabReactions:
		for k, dof := range m.res.ReactionDOFs {
			out = append(out, fmt.Sprintf("node %-4d %s %12.5g", dof/2, report.Axis(dof), m.res.Reactions[k]))
		}
	case tabMetrics:
		names := make([]string, 0, len(m.res.Metrics))
		for name := range m.res.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, fmt.Sprintf("%-18s %12.5g", name, m.res.Metrics[name]))
		}
	}
	return out
}

func (m model) View() string {
	var b strings.Builder

	title := m.res.Name
	if title == "" {
		title = "truss"
	}
	b.WriteString("\n   " + cyan.Render(title) + "  " +
		dim.Render(fmt.Sprintf("%d nodes  %d members  cond %.3g", len(m.res.Nodes), len(m.res.Members), m.res.Condition)) + "\n")

	var tabs []string
	for i, name := range tabNames {
		if tab(i) == m.tab {
			tabs = append(tabs, white.Render("["+name+"]"))
		} else {
			tabs = append(tabs, dim.Render(" "+name+" "))
		}
	}
	b.WriteString("   " + strings.Join(tabs, " ") + "\n")
	b.WriteString(dimmer.Render("   "+strings.Repeat("─", 50)) + "\n")

	lines := m.lines()
	end := min(m.offset+m.pageSize(), len(lines))
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString("   " + cyan.Render("▸ ") + lines[i] + "\n")
		} else {
			b.WriteString("     " + lines[i] + "\n")
		}
	}

	if m.tab == tabForces && len(m.res.Forces) > 1 {
		b.WriteString("\n   " + dim.Render("forces ") + sparkline(m.res.Forces, 40) + "\n")
	}

	b.WriteString("\n" + dim.Render("   ←→/tab switch   ↑↓/jk scroll   q quit") + "\n")
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := (data[i*step] - minVal) / rang * 7
		idx := 0
		if !math.IsNaN(v) {
			idx = int(math.Max(0, math.Min(7, v)))
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
