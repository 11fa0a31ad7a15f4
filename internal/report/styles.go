package report

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	TensionStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	CompressionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4488ff"))
	WarnStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
)

// Sense labels an axial force: T for tension, C for compression.
func Sense(force float64) string {
	switch {
	case force > 0:
		return "T"
	case force < 0:
		return "C"
	}
	return "-"
}

// Axis names the direction of a global DOF.
func Axis(dof int) string {
	if dof%2 == 1 {
		return "y"
	}
	return "x"
}
