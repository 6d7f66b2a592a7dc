package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	errorRed    = lipgloss.Color("#FF0000")
	dimWhite    = lipgloss.Color("#B0B0B0")
)

// Styles is the set of text styles used for console output. Styles are
// bound to a renderer so color is only emitted when the writer supports it.
type Styles struct {
	Logo      lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Highlight lipgloss.Style
	Dim       lipgloss.Style
}

// NewStyles builds the palette for output written to w
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)

	return Styles{
		Logo: r.NewStyle().
			Foreground(neonCyan).
			Bold(true),
		Label: r.NewStyle().
			Foreground(neonCyan).
			Bold(true),
		Value: r.NewStyle().
			Foreground(neonYellow),
		Success: r.NewStyle().
			Foreground(neonGreen).
			Bold(true),
		Error: r.NewStyle().
			Foreground(errorRed).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(neonOrange).
			Bold(true),
		Highlight: r.NewStyle().
			Foreground(neonMagenta),
		Dim: r.NewStyle().
			Foreground(dimWhite).
			Faint(true),
	}
}
