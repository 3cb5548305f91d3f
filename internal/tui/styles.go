package tui

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme colors used throughout the stage
const (
	ColorAccent     = "#5fd7af" // titles, highlights
	ColorHighlight  = "#ff5faf" // borders of screens
	ColorOverlay    = "#5fafff" // borders of overlays
	ColorDanger     = "#ff0000" // errors
	ColorMuted      = "#626262" // hints
	ColorText       = "#d0d0d0" // body text
	ColorBackground = "#1c1c1c" // stage background, the color a fade ends at
)

// Styles contains the shared style definitions.
var Styles = struct {
	Title  lipgloss.Style // bold accent, panel titles
	Box    lipgloss.Style // screen box
	Body   lipgloss.Style // panel body text
	Hint   lipgloss.Style // help bar text
	Status lipgloss.Style // status line
	Error  lipgloss.Style // status line errors
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	Body: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
}

// fade blends hex toward the stage background. opacity 1 returns hex
// unchanged and 0 returns the background.
func fade(hex string, opacity float64) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return lipgloss.Color(hex)
	}
	bg, _ := colorful.Hex(ColorBackground)
	opacity = min(max(opacity, 0), 1)
	return lipgloss.Color(bg.BlendLab(c, opacity).Clamped().Hex())
}
