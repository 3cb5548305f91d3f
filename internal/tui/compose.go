package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// blank returns h lines of w spaces.
func blank(w, h int) []string {
	lines := make([]string, max(h, 0))
	row := strings.Repeat(" ", max(w, 0))
	for i := range lines {
		lines[i] = row
	}
	return lines
}

// place draws fg over canvas with its top-left corner at (x, y). Cells of fg
// that fall outside the canvas are dropped. Both may contain ANSI styling.
func place(canvas []string, fg string, x, y int) {
	for i, line := range strings.Split(fg, "\n") {
		row := y + i
		if row < 0 || row >= len(canvas) {
			continue
		}
		bg := canvas[row]
		width := ansi.StringWidth(bg)

		// Clip fg against the left and right edges.
		if x < 0 {
			line = ansi.TruncateLeft(line, -x, "")
		}
		left := max(x, 0)
		if left >= width {
			continue
		}
		line = ansi.Truncate(line, width-left, "")
		w := ansi.StringWidth(line)

		canvas[row] = ansi.Truncate(bg, left, "") + line + ansi.TruncateLeft(bg, left+w, "")
	}
}
