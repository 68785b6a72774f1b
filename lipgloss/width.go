package lipgloss

import "github.com/charmbracelet/lipgloss"

// tabWidth is the standard terminal tab stop interval.
const tabWidth = 8

// DisplayWidth returns the number of terminal columns s occupies. Tabs
// expand to the next 8-column boundary, which lipgloss.Width does not
// account for.
func DisplayWidth(s string) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col = (col/tabWidth + 1) * tabWidth
		} else {
			col += lipgloss.Width(string(r))
		}
	}
	return col
}
