// Package lipgloss renders patches and diff statistics for terminals using
// the lipgloss library.
package lipgloss

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffset"
)

// DefaultPalette returns colors loosely based on the One Dark theme.
func DefaultPalette() diffset.Palette {
	return diffset.Palette{
		Added:   "#98c379",
		Deleted: "#e06c75",
		Heading: "#61afef",
		Hunk:    "#56b6c2",
		Muted:   "#5c6370",
	}
}

// styleFor converts a domain style into a lipgloss style bound to r. Tabs are
// left alone so patch text keeps its exact bytes.
func styleFor(r *lipgloss.Renderer, st diffset.Style) lipgloss.Style {
	s := r.NewStyle().Bold(st.Bold).TabWidth(lipgloss.NoTabConversion)
	if st.Foreground != "" {
		s = s.Foreground(lipgloss.Color(st.Foreground))
	}
	return s
}
