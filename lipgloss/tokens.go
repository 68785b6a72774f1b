package lipgloss

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffset"
)

// RenderTokens joins tokens into a string, styling each one. Styles are
// applied line by line so no escape sequence spans a newline.
func RenderTokens(r *lipgloss.Renderer, tokens []diffset.Token) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	var b strings.Builder
	for _, tok := range tokens {
		style := styleFor(r, tok.Style)
		for i, part := range strings.Split(tok.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if part != "" {
				b.WriteString(style.Render(part))
			}
		}
	}
	return b.String()
}
