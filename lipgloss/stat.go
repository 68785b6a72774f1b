package lipgloss

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fwojciec/diffset"
	"github.com/samber/lo"
)

// DefaultGraphWidth is the widest the +/- graph of a stat line gets.
const DefaultGraphWidth = 40

// StatRenderer renders diff statistics in the layout of git diff --stat.
type StatRenderer struct {
	renderer   *lipgloss.Renderer
	palette    diffset.Palette
	graphWidth int
}

// Option configures a StatRenderer.
type Option func(*StatRenderer)

// WithPalette sets the colors of the graph and summary line.
func WithPalette(p diffset.Palette) Option {
	return func(s *StatRenderer) { s.palette = p }
}

// WithGraphWidth caps the width of the +/- graph. Larger changes are scaled
// down to fit.
func WithGraphWidth(n int) Option {
	return func(s *StatRenderer) {
		if n > 0 {
			s.graphWidth = n
		}
	}
}

// NewStatRenderer creates a StatRenderer. A nil renderer uses the lipgloss
// default renderer.
func NewStatRenderer(r *lipgloss.Renderer, opts ...Option) *StatRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	s := &StatRenderer{
		renderer:   r,
		palette:    DefaultPalette(),
		graphWidth: DefaultGraphWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render returns one line per file, sorted by path, followed by a summary
// line. Each line ends with a newline.
func (s *StatRenderer) Render(stats diffset.Stats) string {
	paths := lo.Keys(stats.Files)
	slices.Sort(paths)

	pathWidth := lo.Max(lo.Map(paths, func(p string, _ int) int { return DisplayWidth(p) }))
	maxChanges := lo.Max(lo.Map(paths, func(p string, _ int) int {
		fs := stats.Files[p]
		return fs.Insertions + fs.Deletions
	}))
	countWidth := len(strconv.Itoa(maxChanges))

	added := styleFor(s.renderer, diffset.Style{Foreground: string(s.palette.Added)})
	deleted := styleFor(s.renderer, diffset.Style{Foreground: string(s.palette.Deleted)})

	var b strings.Builder
	for _, p := range paths {
		fs := stats.Files[p]
		changes := fs.Insertions + fs.Deletions
		plus := s.scale(fs.Insertions, maxChanges)
		minus := s.scale(fs.Deletions, maxChanges)

		fmt.Fprintf(&b, " %s%s | %*d", p, strings.Repeat(" ", pathWidth-DisplayWidth(p)), countWidth, changes)
		if plus+minus > 0 {
			b.WriteByte(' ')
			if plus > 0 {
				b.WriteString(added.Render(strings.Repeat("+", plus)))
			}
			if minus > 0 {
				b.WriteString(deleted.Render(strings.Repeat("-", minus)))
			}
		}
		b.WriteByte('\n')
	}

	muted := styleFor(s.renderer, diffset.Style{Foreground: string(s.palette.Muted)})
	b.WriteString(muted.Render(Summary(stats.Total)))
	b.WriteByte('\n')
	return b.String()
}

// scale shrinks n proportionally when the largest change does not fit the
// graph. A non-zero count always keeps at least one mark.
func (s *StatRenderer) scale(n, maxChanges int) int {
	if n == 0 || maxChanges <= s.graphWidth {
		return n
	}
	return max(n*s.graphWidth/maxChanges, 1)
}

// Summary formats totals the way git does, for example
// " 3 files changed, 5 insertions(+), 3 deletions(-)". Zero insertion or
// deletion counts are omitted.
func Summary(t diffset.TotalStats) string {
	parts := []string{" " + plural(t.Files, "file", "files") + " changed"}
	if t.Insertions > 0 {
		parts = append(parts, plural(t.Insertions, "insertion", "insertions")+"(+)")
	}
	if t.Deletions > 0 {
		parts = append(parts, plural(t.Deletions, "deletion", "deletions")+"(-)")
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}
