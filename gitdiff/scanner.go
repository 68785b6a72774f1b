package gitdiff

import (
	"bufio"
	"io"
	"strings"
)

// fileMarker starts every file segment of a git patch. Lines inside a hunk
// always begin with ' ', '+', '-' or '\', so patch text that is itself the
// content of a tracked file can never produce this prefix.
const fileMarker = "diff --git "

// scanner splits a patch into file segments, one line at a time.
type scanner struct {
	r       *bufio.Reader
	pending string // marker line read ahead for the next segment
	err     error  // sticky
}

func newScanner(r io.Reader) *scanner {
	return &scanner{r: bufio.NewReader(r)}
}

// next returns the next complete segment, including line terminators, or
// io.EOF once the stream is exhausted. It reads at most one line beyond the
// returned segment. A read failure is returned as is and repeated by every
// later call.
func (s *scanner) next() (string, error) {
	var b strings.Builder
	b.WriteString(s.pending)
	s.pending = ""

	for s.err == nil {
		var line string
		line, s.err = s.r.ReadString('\n')
		switch {
		case line == "":
		case strings.HasPrefix(line, fileMarker) && b.Len() > 0:
			s.pending = line
			return b.String(), nil
		case strings.HasPrefix(line, fileMarker) || b.Len() > 0:
			b.WriteString(line)
		}
		// Lines ahead of the first marker are preamble and dropped.
	}

	if s.err == io.EOF && b.Len() > 0 {
		return b.String(), nil
	}
	return "", s.err
}
