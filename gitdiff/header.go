package gitdiff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/diffset"
)

// header holds the metadata lines of one file segment.
type header struct {
	oldName string
	newName string

	oldMode         string
	newMode         string
	newFileMode     string
	deletedFileMode string
	indexMode       string

	isNew     bool
	isDeleted bool
	isBinary  bool
	hasHunks  bool
	hasIndex  bool

	renameFrom string
	renameTo   string
	copyFrom   string
	copyTo     string

	srcID string
	dstID string
}

// parseHeader extracts the file metadata of a segment. The hunk bodies are
// left untouched; only their presence is recorded.
func parseHeader(segment string) (*File, error) {
	lines := strings.SplitAfter(segment, "\n")
	first := strings.TrimRight(lines[0], "\r\n")

	var h header
	var ok bool
	h.oldName, h.newName, ok = parseNames(strings.TrimPrefix(first, fileMarker))
	if !ok {
		return nil, &diffset.SegmentError{Reason: "unparseable header line " + strconv.Quote(first)}
	}

	for _, raw := range lines[1:] {
		line := strings.TrimRight(raw, "\r\n")
		if done, err := h.parseLine(line); err != nil {
			return nil, &diffset.SegmentError{Path: h.path(), Reason: err.Error()}
		} else if done {
			break
		}
	}

	if err := h.validate(); err != nil {
		return nil, &diffset.SegmentError{Path: h.path(), Reason: err.Error()}
	}

	f := &File{
		Path:    h.path(),
		OldPath: h.oldPath(),
		Mode:    h.mode(),
		Type:    h.classify(),
		Binary:  h.isBinary,
		patch:   segment,
		hunks:   h.hasHunks,
	}
	if f.Type != diffset.FileNew {
		f.SrcID = h.srcID
	}
	if f.Type != diffset.FileDeleted {
		f.DstID = h.dstID
	}
	return f, nil
}

// parseLine consumes one metadata line. It reports done once the line starts
// the patch body.
func (h *header) parseLine(line string) (done bool, err error) {
	switch {
	case strings.HasPrefix(line, "@@ "):
		h.hasHunks = true
		return true, nil
	case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
		// File name lines precede the first hunk; keep looking for it.
	case strings.HasPrefix(line, "Binary files "), line == "GIT binary patch":
		h.isBinary = true
		return true, nil
	case strings.HasPrefix(line, "old mode "):
		h.oldMode, err = parseMode(strings.TrimPrefix(line, "old mode "))
	case strings.HasPrefix(line, "new mode "):
		h.newMode, err = parseMode(strings.TrimPrefix(line, "new mode "))
	case strings.HasPrefix(line, "new file mode "):
		h.isNew = true
		h.newFileMode, err = parseMode(strings.TrimPrefix(line, "new file mode "))
	case strings.HasPrefix(line, "deleted file mode "):
		h.isDeleted = true
		h.deletedFileMode, err = parseMode(strings.TrimPrefix(line, "deleted file mode "))
	case strings.HasPrefix(line, "index "):
		err = h.parseIndex(strings.TrimPrefix(line, "index "))
	case strings.HasPrefix(line, "rename from "):
		h.renameFrom = unquote(strings.TrimPrefix(line, "rename from "))
	case strings.HasPrefix(line, "rename to "):
		h.renameTo = unquote(strings.TrimPrefix(line, "rename to "))
	case strings.HasPrefix(line, "copy from "):
		h.copyFrom = unquote(strings.TrimPrefix(line, "copy from "))
	case strings.HasPrefix(line, "copy to "):
		h.copyTo = unquote(strings.TrimPrefix(line, "copy to "))
	}
	// similarity/dissimilarity index and unknown extended headers carry
	// nothing we keep.
	return false, err
}

// parseIndex parses "<src>..<dst>[ <mode>]".
func (h *header) parseIndex(s string) error {
	ids, mode, hasMode := strings.Cut(s, " ")
	src, dst, ok := strings.Cut(ids, "..")
	if !ok || !isHex(src) || !isHex(dst) {
		return fmt.Errorf("unparseable index line %q", "index "+s)
	}
	if hasMode {
		m, err := parseMode(mode)
		if err != nil {
			return err
		}
		h.indexMode = m
	}
	h.hasIndex = true
	h.srcID = nonZero(src)
	h.dstID = nonZero(dst)
	return nil
}

func (h *header) validate() error {
	switch {
	case h.isNew && h.isDeleted:
		return errors.New("both new and deleted file markers present")
	case (h.renameFrom == "") != (h.renameTo == ""):
		return errors.New("incomplete rename markers")
	case (h.copyFrom == "") != (h.copyTo == ""):
		return errors.New("incomplete copy markers")
	case (h.hasHunks || h.isBinary) && !h.hasIndex:
		return errors.New("missing index line")
	}
	return nil
}

// classify maps the metadata present in a segment to exactly one change
// type. Precedence: deleted, new, copied, renamed, modified.
func (h *header) classify() diffset.FileType {
	switch {
	case h.isDeleted:
		return diffset.FileDeleted
	case h.isNew:
		return diffset.FileNew
	case h.copyTo != "":
		return diffset.FileCopied
	case h.renameTo != "":
		return diffset.FileRenamed
	default:
		return diffset.FileModified
	}
}

func (h *header) path() string {
	switch {
	case h.copyTo != "":
		return h.copyTo
	case h.renameTo != "":
		return h.renameTo
	default:
		return h.newName
	}
}

func (h *header) oldPath() string {
	switch {
	case h.copyFrom != "":
		return h.copyFrom
	case h.renameFrom != "":
		return h.renameFrom
	default:
		return h.oldName
	}
}

func (h *header) mode() string {
	for _, m := range []string{h.newMode, h.newFileMode, h.deletedFileMode, h.indexMode, h.oldMode} {
		if m != "" {
			return m
		}
	}
	return ""
}

// parseNames splits the "a/<old> b/<new>" part of a header line.
func parseNames(s string) (oldName, newName string, ok bool) {
	if strings.HasPrefix(s, `"`) {
		quoted, rest, unquoted := cutQuoted(s)
		if !unquoted || !strings.HasPrefix(quoted, "a/") || !strings.HasPrefix(rest, " ") {
			return "", "", false
		}
		newName, ok = parseName(rest[1:])
		return quoted[2:], newName, ok
	}

	// Unquoted names may contain spaces. When both names are equal, which
	// holds for everything but renames and copies, the line splits in half.
	if n := len(s); n > 5 && (n-1)%2 == 0 {
		half := (n - 1) / 2
		left, right := s[:half], s[half+1:]
		if s[half] == ' ' && strings.HasPrefix(left, "a/") && strings.HasPrefix(right, "b/") && left[2:] == right[2:] {
			return left[2:], right[2:], true
		}
	}

	left, right, found := strings.Cut(s, " b/")
	if !found {
		if left, right, found = strings.Cut(s, ` "b/`); found {
			right = `"b/` + right
		}
	} else {
		right = "b/" + right
	}
	if !found || !strings.HasPrefix(left, "a/") {
		return "", "", false
	}
	newName, ok = parseName(right)
	return left[2:], newName, ok
}

// parseName parses a single "b/<name>" token, quoted or not.
func parseName(s string) (string, bool) {
	if strings.HasPrefix(s, `"`) {
		name, rest, ok := cutQuoted(s)
		if !ok || rest != "" {
			return "", false
		}
		s = name
	}
	if !strings.HasPrefix(s, "b/") {
		return "", false
	}
	return s[2:], true
}

// cutQuoted unquotes the C-style quoted string at the start of s and returns
// it along with the remainder of s.
func cutQuoted(s string) (string, string, bool) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			name, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return "", "", false
			}
			return name, s[i+1:], true
		}
	}
	return "", "", false
}

// unquote returns s unquoted if git quoted it, s otherwise. Git escapes
// non-ASCII bytes as three-digit octal sequences, which strconv.Unquote
// decodes byte-wise.
func unquote(s string) string {
	if strings.HasPrefix(s, `"`) {
		if name, err := strconv.Unquote(s); err == nil {
			return name
		}
	}
	return s
}

func parseMode(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseUint(s, 8, 32); err != nil || len(s) < 5 {
		return "", fmt.Errorf("unparseable file mode %q", s)
	}
	return s, nil
}

func isHex(s string) bool {
	if len(s) < 4 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

// nonZero returns "" for the all-zero id git uses for a missing side.
func nonZero(id string) string {
	if strings.Trim(id, "0") == "" {
		return ""
	}
	return id
}
