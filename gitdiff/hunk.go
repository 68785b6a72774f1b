package gitdiff

import (
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/diffset"
)

// parseLines walks the hunks of a segment and returns its added and deleted
// lines in order of appearance. Each hunk restarts the line counters at the
// positions declared by its header.
func parseLines(path, segment string) (added, deleted []diffset.Line, err error) {
	files, _, err := gitdiff.Parse(strings.NewReader(segment))
	if err != nil {
		return nil, nil, &diffset.SegmentError{Path: path, Reason: err.Error()}
	}
	if len(files) != 1 {
		return nil, nil, &diffset.SegmentError{Path: path, Reason: "segment does not describe exactly one file"}
	}

	for _, frag := range files[0].TextFragments {
		oldLineNum := int(frag.OldPosition)
		newLineNum := int(frag.NewPosition)

		for _, l := range frag.Lines {
			switch l.Op {
			case gitdiff.OpContext:
				oldLineNum++
				newLineNum++
			case gitdiff.OpAdd:
				added = append(added, diffset.Line{Number: newLineNum, Content: l.Line})
				newLineNum++
			case gitdiff.OpDelete:
				deleted = append(deleted, diffset.Line{Number: oldLineNum, Content: l.Line})
				oldLineNum++
			}
		}
	}
	return added, deleted, nil
}
