// Package diffset provides domain types for parsing and querying the changes
// between two states of a repository.
package diffset

// Line is a single added or deleted line together with its line number on
// the side of the diff it belongs to (new side for additions, old side for
// deletions). Content keeps its trailing newline.
type Line struct {
	Number  int
	Content string
}

// FileType represents the kind of change recorded for a file.
type FileType int

// File change types.
const (
	FileModified FileType = iota
	FileNew
	FileDeleted
	FileRenamed
	FileCopied
)

// String returns the lowercase name of the change type.
func (t FileType) String() string {
	switch t {
	case FileNew:
		return "new"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	case FileCopied:
		return "copied"
	default:
		return "modified"
	}
}

// Status returns the single-letter status git uses for the change type.
func (t FileType) Status() string {
	switch t {
	case FileNew:
		return "A"
	case FileDeleted:
		return "D"
	case FileRenamed:
		return "R"
	case FileCopied:
		return "C"
	default:
		return "M"
	}
}

// Side selects one end of a comparison.
type Side int

// Comparison sides.
const (
	Src Side = iota // the "from" state
	Dst             // the "to" state
)

// String returns "src" or "dst".
func (s Side) String() string {
	if s == Dst {
		return "dst"
	}
	return "src"
}

// Blob is the content of a file at one end of a comparison.
type Blob struct {
	ID      string
	Content []byte
}
