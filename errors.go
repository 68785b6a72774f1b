package diffset

import (
	"errors"
	"fmt"
)

// ErrMalformedSegment is returned when a file segment of a patch cannot be
// parsed. Use errors.Is to test for it; the concrete error is a *SegmentError.
var ErrMalformedSegment = errors.New("malformed diff segment")

// ErrUnknownRevision is returned by a Differ when a reference does not name
// a commit or tree.
var ErrUnknownRevision = errors.New("unknown revision")

// ErrBlobNotFound is returned by a BlobStore when no object has the given id.
var ErrBlobNotFound = errors.New("blob not found")

// SegmentError describes a file segment that could not be parsed.
type SegmentError struct {
	Path   string // best known path of the segment, may be empty
	Reason string
}

func (e *SegmentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedSegment, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", ErrMalformedSegment, e.Path, e.Reason)
}

// Unwrap returns ErrMalformedSegment.
func (e *SegmentError) Unwrap() error {
	return ErrMalformedSegment
}
