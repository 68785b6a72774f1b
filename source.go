package diffset

import (
	"context"
	"io"
	"strings"
)

// PatchSource provides the raw patch text of a comparison. Every call to Open
// starts a fresh read from the beginning of the patch.
type PatchSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// PatchText is a PatchSource over patch text already held in memory.
type PatchText string

// Open returns a reader over the text.
func (p PatchText) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(p))), nil
}

// Comparison is the raw material produced by comparing two states: the patch
// text and an independently computed per-file numeric summary.
type Comparison struct {
	Patch    PatchSource
	NumStats []NumStat
}

// Differ compares two states of a repository.
type Differ interface {
	// Diff compares from and to. An empty from means the working contents,
	// an empty to means the last recorded state.
	Diff(ctx context.Context, from, to string) (*Comparison, error)
}

// BlobStore looks up file content by object id.
type BlobStore interface {
	// Blob returns the blob with the given (possibly abbreviated) id.
	// Returns ErrBlobNotFound if no such object exists.
	Blob(ctx context.Context, id string) (*Blob, error)
}
