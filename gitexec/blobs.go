package gitexec

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/diffset"
)

var _ diffset.BlobStore = (*BlobStore)(nil)

// BlobStore reads blobs with git cat-file.
type BlobStore struct {
	runner *Runner
}

// NewBlobStore creates a BlobStore using runner.
func NewBlobStore(runner *Runner) *BlobStore {
	return &BlobStore{runner: runner}
}

// Blob returns the blob with the given full or abbreviated id.
func (b *BlobStore) Blob(ctx context.Context, id string) (*diffset.Blob, error) {
	if id == "" || strings.Trim(id, "0123456789abcdef") != "" {
		return nil, fmt.Errorf("%w: %q", diffset.ErrBlobNotFound, id)
	}
	out, err := b.runner.Output(ctx, "rev-parse", "--verify", "--quiet", id+"^{blob}")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", diffset.ErrBlobNotFound, id)
	}
	full := string(bytes.TrimSpace(out))

	content, err := b.runner.Output(ctx, "cat-file", "blob", full)
	if err != nil {
		return nil, err
	}
	return &diffset.Blob{ID: full, Content: content}, nil
}
