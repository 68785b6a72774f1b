// Package mock provides function-field implementations of the diffset
// interfaces for tests.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/diffset"
)

var (
	_ diffset.Differ      = (*Differ)(nil)
	_ diffset.BlobStore   = (*BlobStore)(nil)
	_ diffset.PatchSource = (*PatchSource)(nil)
)

// Differ is a mock implementation of diffset.Differ.
type Differ struct {
	DiffFn func(ctx context.Context, from, to string) (*diffset.Comparison, error)
}

func (d *Differ) Diff(ctx context.Context, from, to string) (*diffset.Comparison, error) {
	return d.DiffFn(ctx, from, to)
}

// BlobStore is a mock implementation of diffset.BlobStore.
type BlobStore struct {
	BlobFn func(ctx context.Context, id string) (*diffset.Blob, error)
}

func (b *BlobStore) Blob(ctx context.Context, id string) (*diffset.Blob, error) {
	return b.BlobFn(ctx, id)
}

// PatchSource is a mock implementation of diffset.PatchSource.
type PatchSource struct {
	OpenFn func(ctx context.Context) (io.ReadCloser, error)
}

func (p *PatchSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return p.OpenFn(ctx)
}
