// Package gitdiff implements lazy parsing of git patches into per-file
// changes, using bluekeyes/go-gitdiff for hunk bodies.
package gitdiff

import (
	"context"
	"errors"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/fwojciec/diffset"
	"github.com/samber/lo"
)

// ErrNoBlobStore is returned by File.Blob when the owning DiffSet was built
// without a BlobStore.
var ErrNoBlobStore = errors.New("gitdiff: no blob store")

// DiffSet is the set of changes between two states of a repository.
//
// Files are parsed lazily from the patch source as they are enumerated;
// statistics come from the numeric summary and never touch the patch. A
// DiffSet is meant to be used from a single goroutine.
type DiffSet struct {
	from, to string
	prefixes []string
	patch    diffset.PatchSource
	numstats []diffset.NumStat
	blobs    diffset.BlobStore

	size  int
	sized bool
}

// New creates a DiffSet from an existing comparison. blobs may be nil if
// blob lookups are not needed.
func New(from, to string, cmp *diffset.Comparison, blobs diffset.BlobStore) *DiffSet {
	return &DiffSet{
		from:     from,
		to:       to,
		patch:    cmp.Patch,
		numstats: cmp.NumStats,
		blobs:    blobs,
	}
}

// Open compares from and to using differ and wraps the result.
func Open(ctx context.Context, differ diffset.Differ, blobs diffset.BlobStore, from, to string) (*DiffSet, error) {
	cmp, err := differ.Diff(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return New(from, to, cmp, blobs), nil
}

// From returns the "from" reference; empty means the working contents.
func (d *DiffSet) From() string { return d.from }

// To returns the "to" reference; empty means the last recorded state.
func (d *DiffSet) To() string { return d.to }

// Path returns a new DiffSet with the same endpoints, restricted to files
// whose path starts with prefix. Restrictions compose: a file must match the
// prefixes of every Path call in the chain.
func (d *DiffSet) Path(prefix string) *DiffSet {
	return &DiffSet{
		from:     d.from,
		to:       d.to,
		prefixes: append(slices.Clip(d.prefixes), prefix),
		patch:    d.patch,
		numstats: diffset.FilterNumStats(d.numstats, prefix),
		blobs:    d.blobs,
	}
}

// Files returns a new iterator over the files of the DiffSet. Every call
// starts again from the beginning of the patch.
func (d *DiffSet) Files(ctx context.Context) *Iterator {
	return &Iterator{ctx: ctx, set: d}
}

// All returns the files of the DiffSet as a sequence. Iteration stops after
// the first error, which is yielded with a nil file.
func (d *DiffSet) All(ctx context.Context) iter.Seq2[*File, error] {
	return func(yield func(*File, error) bool) {
		it := d.Files(ctx)
		defer it.Close()
		for {
			f, err := it.Next()
			if err == io.EOF {
				return
			}
			if !yield(f, err) || err != nil {
				return
			}
		}
	}
}

// File returns the file with the given path, scanning no further than
// needed. Returns nil and no error when no such file is part of the diff.
func (d *DiffSet) File(ctx context.Context, path string) (*File, error) {
	for f, err := range d.All(ctx) {
		if err != nil {
			return nil, err
		}
		if f.Path == path {
			return f, nil
		}
	}
	return nil, nil
}

// First returns the first file of the diff, or nil for an empty diff.
func (d *DiffSet) First(ctx context.Context) (*File, error) {
	it := d.Files(ctx)
	defer it.Close()
	f, err := it.Next()
	if err == io.EOF {
		return nil, nil
	}
	return f, err
}

// Size returns the number of files in the diff. The patch is scanned once;
// later calls return the cached count.
func (d *DiffSet) Size(ctx context.Context) (int, error) {
	if d.sized {
		return d.size, nil
	}
	n := 0
	for _, err := range d.All(ctx) {
		if err != nil {
			return 0, err
		}
		n++
	}
	d.size, d.sized = n, true
	return n, nil
}

// NameStatus maps every file path to its single-letter change status.
func (d *DiffSet) NameStatus(ctx context.Context) (map[string]string, error) {
	var files []*File
	for f, err := range d.All(ctx) {
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return lo.SliceToMap(files, func(f *File) (string, string) {
		return f.Path, f.Type.Status()
	}), nil
}

func (d *DiffSet) matches(path string) bool {
	return lo.EveryBy(d.prefixes, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

// Stats computes totals and per-file counts from the numeric summary.
func (d *DiffSet) Stats() diffset.Stats {
	return diffset.ComputeStats(d.numstats)
}

// Lines returns the total number of changed lines.
func (d *DiffSet) Lines() int { return d.Stats().Total.Lines }

// Insertions returns the total number of inserted lines.
func (d *DiffSet) Insertions() int { return d.Stats().Total.Insertions }

// Deletions returns the total number of deleted lines.
func (d *DiffSet) Deletions() int { return d.Stats().Total.Deletions }

// Patch returns the raw patch text. Without a path restriction this is the
// source text byte for byte; otherwise it is the concatenation of the
// matching file segments.
func (d *DiffSet) Patch(ctx context.Context) (string, error) {
	if len(d.prefixes) == 0 {
		rc, err := d.patch.Open(ctx)
		if err != nil {
			return "", err
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	var b strings.Builder
	for f, err := range d.All(ctx) {
		if err != nil {
			return "", err
		}
		b.WriteString(f.patch)
	}
	return b.String(), nil
}

// Iterator steps through the files of a DiffSet. It reads the patch only as
// far as needed to return the next file, so a failure further along the
// stream surfaces only when that part is reached.
type Iterator struct {
	ctx    context.Context
	set    *DiffSet
	rc     io.ReadCloser
	sc     *scanner
	err    error
	closed bool
}

// Next returns the next file, or io.EOF when there are no more. Errors are
// sticky: once Next fails it keeps returning the same error. A cancelled
// context fails Next with the context's error.
func (it *Iterator) Next() (*File, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.sc == nil {
		if err := it.open(); err != nil {
			it.err = err
			return nil, err
		}
	}

	for {
		if err := it.ctx.Err(); err != nil {
			it.err = err
			it.Close()
			return nil, err
		}
		segment, err := it.sc.next()
		if err != nil {
			it.err = err
			it.Close()
			return nil, err
		}
		f, err := parseHeader(segment)
		if err != nil {
			it.err = err
			it.Close()
			return nil, err
		}
		if !it.set.matches(f.Path) {
			continue
		}
		f.blobs = it.set.blobs
		return f, nil
	}
}

// Close releases the patch source. It is safe to call more than once.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.err == nil {
		it.err = io.EOF
	}
	if it.rc == nil {
		return nil
	}
	return it.rc.Close()
}

func (it *Iterator) open() error {
	if it.closed {
		return io.EOF
	}
	rc, err := it.set.patch.Open(it.ctx)
	if err != nil {
		return err
	}
	it.rc = rc
	it.sc = newScanner(rc)
	return nil
}
