// Package gogit implements diffset collaborators with go-git, without
// needing a git binary.
package gogit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/diffset"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/samber/lo"
)

// ErrWorktreeUnsupported is returned when a comparison involves the working
// tree, which go-git cannot produce patches for.
var ErrWorktreeUnsupported = errors.New("gogit: comparing the working tree is not supported")

// ErrAmbiguousID is returned when an abbreviated id matches several blobs.
var ErrAmbiguousID = errors.New("gogit: ambiguous object id")

// Compile-time interface verification.
var (
	_ diffset.Differ    = (*Differ)(nil)
	_ diffset.BlobStore = (*BlobStore)(nil)
)

// PlainOpen opens the repository containing path.
func PlainOpen(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return repo, nil
}

// Differ compares commits or trees of a repository.
type Differ struct {
	repo *git.Repository
}

// NewDiffer creates a Differ for repo.
func NewDiffer(repo *git.Repository) *Differ {
	return &Differ{repo: repo}
}

// Diff compares the trees named by from and to. Both may be any revision
// go-git resolves to a commit, or a full tree or commit hash. Renames are
// detected.
func (d *Differ) Diff(ctx context.Context, from, to string) (*diffset.Comparison, error) {
	if from == "" || to == "" {
		return nil, ErrWorktreeUnsupported
	}
	fromTree, err := d.tree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := d.tree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("build patch: %w", err)
	}

	var buf bytes.Buffer
	if err := patch.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}

	return &diffset.Comparison{
		Patch:    diffset.PatchText(buf.String()),
		NumStats: lo.Map(patch.Stats(), toNumStat),
	}, nil
}

func (d *Differ) tree(rev string) (*object.Tree, error) {
	if plumbing.IsHash(rev) {
		h := plumbing.NewHash(rev)
		if t, err := d.repo.TreeObject(h); err == nil {
			return t, nil
		}
		if c, err := d.repo.CommitObject(h); err == nil {
			return c.Tree()
		}
	}

	h, err := d.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", diffset.ErrUnknownRevision, rev)
	}
	c, err := d.repo.CommitObject(*h)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", diffset.ErrUnknownRevision, rev, err)
	}
	return c.Tree()
}

// toNumStat converts a go-git file stat. go-git names renames "old => new".
func toNumStat(s object.FileStat, _ int) diffset.NumStat {
	name := s.Name
	if _, after, found := strings.Cut(name, " => "); found {
		name = after
	}
	return diffset.NumStat{Path: name, Insertions: s.Addition, Deletions: s.Deletion}
}

// BlobStore reads blobs from a repository's object database.
type BlobStore struct {
	repo *git.Repository
}

// NewBlobStore creates a BlobStore for repo.
func NewBlobStore(repo *git.Repository) *BlobStore {
	return &BlobStore{repo: repo}
}

// Blob returns the blob with the given full or abbreviated id.
func (b *BlobStore) Blob(_ context.Context, id string) (*diffset.Blob, error) {
	hash, err := b.resolve(id)
	if err != nil {
		return nil, err
	}
	blob, err := b.repo.BlobObject(hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %q", diffset.ErrBlobNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &diffset.Blob{ID: hash.String(), Content: content}, nil
}

// resolve expands an abbreviated id by scanning the blobs of the repository.
func (b *BlobStore) resolve(id string) (plumbing.Hash, error) {
	if plumbing.IsHash(id) {
		return plumbing.NewHash(id), nil
	}
	if len(id) < 4 || strings.Trim(id, "0123456789abcdef") != "" {
		return plumbing.ZeroHash, fmt.Errorf("%w: %q", diffset.ErrBlobNotFound, id)
	}

	iter, err := b.repo.BlobObjects()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	var matches []plumbing.Hash
	err = iter.ForEach(func(blob *object.Blob) error {
		if strings.HasPrefix(blob.Hash.String(), id) {
			matches = append(matches, blob.Hash)
			if len(matches) > 1 {
				return storer.ErrStop
			}
		}
		return nil
	})
	if err != nil {
		return plumbing.ZeroHash, err
	}

	switch len(matches) {
	case 0:
		return plumbing.ZeroHash, fmt.Errorf("%w: %q", diffset.ErrBlobNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return plumbing.ZeroHash, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
	}
}
