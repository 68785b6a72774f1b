package gitdiff

import (
	"context"

	"github.com/fwojciec/diffset"
)

// File is the change recorded for a single file in a patch.
type File struct {
	Path    string // destination path
	OldPath string // source path; differs from Path for renames and copies
	Mode    string // e.g. "100644"; empty when the segment names none
	Type    diffset.FileType
	SrcID   string // empty for new files
	DstID   string // empty for deleted files
	Binary  bool   // binary files are never scanned for lines

	patch string
	hunks bool
	blobs diffset.BlobStore // borrowed from the owning DiffSet

	parsed  bool
	added   []diffset.Line
	deleted []diffset.Line
	err     error
}

// Patch returns the raw patch text of this file exactly as it appeared in
// the patch stream.
func (f *File) Patch() string {
	return f.patch
}

// AddedLines returns the added lines numbered by their position in the new
// file. The patch is parsed on first use and the result is cached.
func (f *File) AddedLines() ([]diffset.Line, error) {
	f.parse()
	return f.added, f.err
}

// DeletedLines returns the deleted lines numbered by their position in the
// old file. The patch is parsed on first use and the result is cached.
func (f *File) DeletedLines() ([]diffset.Line, error) {
	f.parse()
	return f.deleted, f.err
}

func (f *File) parse() {
	if f.parsed {
		return
	}
	f.parsed = true
	f.added, f.deleted = []diffset.Line{}, []diffset.Line{}
	if f.Binary || !f.hunks {
		return
	}

	added, deleted, err := parseLines(f.Path, f.patch)
	if err != nil {
		f.err = err
		return
	}
	if added != nil {
		f.added = added
	}
	if deleted != nil {
		f.deleted = deleted
	}
}

// Blob returns the content of the file on the given side. Returns nil and no
// error when the file does not exist on that side.
func (f *File) Blob(ctx context.Context, side diffset.Side) (*diffset.Blob, error) {
	id := f.SrcID
	if side == diffset.Dst {
		id = f.DstID
	}
	if id == "" {
		return nil, nil
	}
	if f.blobs == nil {
		return nil, ErrNoBlobStore
	}
	return f.blobs.Blob(ctx, id)
}

// Record summarizes the file with the line counts of stats, which would
// normally come from the owning DiffSet's Stats.
func (f *File) Record(stats diffset.Stats) diffset.FileRecord {
	rec := diffset.FileRecord{
		Path:   f.Path,
		Type:   f.Type.String(),
		Status: f.Type.Status(),
		Mode:   f.Mode,
		SrcID:  f.SrcID,
		DstID:  f.DstID,
		Binary: f.Binary,
	}
	if f.OldPath != f.Path {
		rec.OldPath = f.OldPath
	}
	if fs, ok := stats.Files[f.Path]; ok {
		rec.Insertions, rec.Deletions = fs.Insertions, fs.Deletions
	}
	return rec
}
