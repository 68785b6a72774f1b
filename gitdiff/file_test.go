package gitdiff_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/diffset"
	"github.com/fwojciec/diffset/gitdiff"
	"github.com/fwojciec/diffset/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstFile(t *testing.T, patch string) *gitdiff.File {
	t.Helper()
	f, err := newDiffSet(patch, nil).First(context.Background())
	require.NoError(t, err)
	require.NotNil(t, f)
	return f
}

func TestFile_Lines(t *testing.T) {
	t.Parallel()

	t.Run("new file", func(t *testing.T) {
		t.Parallel()

		patch := `diff --git a/scott/newfile b/scott/newfile
new file mode 100644
index 0000000..5d46068
--- /dev/null
+++ b/scott/newfile
@@ -0,0 +1 @@
+you can't search me!
`
		f := firstFile(t, patch)

		added, err := f.AddedLines()
		require.NoError(t, err)
		assert.Equal(t, []diffset.Line{{Number: 1, Content: "you can't search me!\n"}}, added)

		deleted, err := f.DeletedLines()
		require.NoError(t, err)
		assert.Empty(t, deleted)
	})

	t.Run("modified file", func(t *testing.T) {
		t.Parallel()

		f := firstFile(t, textPatch)

		added, err := f.AddedLines()
		require.NoError(t, err)
		assert.Equal(t, []diffset.Line{
			{Number: 6, Content: "to search one\n"},
			{Number: 7, Content: "to search two\n"},
			{Number: 8, Content: "nothing!\n"},
		}, added)

		deleted, err := f.DeletedLines()
		require.NoError(t, err)
		assert.Equal(t, []diffset.Line{{Number: 6, Content: "to searc\n"}}, deleted)
	})

	t.Run("multiple hunks restart at each header", func(t *testing.T) {
		t.Parallel()

		f := firstFile(t, multiHunkPatch)

		added, err := f.AddedLines()
		require.NoError(t, err)
		assert.Equal(t, []diffset.Line{
			{Number: 4, Content: "first change\n"},
			{Number: 21, Content: "second change\n"},
		}, added)

		deleted, err := f.DeletedLines()
		require.NoError(t, err)
		assert.Equal(t, []diffset.Line{
			{Number: 4, Content: "adipiscing\n"},
			{Number: 5, Content: "elit, sed do\n"},
			{Number: 22, Content: "in voluptate\n"},
		}, deleted)
	})

	t.Run("missing newline marker emits no line", func(t *testing.T) {
		t.Parallel()

		patch := `diff --git a/note.txt b/note.txt
index 1234567..89abcde 100644
--- a/note.txt
+++ b/note.txt
@@ -1 +1 @@
-old
\ No newline at end of file
+new
\ No newline at end of file
`
		f := firstFile(t, patch)

		added, err := f.AddedLines()
		require.NoError(t, err)
		assert.Equal(t, []diffset.Line{{Number: 1, Content: "new"}}, added)

		deleted, err := f.DeletedLines()
		require.NoError(t, err)
		assert.Equal(t, []diffset.Line{{Number: 1, Content: "old"}}, deleted)
	})

	t.Run("binary files are not scanned", func(t *testing.T) {
		t.Parallel()

		patch := `diff --git a/logo.png b/logo.png
index 5e6f7a8..9b0c1d2 100644
Binary files a/logo.png and b/logo.png differ
`
		f := firstFile(t, patch)

		assert.True(t, f.Binary)
		added, err := f.AddedLines()
		require.NoError(t, err)
		assert.Empty(t, added)
	})

	t.Run("miscounted hunk is malformed", func(t *testing.T) {
		t.Parallel()

		patch := `diff --git a/short.txt b/short.txt
index 1234567..89abcde 100644
--- a/short.txt
+++ b/short.txt
@@ -1,5 +1,5 @@
-old
+new
`
		f := firstFile(t, patch)

		_, err := f.AddedLines()
		require.ErrorIs(t, err, diffset.ErrMalformedSegment)
		assert.Contains(t, err.Error(), "short.txt")

		// The failure is cached with the lines.
		_, again := f.DeletedLines()
		assert.Equal(t, err, again)
	})

	t.Run("lines are equal by value", func(t *testing.T) {
		t.Parallel()

		a := diffset.Line{Number: 4, Content: "first change\n"}
		b := diffset.Line{Number: 4, Content: "first change\n"}
		assert.True(t, a == b)
		assert.NotEqual(t, a, diffset.Line{Number: 5, Content: "first change\n"})
	})
}

func TestFile_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		patch   string
		path    string
		oldPath string
		mode    string
		typ     diffset.FileType
		src     string
		dst     string
	}{
		{
			name:    "modified",
			patch:   examplePatch,
			path:    "example.txt",
			oldPath: "example.txt",
			mode:    "100644",
			typ:     diffset.FileModified,
			src:     "1f09f2e",
			dst:     "8dc79ae",
		},
		{
			name:    "new",
			patch:   nestedPatch,
			path:    "fix.patch",
			oldPath: "fix.patch",
			mode:    "100644",
			typ:     diffset.FileNew,
			dst:     "a1b2c3d",
		},
		{
			name:    "deleted",
			patch:   newfilePatch,
			path:    "scott/newfile",
			oldPath: "scott/newfile",
			mode:    "100644",
			typ:     diffset.FileDeleted,
			src:     "5d46068",
		},
		{
			name: "renamed",
			patch: `diff --git a/old/name.go b/new/name.go
similarity index 90%
rename from old/name.go
rename to new/name.go
index 1a2b3c4..5d6e7f8 100644
--- a/old/name.go
+++ b/new/name.go
@@ -1 +1 @@
-package old
+package name
`,
			path:    "new/name.go",
			oldPath: "old/name.go",
			mode:    "100644",
			typ:     diffset.FileRenamed,
			src:     "1a2b3c4",
			dst:     "5d6e7f8",
		},
		{
			name: "pure rename without index",
			patch: `diff --git a/a.txt b/b.txt
similarity index 100%
rename from a.txt
rename to b.txt
`,
			path:    "b.txt",
			oldPath: "a.txt",
			typ:     diffset.FileRenamed,
		},
		{
			name: "copied",
			patch: `diff --git a/base.go b/copy.go
similarity index 100%
copy from base.go
copy to copy.go
`,
			path:    "copy.go",
			oldPath: "base.go",
			typ:     diffset.FileCopied,
		},
		{
			name: "renamed with mode change stays renamed",
			patch: `diff --git a/run.sh b/bin/run.sh
old mode 100644
new mode 100755
similarity index 100%
rename from run.sh
rename to bin/run.sh
`,
			path:    "bin/run.sh",
			oldPath: "run.sh",
			mode:    "100755",
			typ:     diffset.FileRenamed,
		},
		{
			name: "mode change only",
			patch: `diff --git a/build.sh b/build.sh
old mode 100644
new mode 100755
`,
			path:    "build.sh",
			oldPath: "build.sh",
			mode:    "100755",
			typ:     diffset.FileModified,
		},
		{
			name: "path with spaces",
			patch: `diff --git a/my notes.txt b/my notes.txt
index 1234567..89abcde 100644
--- a/my notes.txt
+++ b/my notes.txt
@@ -1 +1 @@
-a
+b
`,
			path:    "my notes.txt",
			oldPath: "my notes.txt",
			mode:    "100644",
			typ:     diffset.FileModified,
			src:     "1234567",
			dst:     "89abcde",
		},
		{
			name: "quoted path",
			patch: `diff --git "a/sp\303\244ce.txt" "b/sp\303\244ce.txt"
index 1234567..89abcde 100644
--- "a/sp\303\244ce.txt"
+++ "b/sp\303\244ce.txt"
@@ -1 +1 @@
-a
+b
`,
			path:    "späce.txt",
			oldPath: "späce.txt",
			mode:    "100644",
			typ:     diffset.FileModified,
			src:     "1234567",
			dst:     "89abcde",
		},
		{
			name: "full length ids from go-git",
			patch: `diff --git a/go.mod b/go.mod
new file mode 100644
index 0000000000000000000000000000000000000000..e69de29bb2d1d6434b8b29ae775ad8c2e48c5391
`,
			path:    "go.mod",
			oldPath: "go.mod",
			mode:    "100644",
			typ:     diffset.FileNew,
			dst:     "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := firstFile(t, tt.patch)

			assert.Equal(t, tt.path, f.Path)
			assert.Equal(t, tt.oldPath, f.OldPath)
			assert.Equal(t, tt.mode, f.Mode)
			assert.Equal(t, tt.typ, f.Type)
			assert.Equal(t, tt.src, f.SrcID)
			assert.Equal(t, tt.dst, f.DstID)
		})
	}
}

func TestFile_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		patch string
	}{
		{
			name:  "header without paths",
			patch: "diff --git nonsense\n",
		},
		{
			name:  "unparseable mode",
			patch: "diff --git a/x b/x\nold mode 100644\nnew mode rwxr-xr-x\n",
		},
		{
			name:  "unparseable index",
			patch: "diff --git a/x b/x\nindex zzzz..yyyy 100644\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n",
		},
		{
			name:  "hunks without index",
			patch: "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n",
		},
		{
			name:  "rename from without rename to",
			patch: "diff --git a/x b/y\nsimilarity index 100%\nrename from x\n",
		},
		{
			name:  "new and deleted at once",
			patch: "diff --git a/x b/x\nnew file mode 100644\ndeleted file mode 100644\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := newDiffSet(tt.patch, nil).First(context.Background())

			assert.Nil(t, f)
			require.ErrorIs(t, err, diffset.ErrMalformedSegment)
		})
	}
}

func TestFile_Blob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	blobs := &mock.BlobStore{
		BlobFn: func(_ context.Context, id string) (*diffset.Blob, error) {
			if id == "5d46068" {
				return &diffset.Blob{ID: id, Content: []byte("you can't search me!\n")}, nil
			}
			return nil, diffset.ErrBlobNotFound
		},
	}
	d := gitdiff.New("gitsearch1", "v2.5", &diffset.Comparison{Patch: diffset.PatchText(forwardPatch)}, blobs)

	t.Run("deleted file has no destination blob", func(t *testing.T) {
		t.Parallel()

		f, err := d.File(ctx, "scott/newfile")
		require.NoError(t, err)

		dst, err := f.Blob(ctx, diffset.Dst)
		require.NoError(t, err)
		assert.Nil(t, dst)

		src, err := f.Blob(ctx, diffset.Src)
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, "5d46068", src.ID)
		assert.Equal(t, "you can't search me!\n", string(src.Content))
	})

	t.Run("store errors are returned", func(t *testing.T) {
		t.Parallel()

		f, err := d.File(ctx, "example.txt")
		require.NoError(t, err)

		_, err = f.Blob(ctx, diffset.Dst)
		assert.True(t, errors.Is(err, diffset.ErrBlobNotFound))
	})

	t.Run("without a store", func(t *testing.T) {
		t.Parallel()

		f, err := newDiffSet(forwardPatch, nil).File(ctx, "example.txt")
		require.NoError(t, err)

		_, err = f.Blob(ctx, diffset.Src)
		assert.ErrorIs(t, err, gitdiff.ErrNoBlobStore)
	})
}

func TestFile_Record(t *testing.T) {
	t.Parallel()

	t.Run("takes counts from stats", func(t *testing.T) {
		t.Parallel()

		d := newDiffSet(forwardPatch, nil)
		f, err := d.File(context.Background(), "scott/newfile")
		require.NoError(t, err)
		require.NotNil(t, f)

		rec := f.Record(diffset.ComputeStats([]diffset.NumStat{{Path: "scott/newfile", Deletions: 1}}))

		assert.Equal(t, "scott/newfile", rec.Path)
		assert.Equal(t, "deleted", rec.Type)
		assert.Equal(t, "D", rec.Status)
		assert.Empty(t, rec.OldPath)
		assert.Empty(t, rec.DstID)
		assert.Equal(t, 1, rec.Deletions)
	})

	t.Run("renames keep the source path", func(t *testing.T) {
		t.Parallel()

		f := firstFile(t, "diff --git a/x b/y\nsimilarity index 100%\nrename from x\nrename to y\n")

		rec := f.Record(diffset.Stats{})

		assert.Equal(t, "y", rec.Path)
		assert.Equal(t, "x", rec.OldPath)
		assert.Equal(t, "R", rec.Status)
		assert.Zero(t, rec.Insertions)
	})
}
