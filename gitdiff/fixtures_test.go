package gitdiff_test

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/diffset"
	"github.com/fwojciec/diffset/gitdiff"
	"github.com/fwojciec/diffset/mock"
)

const examplePatch = `diff --git a/example.txt b/example.txt
index 1f09f2e..8dc79ae 100644
--- a/example.txt
+++ b/example.txt
@@ -1,2 +1,3 @@
 hello
-replace with new text
+replace with new text - diff test
+appended
`

const newfilePatch = `diff --git a/scott/newfile b/scott/newfile
deleted file mode 100644
index 5d46068..0000000
--- a/scott/newfile
+++ /dev/null
@@ -1 +0,0 @@
-you can't search me!
`

const textPatch = `diff --git a/scott/text.txt b/scott/text.txt
index 3cc71b1..2d8b6c1 100644
--- a/scott/text.txt
+++ b/scott/text.txt
@@ -4,3 +4,5 @@ this is
 a file
 to search
-to searc
+to search one
+to search two
+nothing!
`

// forwardPatch compares the "tags" states from old to new.
const forwardPatch = examplePatch + newfilePatch + textPatch

// reversePatch compares the same two states from new to old.
const reversePatch = `diff --git a/example.txt b/example.txt
index 8dc79ae..1f09f2e 100644
--- a/example.txt
+++ b/example.txt
@@ -1,3 +1,2 @@
 hello
-replace with new text - diff test
-appended
+replace with new text
diff --git a/scott/newfile b/scott/newfile
new file mode 100644
index 0000000..5d46068
--- /dev/null
+++ b/scott/newfile
@@ -0,0 +1 @@
+you can't search me!
diff --git a/scott/text.txt b/scott/text.txt
index 2d8b6c1..3cc71b1 100644
--- a/scott/text.txt
+++ b/scott/text.txt
@@ -4,5 +4,3 @@ this is
 a file
 to search
-to search one
-to search two
-nothing!
+to searc
`

var forwardNumStats = []diffset.NumStat{
	{Path: "example.txt", Insertions: 2, Deletions: 1},
	{Path: "scott/newfile", Insertions: 0, Deletions: 1},
	{Path: "scott/text.txt", Insertions: 3, Deletions: 1},
}

var reverseNumStats = []diffset.NumStat{
	{Path: "example.txt", Insertions: 1, Deletions: 2},
	{Path: "scott/newfile", Insertions: 1, Deletions: 0},
	{Path: "scott/text.txt", Insertions: 1, Deletions: 3},
}

const multiHunkPatch = `diff --git a/lorem.txt b/lorem.txt
index 8a4b1c2..f3e9d07 100644
--- a/lorem.txt
+++ b/lorem.txt
@@ -1,10 +1,9 @@
 Lorem
 ipsum
 dolor sit amet,
-adipiscing
-elit, sed do
+first change
 eiusmod tempor
 incididunt ut
 labore et
 dolore magna
 aliqua.
@@ -18,8 +17,8 @@ aliqua.
 consequat.
 Duis aute
 irure dolor
 in reprehenderit
-in voluptate
+second change
 velit esse
 cillum dolore
 eu fugiat
`

// nestedPatch adds a file whose content is itself a git patch.
const nestedPatch = `diff --git a/fix.patch b/fix.patch
new file mode 100644
index 0000000..a1b2c3d
--- /dev/null
+++ b/fix.patch
@@ -0,0 +1,7 @@
+diff --git a/main.go b/main.go
+index 1111111..2222222 100644
+--- a/main.go
++++ b/main.go
+@@ -1 +1 @@
+-package foo
++package main
`

func newDiffSet(patch string, numstats []diffset.NumStat) *gitdiff.DiffSet {
	return gitdiff.New("gitsearch1", "v2.5", &diffset.Comparison{
		Patch:    diffset.PatchText(patch),
		NumStats: numstats,
	}, nil)
}

// chunkReader returns one chunk per Read call and then fails with err.
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, r.err
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if r.chunks[0] == "" {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

// failingSource serves chunks and then err, counting how often it is opened.
func failingSource(opens *int, err error, chunks ...string) *mock.PatchSource {
	return &mock.PatchSource{
		OpenFn: func(_ context.Context) (io.ReadCloser, error) {
			*opens++
			return io.NopCloser(&chunkReader{chunks: append([]string(nil), chunks...), err: err}), nil
		},
	}
}

// countingSource serves text and counts how often it is opened.
func countingSource(opens *int, text string) *mock.PatchSource {
	return failingSource(opens, io.EOF, text)
}

func collect(ctx context.Context, d *gitdiff.DiffSet) ([]*gitdiff.File, error) {
	var files []*gitdiff.File
	for f, err := range d.All(ctx) {
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	return files, nil
}

func lineCounts(ctx context.Context, d *gitdiff.DiffSet) (added, deleted int, err error) {
	files, err := collect(ctx, d)
	if err != nil {
		return 0, 0, err
	}
	for _, f := range files {
		a, err := f.AddedLines()
		if err != nil {
			return 0, 0, err
		}
		del, err := f.DeletedLines()
		if err != nil {
			return 0, 0, err
		}
		added += len(a)
		deleted += len(del)
	}
	return added, deleted, nil
}

var errIngested = errors.New("file_2 ingested")

func segmentOf(patch, marker string) string {
	i := strings.Index(patch, marker)
	if i < 0 {
		return ""
	}
	rest := patch[i:]
	if j := strings.Index(rest[1:], "\ndiff --git "); j >= 0 {
		return rest[:j+2]
	}
	return rest
}
