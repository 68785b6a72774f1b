package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffset"
	"github.com/fwojciec/diffset/chroma"
	"github.com/fwojciec/diffset/gitdiff"
	"github.com/fwojciec/diffset/jsonl"
	dl "github.com/fwojciec/diffset/lipgloss"
)

// App runs the diffset commands against a Differ and BlobStore.
type App struct {
	Differ   diffset.Differ
	Blobs    diffset.BlobStore
	Stdout   io.Writer
	Renderer *lipgloss.Renderer // nil uses the lipgloss default
	Color    bool
}

func (a *App) open(ctx context.Context, r Range) (*gitdiff.DiffSet, error) {
	d, err := gitdiff.Open(ctx, a.Differ, a.Blobs, r.From, r.To)
	if err != nil {
		return nil, err
	}
	if r.Path != "" {
		d = d.Path(r.Path)
	}
	return d, nil
}

// Stat writes a git diff --stat style summary.
func (a *App) Stat(ctx context.Context, r Range) error {
	d, err := a.open(ctx, r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.Stdout, dl.NewStatRenderer(a.Renderer).Render(d.Stats()))
	return err
}

// Patch writes the raw patch, highlighted when color is enabled.
func (a *App) Patch(ctx context.Context, r Range) error {
	d, err := a.open(ctx, r)
	if err != nil {
		return err
	}
	text, err := d.Patch(ctx)
	if err != nil {
		return err
	}
	if a.Color {
		tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(dl.DefaultPalette()))
		if err != nil {
			return err
		}
		if tokens := tokenizer.TokenizePatch(text); tokens != nil {
			text = dl.RenderTokens(a.Renderer, tokens)
		}
	}
	_, err = io.WriteString(a.Stdout, text)
	return err
}

// Files writes one line per changed file, "<status>\t<path>", or one JSON
// record per file.
func (a *App) Files(ctx context.Context, r Range, asJSONL bool) error {
	d, err := a.open(ctx, r)
	if err != nil {
		return err
	}
	stats := d.Stats()
	w := jsonl.NewWriter(a.Stdout)
	for f, err := range d.All(ctx) {
		if err != nil {
			return err
		}
		if asJSONL {
			if err := w.Write(f.Record(stats)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(a.Stdout, "%s\t%s\n", f.Type.Status(), f.Path); err != nil {
			return err
		}
	}
	return nil
}

// LoadFiles lists the records of a JSONL file previously written by Files,
// in the same formats.
func (a *App) LoadFiles(path string, asJSONL bool) error {
	records, err := jsonl.NewLoader().Load(path)
	if err != nil {
		return err
	}
	w := jsonl.NewWriter(a.Stdout)
	for _, rec := range records {
		if asJSONL {
			err = w.Write(rec)
		} else {
			_, err = fmt.Fprintf(a.Stdout, "%s\t%s\n", rec.Status, rec.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Lines writes the deleted lines of path as "-<n>\t<content>" followed by
// the added lines as "+<n>\t<content>".
func (a *App) Lines(ctx context.Context, r Range, path string) error {
	f, err := a.file(ctx, r, path)
	if err != nil {
		return err
	}
	deleted, err := f.DeletedLines()
	if err != nil {
		return err
	}
	added, err := f.AddedLines()
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, l := range deleted {
		fmt.Fprintf(&b, "-%d\t%s", l.Number, withNewline(l.Content))
	}
	for _, l := range added {
		fmt.Fprintf(&b, "+%d\t%s", l.Number, withNewline(l.Content))
	}
	_, err = io.WriteString(a.Stdout, b.String())
	return err
}

// Blob writes the content of path on the given side.
func (a *App) Blob(ctx context.Context, r Range, path string, side diffset.Side) error {
	f, err := a.file(ctx, r, path)
	if err != nil {
		return err
	}
	blob, err := f.Blob(ctx, side)
	if err != nil {
		return err
	}
	if blob == nil {
		return fmt.Errorf("%s does not exist on the %s side", path, side)
	}
	_, err = a.Stdout.Write(blob.Content)
	return err
}

func (a *App) file(ctx context.Context, r Range, path string) (*gitdiff.File, error) {
	d, err := a.open(ctx, r)
	if err != nil {
		return nil, err
	}
	f, err := d.File(ctx, path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("no changes to %s", path)
	}
	return f, nil
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
