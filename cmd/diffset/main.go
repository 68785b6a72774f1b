// Command diffset inspects the changes between two states of a git
// repository.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffset"
	"github.com/fwojciec/diffset/gitexec"
	"github.com/fwojciec/diffset/gogit"
	"github.com/muesli/termenv"
)

// CLI is the command-line grammar.
type CLI struct {
	Repo    string `short:"C" env:"DIFFSET_REPO" default:"." type:"path" help:"Repository to inspect."`
	Backend string `env:"DIFFSET_BACKEND" enum:"exec,gogit" default:"exec" help:"How to read the repository: the git binary (exec) or go-git (gogit)."`
	GitBin  string `name:"git-bin" env:"DIFFSET_GIT" default:"git" help:"git binary used by the exec backend."`
	Verbose bool   `short:"v" help:"Log git invocations to stderr."`
	Color   string `enum:"auto,always,never" default:"auto" help:"Colorize output (auto, always, never)."`

	Stat  StatCmd  `cmd:"" help:"Show insertions and deletions per file."`
	Patch PatchCmd `cmd:"" help:"Print the raw patch."`
	Files FilesCmd `cmd:"" help:"List changed files with their change type."`
	Lines LinesCmd `cmd:"" help:"List the added and deleted lines of one file."`
	Blob  BlobCmd  `cmd:"" help:"Print the content of one file on either side."`
}

// Range selects the two states to compare.
type Range struct {
	From string `arg:"" optional:"" help:"State to compare from. Empty compares the working tree."`
	To   string `arg:"" optional:"" help:"State to compare to. Empty compares against the index."`
	Path string `short:"p" help:"Only include files whose path starts with this prefix."`
}

type StatCmd struct {
	Range `embed:""`
}

func (c *StatCmd) Run(ctx context.Context, app *App) error {
	return app.Stat(ctx, c.Range)
}

type PatchCmd struct {
	Range `embed:""`
}

func (c *PatchCmd) Run(ctx context.Context, app *App) error {
	return app.Patch(ctx, c.Range)
}

type FilesCmd struct {
	Range `embed:""`
	JSONL bool   `name:"jsonl" help:"Write one JSON record per file."`
	Load  string `type:"existingfile" help:"List the records of a file written by --jsonl in place of comparing states."`
}

func (c *FilesCmd) Run(ctx context.Context, app *App) error {
	if c.Load != "" {
		return app.LoadFiles(c.Load, c.JSONL)
	}
	return app.Files(ctx, c.Range, c.JSONL)
}

type LinesCmd struct {
	File  string `arg:"" help:"Path of the file, as it appears on the destination side."`
	Range `embed:""`
}

func (c *LinesCmd) Run(ctx context.Context, app *App) error {
	return app.Lines(ctx, c.Range, c.File)
}

type BlobCmd struct {
	File  string `arg:"" help:"Path of the file, as it appears on the destination side."`
	Side  string `enum:"src,dst" default:"dst" help:"Which side to print (src, dst)."`
	Range `embed:""`
}

func (c *BlobCmd) Run(ctx context.Context, app *App) error {
	side := diffset.Dst
	if c.Side == "src" {
		side = diffset.Src
	}
	return app.Blob(ctx, c.Range, c.File, side)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("diffset"),
		kong.Description("Inspect the changes between two states of a git repository."),
		kong.ShortUsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	app, err := cli.NewApp(os.Stdout, os.Stderr)
	kctx.FatalIfErrorf(err)
	kctx.FatalIfErrorf(kctx.Run(app))
}

// NewApp wires the backend, logger and terminal renderer selected by the
// global flags.
func (c *CLI) NewApp(stdout, stderr io.Writer) (*App, error) {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	app := &App{
		Stdout:   stdout,
		Renderer: lipgloss.NewRenderer(stdout),
	}
	switch c.Color {
	case "always":
		app.Renderer.SetColorProfile(termenv.ANSI256)
	case "never":
		app.Renderer.SetColorProfile(termenv.Ascii)
	}
	app.Color = app.Renderer.ColorProfile() != termenv.Ascii

	switch c.Backend {
	case "gogit":
		repo, err := gogit.PlainOpen(c.Repo)
		if err != nil {
			return nil, err
		}
		app.Differ = gogit.NewDiffer(repo)
		app.Blobs = gogit.NewBlobStore(repo)
	default:
		r := gitexec.NewRunner(c.GitBin, c.Repo, logger)
		app.Differ = gitexec.NewDiffer(r)
		app.Blobs = gitexec.NewBlobStore(r)
	}
	logger.Debug("configured", "backend", c.Backend, "repo", c.Repo, "color", app.Color)
	return app, nil
}
