package gitexec

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/diffset"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var _ diffset.Differ = (*Differ)(nil)

// Differ compares repository states with git diff. The patch is streamed from
// a fresh git process every time it is opened; the numeric summary is read
// up front.
type Differ struct {
	runner *Runner
}

// NewDiffer creates a Differ using runner.
func NewDiffer(runner *Runner) *Differ {
	return &Differ{runner: runner}
}

// Diff compares from and to. Empty references are left out of the git
// command line, so both empty compares the working tree with the index and
// an empty to compares from with the working tree.
func (d *Differ) Diff(ctx context.Context, from, to string) (*diffset.Comparison, error) {
	refs := lo.Compact([]string{from, to})
	if err := d.verifyAll(ctx, refs); err != nil {
		return nil, err
	}

	out, err := d.runner.Output(ctx, diffArgs(refs, "--numstat", "-z")...)
	if err != nil {
		return nil, err
	}
	numstats, err := ParseNumStat(out)
	if err != nil {
		return nil, err
	}

	return &diffset.Comparison{
		Patch:    &patchSource{runner: d.runner, args: diffArgs(refs, "-p", "--src-prefix=a/", "--dst-prefix=b/")},
		NumStats: numstats,
	}, nil
}

// verifyAll checks every reference concurrently.
func (d *Differ) verifyAll(ctx context.Context, refs []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		g.Go(func() error {
			return d.verify(gctx, ref)
		})
	}
	return g.Wait()
}

// verify checks that ref names a commit or a tree.
func (d *Differ) verify(ctx context.Context, ref string) error {
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("%w: %q", diffset.ErrUnknownRevision, ref)
	}
	if _, err := d.runner.Output(ctx, "rev-parse", "--verify", "--quiet", ref+"^{tree}"); err != nil {
		return fmt.Errorf("%w: %q", diffset.ErrUnknownRevision, ref)
	}
	return nil
}

// diffArgs builds a git diff command line. Explicit prefixes override
// diff.noprefix and diff.mnemonicPrefix, which the header parser cannot read.
func diffArgs(refs []string, format ...string) []string {
	args := append([]string{"diff"}, format...)
	args = append(args, "--no-color", "--no-ext-diff", "-M")
	args = append(args, refs...)
	return append(args, "--")
}

type patchSource struct {
	runner *Runner
	args   []string
}

func (p *patchSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return p.runner.Stream(ctx, p.args...)
}
