// Package gitexec implements diffset collaborators on top of the git binary.
package gitexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
)

// Runner executes git commands inside a repository.
type Runner struct {
	GitBin string       // defaults to "git"
	Dir    string       // working directory; empty means the current one
	Logger *slog.Logger // optional
}

// NewRunner creates a Runner for the repository at dir.
func NewRunner(gitBin, dir string, logger *slog.Logger) *Runner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &Runner{GitBin: gitBin, Dir: dir, Logger: logger}
}

// Output runs git and returns its standard output.
func (r *Runner) Output(ctx context.Context, args ...string) ([]byte, error) {
	cmd := r.command(ctx, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return nil, commandError(args, errb.String(), err)
	}
	return out.Bytes(), nil
}

// Stream starts git and returns its standard output as it is produced. The
// returned reader reports a failed exit as a read error in place of io.EOF.
// Closing it before the end kills the process.
func (r *Runner) Stream(ctx context.Context, args ...string) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := r.command(ctx, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	s := &stream{cmd: cmd, stdout: stdout, cancel: cancel, args: args}
	cmd.Stderr = &s.stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, commandError(args, "", err)
	}
	return s, nil
}

func (r *Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	r.logger().Debug("running git", "args", sanitizeArgs(args), "dir", r.Dir)
	cmd := exec.CommandContext(ctx, r.gitBin(), args...)
	if strings.TrimSpace(r.Dir) != "" {
		cmd.Dir = r.Dir
	}
	return cmd
}

func (r *Runner) gitBin() string {
	if r.GitBin == "" {
		return "git"
	}
	return r.GitBin
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

type stream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	cancel context.CancelFunc
	args   []string
	done   bool
	err    error
}

func (s *stream) Read(p []byte) (int, error) {
	if s.done {
		return 0, s.err
	}
	n, err := s.stdout.Read(p)
	if err == io.EOF {
		s.done = true
		s.err = io.EOF
		if werr := s.cmd.Wait(); werr != nil {
			s.err = commandError(s.args, s.stderr.String(), werr)
		}
		return n, s.err
	}
	return n, err
}

func (s *stream) Close() error {
	if s.done {
		s.cancel()
		return nil
	}
	s.done = true
	s.err = io.ErrClosedPipe
	s.cancel()
	_ = s.cmd.Wait()
	return nil
}

func commandError(args []string, stderr string, err error) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return fmt.Errorf("git %s: %w", sanitizeArgs(args), err)
	}
	return fmt.Errorf("git %s: %s: %w", sanitizeArgs(args), redactTokens(msg), err)
}

var (
	safeArg     = regexp.MustCompile(`^[a-z][a-z-]*$`)
	credentials = regexp.MustCompile(`https?://[^\s@]+@`)
	secrets     = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

// sanitizeArgs keeps at most the first two subcommand tokens so errors and
// logs never carry paths or URLs.
func sanitizeArgs(args []string) string {
	safe := make([]string, 0, 2)
	for _, a := range args {
		if !safeArg.MatchString(a) || len(safe) == 2 {
			break
		}
		safe = append(safe, a)
	}
	if len(safe) == 0 {
		return "<redacted>"
	}
	return strings.Join(safe, " ")
}

// redactTokens removes obvious credential substrings from messages.
func redactTokens(s string) string {
	s = credentials.ReplaceAllString(s, "https://<redacted>@")
	return secrets.ReplaceAllString(s, "$1=<redacted>")
}
