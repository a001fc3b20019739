package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// Command describes a subprocess invocation. Args[0] is the executable.
type Command struct {
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
}

func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Runner executes subprocesses.
type Runner interface {
	// Run streams the command's output to the runner's writers.
	Run(ctx context.Context, cmd Command) error
	// Output runs the command and returns its standard output.
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

var execCommandContext = exec.CommandContext

// Run executes cmd, forwarding its output. A non-zero exit is reported as
// a *CommandError.
func (r ExecRunner) Run(ctx context.Context, cmd Command) error {
	c, err := r.command(ctx, cmd)
	if err != nil {
		return err
	}
	c.Stdout = writerOrDiscard(r.Stdout)
	c.Stderr = writerOrDiscard(r.Stderr)
	r.logger().Debug("running command", "args", cmd.Args, "dir", cmd.Dir)
	if err := c.Run(); err != nil {
		return commandError(cmd.Args, nil, err)
	}
	return nil
}

// Output executes cmd and captures its standard output. Standard error is
// captured too and attached to a *CommandError on failure.
func (r ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	c, err := r.command(ctx, cmd)
	if err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	r.logger().Debug("capturing command output", "args", cmd.Args, "dir", cmd.Dir)
	if err := c.Run(); err != nil {
		return nil, commandError(cmd.Args, stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}

func (r ExecRunner) command(ctx context.Context, cmd Command) (*exec.Cmd, error) {
	if len(cmd.Args) == 0 {
		return nil, errors.New(messages.BackendCommandEmpty)
	}
	c := execCommandContext(ctx, cmd.Args[0], cmd.Args[1:]...) //nolint:gosec // arguments come from install files chosen by the operator
	c.Dir = cmd.Dir
	return c, nil
}

func (r ExecRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
