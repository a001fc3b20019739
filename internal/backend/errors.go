package backend

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/conn-castle/slivka-install/internal/messages"
)

var (
	// ErrNoImage reports a docker install file with neither pull nor build.
	ErrNoImage = errors.New(messages.BackendNoImage)
	// ErrServiceKept reports that an existing service descriptor was left unchanged.
	ErrServiceKept = errors.New(messages.BackendServiceKept)
)

// CommandError reports a subprocess that exited with a non-zero status.
type CommandError struct {
	Args     []string
	ExitCode int
	// Stderr holds captured error output, when the command was captured.
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf(messages.BackendCommandFailedFmt, strings.Join(e.Args, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecutableNotFoundError reports an executable that could not be located.
type ExecutableNotFoundError struct {
	Name string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf(messages.BackendExecutableNotFoundFmt, e.Name)
}

// commandError converts an *exec.ExitError into a *CommandError and returns
// any other error unchanged.
func commandError(args []string, stderr []byte, err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf(messages.BackendCommandStartFailedFmt, strings.Join(args, " "), err)
	}
	return &CommandError{
		Args:     append([]string(nil), args...),
		ExitCode: exitErr.ExitCode(),
		Stderr:   string(stderr),
		Err:      exitErr,
	}
}
