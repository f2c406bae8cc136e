package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/concave-dev/tetanus/internal/logging"
)

// Runner launches one external command and waits for it. Implementations must
// return *LaunchError when the process could not be started and *ExitError when
// it ran but exited non-zero.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// LaunchError reports a process that could not be started at all (binary
// missing, permission denied).
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitError reports a process that ran and exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// AbortError reports a process stopped because its context ended: the step
// timeout expired or the operator shut the console down. It is never tolerated
// the way an ExitError from a missing box is.
type AbortError struct {
	Command string
	Err     error // context.DeadlineExceeded or context.Canceled
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("%s aborted: %v", e.Command, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec, folding stdout into the INFO log and
// stderr into the WARN log.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = logging.NewLevelWriter("INFO", name)
	cmd.Stderr = logging.NewLevelWriter("WARN", name)

	logging.Debug("Running %s %v", name, args)
	if err := cmd.Start(); err != nil {
		return &LaunchError{Command: name, Err: err}
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &AbortError{Command: name, Err: ctxErr}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: name, Code: exitErr.ExitCode()}
		}
		return &LaunchError{Command: name, Err: err}
	}
	return nil
}
