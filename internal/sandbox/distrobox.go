// Package sandbox wraps the external distrobox tool that provides one isolated
// sandbox environment per current project.
//
// The tool is treated as an unreliable dependency: every invocation is a
// subprocess whose outcome is judged by its exit status. A process that cannot
// be launched and a process that exits non-zero are reported as distinct errors,
// both wrapped in an *OpError naming the step that failed.
//
// PROVISIONING SEQUENCE:
//  1. stop the project sandbox (a missing box is expected)
//  2. stop the template sandbox so it can be cloned
//  3. remove any stale project sandbox (a missing box is expected)
//  4. create the project sandbox as a clone of the template with the project
//     files and shared tools bind-mounted
//  5. enter and immediately exit the new sandbox as a smoke test
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/concave-dev/tetanus/internal/config"
	"github.com/concave-dev/tetanus/internal/logging"
)

// Spec describes a project sandbox to provision.
type Spec struct {
	Template string // template sandbox cloned for the project
	Name     string // project sandbox name, "<template>_<project>"
	FilesDir string // host path mounted at config.FilesMountPoint
	ToolsDir string // host path mounted at config.ToolsMountPoint
}

// Environment is the sandbox surface the project lifecycle depends on.
type Environment interface {
	Provision(ctx context.Context, spec Spec) error
	Destroy(ctx context.Context, name string) error
}

// OpError reports a failed sandbox step.
type OpError struct {
	Step string
	Box  string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("sandbox step %q failed for %s: %v", e.Step, e.Box, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// IsLaunchFailure reports whether err comes from a process that never started.
func IsLaunchFailure(err error) bool {
	var launchErr *LaunchError
	return errors.As(err, &launchErr)
}

// IsExitFailure reports whether err comes from a non-zero exit status.
func IsExitFailure(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// Distrobox drives the distrobox command line tool.
type Distrobox struct {
	Binary string
	Runner Runner

	// StepTimeout bounds each subprocess. Zero means no bound beyond the
	// caller's context.
	StepTimeout time.Duration
}

// NewDistrobox returns an adapter for the default distrobox binary.
func NewDistrobox() *Distrobox {
	return &Distrobox{Binary: config.DefaultSandboxBinary, Runner: ExecRunner{}}
}

func (d *Distrobox) run(ctx context.Context, step, box string, args ...string) error {
	if d.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.StepTimeout)
		defer cancel()
	}
	if err := d.Runner.Run(ctx, d.Binary, args...); err != nil {
		// A killed process also exits non-zero; report it as aborted so the
		// stop and rm steps of Provision do not mistake it for a missing box.
		if ctxErr := ctx.Err(); ctxErr != nil && IsExitFailure(err) {
			err = &AbortError{Command: d.Binary, Err: ctxErr}
		}
		return &OpError{Step: step, Box: box, Err: err}
	}
	return nil
}

// Stop stops a sandbox.
func (d *Distrobox) Stop(ctx context.Context, name string) error {
	return d.run(ctx, "stop", name, "stop", "--root", name)
}

// Remove deletes a sandbox.
func (d *Distrobox) Remove(ctx context.Context, name string) error {
	return d.run(ctx, "rm", name, "rm", "--root", name)
}

// Create clones spec.Template into spec.Name with the files and tools trees
// mounted read-write.
func (d *Distrobox) Create(ctx context.Context, spec Spec) error {
	return d.run(ctx, "create", spec.Name,
		"create", "--root",
		"--clone", spec.Template,
		"--init",
		"--volume", fmt.Sprintf("%s:%s:rw", spec.FilesDir, config.FilesMountPoint),
		"--volume", fmt.Sprintf("%s:%s:rw", spec.ToolsDir, config.ToolsMountPoint),
		"--name", spec.Name,
	)
}

// Smoke enters the sandbox and exits immediately, proving it starts.
func (d *Distrobox) Smoke(ctx context.Context, name string) error {
	return d.run(ctx, "enter", name, "enter", "--root", name, "--", "exit")
}

// Provision runs the full provisioning sequence for spec. Non-zero exits from
// the stop and rm steps are tolerated because the boxes may not exist yet;
// launch failures are never tolerated.
func (d *Distrobox) Provision(ctx context.Context, spec Spec) error {
	logging.Info("Stopping project sandbox %s and template %s", spec.Name, spec.Template)

	if err := d.Stop(ctx, spec.Name); err != nil {
		if !IsExitFailure(err) {
			return err
		}
		logging.Debug("Ignoring stop failure for %s: %v", spec.Name, err)
	}

	if err := d.Stop(ctx, spec.Template); err != nil {
		if !IsExitFailure(err) {
			return err
		}
		logging.Warn("Template sandbox %s did not stop cleanly: %v", spec.Template, err)
	}

	if err := d.Remove(ctx, spec.Name); err != nil {
		if !IsExitFailure(err) {
			return err
		}
		logging.Debug("Ignoring rm failure for %s: %v", spec.Name, err)
	}

	if err := d.Create(ctx, spec); err != nil {
		return err
	}
	logging.Success("Sandbox %s created", spec.Name)

	if err := d.Smoke(ctx, spec.Name); err != nil {
		return err
	}
	return nil
}

// Destroy removes a project sandbox. Unlike Provision, a non-zero exit is an
// error here: the operator asked for the box to be gone.
func (d *Distrobox) Destroy(ctx context.Context, name string) error {
	return d.Remove(ctx, name)
}
