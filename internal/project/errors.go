package project

import (
	"errors"
	"fmt"
)

// Sentinel errors for lifecycle failures.
var (
	ErrProjectExists   = errors.New("project already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrAlreadyCurrent  = errors.New("project is already current")
	ErrEmptyName       = errors.New("project name is required")
	ErrProjectChanged  = errors.New("project changed since it was listed")
)

// StepError reports which step of a multi-step operation failed and on which path.
type StepError struct {
	Op   string // create, promote, remove, activate
	Step string
	Path string
	Err  error

	// Hint tells the operator how to recover, when there is something to do.
	Hint string
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %v", e.Op, e.Step, e.Err)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s failed for %s: %v", e.Op, e.Step, e.Path, e.Err)
	}
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

func (e *StepError) Unwrap() error { return e.Err }

// SelectionError reports an interactive menu choice that does not name a project.
type SelectionError struct {
	Choice string
	Count  int
}

func (e *SelectionError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("invalid selection %q: there are no projects", e.Choice)
	}
	return fmt.Sprintf("invalid selection %q: choose a number between 1 and %d", e.Choice, e.Count)
}
