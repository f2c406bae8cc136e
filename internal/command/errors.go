package command

import (
	"errors"
	"fmt"
)

// ErrCommandNotFound reports a command name missing from the registry.
var ErrCommandNotFound = errors.New("command not found")

// ArityError reports fewer user tokens than required parameters.
type ArityError struct {
	Command  string
	Required []string
	Got      int
	Usage    string
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d argument(s), got %d; usage: %s",
		e.Command, len(e.Required), e.Got, e.Usage)
}

// ExtraArgumentError reports a token that matches no declared parameter.
type ExtraArgumentError struct {
	Command string
	Token   string
	Usage   string
}

func (e *ExtraArgumentError) Error() string {
	return fmt.Sprintf("%s: unexpected argument %q; usage: %s", e.Command, e.Token, e.Usage)
}

// UnknownParamError reports a context parameter name outside the context
// vocabulary. It is collected as a diagnostic and does not stop binding.
type UnknownParamError struct {
	Command string
	Param   string
}

func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("%s: unknown context parameter %q", e.Command, e.Param)
}

// IncompleteError reports an invocation whose required parameters could not
// all be bound.
type IncompleteError struct {
	Command     string
	Bound       int
	Required    int
	Diagnostics []error
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: bound %d of %d required parameters: %v",
		e.Command, e.Bound, e.Required, errors.Join(e.Diagnostics...))
}

func (e *IncompleteError) Unwrap() []error { return e.Diagnostics }
