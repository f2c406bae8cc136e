package command

import (
	"github.com/concave-dev/tetanus/internal/project"
	"github.com/concave-dev/tetanus/internal/session"
)

// Kind is the value type of a bound parameter.
type Kind int

const (
	KindPath Kind = iota
	KindString
	KindBool
	KindProject
	KindProjects
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindProject:
		return "project"
	case KindProjects:
		return "projects"
	default:
		return "unknown"
	}
}

// Source records where a bound value came from.
type Source int

const (
	SourceContext Source = iota
	SourceUser
)

func (s Source) String() string {
	if s == SourceUser {
		return "user"
	}
	return "context"
}

// Argument is one bound parameter. Exactly one value field is populated,
// selected by Kind.
type Argument struct {
	Name   string
	Kind   Kind
	Source Source

	// Position is the index of the user token the value came from, or -1 for
	// context values and key=value overrides.
	Position int

	Path     string
	Str      string
	Bool     bool
	Project  project.Project
	Projects []project.Project
}

// Invocation is a command bound to its arguments for one execution.
type Invocation struct {
	Descriptor  Descriptor
	Args        []Argument
	Diagnostics []error

	// Peer is the command end of the interactive session. It is nil when the
	// invocation runs without a dialog.
	Peer *session.Peer
}

// Arg returns the argument bound to name.
func (inv *Invocation) Arg(name string) (Argument, bool) {
	for _, a := range inv.Args {
		if a.Name == name {
			return a, true
		}
	}
	return Argument{}, false
}

// Has reports whether name was bound.
func (inv *Invocation) Has(name string) bool {
	_, ok := inv.Arg(name)
	return ok
}

// String returns a string or path argument.
func (inv *Invocation) String(name string) (string, bool) {
	a, ok := inv.Arg(name)
	if !ok {
		return "", false
	}
	switch a.Kind {
	case KindString:
		return a.Str, true
	case KindPath:
		return a.Path, true
	}
	return "", false
}

// Path returns a path argument, or the empty string.
func (inv *Invocation) Path(name string) string {
	a, ok := inv.Arg(name)
	if !ok || a.Kind != KindPath {
		return ""
	}
	return a.Path
}

// Bool returns a boolean argument, false when absent.
func (inv *Invocation) Bool(name string) bool {
	a, ok := inv.Arg(name)
	return ok && a.Kind == KindBool && a.Bool
}

// Projects returns the project set snapshot bound as "projects".
func (inv *Invocation) Projects() []project.Project {
	a, ok := inv.Arg(ParamProjects)
	if !ok {
		return nil
	}
	return a.Projects
}

// Interactive reports whether the invocation needs a dialog: always for
// interactive commands, and for optionally interactive commands that are
// missing one of their optional parameters.
func (inv *Invocation) Interactive() bool {
	d := inv.Descriptor
	if d.Interactive {
		return true
	}
	if !d.OptionallyInteractive {
		return false
	}
	for _, name := range d.OptionalParams {
		if !inv.Has(name) {
			return true
		}
	}
	return false
}
