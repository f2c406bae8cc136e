// Package command holds the fixed catalog of operator commands, the binder that
// resolves their parameters, and the command implementations.
//
// Every command declares three ordered parameter lists in its Descriptor:
// context parameters filled from the settings snapshot and the project set,
// user parameters the operator must type, and optional parameters the operator
// may type. A command that is optionally interactive asks for missing optional
// values through the session dialog instead of failing.
//
// Dispatch never switches on command names: the registry maps a name to a
// Command, Bind produces an Invocation, and Execute runs it.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/concave-dev/tetanus/internal/project"
)

// Descriptor is the static definition of a command.
type Descriptor struct {
	Name           string
	Help           string
	ContextParams  []string
	UserParams     []string
	OptionalParams []string

	Interactive           bool
	OptionallyInteractive bool
}

// RequiredCount is the number of parameters that must bind before the command
// can run.
func (d Descriptor) RequiredCount() int {
	return len(d.ContextParams) + len(d.UserParams)
}

// Usage renders "<name> <param> ... [optional]".
func (d Descriptor) Usage() string {
	parts := []string{d.Name}
	for _, p := range d.UserParams {
		parts = append(parts, "<"+p+">")
	}
	for _, p := range d.OptionalParams {
		parts = append(parts, "["+p+"]")
	}
	return strings.Join(parts, " ")
}

func (d Descriptor) acceptsUser(name string) bool {
	for _, p := range d.UserParams {
		if p == name {
			return true
		}
	}
	for _, p := range d.OptionalParams {
		if p == name {
			return true
		}
	}
	return false
}

// Outcome is the structured result of one execution.
type Outcome struct {
	Text     string
	Warnings []string
	Err      error
}

// Failed reports whether the command failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Render formats the outcome for the operator. Failures are prefixed with
// "error:" so the console can colour them.
func (o Outcome) Render() string {
	var lines []string
	if o.Text != "" {
		lines = append(lines, o.Text)
	}
	for _, w := range o.Warnings {
		lines = append(lines, "warning: "+w)
	}
	if o.Err != nil {
		lines = append(lines, "error: "+o.Err.Error())
	}
	return strings.Join(lines, "\n")
}

func failed(err error) Outcome {
	return Outcome{Err: err}
}

// Command is one operator command.
type Command interface {
	Descriptor() Descriptor
	Execute(ctx context.Context, inv *Invocation) Outcome
}

// Registry is the fixed command catalog. It is immutable after NewRegistry.
type Registry struct {
	commands map[string]Command
}

// NewRegistry builds the catalog. Project mutations go through manager.
func NewRegistry(manager *project.Manager) *Registry {
	r := &Registry{commands: make(map[string]Command)}
	r.add(listProjects{})
	r.add(createProject{manager: manager})
	r.add(promoteProject{manager: manager})
	r.add(removeProject{manager: manager})
	r.add(activateProject{manager: manager})
	r.add(help{registry: r})
	return r
}

func (r *Registry) add(c Command) {
	name := c.Descriptor().Name
	if _, dup := r.commands[name]; dup {
		panic(fmt.Sprintf("command %s registered twice", name))
	}
	r.commands[name] = c
}

// Lookup returns the command called name.
func (r *Registry) Lookup(name string) (Command, error) {
	c, ok := r.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}
	return c, nil
}

// Commands returns every command sorted by name.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor().Name < out[j].Descriptor().Name
	})
	return out
}
