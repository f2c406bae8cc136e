package command

import (
	"fmt"
	"strings"

	"github.com/concave-dev/tetanus/internal/logging"
	"github.com/concave-dev/tetanus/internal/project"
	"github.com/concave-dev/tetanus/internal/settings"
)

// Context parameter vocabulary.
const (
	ParamProjects      = "projects"
	ParamConfig        = "config"
	ParamTemplateBox   = "templatebox"
	ParamCurrentFiles  = "current_files"
	ParamCurrentNotes  = "current_notes"
	ParamUpcomingFiles = "upcoming_files"
	ParamUpcomingNotes = "upcoming_notes"
	ParamTools         = "tools"
	ParamDistrobox     = "distrobox"
)

// User parameter names.
const (
	ParamName    = "name"
	ParamCommand = "command"
	ParamProject = "project"
)

// Snapshot is the process-wide state a dispatch cycle binds against. The
// console builds a fresh one every cycle.
type Snapshot struct {
	Settings *settings.Settings
	Projects []project.Project
}

// LoadSnapshot reads the settings file at path and the project records it
// points to. Any failure is fatal to the caller.
func LoadSnapshot(path string) (Snapshot, error) {
	s, err := settings.Load(path)
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	if unknown := s.UnknownKeys(); len(unknown) > 0 {
		logging.Debug("Ignoring unknown settings: %s", strings.Join(unknown, ", "))
	}

	projects, err := project.LoadAll(s.ProjectsDir())
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Settings: s, Projects: projects}, nil
}

type resolver func(s *settings.Settings, projects []project.Project) Argument

func pathParam(get func(s *settings.Settings) string) resolver {
	return func(s *settings.Settings, _ []project.Project) Argument {
		return Argument{Kind: KindPath, Path: get(s)}
	}
}

var contextParams = map[string]resolver{
	ParamProjects: func(_ *settings.Settings, projects []project.Project) Argument {
		return Argument{Kind: KindProjects, Projects: projects}
	},
	ParamConfig:        pathParam(func(s *settings.Settings) string { return s.Path }),
	ParamCurrentFiles:  pathParam(func(s *settings.Settings) string { return s.CurrentFiles }),
	ParamCurrentNotes:  pathParam(func(s *settings.Settings) string { return s.CurrentNotes }),
	ParamUpcomingFiles: pathParam(func(s *settings.Settings) string { return s.UpcomingFiles }),
	ParamUpcomingNotes: pathParam(func(s *settings.Settings) string { return s.UpcomingNotes }),
	ParamTools:         pathParam(func(s *settings.Settings) string { return s.Tools }),
	ParamTemplateBox: func(s *settings.Settings, _ []project.Project) Argument {
		return Argument{Kind: KindString, Str: s.TemplateBox}
	},
	ParamDistrobox: func(s *settings.Settings, _ []project.Project) Argument {
		return Argument{Kind: KindBool, Bool: s.SandboxEnabled}
	},
}

func (snap Snapshot) resolve(name string) (Argument, bool) {
	r, ok := contextParams[name]
	if !ok {
		return Argument{}, false
	}
	s := snap.Settings
	if s == nil {
		s = &settings.Settings{}
	}
	arg := r(s, snap.Projects)
	arg.Name = name
	arg.Source = SourceContext
	arg.Position = -1
	return arg, true
}

// userArgument builds the argument for a user-supplied value. A parameter
// named "project" is resolved against the snapshot's project set.
func (snap Snapshot) userArgument(name, value string, position int) (Argument, error) {
	arg := Argument{Name: name, Source: SourceUser, Position: position}
	if name != ParamProject {
		arg.Kind = KindString
		arg.Str = value
		return arg, nil
	}
	p, err := project.FindByName(snap.Projects, value)
	if err != nil {
		return Argument{}, err
	}
	arg.Kind = KindProject
	arg.Project = p
	return arg, nil
}

type positional struct {
	index int
	value string
}

// Bind resolves desc's parameters against snap and the operator tokens that
// followed the command name.
//
// BINDING RULES:
//   - context parameters are looked up by name; unknown names become
//     UnknownParamError diagnostics and binding continues
//   - "key=value" tokens bind by name to a user or optional parameter, wherever
//     they appear
//   - remaining tokens bind in declaration order to unbound user parameters,
//     then to optional parameters
//
// Too few tokens for the user parameters is an *ArityError; a token left over,
// or a key naming no declared parameter, is an *ExtraArgumentError. When every
// token bound but some required context value did not, Bind returns the partial
// invocation with an *IncompleteError.
func Bind(desc Descriptor, snap Snapshot, tokens []string) (*Invocation, error) {
	inv := &Invocation{Descriptor: desc}
	bound := 0

	for _, name := range desc.ContextParams {
		arg, ok := snap.resolve(name)
		if !ok {
			err := &UnknownParamError{Command: desc.Name, Param: name}
			logging.Warn("%v", err)
			inv.Diagnostics = append(inv.Diagnostics, err)
			continue
		}
		inv.Args = append(inv.Args, arg)
		bound++
	}

	named := make(map[string]string)
	var rest []positional
	for i, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			rest = append(rest, positional{index: i, value: tok})
			continue
		}
		if !desc.acceptsUser(key) {
			return nil, &ExtraArgumentError{Command: desc.Name, Token: tok, Usage: desc.Usage()}
		}
		named[key] = value
	}

	bindUser := func(name, value string, position int) error {
		arg, err := snap.userArgument(name, value, position)
		if err != nil {
			return fmt.Errorf("%s: %w", desc.Name, err)
		}
		inv.Args = append(inv.Args, arg)
		return nil
	}

	next := 0
	for _, name := range desc.UserParams {
		if value, ok := named[name]; ok {
			if err := bindUser(name, value, -1); err != nil {
				return nil, err
			}
			bound++
			continue
		}
		if next >= len(rest) {
			return nil, &ArityError{
				Command:  desc.Name,
				Required: desc.UserParams,
				Got:      len(tokens),
				Usage:    desc.Usage(),
			}
		}
		if err := bindUser(name, rest[next].value, rest[next].index); err != nil {
			return nil, err
		}
		next++
		bound++
	}

	for _, name := range desc.OptionalParams {
		if value, ok := named[name]; ok {
			if err := bindUser(name, value, -1); err != nil {
				return nil, err
			}
			continue
		}
		if next < len(rest) {
			if err := bindUser(name, rest[next].value, rest[next].index); err != nil {
				return nil, err
			}
			next++
		}
	}

	if next < len(rest) {
		return nil, &ExtraArgumentError{Command: desc.Name, Token: rest[next].value, Usage: desc.Usage()}
	}

	if required := desc.RequiredCount(); bound != required {
		return inv, &IncompleteError{
			Command:     desc.Name,
			Bound:       bound,
			Required:    required,
			Diagnostics: inv.Diagnostics,
		}
	}

	logging.Debug("Bound %s with %d argument(s)", desc.Name, len(inv.Args))
	return inv, nil
}
