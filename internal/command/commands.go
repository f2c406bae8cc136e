package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/concave-dev/tetanus/internal/project"
	"github.com/concave-dev/tetanus/internal/sandbox"
	"github.com/concave-dev/tetanus/internal/session"
	"github.com/concave-dev/tetanus/internal/settings"
)

// errNoDialog is returned when a command needs operator input but runs without
// a session, as it does under "tetanus exec".
var errNoDialog = errors.New("missing parameters and no interactive session to ask for them")

// ask opens the dialog on first use and prompts the operator.
func ask(ctx context.Context, inv *Invocation, question string) (string, error) {
	if inv.Peer == nil {
		return "", errNoDialog
	}
	if inv.Peer.State() == session.StateInitiating {
		if err := inv.Peer.Open(ctx); err != nil {
			return "", err
		}
	}
	return inv.Peer.Ask(ctx, question)
}

func say(ctx context.Context, inv *Invocation, text string) error {
	if inv.Peer == nil {
		return nil
	}
	if inv.Peer.State() == session.StateInitiating {
		if err := inv.Peer.Open(ctx); err != nil {
			return err
		}
	}
	return inv.Peer.Say(ctx, text)
}

// release hands the console back before long-running work.
func release(ctx context.Context, inv *Invocation) error {
	if inv.Peer == nil || inv.Peer.State() != session.StateDialog {
		return nil
	}
	return inv.Peer.Release(ctx)
}

// chooseProject resolves the target project from the name parameter or, when it
// is missing, from a numbered menu shown in the dialog.
func chooseProject(ctx context.Context, inv *Invocation, verb string) (project.Project, error) {
	projects := inv.Projects()
	if name, ok := inv.String(ParamName); ok {
		return project.FindByName(projects, name)
	}
	if len(projects) == 0 {
		return project.Project{}, fmt.Errorf("%w: there are no projects to %s", project.ErrProjectNotFound, verb)
	}

	if err := say(ctx, inv, projectTable(projects, true)); err != nil {
		return project.Project{}, err
	}
	answer, err := ask(ctx, inv, fmt.Sprintf("select the project to %s:", verb))
	if err != nil {
		return project.Project{}, err
	}
	return project.Select(projects, answer)
}

// listProjects prints the project table.
type listProjects struct{}

func (listProjects) Descriptor() Descriptor {
	return Descriptor{
		Name:          "list_projects",
		Help:          "show every project with its stage, sandbox and active flag",
		ContextParams: []string{ParamProjects},
	}
}

func (listProjects) Execute(_ context.Context, inv *Invocation) Outcome {
	projects := inv.Projects()
	if len(projects) == 0 {
		return Outcome{Text: "no projects yet, create one with create_project"}
	}
	return Outcome{Text: projectTable(projects, false)}
}

// createProject creates an upcoming project, asking for the name if needed.
type createProject struct {
	manager *project.Manager
}

func (createProject) Descriptor() Descriptor {
	return Descriptor{
		Name:                  "create_project",
		Help:                  "create an upcoming project with its files and notes directories",
		ContextParams:         []string{ParamConfig, ParamUpcomingFiles, ParamUpcomingNotes},
		OptionalParams:        []string{ParamName},
		OptionallyInteractive: true,
	}
}

func (c createProject) Execute(ctx context.Context, inv *Invocation) Outcome {
	name, ok := inv.String(ParamName)
	if !ok {
		answer, err := ask(ctx, inv, "name of the new project:")
		if err != nil {
			return failed(err)
		}
		name = strings.TrimSpace(answer)
	}

	cfg := inv.Path(ParamConfig)
	p, err := c.manager.Create(project.CreateRequest{
		Name:         name,
		ProjectsDir:  settings.ProjectsDirOf(cfg),
		FilesRoot:    inv.Path(ParamUpcomingFiles),
		NotesRoot:    inv.Path(ParamUpcomingNotes),
		TemplatesDir: settings.NoteTemplatesDirOf(cfg),
	})
	if err != nil {
		return failed(err)
	}
	return Outcome{Text: fmt.Sprintf("project %s created, files in %s, notes in %s", p.Name, p.Files, p.Notes)}
}

// promoteProject moves a project to current and provisions its sandbox.
type promoteProject struct {
	manager *project.Manager
}

func (promoteProject) Descriptor() Descriptor {
	return Descriptor{
		Name: "promote_project",
		Help: "move an upcoming project to current and create its sandbox",
		ContextParams: []string{
			ParamProjects, ParamConfig, ParamCurrentFiles, ParamCurrentNotes,
			ParamTemplateBox, ParamTools, ParamDistrobox,
		},
		OptionalParams:        []string{ParamName},
		OptionallyInteractive: true,
	}
}

func (c promoteProject) Execute(ctx context.Context, inv *Invocation) Outcome {
	p, err := chooseProject(ctx, inv, "promote")
	if err != nil {
		return failed(err)
	}
	if err := release(ctx, inv); err != nil {
		return failed(err)
	}

	template, _ := inv.String(ParamTemplateBox)
	result, err := c.manager.Promote(ctx, p, project.PromoteRequest{
		FilesRoot:      inv.Path(ParamCurrentFiles),
		NotesRoot:      inv.Path(ParamCurrentNotes),
		Template:       template,
		ToolsDir:       inv.Path(ParamTools),
		SandboxEnabled: inv.Bool(ParamDistrobox),
	})
	if err != nil {
		return failed(err)
	}

	out := Outcome{
		Text: fmt.Sprintf("project %s promoted to current, moved %d file(s) (%s)",
			p.Name, result.Files, humanize.Bytes(uint64(result.Bytes))),
		Warnings: result.Warnings,
	}
	if result.SandboxErr != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"sandbox %s was not provisioned and needs manual remediation: %v",
			result.Project.BoxName, result.SandboxErr))
		if sandbox.IsLaunchFailure(result.SandboxErr) {
			out.Warnings = append(out.Warnings, "the sandbox tool could not be started, check that it is installed and on PATH")
		}
	}
	return out
}

// removeProject deletes a project and its sandbox.
type removeProject struct {
	manager *project.Manager
}

func (removeProject) Descriptor() Descriptor {
	return Descriptor{
		Name:                  "remove_project",
		Help:                  "delete a project's files, notes, record and sandbox",
		ContextParams:         []string{ParamProjects, ParamDistrobox},
		OptionalParams:        []string{ParamName},
		OptionallyInteractive: true,
	}
}

func (c removeProject) Execute(ctx context.Context, inv *Invocation) Outcome {
	p, err := chooseProject(ctx, inv, "remove")
	if err != nil {
		return failed(err)
	}
	if err := release(ctx, inv); err != nil {
		return failed(err)
	}
	if err := c.manager.Remove(ctx, p, inv.Bool(ParamDistrobox)); err != nil {
		return failed(err)
	}
	return Outcome{Text: fmt.Sprintf("project %s removed", p.Name)}
}

// activateProject marks one project as the active one.
type activateProject struct {
	manager *project.Manager
}

func (activateProject) Descriptor() Descriptor {
	return Descriptor{
		Name:          "activate_project",
		Help:          "make a project the active one",
		ContextParams: []string{ParamConfig},
		UserParams:    []string{ParamName},
	}
}

func (c activateProject) Execute(_ context.Context, inv *Invocation) Outcome {
	name, _ := inv.String(ParamName)
	if _, err := c.manager.Activate(settings.ProjectsDirOf(inv.Path(ParamConfig)), name); err != nil {
		return failed(err)
	}
	return Outcome{Text: fmt.Sprintf("project %s is now active", name)}
}

// help prints usage lines.
type help struct {
	registry *Registry
}

func (help) Descriptor() Descriptor {
	return Descriptor{
		Name:           "help",
		Help:           "show usage for every command, or for one",
		OptionalParams: []string{ParamCommand},
	}
}

func (h help) Execute(_ context.Context, inv *Invocation) Outcome {
	if name, ok := inv.String(ParamCommand); ok {
		c, err := h.registry.Lookup(name)
		if err != nil {
			return failed(err)
		}
		d := c.Descriptor()
		return Outcome{Text: fmt.Sprintf("%s\n  %s", d.Usage(), d.Help)}
	}

	var lines []string
	for _, c := range h.registry.Commands() {
		d := c.Descriptor()
		lines = append(lines, fmt.Sprintf("%-32s %s", d.Usage(), d.Help))
	}
	lines = append(lines, fmt.Sprintf("%-32s %s", "exit", "quit tetanus"))
	return Outcome{Text: strings.Join(lines, "\n")}
}
