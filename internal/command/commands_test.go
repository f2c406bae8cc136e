package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/concave-dev/tetanus/internal/project"
	"github.com/concave-dev/tetanus/internal/sandbox"
	"github.com/concave-dev/tetanus/internal/session"
	"github.com/concave-dev/tetanus/internal/settings"
)

// fakeEnvironment records sandbox calls instead of running distrobox
type fakeEnvironment struct {
	mu           sync.Mutex
	provisioned  []sandbox.Spec
	destroyed    []string
	provisionErr error
}

func (f *fakeEnvironment) Provision(_ context.Context, spec sandbox.Spec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provisioned = append(f.provisioned, spec)
	return f.provisionErr
}

func (f *fakeEnvironment) Destroy(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, name)
	return nil
}

// workspace is a settings file with every project root under one temp dir
type workspace struct {
	settings *settings.Settings
	env      *fakeEnvironment
	registry *Registry
}

func newWorkspace(t *testing.T, sandboxEnabled bool) *workspace {
	t.Helper()
	root := t.TempDir()
	configDir := filepath.Join(root, "config")

	distrobox := "no"
	if sandboxEnabled {
		distrobox = "yes"
	}
	raw := map[string]string{
		settings.KeyDistrobox:     distrobox,
		settings.KeyTemplateBox:   "kali-template",
		settings.KeyCurrentFiles:  filepath.Join(root, "current", "files"),
		settings.KeyCurrentNotes:  filepath.Join(root, "current", "notes"),
		settings.KeyUpcomingFiles: filepath.Join(root, "upcoming", "files"),
		settings.KeyUpcomingNotes: filepath.Join(root, "upcoming", "notes"),
		settings.KeyTools:         filepath.Join(root, "tools"),
	}
	s := settings.FromMap(filepath.Join(configDir, "config.conf"), raw)

	webapp := filepath.Join(settings.NoteTemplatesDirOf(s.Path), "webapp")
	for _, dir := range []string{s.ProjectsDir(), webapp} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(webapp, "checklist.md"), []byte("# Checklist\n"), 0o644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	env := &fakeEnvironment{}
	return &workspace{
		settings: s,
		env:      env,
		registry: NewRegistry(project.NewManager(env)),
	}
}

func (w *workspace) snapshot(t *testing.T) Snapshot {
	t.Helper()
	projects, err := project.LoadAll(w.settings.ProjectsDir())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	return Snapshot{Settings: w.settings, Projects: projects}
}

func (w *workspace) bind(t *testing.T, name string, tokens ...string) (Command, *Invocation) {
	t.Helper()
	c, err := w.registry.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup %s failed: %v", name, err)
	}
	inv, err := Bind(c.Descriptor(), w.snapshot(t), tokens)
	if err != nil {
		t.Fatalf("Bind %s failed: %v", name, err)
	}
	return c, inv
}

// run executes a command without a dialog
func (w *workspace) run(t *testing.T, name string, tokens ...string) Outcome {
	t.Helper()
	c, inv := w.bind(t, name, tokens...)
	if inv.Interactive() {
		t.Fatalf("Expected %s %v to be non-interactive", name, tokens)
	}
	return c.Execute(context.Background(), inv)
}

// converse executes a command through a session, answering prompts with answers
func (w *workspace) converse(t *testing.T, name string, answers ...string) (Outcome, []session.Message) {
	t.Helper()
	c, inv := w.bind(t, name)
	if !inv.Interactive() {
		t.Fatalf("Expected %s to be interactive", name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := session.New()
	inv.Peer = s.Peer()

	lines := make(chan string, len(answers))
	for _, a := range answers {
		lines <- a
	}

	var mu sync.Mutex
	var messages []session.Message
	console := session.NewConsole(lines, func(m session.Message) {
		mu.Lock()
		messages = append(messages, m)
		mu.Unlock()
	})
	console.Interval = 10 * time.Millisecond

	outcome := make(chan Outcome, 1)
	go func() {
		out := c.Execute(ctx, inv)
		inv.Peer.Finish(ctx, out.Render())
		outcome <- out
	}()

	if err := console.Converse(ctx, s); err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	out := <-outcome

	mu.Lock()
	defer mu.Unlock()
	return out, messages
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TestCreateProjectInteractive tests creating "webapp-acme" by answering the name prompt
func TestCreateProjectInteractive(t *testing.T) {
	w := newWorkspace(t, true)

	out, messages := w.converse(t, "create_project", "webapp-acme")
	if out.Failed() {
		t.Fatalf("create_project failed: %v", out.Err)
	}

	prompts := 0
	for _, m := range messages {
		if m.Token == session.TokenPrompt {
			prompts++
		}
	}
	if prompts != 1 {
		t.Errorf("Expected exactly 1 prompt, got %d", prompts)
	}

	if !exists(filepath.Join(w.settings.UpcomingFiles, "webapp-acme")) {
		t.Error("Expected upcoming files directory")
	}
	if !exists(filepath.Join(w.settings.UpcomingNotes, "webapp-acme", "checklist.md")) {
		t.Error("Expected webapp template to be copied")
	}
	record, err := os.ReadFile(filepath.Join(w.settings.ProjectsDir(), "webapp-acme.conf"))
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if !strings.Contains(string(record), "stage|upcoming") {
		t.Errorf("Expected stage|upcoming in record:\n%s", record)
	}
}

// TestCreateProjectWithoutDialog tests that a missing name fails without a session
func TestCreateProjectWithoutDialog(t *testing.T) {
	w := newWorkspace(t, false)
	c, inv := w.bind(t, "create_project")

	out := c.Execute(context.Background(), inv)
	if !errors.Is(out.Err, errNoDialog) {
		t.Errorf("Expected errNoDialog, got %v", out.Err)
	}
	if !strings.HasPrefix(out.Render(), "error:") {
		t.Errorf("Expected rendered error, got %q", out.Render())
	}
}

// TestCreateProjectDuplicate tests that the second create reports the conflict
func TestCreateProjectDuplicate(t *testing.T) {
	w := newWorkspace(t, false)

	if out := w.run(t, "create_project", "acme"); out.Failed() {
		t.Fatalf("First create failed: %v", out.Err)
	}
	out := w.run(t, "create_project", "name=acme")
	if !errors.Is(out.Err, project.ErrProjectExists) {
		t.Errorf("Expected ErrProjectExists, got %v", out.Err)
	}
}

// TestPromoteProjectByName tests promotion with a sandbox
func TestPromoteProjectByName(t *testing.T) {
	w := newWorkspace(t, true)

	if out := w.run(t, "create_project", "webapp-acme"); out.Failed() {
		t.Fatalf("create failed: %v", out.Err)
	}
	out := w.run(t, "promote_project", "webapp-acme")
	if out.Failed() {
		t.Fatalf("promote failed: %v", out.Err)
	}
	if !strings.Contains(out.Text, "promoted to current") {
		t.Errorf("Unexpected outcome text %q", out.Text)
	}

	if len(w.env.provisioned) != 1 {
		t.Fatalf("Expected 1 sandbox provisioned, got %d", len(w.env.provisioned))
	}
	spec := w.env.provisioned[0]
	if spec.Template != "kali-template" || spec.Name != "kali-template_webapp-acme" {
		t.Errorf("Unexpected sandbox spec %+v", spec)
	}

	record, err := os.ReadFile(filepath.Join(w.settings.ProjectsDir(), "webapp-acme.conf"))
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if !strings.Contains(string(record), "stage|current") {
		t.Errorf("Expected stage|current in record:\n%s", record)
	}
}

// TestPromoteProjectMenu tests selecting the project from the numbered menu
func TestPromoteProjectMenu(t *testing.T) {
	w := newWorkspace(t, false)
	for _, name := range []string{"alpha", "bravo"} {
		if out := w.run(t, "create_project", name); out.Failed() {
			t.Fatalf("create %s failed: %v", name, out.Err)
		}
	}

	out, messages := w.converse(t, "promote_project", "2")
	if out.Failed() {
		t.Fatalf("promote failed: %v", out.Err)
	}
	if !strings.Contains(out.Text, "bravo") {
		t.Errorf("Expected bravo to be promoted, got %q", out.Text)
	}

	menu := false
	for _, m := range messages {
		if m.Token == session.TokenText && strings.Contains(m.Text, "alpha") && strings.Contains(m.Text, "bravo") {
			menu = true
		}
	}
	if !menu {
		t.Error("Expected the project menu to be shown")
	}
	if len(w.env.provisioned) != 0 {
		t.Error("Expected no sandbox when distrobox is disabled")
	}
}

// TestPromoteProjectMissingSandboxTool tests the hint shown when distrobox
// cannot be started
func TestPromoteProjectMissingSandboxTool(t *testing.T) {
	w := newWorkspace(t, true)
	w.env.provisionErr = &sandbox.OpError{
		Step: "create",
		Box:  "kali-template_acme",
		Err:  &sandbox.LaunchError{Command: "distrobox", Err: os.ErrNotExist},
	}
	if out := w.run(t, "create_project", "acme"); out.Failed() {
		t.Fatalf("create failed: %v", out.Err)
	}

	out := w.run(t, "promote_project", "acme")
	if out.Failed() {
		t.Fatalf("Expected a degraded promotion, got %v", out.Err)
	}
	if len(out.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", out.Warnings)
	}
	if !strings.Contains(out.Warnings[1], "installed and on PATH") {
		t.Errorf("Expected install hint, got %q", out.Warnings[1])
	}

	w.env.provisionErr = &sandbox.OpError{Step: "create", Box: "kali-template_bravo", Err: &sandbox.ExitError{Command: "distrobox", Code: 1}}
	if out := w.run(t, "create_project", "bravo"); out.Failed() {
		t.Fatalf("create failed: %v", out.Err)
	}
	if out := w.run(t, "promote_project", "bravo"); len(out.Warnings) != 1 {
		t.Errorf("Expected only the remediation warning, got %v", out.Warnings)
	}
}

// TestCommandContextParams tests that each command binds only the settings
// it reads
func TestCommandContextParams(t *testing.T) {
	w := newWorkspace(t, true)

	tests := []struct {
		command string
		tokens  []string
		bound   []string
		unbound []string
	}{
		{"create_project", []string{"acme"}, []string{ParamConfig, ParamUpcomingFiles, ParamUpcomingNotes}, []string{ParamTemplateBox, ParamProjects}},
		{"activate_project", []string{"acme"}, []string{ParamConfig}, []string{ParamProjects}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			_, inv := w.bind(t, tt.command, tt.tokens...)
			for _, name := range tt.bound {
				if !inv.Has(name) {
					t.Errorf("Expected %s to bind %s", tt.command, name)
				}
			}
			for _, name := range tt.unbound {
				if inv.Has(name) {
					t.Errorf("Expected %s not to bind %s", tt.command, name)
				}
			}
		})
	}
}

// TestActivateAfterPromote tests that activating after a promotion in the same
// console keeps the promoted record
func TestActivateAfterPromote(t *testing.T) {
	w := newWorkspace(t, false)
	for _, name := range []string{"alpha", "bravo"} {
		if out := w.run(t, "create_project", name); out.Failed() {
			t.Fatalf("create %s failed: %v", name, out.Err)
		}
	}

	// Both invocations are bound before either runs.
	promote, promoteInv := w.bind(t, "promote_project", "alpha")
	activate, activateInv := w.bind(t, "activate_project", "bravo")
	if out := promote.Execute(context.Background(), promoteInv); out.Failed() {
		t.Fatalf("promote failed: %v", out.Err)
	}
	if out := activate.Execute(context.Background(), activateInv); out.Failed() {
		t.Fatalf("activate failed: %v", out.Err)
	}

	for _, p := range w.snapshot(t).Projects {
		if p.Name == "alpha" && p.Stage != project.StageCurrent {
			t.Errorf("Expected alpha to stay current, got %s", p.Stage)
		}
		if p.Active != (p.Name == "bravo") {
			t.Errorf("Project %s active=%v", p.Name, p.Active)
		}
	}
}

// TestPromoteProjectBadSelection tests an out-of-range menu answer
func TestPromoteProjectBadSelection(t *testing.T) {
	w := newWorkspace(t, false)
	if out := w.run(t, "create_project", "alpha"); out.Failed() {
		t.Fatalf("create failed: %v", out.Err)
	}

	out, _ := w.converse(t, "promote_project", "7")
	var selErr *project.SelectionError
	if !errors.As(out.Err, &selErr) {
		t.Errorf("Expected SelectionError, got %v", out.Err)
	}
}

// TestRemoveProject tests removal through the registry
func TestRemoveProject(t *testing.T) {
	w := newWorkspace(t, true)
	if out := w.run(t, "create_project", "acme"); out.Failed() {
		t.Fatalf("create failed: %v", out.Err)
	}
	if out := w.run(t, "promote_project", "acme"); out.Failed() {
		t.Fatalf("promote failed: %v", out.Err)
	}

	if out := w.run(t, "remove_project", "acme"); out.Failed() {
		t.Fatalf("remove failed: %v", out.Err)
	}
	if len(w.env.destroyed) != 1 || w.env.destroyed[0] != "kali-template_acme" {
		t.Errorf("Expected sandbox destroyed, got %v", w.env.destroyed)
	}
	if len(w.snapshot(t).Projects) != 0 {
		t.Error("Expected no projects left")
	}

	if out := w.run(t, "remove_project", "acme"); !errors.Is(out.Err, project.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound on second remove, got %v", out.Err)
	}
}

// TestActivateProject tests single-active-project through the registry
func TestActivateProject(t *testing.T) {
	w := newWorkspace(t, false)
	for _, name := range []string{"alpha", "bravo", "charlie"} {
		if out := w.run(t, "create_project", name); out.Failed() {
			t.Fatalf("create %s failed: %v", name, out.Err)
		}
	}

	if out := w.run(t, "activate_project", "alpha"); out.Failed() {
		t.Fatalf("activate failed: %v", out.Err)
	}
	if out := w.run(t, "activate_project", "bravo"); out.Failed() {
		t.Fatalf("activate failed: %v", out.Err)
	}

	for _, p := range w.snapshot(t).Projects {
		if p.Active != (p.Name == "bravo") {
			t.Errorf("Project %s active=%v", p.Name, p.Active)
		}
	}

	list := w.run(t, "list_projects")
	for _, name := range []string{"alpha", "bravo", "charlie"} {
		if !strings.Contains(list.Text, name) {
			t.Errorf("Expected %s in list output", name)
		}
	}
}

// TestListProjectsEmpty tests the empty project list
func TestListProjectsEmpty(t *testing.T) {
	w := newWorkspace(t, false)
	out := w.run(t, "list_projects")
	if out.Failed() || !strings.Contains(out.Text, "no projects") {
		t.Errorf("Unexpected outcome %+v", out)
	}
}

// TestHelp tests command usage output
func TestHelp(t *testing.T) {
	w := newWorkspace(t, false)

	out := w.run(t, "help")
	for _, c := range w.registry.Commands() {
		if !strings.Contains(out.Text, c.Descriptor().Usage()) {
			t.Errorf("Expected usage for %s in help", c.Descriptor().Name)
		}
	}
	if !strings.Contains(out.Text, "exit") {
		t.Error("Expected exit in help")
	}

	out = w.run(t, "help", "activate_project")
	if !strings.HasPrefix(out.Text, "activate_project <name>") {
		t.Errorf("Unexpected help text %q", out.Text)
	}

	out = w.run(t, "help", "teleport")
	if !errors.Is(out.Err, ErrCommandNotFound) {
		t.Errorf("Expected ErrCommandNotFound, got %v", out.Err)
	}
}

// TestRegistry tests lookup and ordering of the command catalog
func TestRegistry(t *testing.T) {
	r := NewRegistry(nil)

	expected := []string{"activate_project", "create_project", "help", "list_projects", "promote_project", "remove_project"}
	commands := r.Commands()
	if len(commands) != len(expected) {
		t.Fatalf("Expected %d commands, got %d", len(expected), len(commands))
	}
	for i, c := range commands {
		if c.Descriptor().Name != expected[i] {
			t.Errorf("Expected command %d to be %s, got %s", i, expected[i], c.Descriptor().Name)
		}
	}

	if _, err := r.Lookup("exit"); !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("Expected exit to be outside the registry, got %v", err)
	}
}

// TestOutcomeRender tests operator formatting of outcomes
func TestOutcomeRender(t *testing.T) {
	out := Outcome{
		Text:     "project acme promoted to current",
		Warnings: []string{"could not remove old notes"},
		Err:      errors.New("boom"),
	}
	expected := "project acme promoted to current\nwarning: could not remove old notes\nerror: boom"
	if got := out.Render(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
