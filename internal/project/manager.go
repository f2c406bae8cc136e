package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/concave-dev/tetanus/internal/logging"
	"github.com/concave-dev/tetanus/internal/sandbox"
	"github.com/concave-dev/tetanus/internal/validate"
)

// CreateRequest carries everything Create needs besides the name.
type CreateRequest struct {
	Name         string
	ProjectsDir  string // where "<name>.conf" is written
	FilesRoot    string // upcoming files root
	NotesRoot    string // upcoming notes root
	TemplatesDir string // note template root, one directory per category
}

// PromoteRequest carries the current roots and the sandbox parameters.
type PromoteRequest struct {
	FilesRoot      string // current files root
	NotesRoot      string // current notes root
	Template       string // template sandbox to clone
	ToolsDir       string // shared tools tree mounted into the sandbox
	SandboxEnabled bool
}

// PromoteResult is the outcome of a promotion that migrated the project data.
// Warnings and SandboxErr describe a degraded success: the project is current,
// but some cleanup or the sandbox needs manual attention.
type PromoteResult struct {
	Project    Project
	Files      int   // regular files moved
	Bytes      int64 // bytes moved
	Warnings   []string
	SandboxErr error
}

// Degraded reports whether the promotion needs manual follow-up.
func (r PromoteResult) Degraded() bool {
	return len(r.Warnings) > 0 || r.SandboxErr != nil
}

// Manager owns every project mutation. All operations hold the same mutex, so a
// promote can never interleave with a remove or an activate.
type Manager struct {
	mu  sync.Mutex
	env sandbox.Environment
}

// NewManager returns a Manager driving env for sandbox operations.
func NewManager(env sandbox.Environment) *Manager {
	return &Manager{env: env}
}

// Create creates an upcoming project. The record is written exclusively before
// anything else, so a second create with the same name fails with
// ErrProjectExists and leaves the existing project untouched. Later steps abort
// on the first failure without rolling back; the record stays behind so the
// partial project shows up in the listing and can be removed.
func (m *Manager) Create(req CreateRequest) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Name == "" {
		return Project{}, ErrEmptyName
	}
	if err := validate.ProjectNameFormat(req.Name); err != nil {
		return Project{}, &StepError{Op: "create", Step: "validate name", Err: err}
	}

	p := Project{
		Name:   req.Name,
		Files:  filepath.Join(req.FilesRoot, req.Name),
		Notes:  filepath.Join(req.NotesRoot, req.Name),
		Stage:  StageUpcoming,
		Config: RecordPath(req.ProjectsDir, req.Name),
	}

	if err := createRecord(p); err != nil {
		if errors.Is(err, os.ErrExist) {
			return Project{}, fmt.Errorf("%w: %s", ErrProjectExists, req.Name)
		}
		return Project{}, &StepError{Op: "create", Step: "create record", Path: p.Config, Err: err}
	}

	retry := fmt.Sprintf("run remove_project %s before creating it again", p.Name)
	if err := os.MkdirAll(p.Files, 0o755); err != nil {
		return Project{}, &StepError{Op: "create", Step: "create files directory", Path: p.Files, Err: err, Hint: retry}
	}
	if err := os.MkdirAll(p.Notes, 0o755); err != nil {
		return Project{}, &StepError{Op: "create", Step: "create notes directory", Path: p.Notes, Err: err, Hint: retry}
	}

	category := Category(req.Name)
	copied, err := copyNoteTemplates(req.TemplatesDir, category, p.Notes)
	if err != nil {
		return Project{}, &StepError{Op: "create", Step: "copy note templates", Path: filepath.Join(req.TemplatesDir, category), Err: err, Hint: retry}
	}
	if category != "" {
		logging.Info("Copied %d %s note templates into %s", copied, category, p.Notes)
	}

	logging.Success("Project %s created", p.Name)
	return p, nil
}

// createRecord writes the record of p, failing with os.ErrExist if one is
// already there. A record that cannot be written completely is removed.
func createRecord(p Project) error {
	f, err := os.OpenFile(p.Config, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, p); err != nil {
		f.Close()
		os.Remove(p.Config)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(p.Config)
		return err
	}
	return nil
}

// reload re-reads the record of p so a mutation never works from a stale
// listing. It refuses when the stage no longer matches what the caller saw.
func reload(op string, p Project) (Project, error) {
	fresh, _, err := LoadFile(p.Config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, p.Name)
		}
		return Project{}, &StepError{Op: op, Step: "read record", Path: p.Config, Err: err}
	}
	if fresh.Name != p.Name {
		return Project{}, fmt.Errorf("%w: record %s now holds %q", ErrProjectChanged, p.Config, fresh.Name)
	}
	if fresh.Stage != p.Stage {
		if op == "promote" && fresh.Stage == StageCurrent {
			return Project{}, fmt.Errorf("%w: %s", ErrAlreadyCurrent, p.Name)
		}
		return Project{}, fmt.Errorf("%w: %s is now %s", ErrProjectChanged, p.Name, fresh.Stage)
	}
	return fresh, nil
}

// Promote moves an upcoming project to current. The data migration is the
// transaction: once the record says current, a failed sandbox provisioning is
// reported in PromoteResult.SandboxErr rather than as an error.
func (m *Manager) Promote(ctx context.Context, p Project, req PromoteRequest) (PromoteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Stage == StageCurrent {
		return PromoteResult{}, fmt.Errorf("%w: %s", ErrAlreadyCurrent, p.Name)
	}
	p, err := reload("promote", p)
	if err != nil {
		return PromoteResult{}, err
	}

	newFiles := filepath.Join(req.FilesRoot, p.Name)
	newNotes := filepath.Join(req.NotesRoot, p.Name)

	if err := os.MkdirAll(newFiles, 0o755); err != nil {
		return PromoteResult{}, &StepError{Op: "promote", Step: "create files directory", Path: newFiles, Err: err}
	}
	if err := os.MkdirAll(newNotes, 0o755); err != nil {
		return PromoteResult{}, &StepError{Op: "promote", Step: "create notes directory", Path: newNotes, Err: err}
	}

	var result PromoteResult
	moves := []struct {
		what     string
		from, to string
	}{
		{"files", p.Files, newFiles},
		{"notes", p.Notes, newNotes},
	}
	for _, mv := range moves {
		if filepath.Clean(mv.from) == filepath.Clean(mv.to) {
			continue
		}
		stats, err := copyTree(mv.from, mv.to)
		if err != nil {
			return PromoteResult{}, &StepError{Op: "promote", Step: "copy " + mv.what, Path: mv.from, Err: err}
		}
		result.Files += stats.Files
		result.Bytes += stats.Bytes
	}
	for _, mv := range moves {
		if filepath.Clean(mv.from) == filepath.Clean(mv.to) {
			continue
		}
		if err := os.RemoveAll(mv.from); err != nil {
			warning := fmt.Sprintf("could not remove upcoming %s directory %s, manual cleanup required: %v", mv.what, mv.from, err)
			logging.Warn("%s", warning)
			result.Warnings = append(result.Warnings, warning)
		}
	}

	p.Stage = StageCurrent
	p.Files = newFiles
	p.Notes = newNotes
	if req.SandboxEnabled {
		p.BoxName = BoxNameFor(req.Template, p.Name)
	}
	if err := Save(p); err != nil {
		return PromoteResult{}, &StepError{Op: "promote", Step: "save record", Path: p.Config, Err: err}
	}
	result.Project = p
	logging.Success("Project %s promoted to current", p.Name)

	if req.SandboxEnabled {
		err := m.env.Provision(ctx, sandbox.Spec{
			Template: req.Template,
			Name:     p.BoxName,
			FilesDir: p.Files,
			ToolsDir: req.ToolsDir,
		})
		if err != nil {
			logging.Error("Sandbox provisioning failed for %s: %v", p.Name, err)
			result.SandboxErr = err
		}
	}

	if result.Degraded() {
		logging.Warn("Project %s was promoted but needs manual follow-up", p.Name)
	}
	return result, nil
}

// Remove deletes a project: files tree, notes tree, record, then sandbox. Each
// step aborts the remaining ones on failure, so a files tree that is already
// gone leaves the notes, the record and the sandbox in place.
func (m *Manager) Remove(ctx context.Context, p Project, sandboxEnabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := reload("remove", p)
	if err != nil {
		return err
	}

	if err := removeTree(p.Files); err != nil {
		return &StepError{Op: "remove", Step: "delete files directory", Path: p.Files, Err: err}
	}
	if err := removeTree(p.Notes); err != nil {
		return &StepError{Op: "remove", Step: "delete notes directory", Path: p.Notes, Err: err}
	}
	if err := os.Remove(p.Config); err != nil {
		return &StepError{Op: "remove", Step: "delete record", Path: p.Config, Err: err}
	}
	if sandboxEnabled && p.BoxName != "" {
		if err := m.env.Destroy(ctx, p.BoxName); err != nil {
			return &StepError{Op: "remove", Step: "delete sandbox", Path: p.BoxName, Err: err}
		}
	}

	logging.Success("Project %s removed", p.Name)
	return nil
}

// Activate marks the project called name as the only active project. The
// records are reloaded from projectsDir under the lock, so an activation never
// writes back a listing taken before a concurrent promote. Returns the updated
// set.
func (m *Manager) Activate(projectsDir, name string) ([]Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	projects, err := LoadAll(projectsDir)
	if err != nil {
		return nil, &StepError{Op: "activate", Step: "read records", Path: projectsDir, Err: err}
	}
	if _, err := FindByName(projects, name); err != nil {
		return nil, err
	}

	for i := range projects {
		projects[i].Active = projects[i].Name == name
		if err := Save(projects[i]); err != nil {
			return nil, &StepError{Op: "activate", Step: "save record", Path: projects[i].Config, Err: err}
		}
	}

	logging.Info("Project %s is now active", name)
	return projects, nil
}

// Select resolves a numbered menu choice (1-based, as shown to the operator).
func Select(projects []Project, choice string) (Project, error) {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(projects) {
		return Project{}, &SelectionError{Choice: choice, Count: len(projects)}
	}
	return projects[n-1], nil
}
