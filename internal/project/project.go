// Package project implements the project entity and its lifecycle: create,
// promote, remove and activate.
//
// A project is a named unit of work with a files tree, a notes tree and, once it
// becomes current, a sandbox environment cloned from a template. Each project is
// persisted as one "<name>.conf" record of "key|value" lines. The project set is
// never cached: callers reload it with LoadAll whenever they need a fresh view.
//
// LIFECYCLE:
//   - Create:   new record, files and notes directories under the upcoming roots,
//     note templates chosen by the name's category
//   - Promote:  upcoming → current, trees relocated, sandbox provisioned
//   - Remove:   files, notes, record and sandbox deleted, stopping at the first failure
//   - Activate: exactly one project carries the active flag
//
// Every mutating operation goes through a Manager, which serializes them behind a
// single mutex.
package project

import (
	"fmt"
	"strings"
)

// Stage is the position of a project in its lifecycle.
type Stage int

const (
	StageUpcoming Stage = iota
	StageCurrent
)

// String returns the record spelling of the stage.
func (s Stage) String() string {
	if s == StageCurrent {
		return "current"
	}
	return "upcoming"
}

// ParseStage reads a record stage value. Anything mentioning "current" is
// current; everything else is upcoming.
func ParseStage(v string) Stage {
	if strings.Contains(v, "current") {
		return StageCurrent
	}
	return StageUpcoming
}

// Project is one engagement.
type Project struct {
	Name    string
	Files   string
	Notes   string
	Stage   Stage
	BoxName string // empty until the project is promoted with a sandbox
	Active  bool
	Config  string // path of the persisted record
}

// BoxNameFor derives the sandbox name of a project cloned from template.
func BoxNameFor(template, name string) string {
	return fmt.Sprintf("%s_%s", template, name)
}

// categories are matched against project names in order; the first hit wins.
var categories = []string{"external", "internal", "vishing", "phishing", "webapp"}

// Category infers the note template category from a project name. Returns the
// empty string when no keyword matches.
func Category(name string) string {
	for _, c := range categories {
		if strings.Contains(name, c) {
			return c
		}
	}
	return ""
}

// FindByName returns the project called name.
func FindByName(projects []Project, name string) (Project, error) {
	for _, p := range projects {
		if p.Name == name {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
}
