package project

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/concave-dev/tetanus/internal/logging"
)

// Record keys.
const (
	keyName    = "name"
	keyStage   = "stage"
	keyFiles   = "files"
	keyNotes   = "notes"
	keyBoxName = "boxname"
	keyConfig  = "config"
	keyActive  = "active"
)

// recordExt is the file extension of project records.
const recordExt = ".conf"

// RecordPath returns the record location of a project named name.
func RecordPath(projectsDir, name string) string {
	return filepath.Join(projectsDir, name+recordExt)
}

// Encode writes p as "key|value" lines.
func Encode(w io.Writer, p Project) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s\n", keyName, p.Name)
	fmt.Fprintf(&b, "%s|%s\n", keyStage, p.Stage)
	fmt.Fprintf(&b, "%s|%s\n", keyFiles, p.Files)
	fmt.Fprintf(&b, "%s|%s\n", keyNotes, p.Notes)
	if p.BoxName != "" {
		fmt.Fprintf(&b, "%s|%s\n", keyBoxName, p.BoxName)
	}
	fmt.Fprintf(&b, "%s|%s\n", keyConfig, p.Config)
	fmt.Fprintf(&b, "%s|%t\n", keyActive, p.Active)
	_, err := io.WriteString(w, b.String())
	return err
}

// Decode reads a record. Unknown keys and malformed lines do not abort decoding;
// they are returned as warnings.
func Decode(r io.Reader) (Project, []string, error) {
	var p Project
	var warnings []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "|")
		if !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: missing '|' separator", lineNo))
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case keyName:
			p.Name = value
		case keyStage:
			p.Stage = ParseStage(value)
		case keyFiles:
			p.Files = value
		case keyNotes:
			p.Notes = value
		case keyBoxName:
			// Records written before promotion used "none" as a placeholder.
			if value != "none" {
				p.BoxName = value
			}
		case keyConfig:
			p.Config = value
		case keyActive:
			active, err := strconv.ParseBool(value)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid active flag %q", lineNo, value))
				continue
			}
			p.Active = active
		default:
			warnings = append(warnings, fmt.Sprintf("line %d: unknown setting %q", lineNo, key))
		}
	}
	if err := scanner.Err(); err != nil {
		return Project{}, warnings, err
	}
	return p, warnings, nil
}

// Save overwrites the record at p.Config.
func Save(p Project) error {
	if p.Config == "" {
		return fmt.Errorf("project %s has no record path", p.Name)
	}
	f, err := os.Create(p.Config)
	if err != nil {
		return err
	}
	if err := Encode(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads one record. The returned project's Config is always the path it
// was read from.
func LoadFile(path string) (Project, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return Project{}, nil, err
	}
	defer f.Close()

	p, warnings, err := Decode(f)
	if err != nil {
		return Project{}, warnings, err
	}
	p.Config = path
	return p, warnings, nil
}

// LoadAll reads every record in projectsDir, sorted by name. Failing to read the
// directory is returned as an error; problems with single records are logged and
// the record is skipped.
func LoadAll(projectsDir string) ([]Project, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var projects []Project
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != recordExt {
			continue
		}

		path := filepath.Join(projectsDir, entry.Name())
		p, warnings, err := LoadFile(path)
		for _, w := range warnings {
			logging.Warn("Project record %s: %s", entry.Name(), w)
		}
		if err != nil {
			logging.Error("Failed to read project record %s: %v", entry.Name(), err)
			continue
		}
		if p.Name == "" {
			logging.Warn("Skipping project record %s without a name", entry.Name())
			continue
		}
		logging.Debug("Loaded project record %s", entry.Name())
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})
	return projects, nil
}
