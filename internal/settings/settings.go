// Package settings loads the flat key-value settings file that every dispatch
// cycle reads before binding a command.
//
// The file holds one setting per line as "key|value". Older files written by the
// setup wizard use "key:value"; both forms are accepted, splitting on the first
// separator so that values such as "127.0.0.1:31337" survive intact. Blank lines
// and lines starting with '#' are ignored.
//
// The settings file location also anchors two directories that sit next to it:
// "projects" (one record per project) and "note_templates" (one directory of
// markdown templates per project category).
package settings

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/concave-dev/tetanus/internal/config"
	"github.com/concave-dev/tetanus/internal/validate"
)

// Recognized setting keys.
const (
	KeyServerAddress = "server_address"
	KeyKeyFile       = "key_file"
	KeyDistrobox     = "distrobox"
	KeyTemplateBox   = "templatebox"
	KeyCurrentFiles  = "current_files"
	KeyCurrentNotes  = "current_notes"
	KeyUpcomingFiles = "upcoming_files"
	KeyUpcomingNotes = "upcoming_notes"
	KeyTools         = "tools"
	KeyTerminal      = "terminal"
)

var knownKeys = map[string]bool{
	KeyServerAddress: true,
	KeyKeyFile:       true,
	KeyDistrobox:     true,
	KeyTemplateBox:   true,
	KeyCurrentFiles:  true,
	KeyCurrentNotes:  true,
	KeyUpcomingFiles: true,
	KeyUpcomingNotes: true,
	KeyTools:         true,
	KeyTerminal:      true,
}

// Settings is one snapshot of the settings file. It is never mutated after Load;
// the console reloads a fresh snapshot for every command line it binds.
type Settings struct {
	Path string `validate:"required"`

	ServerAddress  string `validate:"omitempty,hostname_port"`
	KeyFile        string
	SandboxEnabled bool
	TemplateBox    string
	CurrentFiles   string `validate:"required"`
	CurrentNotes   string `validate:"required"`
	UpcomingFiles  string `validate:"required"`
	UpcomingNotes  string `validate:"required"`
	Tools          string
	Terminal       string

	// Raw keeps every parsed pair, including keys the client does not know.
	Raw map[string]string
}

// Load reads and parses the settings file at path. A read failure is returned
// as-is; the caller treats it as process-fatal.
func Load(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	defer f.Close()

	raw, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	return FromMap(path, raw), nil
}

// Parse reads "key|value" (or "key:value") lines into a map. Later duplicates
// win, matching how the file is edited by hand.
func Parse(r io.Reader) (map[string]string, error) {
	raw := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := splitLine(line)
		if !ok {
			continue
		}
		raw[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}

// splitLine splits on the first '|' or, when the line has none, the first ':'.
func splitLine(line string) (string, string, bool) {
	sep := "|"
	if !strings.Contains(line, sep) {
		sep = ":"
	}
	key, value, ok := strings.Cut(line, sep)
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// FromMap builds Settings from parsed pairs.
func FromMap(path string, raw map[string]string) *Settings {
	return &Settings{
		Path:           path,
		ServerAddress:  raw[KeyServerAddress],
		KeyFile:        raw[KeyKeyFile],
		SandboxEnabled: parseEnabled(raw[KeyDistrobox]),
		TemplateBox:    raw[KeyTemplateBox],
		CurrentFiles:   raw[KeyCurrentFiles],
		CurrentNotes:   raw[KeyCurrentNotes],
		UpcomingFiles:  raw[KeyUpcomingFiles],
		UpcomingNotes:  raw[KeyUpcomingNotes],
		Tools:          raw[KeyTools],
		Terminal:       raw[KeyTerminal],
		Raw:            raw,
	}
}

func parseEnabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1", "on":
		return true
	}
	return false
}

// Validate checks the snapshot with the shared validator and reports keys the
// client does not recognize.
func (s *Settings) Validate() error {
	if err := validate.ValidateStruct(s); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", s.Path, err)
	}
	if s.SandboxEnabled {
		if err := validate.ValidateRequiredString(s.TemplateBox, KeyTemplateBox); err != nil {
			return fmt.Errorf("invalid settings in %s: %w when %s is enabled", s.Path, err, KeyDistrobox)
		}
	}
	return nil
}

// UnknownKeys returns the sorted keys that are not part of the settings vocabulary.
func (s *Settings) UnknownKeys() []string {
	var unknown []string
	for k := range s.Raw {
		if !knownKeys[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// ProjectsDir returns the directory holding one record per project.
func (s *Settings) ProjectsDir() string {
	return ProjectsDirOf(s.Path)
}

// ProjectsDirOf returns the projects directory next to the settings file at path.
func ProjectsDirOf(path string) string {
	return filepath.Join(filepath.Dir(path), config.ProjectsDirName)
}

// NoteTemplatesDirOf returns the note templates directory next to the settings
// file at path.
func NoteTemplatesDirOf(path string) string {
	return filepath.Join(filepath.Dir(path), config.NoteTemplatesDirName)
}
