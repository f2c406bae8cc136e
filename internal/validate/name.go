// Package validate provides input validation utilities for tetanus, keeping
// malformed operator input away from the filesystem and the sandbox tool.
//
// VALIDATION COVERAGE:
//   - Project Names: Format validation for project identifiers
//   - Network Addresses: host:port validation for the server address setting
//   - Configuration: Required settings and positive timeouts
//
// Project names end up as record file names, directory names and sandbox names,
// so they are held to the strictest of those three rule sets.
package validate

import (
	"fmt"
	"regexp"
)

// maxProjectNameLength keeps "<template>_<name>" well inside container name limits.
const maxProjectNameLength = 64

var projectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ProjectNameFormat validates a project name. Names must start with a letter or
// digit and may contain letters, digits, dots, hyphens and underscores.
//
// The name is used verbatim as "<name>.conf", as a directory under the files and
// notes roots, and as the suffix of the sandbox name.
func ProjectNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	if err := ValidateField(name, fmt.Sprintf("max=%d", maxProjectNameLength)); err != nil {
		return fmt.Errorf("project name '%s' must be at most %d characters", name, maxProjectNameLength)
	}

	if !projectNameRegex.MatchString(name) {
		return fmt.Errorf("project name '%s' must start with a letter or number and contain only letters, numbers, dots (.), hyphens (-), and underscores (_)", name)
	}

	return nil
}
