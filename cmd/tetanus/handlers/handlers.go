// Package handlers provides command handler functions for the tetanus CLI.
//
// The package is organized as follows:
// - console.go: the interactive console started by the bare root command
// - exec.go: one-shot execution of a catalog command and the catalog listing
//
// All handlers follow the same pattern: set up logging from the global flags,
// resolve the settings file, build the command registry over a distrobox
// adapter, then hand off to the console or run a single command.
package handlers

import (
	"time"

	"github.com/concave-dev/tetanus/cmd/tetanus/config"
	"github.com/concave-dev/tetanus/internal/command"
	"github.com/concave-dev/tetanus/internal/project"
	"github.com/concave-dev/tetanus/internal/sandbox"
)

// newRegistry builds the command catalog over the real distrobox adapter.
func newRegistry() *command.Registry {
	env := sandbox.NewDistrobox()
	env.StepTimeout = time.Duration(config.Global.Timeout) * time.Second
	return command.NewRegistry(project.NewManager(env))
}
