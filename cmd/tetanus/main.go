// Package main provides the entry point for the tetanus operator CLI.
//
// Running tetanus with no subcommand starts the interactive console over the
// settings file of the selected client. The exec and commands subcommands give
// scripted access to the same command catalog.
//
// INITIALIZATION FLOW:
// 1. Command structure setup
// 2. Global flag configuration with environment overrides (TETANUS_*)
// 3. Handler assignment linking commands to the console and the catalog
// 4. Flag validation before any handler runs
// 5. Command execution with a non-zero exit status on failure
package main

import (
	"os"

	"github.com/concave-dev/tetanus/cmd/tetanus/commands"
	"github.com/concave-dev/tetanus/cmd/tetanus/config"
	"github.com/concave-dev/tetanus/cmd/tetanus/handlers"
	internalconfig "github.com/concave-dev/tetanus/internal/config"
)

func init() {
	// Get root command from commands package
	rootCmd := commands.RootCmd

	// Set version and validation
	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	// Setup all command structures
	commands.SetupCommands()

	// Setup global flags
	commands.SetupGlobalFlags(rootCmd, &config.Global.ConfigPath, &config.Global.ServerAddr,
		&config.Global.Name, &config.Global.LogLevel, &config.Global.Timeout,
		&config.Global.Output, &config.Global.LogFile,
		internalconfig.DefaultServerAddr, internalconfig.DefaultClientName, internalconfig.DefaultStepTimeout)

	// Setup command handlers
	setupCommandHandlers()
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	commands.RootCmd.RunE = handlers.HandleConsole
	commands.GetExecCommand().RunE = handlers.HandleExec
	commands.GetCommandsCommand().RunE = handlers.HandleCommands
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
