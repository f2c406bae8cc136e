// Package commands provides the command tree for the tetanus CLI.
//
// Running tetanus without a subcommand starts the interactive console. The
// subcommands give scripted access to the same command catalog:
//   - exec: run one non-interactive catalog command and exit
//   - commands: list the catalog with usage lines
//
// All commands share the global flags defined here.
package commands

import (
	"github.com/spf13/cobra"

	internalconfig "github.com/concave-dev/tetanus/internal/config"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "tetanus",
	Short: "Operator console for managing engagement projects and their sandboxes",
	Long: `tetanus keeps one record per engagement project, moves projects from the
upcoming tree to the current tree, and provisions a distrobox sandbox for every
current project.

Without a subcommand tetanus starts an interactive console. Type "help" inside
the console for the command list and "exit" to leave.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	Example: `  # Start the console with the default client settings
  tetanus

  # Use the settings of another client
  tetanus --name red_team

  # Use an explicit settings file
  tetanus --config ./config.conf

  # Run one command without the console
  tetanus exec list_projects
  tetanus exec promote_project webapp-acme

  # Keep diagnostics out of the terminal
  tetanus --log-level DEBUG --log-file /tmp/tetanus.log`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(execCmd)
	RootCmd.AddCommand(commandsCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, configPtr, serverPtr, namePtr, logLevelPtr *string,
	timeoutPtr *int, outputPtr, logFilePtr *string, defaultServerAddr, defaultName string, defaultTimeout int) {
	rootCmd.PersistentFlags().StringVarP(configPtr, "config", "c", "",
		"Settings file (default $HOME/.config/tetanus/clients/<name>/config.conf)")
	rootCmd.PersistentFlags().StringVarP(serverPtr, "server", "s", defaultServerAddr,
		"Server address")
	rootCmd.PersistentFlags().StringVarP(namePtr, "name", "n", defaultName,
		"Client name selecting the settings directory")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", internalconfig.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", defaultTimeout,
		"Timeout in seconds for each sandbox step, 0 for none")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
	rootCmd.PersistentFlags().StringVar(logFilePtr, "log-file", "",
		"Write diagnostics to this file instead of the terminal")
}
