package commands

import (
	"github.com/spf13/cobra"
)

// Exec command
var execCmd = &cobra.Command{
	Use:   "exec <command> [arguments...]",
	Short: "Run one console command and exit",
	Long: `Run one command from the console catalog with the given arguments and exit.

Context parameters are resolved from the settings file and the project records
exactly as in the console. Commands that need a dialog, such as create_project
without a name or promote_project without a project, are rejected; pass the
missing values as arguments or use the console.

The exit status is non-zero when the command fails.`,
	Args: cobra.MinimumNArgs(1),
	Example: `  # List projects
  tetanus exec list_projects

  # Create and promote a project
  tetanus exec create_project webapp-acme
  tetanus exec promote_project webapp-acme

  # Remove a project by name
  tetanus exec remove_project name=webapp-acme`,
}

// Commands command
var commandsCmd = &cobra.Command{
	Use:     "commands",
	Aliases: []string{"ls"},
	Short:   "List the console command catalog",
	Long: `List every console command with its usage line and parameter lists.

Use --output json for a machine-readable catalog.`,
	Args: cobra.NoArgs,
	Example: `  # Show the catalog
  tetanus commands

  # Catalog as JSON
  tetanus commands -o json`,
}

// GetExecCommand returns the exec command for handler assignment
func GetExecCommand() *cobra.Command {
	return execCmd
}

// GetCommandsCommand returns the commands command for handler assignment
func GetCommandsCommand() *cobra.Command {
	return commandsCmd
}
