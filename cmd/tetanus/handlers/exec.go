package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/concave-dev/tetanus/cmd/tetanus/config"
	"github.com/concave-dev/tetanus/cmd/tetanus/display"
	"github.com/concave-dev/tetanus/cmd/tetanus/utils"
	"github.com/concave-dev/tetanus/internal/command"
	"github.com/concave-dev/tetanus/internal/logging"
)

// errNeedsDialog rejects invocations that can only complete through the console.
var errNeedsDialog = errors.New("command needs the interactive console, pass every optional argument or run it from the console")

// HandleExec runs one catalog command with the remaining arguments and prints
// its outcome. A failed outcome makes the process exit non-zero.
func HandleExec(cmd *cobra.Command, args []string) error {
	closer, err := utils.SetupLogging()
	if err != nil {
		return err
	}
	defer closer.Close()

	path, err := config.SettingsPath()
	if err != nil {
		return err
	}
	snap, err := command.LoadSnapshot(path)
	if err != nil {
		return err
	}

	registry := newRegistry()
	target, err := registry.Lookup(args[0])
	if err != nil {
		return err
	}
	inv, err := command.Bind(target.Descriptor(), snap, args[1:])
	if err != nil {
		return err
	}
	if inv.Interactive() {
		return fmt.Errorf("%s: %w", target.Descriptor().Name, errNeedsDialog)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Running %s", target.Descriptor().Name)
	out := target.Execute(ctx, inv)
	display.DisplayOutcome(cmd.OutOrStdout(), out)
	if out.Failed() {
		return out.Err
	}
	return nil
}

// HandleCommands prints the command catalog.
func HandleCommands(cmd *cobra.Command, args []string) error {
	closer, err := utils.SetupLogging()
	if err != nil {
		return err
	}
	defer closer.Close()

	display.DisplayCatalog(cmd.OutOrStdout(), newRegistry().Commands())
	return nil
}
