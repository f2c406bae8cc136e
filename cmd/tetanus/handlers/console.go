package handlers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/concave-dev/tetanus/cmd/tetanus/config"
	"github.com/concave-dev/tetanus/cmd/tetanus/utils"
	"github.com/concave-dev/tetanus/internal/console"
	"github.com/concave-dev/tetanus/internal/logging"
)

// HandleConsole starts the interactive console on the terminal. It returns
// when the operator types exit, input ends or the process is interrupted.
func HandleConsole(cmd *cobra.Command, args []string) error {
	closer, err := utils.SetupLogging()
	if err != nil {
		return err
	}
	defer closer.Close()

	path, err := config.SettingsPath()
	if err != nil {
		return err
	}
	logging.Info("Starting console with settings %s", path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := console.New(console.Options{
		SettingsPath: path,
		Registry:     newRegistry(),
		In:           cmd.InOrStdin(),
		Out:          cmd.OutOrStdout(),
	})
	if err := c.Run(ctx); err != nil {
		logging.Error("Console stopped: %v", err)
		return err
	}
	return nil
}
