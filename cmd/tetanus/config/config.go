// Package config provides configuration management for the tetanus CLI.
//
// Flags fill Global; environment variables prefixed with TETANUS_ override any
// flag the operator did not set explicitly (TETANUS_CONFIG, TETANUS_SERVER,
// TETANUS_NAME, TETANUS_LOG_LEVEL, TETANUS_TIMEOUT, TETANUS_OUTPUT).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	internalconfig "github.com/concave-dev/tetanus/internal/config"
	"github.com/concave-dev/tetanus/internal/version"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "TETANUS"

// Version returns the current tetanus version from the centralized version package
var Version = version.TetanusVersion

// Global holds the global CLI configuration
var Global struct {
	ConfigPath string // Settings file; derived from Name when empty
	ServerAddr string // Address of the tetanus server (transport not wired yet)
	Name       string // Client name selecting the settings directory
	LogLevel   string // Log level for CLI operations
	Timeout    int    // Per-step sandbox timeout in seconds, 0 disables
	Output     string // Output format for listings: table, json
	LogFile    string // Diagnostics destination while the console owns the terminal
}

// BindEnv overlays TETANUS_* environment variables onto every flag of cmd that
// was not set on the command line.
func BindEnv(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var errs []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, v.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Sprintf("%s_%s: %v", EnvPrefix, strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid environment override: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SettingsPath returns the settings file to use: --config when given, otherwise
// the file of the client named by --name under $HOME.
func SettingsPath() (string, error) {
	if Global.ConfigPath != "" {
		return Global.ConfigPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	name := Global.Name
	if name == "" {
		name = internalconfig.DefaultClientName
	}
	return filepath.Join(home, internalconfig.ClientsRelDir, name, internalconfig.SettingsFileName), nil
}
