// Package config provides configuration management for the tetanus CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/concave-dev/tetanus/internal/logging"
	"github.com/concave-dev/tetanus/internal/validate"
)

// ValidateGlobalFlags applies environment overrides and validates all global
// flags before running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := BindEnv(cmd); err != nil {
		return err
	}

	if err := ValidateLogLevel(); err != nil {
		return err
	}

	if err := ValidateServerAddress(); err != nil {
		return err
	}

	if err := ValidateClientName(); err != nil {
		return err
	}

	if err := ValidateTimeout(); err != nil {
		return err
	}

	if err := ValidateOutputFormat(); err != nil {
		return err
	}

	return nil
}

// ValidateLogLevel validates the --log-level flag
func ValidateLogLevel() error {
	Global.LogLevel = strings.ToUpper(Global.LogLevel)
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return fmt.Errorf("%w - valid levels: DEBUG, INFO, WARN, ERROR", err)
	}
	return nil
}

// ValidateServerAddress validates the --server flag
func ValidateServerAddress() error {
	netAddr, err := validate.ParseServerAddress(Global.ServerAddr)
	if err != nil {
		logging.Error("Invalid server address '%s': %v", Global.ServerAddr, err)
		return fmt.Errorf("invalid server address - expected format: ip:port (e.g., 127.0.0.1:31337)")
	}

	// Reject unroutable 0.0.0.0 target for client connections
	if netAddr.Host == "0.0.0.0" {
		logging.Error("Unroutable server address '0.0.0.0:%d' - cannot connect to 0.0.0.0", netAddr.Port)
		return fmt.Errorf("unroutable server address - use 127.0.0.1 or a specific IP address")
	}

	return nil
}

// ValidateClientName validates the --name flag, which becomes a directory name
func ValidateClientName() error {
	if Global.Name == "" {
		return nil
	}
	if err := validate.ProjectNameFormat(Global.Name); err != nil {
		return fmt.Errorf("invalid client name: %w", err)
	}
	return nil
}

// ValidateTimeout validates the --timeout flag
func ValidateTimeout() error {
	if Global.Timeout == 0 {
		return nil
	}
	if err := validate.ValidatePositiveTimeout(time.Duration(Global.Timeout)*time.Second, "timeout"); err != nil {
		return fmt.Errorf("%w - use 0 for no limit", err)
	}
	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
	}
	if !validOutputs[Global.Output] {
		logging.Error("Invalid output format '%s' - valid formats are: table, json", Global.Output)
		return fmt.Errorf("invalid output format - valid: table, json")
	}
	return nil
}
