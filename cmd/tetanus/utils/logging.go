// Package utils provides utility functions for the tetanus CLI.
// This file contains logging setup.
package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/concave-dev/tetanus/cmd/tetanus/config"
	"github.com/concave-dev/tetanus/internal/logging"
)

// SetupLogging configures CLI logging behavior based on environment and config.
// Enables debug output when DEBUG=true, otherwise suppresses verbose logs so the
// operator dialog stays readable. With --log-file every level at or above
// --log-level goes to that file instead of the terminal.
//
// The returned closer releases the log file and is safe to call when none was
// opened.
func SetupLogging() (io.Closer, error) {
	if os.Getenv("DEBUG") == "true" {
		// Show debug output - restore normal logging and enable DEBUG level
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
	} else if config.Global.LogFile == "" {
		logging.SetLevel(config.Global.LogLevel)
		// Suppress debug/info logs by default (only show errors)
		logging.SuppressOutput()
	} else {
		logging.SetLevel(config.Global.LogLevel)
	}

	if config.Global.LogFile == "" {
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nopCloser{}, fmt.Errorf("cannot open log file: %w", err)
	}
	logging.SetOutput(f)
	logging.RedirectStandardLog(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
