// Package logging provides centralized log level validation for tetanus.
//
// The canonical set of valid log levels is shared by the --log-level flag, the
// TETANUS_LOG_LEVEL environment override and SetLevel.
//
// SUPPORTED LOG LEVELS:
//   - DEBUG: Protocol traffic, binding diagnostics and subprocess output
//   - INFO:  General operational information about dispatch and projects
//   - WARN:  Degraded results such as failed cleanup during promotion
//   - ERROR: Failed operations
//
// All log level strings are case-sensitive and must be uppercase.
package logging

import "fmt"

// ValidLogLevels defines the canonical set of supported log levels.
var ValidLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// IsValidLogLevel checks if the provided log level string is supported.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[level]
}

// ValidateLogLevel validates a log level string and returns an error if invalid.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}
