// Package logging provides ID formatting utilities for consistent display of
// session identifiers across log lines.
//
// Debug logs carry the full identifier for traceability; every other level shows
// a short prefix so that dialog-heavy logs stay readable.
package logging

import "github.com/charmbracelet/log"

// shortIDLength is the number of characters kept when an ID is truncated.
const shortIDLength = 8

// FormatID formats an ID for logging based on the current log level. Returns the
// full ID when DEBUG is enabled and a truncated one otherwise.
func FormatID(id string) string {
	_, errOut := loggers()
	if errOut.GetLevel() <= log.DebugLevel {
		return id
	}
	return TruncateID(id)
}

// TruncateID shortens an ID to its display prefix. IDs shorter than the prefix
// are returned unchanged.
func TruncateID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// FormatSessionID formats an interactive session ID for logging.
func FormatSessionID(id string) string {
	return FormatID(id)
}
