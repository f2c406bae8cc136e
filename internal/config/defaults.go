// Package config provides default configuration values shared across tetanus
// components (CLI flags, settings loader, sandbox adapter).
package config

import "time"

const (
	// DefaultServerAddr is the server address used when neither the flag nor the
	// settings file provides one
	DefaultServerAddr = "127.0.0.1:31337"

	// DefaultLogLevel keeps the console quiet; only errors reach the terminal
	DefaultLogLevel = "ERROR"

	// ClientsRelDir holds one settings directory per client name, relative to $HOME
	ClientsRelDir = ".config/tetanus/clients"

	// DefaultClientName is the client whose settings are used without --name
	DefaultClientName = "main_attacker"

	// SettingsFileName is the settings file inside a client directory
	SettingsFileName = "config.conf"

	// ProjectsDirName is the directory next to the settings file holding one
	// record per project
	ProjectsDirName = "projects"

	// NoteTemplatesDirName is the directory next to the settings file holding
	// one sub-directory of markdown templates per project category
	NoteTemplatesDirName = "note_templates"

	// DefaultSandboxBinary is the sandbox tool invoked for container operations
	DefaultSandboxBinary = "distrobox"

	// FilesMountPoint is where a project's files tree is mounted in its sandbox
	FilesMountPoint = "/pentest"

	// ToolsMountPoint is where the shared tools tree is mounted in every sandbox
	ToolsMountPoint = "/tools"

	// DefaultDialogTimeout bounds each receive of the session protocol before the
	// console re-sends an ack request or re-checks for cancellation
	DefaultDialogTimeout = 500 * time.Millisecond

	// DefaultHandshakeTimeout bounds how long a command waits for the console to
	// open a dialog before giving up
	DefaultHandshakeTimeout = 10 * time.Second

	// DefaultStepTimeout bounds each sandbox subprocess, in seconds. Cloning a
	// template can take minutes on a cold cache.
	DefaultStepTimeout = 600
)
