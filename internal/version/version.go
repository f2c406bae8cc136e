// Package version provides centralized version information for tetanus.
// All versions follow semantic versioning (semver) conventions.
package version

// TetanusVersion holds the current client version.
// Format: major.minor.patch[-prerelease][+build]
const TetanusVersion = "0.1.0-dev"
