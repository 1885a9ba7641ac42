// Package model defines the domain types and value objects for the
// nik-checker CLI.
//
// This package contains pure data structures with no external dependencies.
// Identifiers, the session history, and lookup results are all transient:
// nothing here is written to disk, and everything is discarded when the
// process exits.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
// The exit codes double as the error taxonomy of the lookup workflow.
package model
