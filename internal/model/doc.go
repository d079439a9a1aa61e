// Package model defines the domain types and value objects for the
// pyhula-setup CLI.
//
// This package contains pure data structures with no external dependencies.
// The central aggregate is Receipt — the YAML record of a completed
// installation — together with the step/runtime/package value types it is
// composed of.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
