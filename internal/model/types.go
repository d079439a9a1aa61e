package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// StepOutcome represents the result of a single provisioning step.
// The workflow is linear, so each step resolves to exactly one outcome
// before the next step starts.
type StepOutcome string

const (
	// OutcomeFound indicates the step's target already existed and was
	// reused (e.g., a matching Python runtime discovered on disk).
	OutcomeFound StepOutcome = "found"

	// OutcomeInstalled indicates the step created or installed its target.
	OutcomeInstalled StepOutcome = "installed"

	// OutcomeSkipped indicates the step was intentionally not performed
	// (e.g., runtime install skipped via --skip-runtime-install).
	OutcomeSkipped StepOutcome = "skipped"

	// OutcomeFailed indicates the step did not complete. Whether a failed
	// step aborts the workflow depends on the step's error tier.
	OutcomeFailed StepOutcome = "failed"
)

// String returns the string representation of StepOutcome.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and the install receipt.
func (o StepOutcome) String() string {
	return string(o)
}

// IsValid checks whether the StepOutcome value is one of the
// predefined valid outcomes.
func (o StepOutcome) IsValid() bool {
	switch o {
	case OutcomeFound, OutcomeInstalled, OutcomeSkipped, OutcomeFailed:
		return true
	default:
		return false
	}
}

// ParseStepOutcome converts a string to a StepOutcome.
// Returns an error if the string does not match any valid outcome.
func ParseStepOutcome(s string) (StepOutcome, error) {
	outcome := StepOutcome(strings.ToLower(s))
	if !outcome.IsValid() {
		return "", fmt.Errorf("invalid step outcome: %q (valid: found, installed, skipped, failed)", s)
	}
	return outcome, nil
}

// RuntimeSource records how the Python runtime used for provisioning
// was obtained. Discovery prefers explicit candidate paths over the
// executable search path, and falls back to a fresh install.
type RuntimeSource string

const (
	// SourceCandidatePath means the runtime was found at one of the
	// well-known filesystem locations probed in order.
	SourceCandidatePath RuntimeSource = "candidate-path"

	// SourceSearchPath means the runtime was found via PATH lookup.
	SourceSearchPath RuntimeSource = "search-path"

	// SourceInstalled means the runtime was installed by this tool
	// using the bundled native installer.
	SourceInstalled RuntimeSource = "installed"
)

// String returns the string representation of RuntimeSource.
func (s RuntimeSource) String() string {
	return string(s)
}

// RuntimeInfo describes the Python interpreter selected for provisioning.
type RuntimeInfo struct {
	// Path is the absolute path to the interpreter executable.
	Path string `json:"path" yaml:"path"`

	// Version is the full version string reported by the interpreter
	// (e.g., "3.6.8").
	Version string `json:"version" yaml:"version"`

	// Source records how the interpreter was obtained.
	Source RuntimeSource `json:"source" yaml:"source"`
}

// PackageResult records the outcome of a single package installation
// attempt. Optional package failures do not abort the workflow, so the
// receipt may contain a mix of installed and failed entries.
type PackageResult struct {
	// Name is the package name as passed to the package manager.
	Name string `json:"name" yaml:"name"`

	// Installed is true when the package manager exited successfully.
	Installed bool `json:"installed" yaml:"installed"`

	// Detail holds the failure reason when Installed is false.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Warning is a non-fatal problem recorded during provisioning.
// The workflow continues past warnings and reports overall success
// with a caveat.
type Warning struct {
	// Step names the workflow step that produced the warning
	// (e.g., "dependencies", "documentation", "verification").
	Step string `json:"step" yaml:"step"`

	// Message is the human-readable description of the problem.
	Message string `json:"message" yaml:"message"`
}

// Receipt is the record of a completed installation, written as YAML
// into the install directory. It is the only state the tool persists:
// status, verify, and remove reconstruct everything they need from it.
type Receipt struct {
	// ToolVersion is the pyhula-setup version that performed the install.
	ToolVersion string `yaml:"toolVersion" json:"toolVersion"`

	// Runtime describes the Python interpreter used to create the
	// isolated environment.
	Runtime RuntimeInfo `yaml:"runtime" json:"runtime"`

	// RuntimeOutcome records whether the runtime step found an existing
	// interpreter or installed one.
	RuntimeOutcome StepOutcome `yaml:"runtimeOutcome" json:"runtimeOutcome"`

	// InstallPath is the absolute path to the install root directory.
	InstallPath string `yaml:"installPath" json:"installPath"`

	// VenvPath is the absolute path to the isolated environment directory.
	VenvPath string `yaml:"venvPath" json:"venvPath"`

	// Packages records the outcome of every optional package install.
	Packages []PackageResult `yaml:"packages" json:"packages"`

	// Wheel is the path of the vendored package archive that was installed.
	// The wheel is the primary deliverable; a receipt only exists if its
	// installation succeeded.
	Wheel string `yaml:"wheel" json:"wheel"`

	// Artifacts lists the generated launcher and smoke-test files,
	// relative to the install root.
	Artifacts []string `yaml:"artifacts" json:"artifacts"`

	// Warnings collects every non-fatal problem from the run.
	Warnings []Warning `yaml:"warnings,omitempty" json:"warnings,omitempty"`

	// CreatedAt is the timestamp when the installation completed.
	CreatedAt time.Time `yaml:"createdAt" json:"createdAt"`
}

// ValidateInstallPath checks that the given path is safe to use as an
// install root. The remove command deletes this directory recursively,
// so we refuse paths that would be catastrophic to operate on.
func ValidateInstallPath(path string) error {
	if path == "" {
		return fmt.Errorf("install path must not be empty")
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("install path %q must be absolute", path)
	}
	// Reject the filesystem root and Windows drive roots ("C:\").
	cleaned := filepath.Clean(path)
	if cleaned == string(filepath.Separator) || cleaned == filepath.VolumeName(cleaned)+string(filepath.Separator) {
		return fmt.Errorf("install path %q must not be a filesystem root", path)
	}
	return nil
}

// ExitCode defines the CLI exit codes. The contract is deliberately
// narrow: 0 on overall success, 1 on fatal failure. Non-fatal problems
// (optional package failures, doc copy failures, verification failures)
// never change the exit code of the install workflow.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully,
	// possibly with recorded warnings.
	ExitSuccess ExitCode = 0

	// ExitFailure indicates a fatal failure aborted the command.
	ExitFailure ExitCode = 1
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error

	// Hints are remediation suggestions printed after the error message.
	// Only fatal installer/environment errors carry hints.
	Hints []string
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// WithHints attaches remediation hints to the error and returns it,
// allowing the fluent form WrapCLIError(...).WithHints(...).
func (e *CLIError) WithHints(hints ...string) *CLIError {
	e.Hints = append(e.Hints, hints...)
	return e
}
