// Package execx provides the single external-process invocation
// abstraction used by every provisioning step that shells out
// (native installer, venv creation, package manager, smoke tests).
//
// Design decisions:
//   - Each workflow step makes exactly one synchronous, blocking call —
//     no hidden retries, no timeouts. The parent inspects the exit code.
//   - Runner is an interface so tests can substitute a scripted fake and
//     exercise workflow logic without spawning real processes.
//   - Stdout and stderr are captured separately; on failure the trimmed
//     stderr is folded into the returned error for diagnostics.
package execx

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Result holds the observable outcome of an external process invocation.
type Result struct {
	// ExitCode is the process exit code. -1 means the process could not
	// be started at all (e.g., executable not found).
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string
}

// Runner executes external commands. The production implementation is
// ExecRunner; tests provide fakes that script exit codes and output.
type Runner interface {
	// Run executes name with args in dir (empty dir means the process
	// working directory) and blocks until the child exits. A non-zero
	// exit code is returned both in Result.ExitCode and as a non-nil
	// error so call sites can choose which to inspect.
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// ExecRunner is the os/exec-backed Runner used by the real CLI.
type ExecRunner struct{}

// NewRunner creates the production Runner.
//
// There is no initialization logic today; the constructor exists so call
// sites don't depend on the zero value and setup can be added later
// (e.g., environment scrubbing) without breaking callers.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner using exec.CommandContext.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	// #nosec G204 — command names and args are constructed internally
	// from configuration, not from untrusted input.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	// Capture stdout and stderr separately so version probes can read
	// stdout while error messages surface stderr.
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		ExitCode: exitCode(cmd, err),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		return result, wrapRunError(name, args, result.Stderr, err)
	}
	return result, nil
}

// exitCode extracts the child's exit code. When the process never started
// (lookup failure, permission error), ProcessState is nil and we report -1.
func exitCode(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// wrapRunError builds a diagnostic error that includes the command line
// and the trimmed stderr output, mirroring what a human would see when
// running the command by hand.
func wrapRunError(name string, args []string, stderr string, err error) error {
	message := fmt.Sprintf("%s %s failed", name, strings.Join(args, " "))
	if trimmed := strings.TrimSpace(stderr); trimmed != "" {
		message = fmt.Sprintf("%s: %s", message, trimmed)
	}
	return fmt.Errorf("%s: %w", message, err)
}
