// Package verify runs post-install smoke checks against an installed
// PyHula environment.
//
// Each check executes a small Python snippet with the environment's own
// interpreter, so the checks exercise exactly what a classroom user
// would: the library importing, reporting its version, and constructing
// its API entry point, plus the supporting scientific packages.
//
// Checks never stop the workflow. Every check produces a Result; the
// caller decides whether failures are fatal (the verify command) or
// merely reported (the tail of an install).
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
)

// Status classifies a single check outcome.
type Status string

const (
	// StatusOK means the check passed.
	StatusOK Status = "ok"

	// StatusWarn means a supporting package is missing or degraded. The
	// environment is still usable for the core library.
	StatusWarn Status = "warn"

	// StatusFail means a core capability (import, version, API entry
	// point) is broken.
	StatusFail Status = "fail"
)

// Result is the outcome of one smoke check.
type Result struct {
	Status         Status `json:"status"`
	CheckName      string `json:"check"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
}

// coreChecks exercise the library itself. Any failure here means the
// install is not usable.
var coreChecks = []struct {
	name    string
	snippet string
	recom   string
}{
	{
		name:    "pyhula import",
		snippet: `import pyhula; print("ok")`,
		recom:   "reinstall with --force to recreate the environment",
	},
	{
		name:    "pyhula version",
		snippet: `import pyhula; print(pyhula.get_version())`,
		recom:   "the installed build may be corrupt; reinstall with --force",
	},
	{
		name:    "UserApi construction",
		snippet: `import pyhula; api = pyhula.UserApi(); print("ok")`,
		recom:   "the installed build may be corrupt; reinstall with --force",
	},
}

// Checker runs smoke checks through an injected command runner.
type Checker struct {
	runner execx.Runner
}

// NewChecker creates a Checker backed by the given runner.
func NewChecker(runner execx.Runner) *Checker {
	return &Checker{runner: runner}
}

// Run executes the core library checks followed by one import check per
// supporting package, using the environment's interpreter at venvPython.
// It always returns one Result per check.
func (c *Checker) Run(ctx context.Context, venvPython string, packages []string) []Result {
	results := make([]Result, 0, len(coreChecks)+len(packages))

	for _, check := range coreChecks {
		out, err := c.runner.Run(ctx, "", venvPython, "-c", check.snippet)
		if err != nil || out.ExitCode != 0 {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      check.name,
				Message:        checkFailure(out, err),
				Recommendation: check.recom,
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: check.name,
			Message:   strings.TrimSpace(out.Stdout),
		})
	}

	for _, pkg := range packages {
		name := fmt.Sprintf("package %s", pkg)
		out, err := c.runner.Run(ctx, "", venvPython, "-c", fmt.Sprintf("import %s", importName(pkg)))
		if err != nil || out.ExitCode != 0 {
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      name,
				Message:        checkFailure(out, err),
				Recommendation: fmt.Sprintf("install manually: pip install %s", pkg),
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: name,
			Message:   "importable",
		})
	}

	return results
}

// Failed reports whether any result is a hard failure. Warnings do not
// count.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// importName maps a pip distribution name to its import name where the
// two differ.
func importName(pkg string) string {
	switch strings.ToLower(pkg) {
	case "cython":
		return "Cython"
	default:
		return pkg
	}
}

// checkFailure summarizes a failed check from whichever of stderr,
// stdout, or the run error carries the detail.
func checkFailure(out execx.Result, err error) string {
	if s := strings.TrimSpace(out.Stderr); s != "" {
		return lastLine(s)
	}
	if s := strings.TrimSpace(out.Stdout); s != "" {
		return lastLine(s)
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("exited with status %d", out.ExitCode)
}

// lastLine keeps check output readable: a Python traceback's last line
// names the exception.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
