package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
)

// scriptedRunner fails any command whose joined arguments contain one of
// the configured substrings, answering with the mapped stderr.
type scriptedRunner struct {
	fail  map[string]string
	calls []string
}

func (r *scriptedRunner) Run(_ context.Context, _, name string, args ...string) (execx.Result, error) {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)

	for substr, stderr := range r.fail {
		if strings.Contains(call, substr) {
			return execx.Result{ExitCode: 1, Stderr: stderr},
				errors.New("command failed: " + stderr)
		}
	}
	return execx.Result{ExitCode: 0, Stdout: "1.1.8"}, nil
}

func TestRun_AllHealthy(t *testing.T) {
	runner := &scriptedRunner{}
	checker := NewChecker(runner)

	results := checker.Run(context.Background(), "/opt/pyhula/venv/bin/python",
		[]string{"numpy", "matplotlib"})

	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, StatusOK, r.Status, "check %q", r.CheckName)
	}
	assert.False(t, Failed(results))

	// Every check ran through the environment's own interpreter.
	for _, call := range runner.calls {
		assert.True(t, strings.HasPrefix(call, "/opt/pyhula/venv/bin/python -c "), call)
	}
}

func TestRun_BrokenImportIsFailure(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]string{
		"import pyhula": "Traceback (most recent call last):\nModuleNotFoundError: No module named 'pyhula'",
	}}
	checker := NewChecker(runner)

	results := checker.Run(context.Background(), "python", nil)

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, StatusFail, r.Status, "check %q", r.CheckName)
	}
	assert.True(t, Failed(results))

	// The failure message carries the exception line, not the whole traceback.
	assert.Equal(t, "ModuleNotFoundError: No module named 'pyhula'", results[0].Message)
	assert.Contains(t, results[0].Recommendation, "--force")
}

func TestRun_MissingPackageIsWarning(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]string{
		"import matplotlib": "ModuleNotFoundError: No module named 'matplotlib'",
	}}
	checker := NewChecker(runner)

	results := checker.Run(context.Background(), "python", []string{"numpy", "matplotlib"})

	require.Len(t, results, 5)

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.CheckName] = r
	}

	assert.Equal(t, StatusOK, byName["package numpy"].Status)
	assert.Equal(t, StatusWarn, byName["package matplotlib"].Status)
	assert.Contains(t, byName["package matplotlib"].Recommendation, "pip install matplotlib")

	// Package warnings never fail the whole verification.
	assert.False(t, Failed(results))
}

func TestRun_CythonImportName(t *testing.T) {
	runner := &scriptedRunner{}
	checker := NewChecker(runner)

	checker.Run(context.Background(), "python", []string{"cython"})

	var found bool
	for _, call := range runner.calls {
		if strings.Contains(call, "import Cython") {
			found = true
		}
	}
	assert.True(t, found, "cython should be probed via its capitalized import name")
}

func TestRun_VersionCheckReportsVersion(t *testing.T) {
	runner := &scriptedRunner{}
	checker := NewChecker(runner)

	results := checker.Run(context.Background(), "python", nil)

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.CheckName] = r
	}
	assert.Equal(t, "1.1.8", byName["pyhula version"].Message)
}
