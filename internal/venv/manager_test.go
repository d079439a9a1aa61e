package venv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
)

// recordingRunner pretends venv creation succeeds and records calls.
// It also creates the venv directory, mimicking what `python -m venv`
// does, so Exists checks after Create behave realistically.
type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(ctx context.Context, dir, name string, args ...string) (execx.Result, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	// The last argument of `python -m venv <dir>` is the target directory.
	if len(args) >= 2 && args[0] == "-m" && args[1] == "venv" {
		_ = os.MkdirAll(args[len(args)-1], 0o755)
	}
	return execx.Result{ExitCode: 0}, nil
}

// TestCreate_Fresh verifies the happy path: venv module invoked with the
// expected arguments and the environment path returned.
func TestCreate_Fresh(t *testing.T) {
	installDir := filepath.Join(t.TempDir(), "pyhula")
	runner := &recordingRunner{}
	m := NewManager(runner)

	venvDir, err := m.Create(context.Background(), "/usr/bin/python3.6", installDir, false)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(installDir, "venv"), venvDir)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"/usr/bin/python3.6", "-m", "venv", venvDir}, runner.calls[0])
}

// TestCreate_ExistingWithoutForce verifies the idempotence guarantee:
// a second run without force aborts with "already exists" and makes no
// filesystem changes and no process invocations.
func TestCreate_ExistingWithoutForce(t *testing.T) {
	installDir := t.TempDir()
	runner := &recordingRunner{}
	m := NewManager(runner)

	// Simulate a prior install with a sentinel file inside the venv.
	venvDir := m.Path(installDir)
	sentinel := filepath.Join(venvDir, "pyvenv.cfg")
	require.NoError(t, os.MkdirAll(venvDir, 0o755))
	require.NoError(t, os.WriteFile(sentinel, []byte("home = /usr\n"), 0o644))

	_, err := m.Create(context.Background(), "/usr/bin/python3.6", installDir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// No process ran and the prior environment is untouched.
	assert.Empty(t, runner.calls)
	_, statErr := os.Stat(sentinel)
	assert.NoError(t, statErr)
}

// TestCreate_ForceRecreates verifies that force removes the old
// environment entirely before recreating — no leftover files survive.
func TestCreate_ForceRecreates(t *testing.T) {
	installDir := t.TempDir()
	runner := &recordingRunner{}
	m := NewManager(runner)

	venvDir := m.Path(installDir)
	leftover := filepath.Join(venvDir, "lib", "old-package", "stale.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(leftover), 0o755))
	require.NoError(t, os.WriteFile(leftover, []byte("stale"), 0o644))

	created, err := m.Create(context.Background(), "/usr/bin/python3.6", installDir, true)
	require.NoError(t, err)
	assert.Equal(t, venvDir, created)

	// The stale file from the previous environment must be gone.
	_, statErr := os.Stat(leftover)
	assert.True(t, os.IsNotExist(statErr), "stale file should have been removed")
	require.Len(t, runner.calls, 1)
}

// TestPythonAndPipPaths verifies the platform-specific executable layout.
// The test only asserts the non-Windows shape since CI runs on POSIX;
// the Windows branch is symmetrical.
func TestPythonAndPipPaths(t *testing.T) {
	venvDir := filepath.Join("/opt", "pyhula", "venv")

	py := PythonPath(venvDir)
	pip := PipPath(venvDir)

	assert.True(t, strings.HasPrefix(py, venvDir))
	assert.True(t, strings.HasPrefix(pip, venvDir))
	assert.NotEqual(t, py, pip)
}

// TestExistsAndRemove covers the existence probe and best-effort removal.
func TestExistsAndRemove(t *testing.T) {
	installDir := t.TempDir()
	m := NewManager(&recordingRunner{})

	assert.False(t, m.Exists(installDir))

	require.NoError(t, os.MkdirAll(m.Path(installDir), 0o755))
	assert.True(t, m.Exists(installDir))

	require.NoError(t, m.Remove(installDir))
	assert.False(t, m.Exists(installDir))
}
