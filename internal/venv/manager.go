// Package venv manages the isolated Python environment inside the
// install directory.
//
// The heavy lifting is delegated to the interpreter's own `-m venv`
// module; this package owns the surrounding policy: where the
// environment lives, the force/abort semantics when one already exists,
// and the platform-specific layout of the interpreter and package
// manager executables inside it.
package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
	"github.com/hula-robotics/pyhula-setup/internal/model"
)

// dirName is the fixed name of the environment directory inside the
// install root.
const dirName = "venv"

// Manager creates and removes isolated environments.
type Manager struct {
	runner execx.Runner
}

// NewManager creates a Manager that shells out via the given Runner.
func NewManager(runner execx.Runner) *Manager {
	return &Manager{runner: runner}
}

// Path returns the environment directory for the given install root.
func (m *Manager) Path(installDir string) string {
	return filepath.Join(installDir, dirName)
}

// Exists reports whether an environment directory is already present.
func (m *Manager) Exists(installDir string) bool {
	info, err := os.Stat(m.Path(installDir))
	return err == nil && info.IsDir()
}

// Create builds the isolated environment with `<python> -m venv`.
//
// If the environment directory already exists:
//   - without force, Create aborts with an "already exists" error and
//     makes no filesystem changes (the idempotence guarantee: a second
//     run must not silently mutate a prior install);
//   - with force, the whole directory is removed first. Removal is
//     best-effort, but if anything survives, creating on top of stale
//     files would produce a broken half-old environment, so a leftover
//     directory is fatal.
//
// Returns the environment directory path on success.
func (m *Manager) Create(ctx context.Context, pythonPath, installDir string, force bool) (string, error) {
	venvDir := m.Path(installDir)

	if m.Exists(installDir) {
		if !force {
			return "", model.NewCLIError(model.ExitFailure,
				fmt.Sprintf("environment already exists at %s (use --force to recreate)", venvDir))
		}
		if err := os.RemoveAll(venvDir); err != nil {
			return "", model.WrapCLIError(model.ExitFailure,
				fmt.Sprintf("cannot remove existing environment at %s", venvDir), err).
				WithHints(
					"close any shells or programs using the environment",
					"remove the directory manually and re-run",
				)
		}
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return "", model.WrapCLIError(model.ExitFailure,
			fmt.Sprintf("cannot create install directory %s", installDir), err)
	}

	if _, err := m.runner.Run(ctx, "", pythonPath, "-m", "venv", venvDir); err != nil {
		return "", model.WrapCLIError(model.ExitFailure, "environment creation failed", err).
			WithHints(
				"verify the Python installation is not corrupted",
				"check write permissions on " + installDir,
			)
	}

	return venvDir, nil
}

// Remove deletes the environment directory. Best-effort whole-directory
// removal, matching the force-recreate path.
func (m *Manager) Remove(installDir string) error {
	return os.RemoveAll(m.Path(installDir))
}

// PythonPath returns the interpreter executable inside the environment.
// Layout differs by platform: Scripts\python.exe on Windows, bin/python
// everywhere else.
func PythonPath(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(venvDir, "bin", "python")
}

// PipPath returns the package manager executable inside the environment.
func PipPath(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", "pip.exe")
	}
	return filepath.Join(venvDir, "bin", "pip")
}
