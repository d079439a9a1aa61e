// Package pip installs Python packages into the isolated environment
// via the environment's own package manager.
//
// The error tiers mirror the provisioning policy:
//   - the pip self-upgrade and each optional package are independently
//     wrapped — a failure is recorded and the workflow continues;
//   - the vendored wheel is the primary deliverable, so a missing or
//     failing wheel install is fatal.
package pip

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
	"github.com/hula-robotics/pyhula-setup/internal/model"
)

// Installer runs package-manager operations inside a venv.
type Installer struct {
	runner execx.Runner

	// stat is overridable in tests; defaults to os.Stat.
	stat func(name string) (os.FileInfo, error)
}

// New creates an Installer that shells out via the given Runner.
func New(runner execx.Runner) *Installer {
	return &Installer{runner: runner, stat: os.Stat}
}

// WithStat replaces the wheel existence check used by InstallWheel.
func (i *Installer) WithStat(fn func(name string) (os.FileInfo, error)) *Installer {
	i.stat = fn
	return i
}

// UpgradePip upgrades the package manager inside the environment using
// `<venv python> -m pip install --upgrade pip`. Invoking pip through the
// interpreter is the only form that can replace pip's own executable on
// Windows.
func (i *Installer) UpgradePip(ctx context.Context, venvPython string) error {
	_, err := i.runner.Run(ctx, "", venvPython, "-m", "pip", "install", "--upgrade", "pip")
	if err != nil {
		return fmt.Errorf("pip self-upgrade failed: %w", err)
	}
	return nil
}

// InstallPackages installs the fixed ordered package list, one pip
// invocation per package. Each attempt is independent: a failure is
// recorded in the result and the loop continues with the next package.
// The caller turns failed entries into warnings.
func (i *Installer) InstallPackages(ctx context.Context, pipPath string, names []string) []model.PackageResult {
	results := make([]model.PackageResult, 0, len(names))

	for _, name := range names {
		result, err := i.runner.Run(ctx, "", pipPath, "install", name)
		if err != nil {
			detail := strings.TrimSpace(result.Stderr)
			if detail == "" {
				detail = err.Error()
			}
			results = append(results, model.PackageResult{Name: name, Installed: false, Detail: detail})
			continue
		}
		results = append(results, model.PackageResult{Name: name, Installed: true})
	}

	return results
}

// InstallWheel installs the vendored local package archive. The archive
// must exist before pip is invoked at all — a missing wheel fails fast
// rather than letting pip report a confusing "no matching distribution"
// after the optional packages already installed.
//
// Both a missing archive and a failed install are fatal: the wheel is
// the primary deliverable of the whole workflow.
func (i *Installer) InstallWheel(ctx context.Context, pipPath, wheelPath string) error {
	if _, err := i.stat(wheelPath); err != nil {
		return model.WrapCLIError(model.ExitFailure,
			fmt.Sprintf("vendored package archive not found at %s", wheelPath), err).
			WithHints(
				"make sure the wheel file ships alongside pyhula-setup",
				"re-download the classroom bundle if files are missing",
			)
	}

	if _, err := i.runner.Run(ctx, "", pipPath, "install", wheelPath); err != nil {
		return model.WrapCLIError(model.ExitFailure,
			fmt.Sprintf("failed to install vendored package %s", wheelPath), err).
			WithHints(
				"verify the wheel matches the Python version of the environment",
				"check free disk space",
				"temporarily disable antivirus or other interception software",
			)
	}

	return nil
}
