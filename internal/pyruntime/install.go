package pyruntime

import (
	"context"
	"fmt"
	"os"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
	"github.com/hula-robotics/pyhula-setup/internal/model"
)

// DefaultInstallerArgs is the fixed silent-install argument set passed
// to the bundled native installer. InstallAllUsers=0 keeps the install
// inside the student's profile so no elevation is required on managed
// lab machines.
var DefaultInstallerArgs = []string{
	"/quiet",
	"InstallAllUsers=0",
	"PrependPath=1",
	"Include_test=0",
}

// Installer invokes the bundled native runtime installer.
type Installer struct {
	runner execx.Runner

	// stat is overridable in tests; defaults to os.Stat.
	stat func(name string) (os.FileInfo, error)
}

// NewInstaller creates an Installer that shells out via the given Runner.
func NewInstaller(runner execx.Runner) *Installer {
	return &Installer{runner: runner, stat: os.Stat}
}

// WithStat replaces the installer existence check. Tests use this
// together with a fake Runner to exercise the failure tiers.
func (i *Installer) WithStat(fn func(name string) (os.FileInfo, error)) *Installer {
	i.stat = fn
	return i
}

// InstallRuntime runs the bundled installer with the given silent
// argument list and blocks until it exits. Both a missing installer
// binary and a non-zero exit are fatal to the workflow: without the
// required runtime nothing downstream can proceed.
//
// The returned CLIError carries remediation hints that the CLI layer
// prints after the error message.
func (i *Installer) InstallRuntime(ctx context.Context, installerPath string, args []string) error {
	// Fail before spawning anything when the bundled installer is not
	// where the bundle layout says it should be.
	if _, err := i.stat(installerPath); err != nil {
		return model.WrapCLIError(model.ExitFailure,
			fmt.Sprintf("bundled runtime installer not found at %s", installerPath), err).
			WithHints(
				"make sure the installer binary ships alongside pyhula-setup",
				"re-download the classroom bundle if files are missing",
			)
	}

	if len(args) == 0 {
		args = DefaultInstallerArgs
	}

	if _, err := i.runner.Run(ctx, "", installerPath, args...); err != nil {
		return model.WrapCLIError(model.ExitFailure, "runtime installer failed", err).
			WithHints(
				"run the command from an elevated prompt",
				"check network connectivity if the installer fetches components",
				"temporarily disable antivirus or other interception software",
			)
	}

	return nil
}
