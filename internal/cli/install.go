// Package cli — install.go implements the "pyhula-setup install" command.
//
// The install command is the primary user-facing operation. It runs the
// full provisioning workflow against one install directory.
//
// Orchestration steps:
//  1. Resolve and validate the install directory
//  2. Load the provisioning manifest (or built-in defaults)
//  3. Find the required Python runtime, installing it if necessary
//  4. Create the isolated environment (abort if present, unless --force)
//  5. Install dependencies and the vendored PyHula wheel
//  6. Generate launcher scripts and copy documentation
//  7. Run smoke checks and write the install receipt
//
// Error tiers: runtime, environment, wheel, and launcher-script failures
// abort the run; everything else (optional packages, docs, verification,
// receipt persistence) is recorded as a warning and the run still
// succeeds.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hula-robotics/pyhula-setup/internal/artifact"
	"github.com/hula-robotics/pyhula-setup/internal/execx"
	"github.com/hula-robotics/pyhula-setup/internal/manifest"
	"github.com/hula-robotics/pyhula-setup/internal/model"
	"github.com/hula-robotics/pyhula-setup/internal/pip"
	"github.com/hula-robotics/pyhula-setup/internal/pyruntime"
	"github.com/hula-robotics/pyhula-setup/internal/receipt"
	"github.com/hula-robotics/pyhula-setup/internal/venv"
	"github.com/hula-robotics/pyhula-setup/internal/verify"
)

// newRuntimeLocator builds the runtime discovery probe. It is a package
// variable so tests can substitute a locator with stubbed filesystem and
// search-path lookups.
var newRuntimeLocator = func(runner execx.Runner) *pyruntime.Locator {
	return pyruntime.NewLocator(runner)
}

// installFlags holds the flag values for the install command.
// These are bound to cobra flags in NewInstallCommand.
type installFlags struct {
	path               string // --path: install directory (default: ~/pyhula)
	force              bool   // --force: recreate an existing environment
	skipRuntimeInstall bool   // --skip-runtime-install: never run the bundled installer
	manifestPath       string // --manifest: explicit manifest file
}

// NewInstallCommand creates the "install" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInstallCommand() *cobra.Command {
	flags := &installFlags{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install PyHula into an isolated environment",
		Long: `Install provisions a complete PyHula environment:

  - Finds a Python runtime of the required version, or runs the bundled
    installer when none is present
  - Creates an isolated environment inside the install directory
  - Installs the course dependencies and the vendored PyHula package
  - Generates activation and console launcher scripts
  - Runs smoke checks and writes an install receipt

Examples:
  pyhula-setup install
  pyhula-setup install --path D:\classroom\pyhula
  pyhula-setup install --force
  pyhula-setup install --manifest custom.jsonc --skip-runtime-install`,

		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := runInstall(cmd.Context(), flags, execx.NewRunner())
			if err != nil {
				return err
			}
			printInstallResult(rec)
			return nil
		},
	}

	// Register command-specific flags.
	cmd.Flags().StringVar(&flags.path, "path", "", "Install directory (default: ~/pyhula)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Recreate the environment if it already exists")
	cmd.Flags().BoolVar(&flags.skipRuntimeInstall, "skip-runtime-install", false, "Fail instead of running the bundled runtime installer")
	cmd.Flags().StringVar(&flags.manifestPath, "manifest", "", "Provisioning manifest file (default: provision.jsonc if present)")

	return cmd
}

// runInstall is the main orchestration function for the install command.
// It coordinates all the steps of the provisioning workflow and returns
// the receipt of the completed installation.
func runInstall(ctx context.Context, flags *installFlags, runner execx.Runner) (*model.Receipt, error) {
	// Step 1: Resolve and validate the install directory.
	installDir, err := resolveInstallDir(flags.path)
	if err != nil {
		return nil, err
	}
	VerboseLog("Install directory: %s", installDir)

	// Step 2: Load the provisioning manifest. A missing file at the
	// default location means built-in defaults; a missing explicit
	// --manifest is an error.
	m, err := manifest.LoadOrDefault(flags.manifestPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, "cannot load provisioning manifest", err)
	}
	VerboseLog("Required Python version: %s", m.PythonVersion)
	VerboseLog("Packages: %v", m.Packages)

	var warnings []model.Warning
	warn := func(step, format string, args ...interface{}) {
		w := model.Warning{Step: step, Message: fmt.Sprintf(format, args...)}
		warnings = append(warnings, w)
		VerboseLog("Warning (%s): %s", w.Step, w.Message)
	}

	// Step 3: Find the required Python runtime, installing if needed.
	rt, err := ensureRuntime(ctx, runner, &m, flags.skipRuntimeInstall)
	if err != nil {
		return nil, err
	}
	VerboseLog("Using Python %s at %s (%s)", rt.Version, rt.Path, rt.Source)

	// Step 4: Create the isolated environment. An existing environment
	// aborts the run unless --force was given.
	vm := venv.NewManager(runner)
	venvDir, err := vm.Create(ctx, rt.Path, installDir, flags.force)
	if err != nil {
		return nil, err
	}
	VerboseLog("Environment created at %s", venvDir)

	venvPython := venv.PythonPath(venvDir)
	pipPath := venv.PipPath(venvDir)

	// Step 5: Install dependencies and the vendored wheel. The pip
	// self-upgrade and each optional package are non-fatal; the wheel is
	// the primary deliverable and aborts the run on failure.
	installer := pip.New(runner)

	if err := installer.UpgradePip(ctx, venvPython); err != nil {
		warn("dependencies", "pip self-upgrade failed: %v", err)
	}

	packages := installer.InstallPackages(ctx, pipPath, m.Packages)
	for _, p := range packages {
		if !p.Installed {
			warn("dependencies", "package %s failed to install: %s", p.Name, p.Detail)
		}
	}

	if err := installer.InstallWheel(ctx, pipPath, m.Wheel); err != nil {
		return nil, err
	}
	VerboseLog("Vendored package installed from %s", m.Wheel)

	// Step 6: Generate launcher scripts; copy documentation.
	artifacts, err := artifact.Generate(installDir, venvDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure, "failed to generate launcher scripts", err)
	}
	VerboseLog("Generated %d artifact(s)", len(artifacts))

	if copied, err := artifact.CopyDocs(m.DocsDir, installDir); err != nil {
		warn("documentation", "failed to copy documentation: %v", err)
	} else if len(copied) > 0 {
		VerboseLog("Copied %d documentation file(s)", len(copied))
	}

	// Step 7: Smoke checks, then the receipt. Verification failures are
	// reported but never undo a completed install.
	checker := verify.NewChecker(runner)
	for _, res := range checker.Run(ctx, venvPython, m.Packages) {
		if res.Status != verify.StatusOK {
			warn("verification", "%s: %s", res.CheckName, res.Message)
		}
	}

	runtimeOutcome := model.OutcomeFound
	if rt.Source == model.SourceInstalled {
		runtimeOutcome = model.OutcomeInstalled
	}

	rec := &model.Receipt{
		ToolVersion:    Version,
		Runtime:        *rt,
		RuntimeOutcome: runtimeOutcome,
		InstallPath:    installDir,
		VenvPath:       venvDir,
		Packages:       packages,
		Wheel:          m.Wheel,
		Artifacts:      artifacts,
		Warnings:       warnings,
		CreatedAt:      time.Now().UTC(),
	}

	if err := receipt.Write(installDir, rec); err != nil {
		// The install itself is complete; a receipt failure only degrades
		// the status/verify/remove commands.
		rec.Warnings = append(rec.Warnings, model.Warning{
			Step: "receipt", Message: err.Error(),
		})
	}

	return rec, nil
}

// ensureRuntime locates the required Python runtime, falling back to the
// bundled installer when discovery finds nothing. After a successful
// install the discovery probe runs again — the installer's exit code
// alone is not trusted to mean a working interpreter.
func ensureRuntime(ctx context.Context, runner execx.Runner, m *manifest.Manifest, skipInstall bool) (*model.RuntimeInfo, error) {
	locator := newRuntimeLocator(runner)
	candidates := pyruntime.DefaultCandidates(m.PythonVersion)

	rt, err := locator.Locate(ctx, candidates, m.PythonVersion)
	if err == nil {
		return rt, nil
	}
	if !errors.Is(err, pyruntime.ErrNotFound) {
		return nil, model.WrapCLIError(model.ExitFailure, "runtime discovery failed", err)
	}

	if skipInstall {
		return nil, model.NewCLIError(model.ExitFailure,
			fmt.Sprintf("no Python %s runtime found and --skip-runtime-install is set", m.PythonVersion)).
			WithHints(
				fmt.Sprintf("install Python %s manually and re-run", m.PythonVersion),
				"or re-run without --skip-runtime-install to use the bundled installer",
			)
	}

	VerboseLog("No Python %s found, running bundled installer %s", m.PythonVersion, m.InstallerPath)
	inst := pyruntime.NewInstaller(runner)
	if err := inst.InstallRuntime(ctx, m.InstallerPath, m.InstallerArgs); err != nil {
		return nil, err
	}

	rt, err = locator.Locate(ctx, candidates, m.PythonVersion)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitFailure,
			"runtime installer completed but no matching Python was found", err).
			WithHints(
				"log out and back in so a changed PATH takes effect",
				"check the installer log in %TEMP% for silent failures",
			)
	}

	rt.Source = model.SourceInstalled
	return rt, nil
}

// printInstallResult outputs the install results in text or JSON format.
func printInstallResult(rec *model.Receipt) {
	if IsJSONOutput() {
		printInstallResultJSON(rec)
	} else {
		printInstallResultText(rec)
	}
}

// printInstallResultJSON outputs the receipt as structured JSON.
func printInstallResultJSON(rec *model.Receipt) {
	data, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Println(string(data))
}

// printInstallResultText outputs a human-readable install summary.
func printInstallResultText(rec *model.Receipt) {
	fmt.Printf("%s PyHula installed to %s\n", okMark, rec.InstallPath)
	fmt.Printf("  Python:      %s (%s, %s)\n", rec.Runtime.Version, rec.Runtime.Path, rec.Runtime.Source)
	fmt.Printf("  Environment: %s\n", rec.VenvPath)

	fmt.Println()
	fmt.Println("  Packages:")
	for _, p := range rec.Packages {
		if p.Installed {
			fmt.Printf("    %s %s\n", okMark, p.Name)
		} else {
			fmt.Printf("    %s %s (%s)\n", warnMark, p.Name, p.Detail)
		}
	}
	fmt.Printf("    %s pyhula (%s)\n", okMark, rec.Wheel)

	if len(rec.Warnings) > 0 {
		fmt.Println()
		fmt.Printf("  %d warning(s):\n", len(rec.Warnings))
		for _, w := range rec.Warnings {
			fmt.Printf("    %s [%s] %s\n", warnMark, w.Step, w.Message)
		}
	}

	fmt.Println()
	fmt.Printf("  To get started, run: %s (or pyhula-console.bat on Windows)\n",
		filepath.Join(rec.InstallPath, "pyhula-console.sh"))
}
