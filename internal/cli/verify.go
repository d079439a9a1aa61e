// Package cli — verify.go implements the "pyhula-setup verify" command.
//
// Unlike status, verify actually exercises the installed environment:
// every smoke check runs through the environment's own interpreter.
// A hard check failure makes the command exit non-zero; missing optional
// packages are reported as warnings only.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
	"github.com/hula-robotics/pyhula-setup/internal/model"
	"github.com/hula-robotics/pyhula-setup/internal/receipt"
	"github.com/hula-robotics/pyhula-setup/internal/venv"
	"github.com/hula-robotics/pyhula-setup/internal/verify"
)

// verifyFlags holds the flag values for the verify command.
type verifyFlags struct {
	path string // --path: install directory (default: ~/pyhula)
}

// NewVerifyCommand creates the "verify" cobra command.
func NewVerifyCommand() *cobra.Command {
	flags := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run smoke checks against the installed environment",
		Long: `Verify runs the post-install smoke checks again: importing pyhula,
reading its version, constructing the API entry point, and importing
each recorded dependency.

The command exits non-zero when a core check fails. Missing optional
packages are warnings and do not affect the exit code.

Examples:
  pyhula-setup verify
  pyhula-setup verify --path D:\classroom\pyhula --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, flags, execx.NewRunner())
		},
	}

	cmd.Flags().StringVar(&flags.path, "path", "", "Install directory (default: ~/pyhula)")

	return cmd
}

// runVerify loads the receipt, runs the checks, and reports.
func runVerify(cmd *cobra.Command, flags *verifyFlags, runner execx.Runner) error {
	installDir, err := resolveInstallDir(flags.path)
	if err != nil {
		return err
	}

	rec, err := receipt.Read(installDir)
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, "cannot verify installation", err)
	}

	// Check the packages the install actually attempted, whether or not
	// they succeeded back then — a student may have installed one
	// manually since.
	packages := make([]string, 0, len(rec.Packages))
	for _, p := range rec.Packages {
		packages = append(packages, p.Name)
	}

	checker := verify.NewChecker(runner)
	results := checker.Run(cmd.Context(), venv.PythonPath(rec.VenvPath), packages)

	printVerifyResults(results)

	if verify.Failed(results) {
		return model.NewCLIError(model.ExitFailure, "verification failed").
			WithHints("reinstall with: pyhula-setup install --force")
	}
	return nil
}

// printVerifyResults outputs the check results in text or JSON format.
func printVerifyResults(results []verify.Result) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, r := range results {
		mark := okMark
		switch r.Status {
		case verify.StatusWarn:
			mark = warnMark
		case verify.StatusFail:
			mark = failMark
		}

		line := fmt.Sprintf("%s %s", mark, r.CheckName)
		if r.Message != "" {
			line += ": " + r.Message
		}
		fmt.Println(line)

		if r.Recommendation != "" && r.Status != verify.StatusOK {
			fmt.Printf("    hint: %s\n", r.Recommendation)
		}
	}
}
