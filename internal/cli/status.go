// Package cli — status.go implements the "pyhula-setup status" command.
//
// Status is a pure read: it loads the install receipt and reports what
// the last install recorded. It never probes the environment — that is
// what verify is for.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hula-robotics/pyhula-setup/internal/model"
	"github.com/hula-robotics/pyhula-setup/internal/receipt"
)

// statusFlags holds the flag values for the status command.
type statusFlags struct {
	path string // --path: install directory (default: ~/pyhula)
}

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the last install recorded",
		Long: `Status reads the install receipt from the install directory and prints
the recorded runtime, packages, artifacts, and warnings.

Examples:
  pyhula-setup status
  pyhula-setup status --path D:\classroom\pyhula --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(flags)
		},
	}

	cmd.Flags().StringVar(&flags.path, "path", "", "Install directory (default: ~/pyhula)")

	return cmd
}

// runStatus loads and prints the receipt.
func runStatus(flags *statusFlags) error {
	installDir, err := resolveInstallDir(flags.path)
	if err != nil {
		return err
	}

	rec, err := receipt.Read(installDir)
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, "cannot read install status", err)
	}

	printStatusResult(rec)
	return nil
}

// printStatusResult outputs the status in text or JSON format.
func printStatusResult(rec *model.Receipt) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("PyHula installation at %s\n", rec.InstallPath)
	fmt.Printf("  Installed:   %s (pyhula-setup %s)\n", rec.CreatedAt.Format("2006-01-02 15:04 MST"), rec.ToolVersion)
	fmt.Printf("  Python:      %s (%s, %s)\n", rec.Runtime.Version, rec.Runtime.Path, rec.Runtime.Source)
	fmt.Printf("  Environment: %s\n", rec.VenvPath)
	fmt.Printf("  Package:     pyhula (%s)\n", rec.Wheel)

	fmt.Println()
	fmt.Println("  Dependencies:")
	for _, p := range rec.Packages {
		if p.Installed {
			fmt.Printf("    %s %s\n", okMark, p.Name)
		} else {
			fmt.Printf("    %s %s (%s)\n", failMark, p.Name, p.Detail)
		}
	}

	if len(rec.Artifacts) > 0 {
		fmt.Println()
		fmt.Println("  Artifacts:")
		for _, a := range rec.Artifacts {
			fmt.Printf("    %s\n", a)
		}
	}

	if len(rec.Warnings) > 0 {
		fmt.Println()
		fmt.Printf("  %d warning(s) recorded during install:\n", len(rec.Warnings))
		for _, w := range rec.Warnings {
			fmt.Printf("    %s [%s] %s\n", warnMark, w.Step, w.Message)
		}
	}
}
