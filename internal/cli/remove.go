// Package cli — remove.go implements the "pyhula-setup remove" command.
//
// Remove deletes a whole installation: the isolated environment, the
// generated launcher scripts, the copied docs, and the receipt. The
// install directory itself is removed recursively, which is why install
// paths are validated against filesystem roots up front.
//
// By default, the command prompts for confirmation. The --force flag
// skips the confirmation prompt.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hula-robotics/pyhula-setup/internal/model"
	"github.com/hula-robotics/pyhula-setup/internal/receipt"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// path is the install directory (default: ~/pyhula).
	path string

	// force skips the interactive confirmation prompt when true.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a PyHula installation",
		Long: `Remove deletes the install directory recursively: the isolated
environment, the launcher scripts, the copied documentation, and the
install receipt.

Unless --force is specified, the command prompts for confirmation.

Examples:
  pyhula-setup remove
  pyhula-setup remove --force
  pyhula-setup remove --path D:\classroom\pyhula`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().StringVar(&flags.path, "path", "", "Install directory (default: ~/pyhula)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

// runRemove is the main logic function for the remove command.
// It checks the receipt, optionally prompts for confirmation, and
// deletes the install directory.
func runRemove(flags *removeFlags) error {
	installDir, err := resolveInstallDir(flags.path)
	if err != nil {
		return err
	}

	// Require a receipt before deleting anything. Refusing to remove a
	// directory this tool did not install keeps a mistyped --path from
	// destroying unrelated files.
	rec, err := receipt.Read(installDir)
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, "cannot remove installation", err).
			WithHints("if the directory is a broken install, delete it manually")
	}

	if !flags.force {
		confirmed, err := promptConfirmation(installDir, rec)
		if err != nil {
			return model.WrapCLIError(model.ExitFailure, "failed to read user input", err)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitFailure, "operation cancelled by user")
		}
	}

	VerboseLog("Removing %s...", installDir)
	if err := os.RemoveAll(installDir); err != nil {
		return model.WrapCLIError(model.ExitFailure,
			fmt.Sprintf("failed to remove %s", installDir), err).
			WithHints("close any shells or programs using the environment")
	}

	printRemoveResult(installDir)
	return nil
}

// promptConfirmation asks the user to confirm the remove operation.
// It reads a single line from stdin and checks for "y" or "yes".
// Returns true if the user confirmed, false otherwise.
func promptConfirmation(installDir string, rec *model.Receipt) (bool, error) {
	fmt.Printf("About to remove the PyHula installation at %s:\n", installDir)
	fmt.Printf("  - environment at %s\n", rec.VenvPath)
	fmt.Printf("  - %d generated file(s) and the install receipt\n", len(rec.Artifacts))
	fmt.Print("\nContinue? [y/N] ")

	// Read a line from stdin. bufio.Scanner handles different line endings
	// across platforms (LF on Unix, CRLF on Windows).
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	// If stdin is closed or an error occurred, treat it as "no".
	if err := scanner.Err(); err != nil {
		return false, err
	}

	return false, nil
}

// printRemoveResult outputs the remove command result in text or JSON format.
func printRemoveResult(installDir string) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"installPath": installDir,
			"action":      "removed",
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("%s Removed PyHula installation at %s\n", okMark, installDir)
}
