// Package cli — patch.go implements the "pyhula-setup patch" command.
//
// Patch applies the known fixes for the vendored PyHula build to the
// library files inside the installed environment. Originals are backed
// up on first modification, so --restore can undo everything.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hula-robotics/pyhula-setup/internal/model"
	"github.com/hula-robotics/pyhula-setup/internal/patchkit"
	"github.com/hula-robotics/pyhula-setup/internal/receipt"
)

// patchFlags holds the flag values for the patch command.
type patchFlags struct {
	path    string // --path: install directory (default: ~/pyhula)
	restore bool   // --restore: put the backed-up originals back
	list    bool   // --list: report patch state without changing anything
}

// NewPatchCommand creates the "patch" cobra command.
func NewPatchCommand() *cobra.Command {
	flags := &patchFlags{}

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Apply known fixes to the installed PyHula library",
		Long: `Patch rewrites the affected PyHula source files inside the environment's
site-packages to fix known defects in the vendored build (header packing,
UDP binding, connection error reporting).

Each fix is marker-guarded: running patch twice is a no-op, and a library
build that does not contain the expected code is skipped per-fix rather
than corrupted. Originals are backed up before the first modification.

Examples:
  pyhula-setup patch
  pyhula-setup patch --list
  pyhula-setup patch --restore`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(flags)
		},
	}

	cmd.Flags().StringVar(&flags.path, "path", "", "Install directory (default: ~/pyhula)")
	cmd.Flags().BoolVar(&flags.restore, "restore", false, "Restore the backed-up original files")
	cmd.Flags().BoolVar(&flags.list, "list", false, "Show which patches are applied without changing anything")

	return cmd
}

// runPatch locates the installed library and applies, lists, or restores.
func runPatch(flags *patchFlags) error {
	if flags.restore && flags.list {
		return model.NewCLIError(model.ExitFailure, "--restore and --list are mutually exclusive")
	}

	installDir, err := resolveInstallDir(flags.path)
	if err != nil {
		return err
	}

	rec, err := receipt.Read(installDir)
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, "cannot patch installation", err)
	}

	pkgDir, err := patchkit.LocatePackage(rec.VenvPath, "pyhula")
	if err != nil {
		return model.WrapCLIError(model.ExitFailure, "installed PyHula library not found", err).
			WithHints("reinstall with: pyhula-setup install --force")
	}
	VerboseLog("Library directory: %s", pkgDir)

	patcher := patchkit.New(pkgDir)

	switch {
	case flags.list:
		printPatchResults(patcher.List())
		return nil

	case flags.restore:
		restored, err := patcher.Restore()
		if err != nil {
			return model.WrapCLIError(model.ExitFailure, "restore failed", err)
		}
		printRestoreResult(restored)
		return nil

	default:
		results, err := patcher.ApplyAll()
		if err != nil {
			return model.WrapCLIError(model.ExitFailure, "patching failed", err)
		}
		printPatchResults(results)
		return nil
	}
}

// printPatchResults outputs per-patch outcomes in text or JSON format.
func printPatchResults(results []patchkit.Result) {
	if IsJSONOutput() {
		type resultJSON struct {
			Patch  string `json:"patch"`
			Status string `json:"status"`
			Detail string `json:"detail,omitempty"`
		}
		out := make([]resultJSON, 0, len(results))
		for _, r := range results {
			out = append(out, resultJSON{Patch: r.Patch, Status: string(r.Status), Detail: r.Detail})
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, r := range results {
		mark := okMark
		if r.Status == patchkit.StatusSkipped {
			mark = warnMark
		}

		line := fmt.Sprintf("%s %s: %s", mark, r.Patch, r.Status)
		if r.Detail != "" {
			line += " (" + r.Detail + ")"
		}
		fmt.Println(line)
	}
}

// printRestoreResult outputs the restored file list.
func printRestoreResult(restored []string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string][]string{"restored": restored}, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("%s Restored %d file(s) from backup:\n", okMark, len(restored))
	for _, f := range restored {
		fmt.Printf("    %s\n", f)
	}
}
