// Package patchkit applies permanent fixes to the installed PyHula
// library files.
//
// The vendored PyHula build ships with a few known defects (header
// packing, UDP binding, connection error handling). Rather than fork the
// closed-source wheel, the patch command rewrites the affected source
// files in place inside the environment's site-packages, after backing
// up the originals so they can be restored.
//
// All patches are marker-guarded text substitutions (see patches.go),
// so applying them twice is a no-op and a library build whose code
// drifted from the expected anchors degrades to per-patch skips instead
// of corrupting files.
package patchkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// backupDirName is the directory inside the package where originals are
// kept before the first modification.
const backupDirName = "original_backup"

// PatchStatus describes the outcome of applying (or inspecting) a patch.
type PatchStatus string

const (
	// StatusApplied means the patch was applied by this invocation.
	StatusApplied PatchStatus = "applied"

	// StatusAlreadyApplied means the marker was already present.
	StatusAlreadyApplied PatchStatus = "already-applied"

	// StatusNotApplied means the file does not carry the marker
	// (reported by List, never by Apply).
	StatusNotApplied PatchStatus = "not-applied"

	// StatusSkipped means the target file or anchor text was not found,
	// so the patch could not be applied. Skips do not abort the others.
	StatusSkipped PatchStatus = "skipped"
)

// Result pairs a patch with its outcome.
type Result struct {
	Patch  string
	Status PatchStatus
	Detail string
}

// LocatePackage finds the installed package directory inside an
// isolated environment's site-packages. Both layout conventions are
// probed: Lib/site-packages (Windows) and lib/python*/site-packages.
func LocatePackage(venvDir, pkg string) (string, error) {
	candidates := []string{filepath.Join(venvDir, "Lib", "site-packages", pkg)}

	matches, _ := filepath.Glob(filepath.Join(venvDir, "lib", "python*", "site-packages", pkg))
	candidates = append(candidates, matches...)

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("package %q not found in site-packages under %s", pkg, venvDir)
}

// Patcher applies and restores patches within one package directory.
type Patcher struct {
	packageDir string
}

// New creates a Patcher for the given installed package directory.
func New(packageDir string) *Patcher {
	return &Patcher{packageDir: packageDir}
}

// ApplyAll applies every known patch in order, returning one Result per
// patch. A skipped or failed patch never prevents the remaining patches
// from being attempted; the error return is reserved for problems with
// the backup directory itself.
func (p *Patcher) ApplyAll() ([]Result, error) {
	if err := os.MkdirAll(filepath.Join(p.packageDir, backupDirName), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create backup directory: %w", err)
	}

	results := make([]Result, 0, len(Patches))
	for _, patch := range Patches {
		results = append(results, p.apply(patch))
	}
	return results, nil
}

// apply performs a single marker-guarded substitution.
func (p *Patcher) apply(patch Patch) Result {
	target := filepath.Join(p.packageDir, filepath.FromSlash(patch.File))

	raw, err := os.ReadFile(target)
	if err != nil {
		return Result{Patch: patch.Name, Status: StatusSkipped,
			Detail: fmt.Sprintf("target file %s not readable: %v", patch.File, err)}
	}
	content := string(raw)

	if strings.Contains(content, patch.Marker) {
		return Result{Patch: patch.Name, Status: StatusAlreadyApplied}
	}
	if !strings.Contains(content, patch.Anchor) {
		return Result{Patch: patch.Name, Status: StatusSkipped,
			Detail: "anchor text not found; library build may differ from the expected version"}
	}

	// Back up the pristine file before the first modification.
	if err := p.backup(patch.File, raw); err != nil {
		return Result{Patch: patch.Name, Status: StatusSkipped,
			Detail: fmt.Sprintf("backup failed, refusing to modify: %v", err)}
	}

	patched := strings.Replace(content, patch.Anchor, patch.Replacement, 1)
	if err := os.WriteFile(target, []byte(patched), 0o644); err != nil {
		return Result{Patch: patch.Name, Status: StatusSkipped,
			Detail: fmt.Sprintf("write failed: %v", err)}
	}

	return Result{Patch: patch.Name, Status: StatusApplied}
}

// backup stores the original file content under original_backup,
// preserving the relative path. An existing backup is never overwritten:
// the first-seen content is the pristine one.
func (p *Patcher) backup(relFile string, content []byte) error {
	dst := filepath.Join(p.packageDir, backupDirName, filepath.FromSlash(relFile))
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0o644)
}

// Restore copies every backed-up original over the installed files,
// undoing all applied patches. Returns the restored relative paths.
func (p *Patcher) Restore() ([]string, error) {
	backupDir := filepath.Join(p.packageDir, backupDirName)
	if _, err := os.Stat(backupDir); err != nil {
		return nil, fmt.Errorf("no backup directory found at %s — nothing to restore", backupDir)
	}

	var restored []string
	err := filepath.Walk(backupDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		rel, err := filepath.Rel(backupDir, path)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		target := filepath.Join(p.packageDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return err
		}

		restored = append(restored, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return restored, fmt.Errorf("restore failed: %w", err)
	}
	return restored, nil
}

// List reports, without modifying anything, whether each known patch is
// currently applied.
func (p *Patcher) List() []Result {
	results := make([]Result, 0, len(Patches))
	for _, patch := range Patches {
		target := filepath.Join(p.packageDir, filepath.FromSlash(patch.File))

		raw, err := os.ReadFile(target)
		switch {
		case err != nil:
			results = append(results, Result{Patch: patch.Name, Status: StatusSkipped,
				Detail: fmt.Sprintf("target file %s not readable", patch.File)})
		case strings.Contains(string(raw), patch.Marker):
			results = append(results, Result{Patch: patch.Name, Status: StatusAlreadyApplied})
		default:
			results = append(results, Result{Patch: patch.Name, Status: StatusNotApplied})
		}
	}
	return results
}
