// Package artifact generates the launcher scripts and smoke-test script
// written into the install directory, and copies the bundled
// documentation files.
//
// Generation is pure string templating from (install path, environment
// path) to file content — the templates live in templates.go as data,
// separate from this control flow, so the generated content can be
// tested without executing any script.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
)

// Generate renders the fixed artifact set into the install directory
// and returns the generated file names. There is no validation beyond
// the write itself.
func Generate(installDir, venvDir string) ([]string, error) {
	data := templateData{
		InstallDir: installDir,
		VenvDir:    venvDir,
	}

	names := make([]string, 0, len(fileTemplates))
	for _, ft := range fileTemplates {
		tmpl, err := template.New(ft.Name).Parse(ft.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid template %s: %w", ft.Name, err)
		}

		out, err := os.OpenFile(filepath.Join(installDir, ft.Name),
			os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(ft.Mode))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", ft.Name, err)
		}

		execErr := tmpl.Execute(out, data)
		closeErr := out.Close()
		if execErr != nil {
			return nil, fmt.Errorf("failed to render %s: %w", ft.Name, execErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to write %s: %w", ft.Name, closeErr)
		}

		names = append(names, ft.Name)
	}

	return names, nil
}

// CopyDocs copies the bundled documentation/example files from srcDir
// into <installDir>/docs and returns the copied file names. Only regular
// files at the top level are copied — the docs bundle is flat.
//
// A missing source directory is not an error: the bundle may ship
// without docs, and documentation is a non-fatal concern throughout the
// workflow.
func CopyDocs(srcDir, installDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read docs directory %s: %w", srcDir, err)
	}

	dstDir := filepath.Join(installDir, "docs")
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create docs directory: %w", err)
	}

	var copied []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(srcDir, entry.Name()), filepath.Join(dstDir, entry.Name())); err != nil {
			return copied, err
		}
		copied = append(copied, entry.Name())
	}

	return copied, nil
}

// copyFile copies a single regular file, preserving nothing but content.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to copy %s: %w", src, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to write %s: %w", dst, closeErr)
	}
	return nil
}
