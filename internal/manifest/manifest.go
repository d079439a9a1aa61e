// Package manifest loads the provisioning manifest that drives the
// install workflow.
//
// The manifest is JSONC (JSON with Comments) so instructors can annotate
// the package list and paths in the file students receive. Comments are
// stripped with github.com/tidwall/jsonc before parsing with the
// standard encoding/json library.
//
// Every value has a built-in default matching the classroom bundle
// layout; a missing manifest file is not an error. All values are
// threaded explicitly through function parameters downstream — the
// manifest is the single place ambient configuration enters the program.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
)

// DefaultFileName is the manifest file looked up next to the working
// directory when --manifest is not given.
const DefaultFileName = "provision.jsonc"

// Manifest describes everything the install workflow consumes:
// the required runtime version, the dependency list, and the locations
// of the vendored artifacts shipped in the bundle.
type Manifest struct {
	// PythonVersion is the required interpreter major.minor series.
	// PyHula wheels are built for CPython 3.6 specifically.
	PythonVersion string `json:"pythonVersion"`

	// Packages is the fixed ordered list of optional dependencies
	// installed before the vendored wheel. Individual failures are
	// non-fatal.
	Packages []string `json:"packages"`

	// Wheel is the path to the vendored PyHula package archive,
	// relative to the working directory of the invocation.
	Wheel string `json:"wheel"`

	// InstallerPath is the path to the bundled native runtime installer.
	InstallerPath string `json:"installerPath"`

	// InstallerArgs is the silent-install argument list. Empty means
	// the built-in default set.
	InstallerArgs []string `json:"installerArgs"`

	// DocsDir is the directory of documentation/example files copied
	// into the install directory. Copy failures are non-fatal.
	DocsDir string `json:"docsDir"`
}

// versionRe validates the required-version field: major.minor only.
// Patch-level pinning is intentionally not supported — discovery matches
// a series, not an exact build.
var versionRe = regexp.MustCompile(`^\d+\.\d+$`)

// Default returns the built-in manifest matching the classroom bundle
// layout. The package list comes from the PyHula course material:
// numpy and matplotlib for flight-data exercises, jupyter for notebooks,
// cython because the PyHula wheel loads compiled extension modules.
func Default() Manifest {
	return Manifest{
		PythonVersion: "3.6",
		Packages:      []string{"numpy", "matplotlib", "jupyter", "cython"},
		Wheel:         "wheels/pyhula-1.1.8-py3-none-any.whl",
		InstallerPath: "installer/python-3.6.8-amd64.exe",
		InstallerArgs: nil, // pyruntime.DefaultInstallerArgs applies
		DocsDir:       "docs",
	}
}

// Load reads and parses a manifest file. Fields absent from the file
// keep their defaults, so a minimal manifest can override just the
// package list. A file that exists but cannot be parsed or validated
// is an error — silently falling back to defaults would mask typos.
func Load(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	// Start from defaults and let the file override field by field.
	m := Default()

	clean := jsonc.ToJSON(raw)
	if err := json.Unmarshal(clean, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// LoadOrDefault loads the manifest at path, or at DefaultFileName when
// path is empty. A missing file at the default location yields the
// built-in defaults; a missing file at an explicitly requested path is
// an error, because the user asked for that specific file.
func LoadOrDefault(path string) (Manifest, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}

	return Load(path)
}

// Validate checks the manifest for values the workflow cannot work with.
func (m Manifest) Validate() error {
	if !versionRe.MatchString(m.PythonVersion) {
		return fmt.Errorf("pythonVersion %q must be major.minor (e.g., \"3.6\")", m.PythonVersion)
	}
	if m.Wheel == "" {
		return fmt.Errorf("wheel path must not be empty")
	}
	for _, pkg := range m.Packages {
		if strings.TrimSpace(pkg) == "" {
			return fmt.Errorf("packages list contains an empty name")
		}
	}
	return nil
}
