// Package pyruntime locates and, when necessary, installs the Python
// runtime required by the PyHula environment.
//
// Discovery is a two-phase probe with a strict preference order:
//  1. An ordered list of well-known filesystem locations. A hit here is
//     a versioned install the user (or this tool) placed deliberately.
//  2. The executable search path, trying versioned interpreter names
//     before unversioned ones.
//
// A candidate only matches when the interpreter itself reports the
// required major.minor version; file names are never trusted.
package pyruntime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
	"github.com/hula-robotics/pyhula-setup/internal/model"
)

// ErrNotFound is the sentinel returned by Locate when no candidate
// interpreter reports the required version. Callers use errors.Is to
// decide whether to fall through to the bundled installer.
var ErrNotFound = errors.New("no matching Python runtime found")

// versionRe extracts the version number from interpreter output such as
// "Python 3.6.8". Python 2 printed the banner to stderr, Python 3 prints
// it to stdout, so callers probe both streams.
var versionRe = regexp.MustCompile(`Python (\d+\.\d+(?:\.\d+)?)`)

// Locator probes the filesystem and search path for a matching interpreter.
type Locator struct {
	runner execx.Runner

	// lookPath resolves a bare executable name via the search path.
	// Overridable in tests; defaults to exec.LookPath.
	lookPath func(file string) (string, error)

	// stat checks candidate paths for existence.
	// Overridable in tests; defaults to os.Stat.
	stat func(name string) (os.FileInfo, error)
}

// NewLocator creates a Locator that uses the given Runner for version probes.
func NewLocator(runner execx.Runner) *Locator {
	return &Locator{
		runner:   runner,
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}
}

// WithLookPath replaces the search-path resolver. Tests use this to
// simulate PATH contents without touching the real environment.
func (l *Locator) WithLookPath(fn func(file string) (string, error)) *Locator {
	l.lookPath = fn
	return l
}

// WithStat replaces the existence check used for candidate paths.
func (l *Locator) WithStat(fn func(name string) (os.FileInfo, error)) *Locator {
	l.stat = fn
	return l
}

// DefaultCandidates returns the ordered well-known install locations for
// the given major.minor version. Windows paths come first because the
// classroom bundle targets Windows installs; the POSIX paths make the
// tool usable on lab Linux/macOS machines. Non-existent entries are
// skipped cheaply via stat, so listing paths for foreign platforms is
// harmless.
func DefaultCandidates(version string) []string {
	compact := strings.ReplaceAll(version, ".", "") // "3.6" → "36"

	candidates := []string{
		fmt.Sprintf(`C:\Python%s\python.exe`, compact),
		fmt.Sprintf(`C:\Program Files\Python%s\python.exe`, compact),
	}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		candidates = append(candidates,
			filepath.Join(localAppData, "Programs", "Python", "Python"+compact, "python.exe"))
	}
	candidates = append(candidates,
		"/usr/local/bin/python"+version,
		"/usr/bin/python"+version,
	)
	return candidates
}

// Locate finds the first interpreter that reports the required
// major.minor version. Candidate paths are checked in order before the
// search path, so an explicit versioned install is always preferred over
// whatever "python" happens to resolve to on PATH.
//
// Returns ErrNotFound (wrapped) when nothing matches. There are no
// retries and no caching — each call probes fresh.
func (l *Locator) Locate(ctx context.Context, candidates []string, version string) (*model.RuntimeInfo, error) {
	// Phase 1: well-known filesystem locations, in order.
	for _, candidate := range candidates {
		if _, err := l.stat(candidate); err != nil {
			continue
		}
		full, ok := l.probe(ctx, candidate, version)
		if ok {
			return &model.RuntimeInfo{
				Path:    candidate,
				Version: full,
				Source:  model.SourceCandidatePath,
			}, nil
		}
	}

	// Phase 2: search-path lookup, versioned names first so that e.g.
	// "python3.6" wins over an unversioned "python" pointing at 3.12.
	names := []string{"python" + version, "python3", "python"}
	for _, name := range names {
		path, err := l.lookPath(name)
		if err != nil {
			continue
		}
		full, ok := l.probe(ctx, path, version)
		if ok {
			return &model.RuntimeInfo{
				Path:    path,
				Version: full,
				Source:  model.SourceSearchPath,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w (required version %s)", ErrNotFound, version)
}

// probe runs `<interpreter> --version` and reports whether the full
// version string matches the required major.minor. The full version is
// returned for the receipt.
func (l *Locator) probe(ctx context.Context, interpreter, required string) (string, bool) {
	result, err := l.runner.Run(ctx, "", interpreter, "--version")
	if err != nil {
		return "", false
	}

	full := parseVersion(result.Stdout + result.Stderr)
	if full == "" {
		return "", false
	}
	return full, matchesMajorMinor(full, required)
}

// parseVersion extracts "X.Y.Z" from interpreter banner output.
// Returns "" when the output doesn't look like a Python version banner.
func parseVersion(output string) string {
	m := versionRe.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return m[1]
}

// matchesMajorMinor reports whether the full version (e.g., "3.6.8")
// belongs to the required major.minor series (e.g., "3.6").
func matchesMajorMinor(full, required string) bool {
	return full == required || strings.HasPrefix(full, required+".")
}
