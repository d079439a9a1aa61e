package pyruntime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hula-robotics/pyhula-setup/internal/execx"
	"github.com/hula-robotics/pyhula-setup/internal/model"
)

// fakeRunner scripts the output of version probes. The versions map is
// keyed by interpreter path; a missing key simulates a broken binary.
type fakeRunner struct {
	versions map[string]string
	calls    []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (execx.Result, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	banner, ok := f.versions[name]
	if !ok {
		return execx.Result{ExitCode: 1, Stderr: "not a python"}, errors.New("probe failed")
	}
	return execx.Result{ExitCode: 0, Stdout: banner + "\n"}, nil
}

// writeFakeInterpreter creates an empty file so the stat-based existence
// check passes; the fakeRunner supplies the version banner.
func writeFakeInterpreter(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

// TestLocate_CandidatePathMatch verifies that a candidate location whose
// interpreter reports the required major.minor is selected.
func TestLocate_CandidatePathMatch(t *testing.T) {
	dir := t.TempDir()
	candidate := writeFakeInterpreter(t, dir, "python3.6")

	runner := &fakeRunner{versions: map[string]string{candidate: "Python 3.6.8"}}
	loc := NewLocator(runner).WithLookPath(func(string) (string, error) {
		return "", errors.New("not on PATH")
	})

	info, err := loc.Locate(context.Background(), []string{candidate}, "3.6")
	require.NoError(t, err)

	assert.Equal(t, candidate, info.Path)
	assert.Equal(t, "3.6.8", info.Version)
	assert.Equal(t, model.SourceCandidatePath, info.Source)
}

// TestLocate_PrefersCandidateOverSearchPath verifies the ordering
// property: a versioned candidate-path install wins even when PATH has
// an interpreter that would also match.
func TestLocate_PrefersCandidateOverSearchPath(t *testing.T) {
	dir := t.TempDir()
	candidate := writeFakeInterpreter(t, dir, "python3.6")
	pathHit := writeFakeInterpreter(t, dir, "python")

	runner := &fakeRunner{versions: map[string]string{
		candidate: "Python 3.6.8",
		pathHit:   "Python 3.6.5",
	}}
	loc := NewLocator(runner).WithLookPath(func(string) (string, error) {
		return pathHit, nil
	})

	info, err := loc.Locate(context.Background(), []string{candidate}, "3.6")
	require.NoError(t, err)

	assert.Equal(t, candidate, info.Path)
	assert.Equal(t, model.SourceCandidatePath, info.Source)
}

// TestLocate_VersionMismatchFallsThrough verifies that a candidate with
// the wrong version is rejected and PATH discovery proceeds.
func TestLocate_VersionMismatchFallsThrough(t *testing.T) {
	dir := t.TempDir()
	wrong := writeFakeInterpreter(t, dir, "python-wrong")
	right := writeFakeInterpreter(t, dir, "python3")

	runner := &fakeRunner{versions: map[string]string{
		wrong: "Python 3.12.1",
		right: "Python 3.6.8",
	}}
	loc := NewLocator(runner).WithLookPath(func(name string) (string, error) {
		if name == "python3" {
			return right, nil
		}
		return "", errors.New("not found")
	})

	info, err := loc.Locate(context.Background(), []string{wrong}, "3.6")
	require.NoError(t, err)

	assert.Equal(t, right, info.Path)
	assert.Equal(t, model.SourceSearchPath, info.Source)
}

// TestLocate_NotFound verifies the sentinel error when nothing matches.
func TestLocate_NotFound(t *testing.T) {
	runner := &fakeRunner{versions: map[string]string{}}
	loc := NewLocator(runner).WithLookPath(func(string) (string, error) {
		return "", errors.New("not found")
	})

	_, err := loc.Locate(context.Background(), []string{"/nonexistent/python"}, "3.6")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	// The nonexistent candidate must be skipped without a probe.
	assert.Empty(t, runner.calls)
}

// TestParseVersion covers banner parsing for both Python 2-style
// (stderr) and Python 3-style (stdout) output, which Locate concatenates.
func TestParseVersion(t *testing.T) {
	tests := []struct {
		output   string
		expected string
	}{
		{"Python 3.6.8\n", "3.6.8"},
		{"Python 3.12.1", "3.12.1"},
		{"Python 2.7", "2.7"},
		{"not a banner", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseVersion(tt.output))
		})
	}
}

// TestMatchesMajorMinor verifies the series check used to accept probes.
func TestMatchesMajorMinor(t *testing.T) {
	assert.True(t, matchesMajorMinor("3.6.8", "3.6"))
	assert.True(t, matchesMajorMinor("3.6", "3.6"))
	assert.False(t, matchesMajorMinor("3.12.1", "3.6"))
	// "3.6" must not match "3.60.x" by prefix accident.
	assert.False(t, matchesMajorMinor("3.60.1", "3.6"))
}

// TestDefaultCandidates verifies the well-known locations include both
// Windows-style and POSIX-style paths for the requested version.
func TestDefaultCandidates(t *testing.T) {
	candidates := DefaultCandidates("3.6")

	assert.Contains(t, candidates, `C:\Python36\python.exe`)
	assert.Contains(t, candidates, "/usr/bin/python3.6")
}
