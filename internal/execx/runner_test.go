package execx

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun_Success verifies that a successful command returns exit code 0
// and its captured stdout.
func TestRun_Success(t *testing.T) {
	r := NewRunner()

	result, err := r.Run(context.Background(), "", "sh", "-c", "echo hello")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Empty(t, result.Stderr)
}

// TestRun_NonZeroExit verifies that a failing command reports its exit
// code and folds stderr into the returned error.
func TestRun_NonZeroExit(t *testing.T) {
	r := NewRunner()

	result, err := r.Run(context.Background(), "", "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)

	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Stderr, "boom")
	assert.Contains(t, err.Error(), "boom")
}

// TestRun_WorkingDirectory verifies that the dir parameter controls the
// child's working directory.
func TestRun_WorkingDirectory(t *testing.T) {
	r := NewRunner()
	dir := t.TempDir()

	result, err := r.Run(context.Background(), dir, "pwd")
	require.NoError(t, err)

	// macOS may report /private-prefixed tmp paths, so compare suffixes.
	assert.True(t, strings.HasSuffix(strings.TrimSpace(result.Stdout), strings.TrimPrefix(dir, "/private")),
		"pwd output %q should end with %q", result.Stdout, dir)
}

// TestRun_ExecutableNotFound verifies that a missing executable yields
// exit code -1 (process never started) and an error.
func TestRun_ExecutableNotFound(t *testing.T) {
	r := NewRunner()

	result, err := r.Run(context.Background(), "", "definitely-not-a-real-binary-xyz")
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
}
