package artifact

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerate_ProducesFixedFileSet verifies that exactly the advertised
// artifact set is written: two launcher scripts per shell variant plus
// the smoke-test script.
func TestGenerate_ProducesFixedFileSet(t *testing.T) {
	installDir := t.TempDir()
	venvDir := filepath.Join(installDir, "venv")

	names, err := Generate(installDir, venvDir)
	require.NoError(t, err)

	expected := []string{
		"activate.sh",
		"activate.bat",
		"pyhula-console.sh",
		"pyhula-console.bat",
		"smoke_test.py",
	}
	assert.Equal(t, expected, names)
	assert.Equal(t, expected, FileNames())

	// Every advertised file exists, and nothing else was generated.
	entries, err := os.ReadDir(installDir)
	require.NoError(t, err)
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	assert.ElementsMatch(t, expected, files)
}

// TestGenerate_EmbedsEnvironmentPath verifies the launcher scripts point
// at the environment they were generated for.
func TestGenerate_EmbedsEnvironmentPath(t *testing.T) {
	installDir := t.TempDir()
	venvDir := filepath.Join(installDir, "venv")

	_, err := Generate(installDir, venvDir)
	require.NoError(t, err)

	sh, err := os.ReadFile(filepath.Join(installDir, "activate.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(sh), venvDir+"/bin/activate")

	bat, err := os.ReadFile(filepath.Join(installDir, "activate.bat"))
	require.NoError(t, err)
	assert.Contains(t, string(bat), venvDir)
	assert.Contains(t, string(bat), `Scripts\activate.bat`)
}

// TestGenerate_SmokeTestContent verifies the generated smoke test
// exercises the advertised entry points.
func TestGenerate_SmokeTestContent(t *testing.T) {
	installDir := t.TempDir()

	_, err := Generate(installDir, filepath.Join(installDir, "venv"))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(installDir, "smoke_test.py"))
	require.NoError(t, err)

	assert.Contains(t, string(content), "import pyhula")
	assert.Contains(t, string(content), "get_version")
	assert.Contains(t, string(content), "UserApi")
}

// TestGenerate_ShellScriptsExecutable verifies the POSIX launchers carry
// the executable bit.
func TestGenerate_ShellScriptsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	installDir := t.TempDir()
	_, err := Generate(installDir, filepath.Join(installDir, "venv"))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(installDir, "activate.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "activate.sh should be executable")
}

// TestCopyDocs verifies top-level files are copied and directories skipped.
func TestCopyDocs(t *testing.T) {
	srcDir := t.TempDir()
	installDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "README.md"), []byte("# PyHula\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "examples.py"), []byte("import pyhula\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "nested"), 0o755))

	copied, err := CopyDocs(srcDir, installDir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"README.md", "examples.py"}, copied)

	content, err := os.ReadFile(filepath.Join(installDir, "docs", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# PyHula\n", string(content))
}

// TestCopyDocs_MissingSource verifies a bundle without docs is not an error.
func TestCopyDocs_MissingSource(t *testing.T) {
	copied, err := CopyDocs(filepath.Join(t.TempDir(), "no-docs"), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, copied)
}
