package artifact

// templateData is the complete input to artifact generation: everything
// the templates may reference. Generation is a pure function from this
// struct to file contents, which keeps the templates testable without
// executing any of the generated scripts.
type templateData struct {
	// InstallDir is the install root directory.
	InstallDir string

	// VenvDir is the isolated environment directory.
	VenvDir string
}

// fileTemplate pairs a generated file name with its template body.
// Templates are data, deliberately separated from the generation control
// flow.
type fileTemplate struct {
	// Name is the file name created inside the install directory.
	Name string

	// Mode is the file permission; launcher shell scripts are executable.
	Mode uint32

	// Body is the text/template source.
	Body string
}

// fileTemplates is the fixed artifact set: an activation script and an
// interactive console launcher for each shell variant (POSIX sh and
// Windows batch), plus the generated smoke-test script. The install
// workflow writes exactly these files, nothing else.
var fileTemplates = []fileTemplate{
	{
		Name: "activate.sh",
		Mode: 0o755,
		Body: `#!/bin/sh
# Activate the PyHula environment in the current shell:
#   . {{.InstallDir}}/activate.sh
. "{{.VenvDir}}/bin/activate"
echo "PyHula environment active. Run 'deactivate' to leave it."
`,
	},
	{
		Name: "activate.bat",
		Mode: 0o644,
		Body: `@echo off
rem Activate the PyHula environment in the current console.
call "{{.VenvDir}}\Scripts\activate.bat"
echo PyHula environment active. Run "deactivate" to leave it.
`,
	},
	{
		Name: "pyhula-console.sh",
		Mode: 0o755,
		Body: `#!/bin/sh
# Start an interactive Python console inside the PyHula environment.
exec "{{.VenvDir}}/bin/python" "$@"
`,
	},
	{
		Name: "pyhula-console.bat",
		Mode: 0o644,
		Body: `@echo off
rem Start an interactive Python console inside the PyHula environment.
"{{.VenvDir}}\Scripts\python.exe" %*
`,
	},
	{
		Name: "smoke_test.py",
		Mode: 0o644,
		Body: `"""Post-install smoke test for the PyHula environment.

Run inside the activated environment:
    python smoke_test.py

Checks imports and a couple of advertised entry points. It does not
assert full correctness and it never needs a drone connected.
"""

import sys


def check(name, fn):
    try:
        fn()
        print("[ok]   " + name)
        return True
    except Exception as exc:
        print("[fail] " + name + ": " + str(exc))
        return False


def main():
    results = []

    def import_pyhula():
        import pyhula  # noqa: F401

    results.append(check("import pyhula", import_pyhula))

    def version():
        import pyhula
        print("       version: " + pyhula.get_version().strip())

    results.append(check("pyhula.get_version()", version))

    def user_api():
        import pyhula
        pyhula.UserApi()

    results.append(check("pyhula.UserApi()", user_api))

    for pkg in ("numpy", "matplotlib"):
        results.append(check("import " + pkg, lambda p=pkg: __import__(p)))

    failed = results.count(False)
    print("%d/%d checks passed" % (len(results) - failed, len(results)))
    sys.exit(1 if failed else 0)


if __name__ == "__main__":
    main()
`,
	},
}

// FileNames returns the names of all generated artifacts, in generation
// order. The receipt records this list and tests assert against it.
func FileNames() []string {
	names := make([]string, 0, len(fileTemplates))
	for _, ft := range fileTemplates {
		names = append(names, ft.Name)
	}
	return names
}
