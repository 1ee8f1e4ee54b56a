// Package pyenv manages the project's Python virtual environment: the
// directory that holds an interpreter and the installed dependencies,
// conventionally at .venv under the project root.
package pyenv

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DefaultDirName is the conventional environment directory name.
const DefaultDirName = ".venv"

// Env locates a virtual environment on disk. The zero value is not useful;
// construct with New.
type Env struct {
	// Root is the absolute project root directory.
	Root string

	// Dir is the absolute environment directory.
	Dir string
}

// New returns an Env for the given project root. dirName is the environment
// directory name relative to root; empty means DefaultDirName. An absolute
// dirName is used as-is.
func New(root, dirName string) Env {
	if dirName == "" {
		dirName = DefaultDirName
	}
	dir := dirName
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return Env{Root: root, Dir: dir}
}

// Exists reports whether the environment directory is present. This is the
// launcher's only precondition.
func (e Env) Exists() bool {
	info, err := os.Stat(e.Dir)
	return err == nil && info.IsDir()
}

// BinDir returns the directory holding the environment's executables
// (bin on unix, Scripts on Windows).
func (e Env) BinDir() string { return binDir(runtime.GOOS, e.Dir) }

// Python returns the path to the environment's interpreter.
func (e Env) Python() string { return pythonPath(runtime.GOOS, e.Dir) }

func binDir(goos, envDir string) string {
	if goos == "windows" {
		return filepath.Join(envDir, "Scripts")
	}
	return filepath.Join(envDir, "bin")
}

func pythonPath(goos, envDir string) string {
	name := "python"
	if goos == "windows" {
		name = "python.exe"
	}
	return filepath.Join(binDir(goos, envDir), name)
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// FindBasePython locates the interpreter used to create the environment.
// override, when non-empty, must resolve or the lookup fails; otherwise
// per-OS candidates are tried in order.
func FindBasePython(override string) (string, error) {
	if override != "" {
		p, err := lookPath(override)
		if err != nil {
			return "", ErrNoInterpreter
		}
		return p, nil
	}
	for _, cand := range basePythonCandidates(runtime.GOOS) {
		if p, err := lookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", ErrNoInterpreter
}

func basePythonCandidates(goos string) []string {
	if goos == "windows" {
		return []string{"py", "python", "python3"}
	}
	return []string{"python3", "python"}
}
