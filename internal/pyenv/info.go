package pyenv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sparda104/scholarone-launcher/internal/runner"
)

// Info describes an existing environment, read from its pyvenv.cfg.
type Info struct {
	// Home is the base interpreter's directory.
	Home string

	// Version is the Python version the environment was created with.
	Version string

	// Executable is the base interpreter path, when recorded.
	Executable string
}

// ReadInfo parses the environment's pyvenv.cfg. Returns ErrEnvMissing when
// the environment directory is absent.
func (e Env) ReadInfo() (Info, error) {
	if !e.Exists() {
		return Info{}, ErrEnvMissing
	}

	data, err := os.ReadFile(filepath.Join(e.Dir, "pyvenv.cfg"))
	if err != nil {
		return Info{}, fmt.Errorf("reading pyvenv.cfg: %w", err)
	}

	var info Info
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "home":
			info.Home = value
		case "version", "version_info":
			info.Version = value
		case "executable":
			info.Executable = value
		}
	}
	return info, nil
}

// Package is one installed distribution as reported by pip.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InstalledPackages lists the environment's installed distributions via
// "pip list --format=json". Returns ErrEnvMissing when the environment
// directory is absent.
func (e Env) InstalledPackages(ctx context.Context, r runner.Runner) ([]Package, error) {
	if !e.Exists() {
		return nil, ErrEnvMissing
	}

	out, err := runner.Output(ctx, r, runner.Cmd{
		Name: e.Python(),
		Args: []string{"-m", "pip", "list", "--format=json"},
		Dir:  e.Root,
	})
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}

	var pkgs []Package
	if err := json.Unmarshal([]byte(out), &pkgs); err != nil {
		return nil, fmt.Errorf("parsing pip list output: %w", err)
	}
	return pkgs, nil
}
