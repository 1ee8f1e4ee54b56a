// Package config loads launcher settings from an optional TOML file in the
// project root, with environment variable overrides. Everything has a
// working default so a bare checkout needs no configuration at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Sparda104/scholarone-launcher/internal/launch"
	"github.com/Sparda104/scholarone-launcher/internal/manifest"
)

// DefaultFileName is the config file looked up in the project root.
const DefaultFileName = "launcher.toml"

const envPrefix = "S1LAUNCHER_"

// Git configures the sync target.
type Git struct {
	// Remote is the origin URL added when the repo has none.
	Remote string `toml:"remote"`

	// Branch is the branch synced with the remote.
	Branch string `toml:"branch"`
}

// Config is the launcher configuration.
type Config struct {
	// ProjectRoot is the project directory. Empty means auto-resolve.
	ProjectRoot string `toml:"project_root"`

	// EnvDir is the environment directory name, relative to the root.
	EnvDir string `toml:"env_dir"`

	// BasePython overrides base interpreter discovery for bootstrap.
	BasePython string `toml:"base_python"`

	// Entry is the GUI application's entry script.
	Entry string `toml:"entry"`

	// Manifest is the requirements file, relative to the root.
	Manifest string `toml:"manifest"`

	Git Git `toml:"git"`
}

// Default returns the configuration for a conventional checkout.
func Default() Config {
	return Config{
		EnvDir:   ".venv",
		Entry:    launch.DefaultEntry,
		Manifest: manifest.DefaultPath,
		Git: Git{
			Remote: "https://github.com/Sparda104/S1-API-Project.git",
			Branch: "main",
		},
	}
}

// Load reads the config file at path and applies S1LAUNCHER_* environment
// overrides on top. A missing file yields the defaults; a malformed file is
// an error. Empty path means DefaultFileName in the working directory.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultFileName
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// applyEnv overlays environment overrides. getenv is injected for tests.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	set(&c.ProjectRoot, "ROOT")
	set(&c.EnvDir, "ENV_DIR")
	set(&c.BasePython, "PYTHON")
	set(&c.Entry, "ENTRY")
	set(&c.Manifest, "MANIFEST")
	set(&c.Git.Remote, "GIT_REMOTE")
	set(&c.Git.Branch, "GIT_BRANCH")
}

// ResolveRoot picks the project root. An explicit ProjectRoot wins. Then
// the working directory when it holds the manifest, then conventional
// checkout locations under the home directory, then the working directory
// as a last resort.
func (c Config) ResolveRoot() (string, error) {
	if c.ProjectRoot != "" {
		return filepath.Abs(c.ProjectRoot)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if fileExists(filepath.Join(cwd, c.Manifest)) {
		return cwd, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidates := []string{
			filepath.Join(home, "OneDrive - Informs", "ScholarOne-Tools"),
			filepath.Join(home, "ScholarOne-Tools"),
		}
		for _, cand := range candidates {
			if dirExists(cand) {
				return cand, nil
			}
		}
	}

	return cwd, nil
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
