package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.EnvDir != ".venv" {
		t.Errorf("EnvDir = %q, want .venv", cfg.EnvDir)
	}
	if cfg.Manifest != "requirements.txt" {
		t.Errorf("Manifest = %q, want requirements.txt", cfg.Manifest)
	}
	if !strings.HasSuffix(cfg.Entry, "scholarone_gui_app.py") {
		t.Errorf("Entry = %q, want GUI entry script", cfg.Entry)
	}
	if cfg.Git.Branch != "main" {
		t.Errorf("Git.Branch = %q, want main", cfg.Git.Branch)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launcher.toml")
	content := `
project_root = "/data/s1"
env_dir = "venv"
base_python = "python3.12"

[git]
remote = "git@github.com:example/s1.git"
branch = "develop"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ProjectRoot != "/data/s1" {
		t.Errorf("ProjectRoot = %q", cfg.ProjectRoot)
	}
	if cfg.EnvDir != "venv" {
		t.Errorf("EnvDir = %q", cfg.EnvDir)
	}
	if cfg.BasePython != "python3.12" {
		t.Errorf("BasePython = %q", cfg.BasePython)
	}
	if cfg.Git.Remote != "git@github.com:example/s1.git" || cfg.Git.Branch != "develop" {
		t.Errorf("Git = %+v", cfg.Git)
	}
	// untouched fields keep their defaults
	if cfg.Manifest != "requirements.txt" {
		t.Errorf("Manifest = %q, want default", cfg.Manifest)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EnvDir != ".venv" {
		t.Errorf("EnvDir = %q, want default", cfg.EnvDir)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launcher.toml")
	if err := os.WriteFile(path, []byte("env_dir = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for malformed TOML")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"S1LAUNCHER_ROOT":       "/override/root",
		"S1LAUNCHER_ENV_DIR":    "envdir",
		"S1LAUNCHER_PYTHON":     "python3.11",
		"S1LAUNCHER_GIT_BRANCH": "test",
	}
	cfg.applyEnv(func(k string) string { return env[k] })

	if cfg.ProjectRoot != "/override/root" {
		t.Errorf("ProjectRoot = %q", cfg.ProjectRoot)
	}
	if cfg.EnvDir != "envdir" {
		t.Errorf("EnvDir = %q", cfg.EnvDir)
	}
	if cfg.BasePython != "python3.11" {
		t.Errorf("BasePython = %q", cfg.BasePython)
	}
	if cfg.Git.Branch != "test" {
		t.Errorf("Git.Branch = %q", cfg.Git.Branch)
	}
	// unset overrides leave values alone
	if cfg.Manifest != "requirements.txt" {
		t.Errorf("Manifest = %q, want default", cfg.Manifest)
	}
}

func TestResolveRootExplicit(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.ProjectRoot = dir

	got, err := cfg.ResolveRoot()
	if err != nil {
		t.Fatalf("ResolveRoot() error = %v", err)
	}
	if got != dir {
		t.Errorf("ResolveRoot() = %q, want %q", got, dir)
	}
}

func TestResolveRootManifestInCwd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg := Default()
	got, err := cfg.ResolveRoot()
	if err != nil {
		t.Fatalf("ResolveRoot() error = %v", err)
	}
	// resolve symlinks: on darwin TempDir may be behind /private
	want, _ := filepath.EvalSymlinks(dir)
	gotEval, _ := filepath.EvalSymlinks(got)
	if gotEval != want {
		t.Errorf("ResolveRoot() = %q, want cwd %q", got, dir)
	}
}
