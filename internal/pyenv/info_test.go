package pyenv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sparda104/scholarone-launcher/internal/runner"
)

func TestReadInfo(t *testing.T) {
	root := t.TempDir()
	e := New(root, "")
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := "home = /usr/bin\n" +
		"include-system-site-packages = false\n" +
		"version = 3.12.4\n" +
		"executable = /usr/bin/python3.12\n"
	if err := os.WriteFile(filepath.Join(e.Dir, "pyvenv.cfg"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := e.ReadInfo()
	if err != nil {
		t.Fatalf("ReadInfo() error = %v", err)
	}
	if info.Home != "/usr/bin" {
		t.Errorf("Home = %q", info.Home)
	}
	if info.Version != "3.12.4" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Executable != "/usr/bin/python3.12" {
		t.Errorf("Executable = %q", info.Executable)
	}
}

func TestReadInfoMissingEnv(t *testing.T) {
	e := New(t.TempDir(), "")
	_, err := e.ReadInfo()
	if !errors.Is(err, ErrEnvMissing) {
		t.Errorf("ReadInfo() error = %v, want ErrEnvMissing", err)
	}
}

type outputRunner struct {
	out  string
	err  error
	last runner.Cmd
}

func (o *outputRunner) Run(_ context.Context, c runner.Cmd) error {
	o.last = c
	if c.Stdout != nil {
		c.Stdout.Write([]byte(o.out))
	}
	return o.err
}

func TestInstalledPackages(t *testing.T) {
	root := t.TempDir()
	e := New(root, "")
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		t.Fatal(err)
	}

	r := &outputRunner{out: `[{"name": "requests", "version": "2.31.0"}, {"name": "pandas", "version": "2.2.2"}]`}
	pkgs, err := e.InstalledPackages(context.Background(), r)
	if err != nil {
		t.Fatalf("InstalledPackages() error = %v", err)
	}

	if len(pkgs) != 2 {
		t.Fatalf("got %d packages, want 2", len(pkgs))
	}
	if pkgs[0].Name != "requests" || pkgs[0].Version != "2.31.0" {
		t.Errorf("pkgs[0] = %+v", pkgs[0])
	}
	if r.last.Name != e.Python() {
		t.Errorf("pip ran with %q, want env python %q", r.last.Name, e.Python())
	}
}

func TestInstalledPackagesMissingEnv(t *testing.T) {
	e := New(t.TempDir(), "")
	_, err := e.InstalledPackages(context.Background(), &outputRunner{})
	if !errors.Is(err, ErrEnvMissing) {
		t.Errorf("error = %v, want ErrEnvMissing", err)
	}
}

func TestInstalledPackagesBadJSON(t *testing.T) {
	root := t.TempDir()
	e := New(root, "")
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		t.Fatal(err)
	}

	r := &outputRunner{out: "WARNING: not json"}
	if _, err := e.InstalledPackages(context.Background(), r); err == nil {
		t.Error("expected error for unparseable pip output")
	}
}
