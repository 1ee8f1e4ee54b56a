// Package gitsync mirrors the project working tree to its GitHub remote.
// Every step is a git invocation through the shared runner; the sequence
// tolerates re-runs (existing repo, existing remote, nothing to commit).
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sparda104/scholarone-launcher/internal/runner"
)

// ErrNoRemote indicates the syncer has no remote URL configured.
var ErrNoRemote = errors.New("gitsync: no remote url configured")

// Syncer pushes the project to its remote.
type Syncer struct {
	// Root is the project root directory.
	Root string

	// Remote is the origin URL, added when the repo has none.
	Remote string

	// Branch is the branch to sync. Empty means "main".
	Branch string

	// EnvDirName is the environment directory name kept out of the repo.
	// Empty means ".venv".
	EnvDirName string

	// Runner executes git.
	Runner runner.Runner

	// Output receives git's stdout/stderr. May be nil.
	Output io.Writer

	// Log receives human-readable progress lines. May be nil.
	Log func(format string, args ...any)
}

func (s *Syncer) logf(format string, args ...any) {
	if s.Log != nil {
		s.Log(format, args...)
	}
}

func (s *Syncer) branch() string {
	if s.Branch == "" {
		return "main"
	}
	return s.Branch
}

func (s *Syncer) envDirName() string {
	if s.EnvDirName == "" {
		return ".venv"
	}
	return s.EnvDirName
}

func (s *Syncer) git(ctx context.Context, args ...string) error {
	return s.Runner.Run(ctx, runner.Cmd{
		Name:   "git",
		Args:   args,
		Dir:    s.Root,
		Stdout: s.Output,
		Stderr: s.Output,
	})
}

// Sync brings the repository in line with the remote: ignore the env dir,
// init and name the branch when needed, ensure origin, drop the env dir
// from the index, stage everything, commit when something is staged, pull
// tolerating unrelated histories, push upstream.
func (s *Syncer) Sync(ctx context.Context) error {
	if s.Remote == "" {
		return ErrNoRemote
	}
	if info, err := os.Stat(s.Root); err != nil || !info.IsDir() {
		return fmt.Errorf("gitsync: project root does not exist: %s", s.Root)
	}

	changed, err := s.ensureGitignore()
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	if changed {
		s.logf("Added %s/ to .gitignore", s.envDirName())
	}

	if _, err := os.Stat(filepath.Join(s.Root, ".git")); err != nil {
		s.logf("Initializing repository on branch %s", s.branch())
		if err := s.git(ctx, "init"); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		if err := s.git(ctx, "branch", "-M", s.branch()); err != nil {
			return fmt.Errorf("git branch: %w", err)
		}
	}

	if err := s.git(ctx, "remote", "get-url", "origin"); err != nil {
		if err := s.git(ctx, "remote", "add", "origin", s.Remote); err != nil {
			return fmt.Errorf("git remote add: %w", err)
		}
		s.logf("Added origin remote: %s", s.Remote)
	}

	// Stop tracking the env dir if an earlier commit picked it up. Failure
	// just means it was never tracked.
	if err := s.git(ctx, "rm", "-r", "--cached", s.envDirName()); err != nil {
		s.logf("%s not tracked or already removed from index", s.envDirName())
	}

	if err := s.git(ctx, "add", "."); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	// diff --cached --quiet exits 1 when something is staged.
	switch err := s.git(ctx, "diff", "--cached", "--quiet"); {
	case err == nil:
		s.logf("No changes to commit")
	case runner.ExitCode(err) == 1:
		if err := s.git(ctx, "commit", "-m", "Sync local ScholarOne-Tools project to GitHub"); err != nil {
			return fmt.Errorf("git commit: %w", err)
		}
	default:
		return fmt.Errorf("git diff: %w", err)
	}

	if err := s.git(ctx, "pull", "origin", s.branch(), "--allow-unrelated-histories"); err != nil {
		s.logf("Pull had conflicts or no changes")
	}

	if err := s.git(ctx, "push", "-u", "origin", s.branch()); err != nil {
		return fmt.Errorf("git push: %w", err)
	}

	s.logf("Repository is now synced with %s", s.Remote)
	return nil
}

// ensureGitignore makes sure the env dir is ignored. Creates .gitignore
// when missing. Reports whether the file was written.
func (s *Syncer) ensureGitignore() (bool, error) {
	name := s.envDirName()
	path := filepath.Join(s.Root, ".gitignore")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return true, os.WriteFile(path, []byte(name+"/\n"), 0o644)
	}
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == name || line == name+"/" {
			return false, nil
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += name + "/\n"
	return true, os.WriteFile(path, []byte(content), 0o644)
}
