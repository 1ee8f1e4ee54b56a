// Package runner wraps external command execution behind a small interface
// so the environment engine, launcher, and git sync can be tested without
// spawning real processes.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// Cmd describes a single external command invocation.
type Cmd struct {
	// Name is the program to run, resolved via PATH unless absolute.
	Name string

	// Args are the program arguments, excluding the program name.
	Args []string

	// Dir is the working directory. Empty means the caller's directory.
	Dir string

	// Env is the complete environment for the child process. nil inherits
	// the parent environment (exec.Cmd semantics).
	Env []string

	// Stdout and Stderr receive the command's output when non-nil.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the invocation for log lines.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes external commands.
type Runner interface {
	// Run executes the command and blocks until it exits. A non-zero exit
	// status is returned as an *exec.ExitError.
	Run(ctx context.Context, c Cmd) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

// Output runs the command with stdout captured and returns it as a string.
// Stderr set on the Cmd is preserved.
func Output(ctx context.Context, r Runner, c Cmd) (string, error) {
	var buf bytes.Buffer
	c.Stdout = &buf
	err := r.Run(ctx, c)
	return buf.String(), err
}

// ExitCode extracts the child exit status from a Run error. Any error in
// the chain exposing ExitCode() int qualifies; *exec.ExitError does.
// Returns 0 for nil and -1 when the error carries no exit status
// (start failure, context cancellation).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}
