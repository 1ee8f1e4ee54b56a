package runner

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestCmdString(t *testing.T) {
	tests := []struct {
		name string
		cmd  Cmd
		want string
	}{
		{"bare", Cmd{Name: "git"}, "git"},
		{"with args", Cmd{Name: "git", Args: []string{"add", "."}}, "git add ."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecRunnerRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a unix shell")
	}

	var r ExecRunner
	out, err := Output(context.Background(), r, Cmd{Name: "sh", Args: []string{"-c", "echo hello"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("output = %q, want %q", out, "hello")
	}
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a unix shell")
	}

	var r ExecRunner
	err := r.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "exit 3"}})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if got := ExitCode(err); got != 3 {
		t.Errorf("ExitCode() = %d, want 3", got)
	}
}

type fakeExitErr int

func (e fakeExitErr) Error() string { return "exit status" }
func (e fakeExitErr) ExitCode() int { return int(e) }

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("no status")); got != -1 {
		t.Errorf("ExitCode(plain error) = %d, want -1", got)
	}
	if got := ExitCode(fakeExitErr(7)); got != 7 {
		t.Errorf("ExitCode(fakeExitErr) = %d, want 7", got)
	}
}
