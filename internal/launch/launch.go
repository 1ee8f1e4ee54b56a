// Package launch starts the ScholarOne GUI application inside the project's
// virtual environment. It owns the launcher guard: the environment must
// exist before anything is activated or started.
package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Sparda104/scholarone-launcher/internal/pyenv"
	"github.com/Sparda104/scholarone-launcher/internal/runner"
)

// DefaultEntry is the GUI application's entry script, relative to the
// project root.
const DefaultEntry = "apps/gui/scholarone_gui_app.py"

// Options configures a launch.
type Options struct {
	// Entry is the application entry script. Relative paths are resolved
	// against the project root. Empty means DefaultEntry.
	Entry string

	// Args are passed through to the application.
	Args []string

	// Stdout and Stderr receive the application's output. Nil discards.
	Stdout io.Writer
	Stderr io.Writer
}

// Run checks the guard and starts the application with the environment's
// interpreter. The returned error is the child's failure when the
// application exits non-zero; use runner.ExitCode to recover its status.
//
// With the environment absent, Run returns pyenv.ErrEnvMissing without
// touching the environment or the application.
func Run(ctx context.Context, env pyenv.Env, r runner.Runner, opts Options) error {
	if !env.Exists() {
		return fmt.Errorf("%w at %s (run setup first)", pyenv.ErrEnvMissing, env.Dir)
	}

	entry := opts.Entry
	if entry == "" {
		entry = DefaultEntry
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(env.Root, entry)
	}

	return r.Run(ctx, runner.Cmd{
		Name:   env.Python(),
		Args:   append([]string{entry}, opts.Args...),
		Dir:    env.Root,
		Env:    activationEnv(os.Environ(), env, loadDotEnv(env.Root)),
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})
}

// loadDotEnv reads the project's .env file when present. A missing or
// unreadable file contributes nothing.
func loadDotEnv(root string) map[string]string {
	vars, err := godotenv.Read(filepath.Join(root, ".env"))
	if err != nil {
		return nil
	}
	return vars
}

// activationEnv builds the child environment the way the activate script
// would: VIRTUAL_ENV set, the environment's bin directory first on PATH,
// PYTHONHOME dropped. dotEnv entries are added only when the variable is
// not already set, matching dotenv loading semantics.
func activationEnv(base []string, env pyenv.Env, dotEnv map[string]string) []string {
	out := make([]string, 0, len(base)+len(dotEnv)+2)
	seen := make(map[string]bool)
	pathSet := false

	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(key, "PYTHONHOME"):
			continue
		case strings.EqualFold(key, "VIRTUAL_ENV"):
			continue
		case strings.EqualFold(key, "PATH"):
			out = append(out, key+"="+env.BinDir()+string(os.PathListSeparator)+kv[len(key)+1:])
			pathSet = true
		default:
			out = append(out, kv)
		}
		seen[key] = true
	}

	if !pathSet {
		out = append(out, "PATH="+env.BinDir())
	}
	out = append(out, "VIRTUAL_ENV="+env.Dir)

	for k, v := range dotEnv {
		if !seen[k] && !strings.EqualFold(k, "PATH") && !strings.EqualFold(k, "VIRTUAL_ENV") {
			out = append(out, k+"="+v)
		}
	}
	return out
}
