package pyenv

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Sparda104/scholarone-launcher/internal/manifest"
	"github.com/Sparda104/scholarone-launcher/internal/runner"
)

// Step identifies a bootstrap phase for progress reporting.
type Step string

const (
	// StepCreate creates the virtual environment.
	StepCreate Step = "create"

	// StepUpgradePip upgrades the package installer inside the environment.
	StepUpgradePip Step = "upgrade-pip"

	// StepInstall installs the manifest's dependencies.
	StepInstall Step = "install"
)

// steps in execution order, used for progress fractions.
var allSteps = []Step{StepCreate, StepUpgradePip, StepInstall}

// Progress reports a bootstrap step transition.
type Progress struct {
	// Step is the phase about to run.
	Step Step

	// Index is the zero-based position of Step, Total the step count.
	Index int
	Total int
}

// BootstrapOption configures a bootstrap run.
type BootstrapOption func(*bootstrapConfig)

type bootstrapConfig struct {
	// recreate removes an existing environment before creating it anew.
	recreate bool

	// basePython overrides base interpreter discovery.
	basePython string

	// manifestPath is the requirements file passed to pip.
	manifestPath string

	// progressFn receives step transitions. May be nil.
	progressFn func(Progress)

	// output receives the external commands' stdout/stderr. May be nil.
	output io.Writer
}

// WithRecreate removes an existing environment directory first.
func WithRecreate() BootstrapOption {
	return func(c *bootstrapConfig) { c.recreate = true }
}

// WithBasePython overrides the interpreter used to create the environment.
func WithBasePython(path string) BootstrapOption {
	return func(c *bootstrapConfig) { c.basePython = path }
}

// WithManifest sets the requirements file installed into the environment.
func WithManifest(path string) BootstrapOption {
	return func(c *bootstrapConfig) { c.manifestPath = path }
}

// WithProgress sets a callback invoked before each step runs.
func WithProgress(fn func(Progress)) BootstrapOption {
	return func(c *bootstrapConfig) { c.progressFn = fn }
}

// WithOutput streams the external commands' output to w.
func WithOutput(w io.Writer) BootstrapOption {
	return func(c *bootstrapConfig) { c.output = w }
}

// Bootstrap ensures the environment exists and is populated: create the
// environment when absent, upgrade pip, install the manifest. Each phase is
// one external command; the first failure aborts the sequence and carries
// the command's own error. Re-running against an existing environment is
// not an error. A cross-process file lock serializes concurrent bootstraps.
func (e Env) Bootstrap(ctx context.Context, r runner.Runner, opts ...BootstrapOption) error {
	cfg := &bootstrapConfig{manifestPath: manifest.DefaultPath}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := os.MkdirAll(e.Root, 0o755); err != nil {
		return fmt.Errorf("creating project root: %w", err)
	}

	lock, err := newFileLock(e.Dir+".lock", DefaultLockTimeout)
	if err != nil {
		return fmt.Errorf("creating bootstrap lock: %w", err)
	}
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("%w: %v", ErrLocked, err)
	}
	defer lock.Unlock()

	if cfg.recreate && e.Exists() {
		if err := os.RemoveAll(e.Dir); err != nil {
			return fmt.Errorf("removing environment: %w", err)
		}
	}

	report := func(i int) {
		if cfg.progressFn != nil {
			cfg.progressFn(Progress{Step: allSteps[i], Index: i, Total: len(allSteps)})
		}
	}

	report(0)
	if !e.Exists() {
		base, err := FindBasePython(cfg.basePython)
		if err != nil {
			return err
		}
		if err := e.runStep(ctx, r, cfg, base, "-m", "venv", e.Dir); err != nil {
			return fmt.Errorf("creating environment: %w", err)
		}
	}

	report(1)
	if err := e.runStep(ctx, r, cfg, e.Python(), "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("upgrading pip: %w", err)
	}

	report(2)
	if err := e.runStep(ctx, r, cfg, e.Python(), "-m", "pip", "install", "-r", cfg.manifestPath); err != nil {
		return fmt.Errorf("installing requirements: %w", err)
	}

	return nil
}

func (e Env) runStep(ctx context.Context, r runner.Runner, cfg *bootstrapConfig, name string, args ...string) error {
	return r.Run(ctx, runner.Cmd{
		Name:   name,
		Args:   args,
		Dir:    e.Root,
		Stdout: cfg.output,
		Stderr: cfg.output,
	})
}
