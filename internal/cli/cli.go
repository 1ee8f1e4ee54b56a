// Package cli wires the launcher's cobra command tree: setup, launch,
// status, sync, clean, flatten, and the default GUI entry.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Sparda104/scholarone-launcher/internal/app"
	"github.com/Sparda104/scholarone-launcher/internal/config"
	"github.com/Sparda104/scholarone-launcher/internal/flatten"
	"github.com/Sparda104/scholarone-launcher/internal/gitsync"
	"github.com/Sparda104/scholarone-launcher/internal/launch"
	"github.com/Sparda104/scholarone-launcher/internal/manifest"
	"github.com/Sparda104/scholarone-launcher/internal/pyenv"
	"github.com/Sparda104/scholarone-launcher/internal/runner"
)

// StatusError carries a child process exit status through cobra to main.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string { return e.Err.Error() }
func (e *StatusError) Unwrap() error { return e.Err }

// ExitCode maps an Execute error to the process exit status. The launcher
// guard and every other failure exit 1; a launched application's own
// non-zero status passes through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 1
}

// state is resolved once in PersistentPreRunE and shared by subcommands.
type state struct {
	cfg config.Config
	env pyenv.Env
	run runner.Runner
	log *slog.Logger
}

// manifestPath resolves the requirements file against the project root.
func manifestPath(st *state) string {
	if filepath.IsAbs(st.cfg.Manifest) {
		return st.cfg.Manifest
	}
	return filepath.Join(st.env.Root, st.cfg.Manifest)
}

// New builds the root command.
func New() *cobra.Command {
	var (
		cfgPath string
		rootDir string
		quiet   bool
		verbose bool
	)

	st := &state{run: runner.ExecRunner{}}

	cmd := &cobra.Command{
		Use:     "scholarone-launcher",
		Short:   "Manage and launch the ScholarOne Tools GUI",
		Long:    "Bootstrap the ScholarOne Tools virtual environment, launch the GUI application, and keep the project synced with GitHub.",
		Version: "2.2.0",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if rootDir != "" {
				cfg.ProjectRoot = rootDir
			}
			root, err := cfg.ResolveRoot()
			if err != nil {
				return fmt.Errorf("resolving project root: %w", err)
			}

			st.cfg = cfg
			st.env = pyenv.New(root, cfg.EnvDir)
			st.log = newLogger(cmd.ErrOrStderr(), quiet, verbose)
			st.log.Debug("resolved project root", "root", root, "env", st.env.Dir)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation opens the manager window.
			app.Run(st.cfg, st.env)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to launcher.toml")
	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Project root directory")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	cmd.AddCommand(setupCmd(st, &quiet))
	cmd.AddCommand(launchCmd(st))
	cmd.AddCommand(statusCmd(st))
	cmd.AddCommand(syncCmd(st, &quiet))
	cmd.AddCommand(cleanCmd(st, &quiet))
	cmd.AddCommand(flattenCmd())

	return cmd
}

func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func setupCmd(st *state, quiet *bool) *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the virtual environment and install dependencies",
		Long:  "Create the project's virtual environment when missing, upgrade pip, and install the requirements manifest. Safe to run repeatedly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []pyenv.BootstrapOption{
				pyenv.WithManifest(st.cfg.Manifest),
			}
			if st.cfg.BasePython != "" {
				opts = append(opts, pyenv.WithBasePython(st.cfg.BasePython))
			}
			if recreate {
				opts = append(opts, pyenv.WithRecreate())
			}
			if !*quiet {
				opts = append(opts,
					pyenv.WithOutput(cmd.OutOrStdout()),
					pyenv.WithProgress(func(p pyenv.Progress) {
						fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", p.Index+1, p.Total, stepLabel(p.Step))
					}),
				)
			}

			if err := st.env.Bootstrap(cmd.Context(), st.run, opts...); err != nil {
				return err
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Environment ready at %s\n", st.env.Dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false, "Remove and rebuild an existing environment")
	return cmd
}

func stepLabel(s pyenv.Step) string {
	switch s {
	case pyenv.StepCreate:
		return "Creating virtual environment"
	case pyenv.StepUpgradePip:
		return "Upgrading pip"
	case pyenv.StepInstall:
		return "Installing requirements"
	}
	return string(s)
}

func launchCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "launch [-- app args]",
		Short: "Launch the ScholarOne GUI application",
		Long:  "Verify the virtual environment exists, then start the GUI entry script with the environment's interpreter. Exits 1 when the environment is missing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := launch.Run(cmd.Context(), st.env, st.run, launch.Options{
				Entry:  st.cfg.Entry,
				Args:   args,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			})
			if err == nil {
				return nil
			}
			if code := runner.ExitCode(err); code > 0 {
				return &StatusError{Code: code, Err: err}
			}
			return err
		},
	}
}

// statusInfo is the status command's output shape.
type statusInfo struct {
	Root          string          `json:"root"`
	EnvDir        string          `json:"env_dir"`
	Installed     bool            `json:"installed"`
	PythonVersion string          `json:"python_version,omitempty"`
	Requirements  int             `json:"requirements"`
	Packages      []pyenv.Package `json:"packages,omitempty"`
}

func statusCmd(st *state) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show environment status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := statusInfo{
				Root:   st.env.Root,
				EnvDir: st.env.Dir,
			}

			if reqs, err := manifest.Load(manifestPath(st)); err == nil {
				info.Requirements = len(reqs)
			}

			if st.env.Exists() {
				info.Installed = true
				if ei, err := st.env.ReadInfo(); err == nil {
					info.PythonVersion = ei.Version
				}
				if pkgs, err := st.env.InstalledPackages(cmd.Context(), st.run); err == nil {
					info.Packages = pkgs
				} else {
					st.log.Warn("could not list installed packages", "error", err)
				}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			return printStatus(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func printStatus(w io.Writer, info statusInfo) error {
	fmt.Fprintf(w, "Project root:  %s\n", info.Root)
	fmt.Fprintf(w, "Environment:   %s\n", info.EnvDir)
	if !info.Installed {
		fmt.Fprintln(w, "Status:        not installed (run setup)")
		fmt.Fprintf(w, "Requirements:  %d\n", info.Requirements)
		return nil
	}
	fmt.Fprintln(w, "Status:        installed")
	if info.PythonVersion != "" {
		fmt.Fprintf(w, "Python:        %s\n", info.PythonVersion)
	}
	fmt.Fprintf(w, "Requirements:  %d\n", info.Requirements)

	if len(info.Packages) > 0 {
		fmt.Fprintln(w, "\nInstalled packages:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PACKAGE\tVERSION")
		for _, p := range info.Packages {
			fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Version)
		}
		return tw.Flush()
	}
	return nil
}

func syncCmd(st *state, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the project to its GitHub remote",
		Long:  "Stage, commit, pull, and push the project working tree, keeping the virtual environment out of the repository.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &gitsync.Syncer{
				Root:       st.env.Root,
				Remote:     st.cfg.Git.Remote,
				Branch:     st.cfg.Git.Branch,
				EnvDirName: st.cfg.EnvDir,
				Runner:     st.run,
			}
			if !*quiet {
				s.Output = cmd.OutOrStdout()
				s.Log = func(format string, args ...any) {
					fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
				}
			}
			return s.Sync(cmd.Context())
		},
	}
}

func cleanCmd(st *state, quiet *bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the virtual environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !st.env.Exists() {
				if !*quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove.")
				}
				return nil
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete '%s' from disk? [y/N]: ", st.env.Dir)
				if !confirmPrompt(cmd.InOrStdin()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := os.RemoveAll(st.env.Dir); err != nil {
				return fmt.Errorf("removing environment: %w", err)
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", st.env.Dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func flattenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flatten [file]",
		Short: "Flatten a JSON document into key/value rows",
		Long:  "Flatten nested JSON the way the ScholarOne export tooling does: dotted keys for objects, 1-based _n suffixes for arrays. Reads stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var v any
			if err := json.NewDecoder(in).Decode(&v); err != nil {
				return fmt.Errorf("decoding json: %w", err)
			}

			flat := flatten.Flatten(v)
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%s\n", k, flatten.Stringify(flat[k]))
			}
			return tw.Flush()
		},
	}
}

// confirmPrompt reads a line and accepts only an explicit yes.
func confirmPrompt(r io.Reader) bool {
	var resp string
	if _, err := fmt.Fscanln(r, &resp); err != nil {
		return false
	}
	switch resp {
	case "y", "Y", "yes", "YES":
		return true
	}
	return false
}
