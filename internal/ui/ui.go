package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/Sparda104/scholarone-launcher/internal/config"
	"github.com/Sparda104/scholarone-launcher/internal/gitsync"
	"github.com/Sparda104/scholarone-launcher/internal/launch"
	"github.com/Sparda104/scholarone-launcher/internal/manifest"
	"github.com/Sparda104/scholarone-launcher/internal/pyenv"
	"github.com/Sparda104/scholarone-launcher/internal/runner"
)

// internal state for the two lists
var (
	currentRequirements []string
	currentPackages     []string
)

// read-only entry helpers (theme-friendly, no SetReadOnly in Fyne v2.7)
var (
	roMu   sync.Mutex
	roLast = map[*widget.Entry]string{}
)

func makeReadOnlyEntry(e *widget.Entry) {
	e.Wrapping = fyne.TextWrapWord
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.OnChanged = func(s string) {
		roMu.Lock()
		last := roLast[e]
		roMu.Unlock()
		if s != last {
			fyne.Do(func() {
				onchg := e.OnChanged
				e.OnChanged = nil
				e.SetText(last)
				e.CursorColumn = 0
				e.CursorRow = strings.Count(e.Text, "\n")
				e.OnChanged = onchg
			})
		}
	}
}
func setEntryText(e *widget.Entry, s string) {
	fyne.Do(func() {
		onchg := e.OnChanged
		e.OnChanged = nil
		e.SetText(s)
		e.CursorColumn = 0
		e.CursorRow = strings.Count(e.Text, "\n")
		e.OnChanged = onchg
		roMu.Lock()
		roLast[e] = s
		roMu.Unlock()
	})
}

func logLine(e *widget.Entry, format string, args ...any) {
	fyne.Do(func() {
		ts := time.Now().Format("15:04:05")
		line := fmt.Sprintf("[%s] %s\n", ts, fmt.Sprintf(format, args...))
		setEntryText(e, e.Text+line)
	})
}

func runOnUI(fn func()) { fyne.Do(fn) }

// Build builds and mounts the UI on the given window.
func Build(w fyne.Window, cfg config.Config, env pyenv.Env) {
	run := runner.ExecRunner{}

	manifestPath := cfg.Manifest
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(env.Root, manifestPath)
	}

	// Lists
	requirementsList := widget.NewList(
		func() int { return len(currentRequirements) },
		func() fyne.CanvasObject { return widget.NewLabel("requirement") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(currentRequirements[i]) },
	)
	packagesList := widget.NewList(
		func() int { return len(currentPackages) },
		func() fyne.CanvasObject { return widget.NewLabel("package") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(currentPackages[i]) },
	)

	// Environment path row (wider via GridWrap)
	envDirEntry := widget.NewEntry()
	makeReadOnlyEntry(envDirEntry)
	setEntryText(envDirEntry, env.Dir)

	entryW := float32(650)
	entryH := envDirEntry.MinSize().Height
	envDirBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(entryW, entryH)), envDirEntry)

	statusLabel := widget.NewLabel("")

	setupBtn := widget.NewButton("Set Up Environment", nil)
	recreateBtn := widget.NewButton("Recreate Environment", nil)
	launchBtn := widget.NewButton("Launch ScholarOne GUI", nil)
	syncBtn := widget.NewButton("Sync to GitHub", nil)
	refreshBtn := widget.NewButton("Refresh", nil)

	progress := widget.NewProgressBar()
	progress.Min = 0
	progress.Max = 1
	progress.Hide()

	logView := widget.NewMultiLineEntry()
	makeReadOnlyEntry(logView)
	logView.SetPlaceHolder("Logs will appear here…")

	// Layout
	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Requirements (manifest):"), refreshBtn),
		container.NewVBox(setupBtn, recreateBtn),
		nil, nil,
		requirementsList,
	)
	right := container.NewBorder(
		container.NewVBox(widget.NewLabel("Installed packages:"), statusLabel),
		container.NewVBox(launchBtn, syncBtn),
		nil, nil,
		packagesList,
	)
	envRow := container.NewHBox(
		widget.NewLabel("Environment:"),
		envDirBox,
	)
	bottom := container.NewVBox(
		envRow,
		progress,
		widget.NewLabel("Status / Logs"),
		logView,
	)
	w.SetContent(container.NewBorder(nil, bottom, left, nil, right))

	refreshStatus := func() {
		label := "Not installed — use Set Up Environment"
		if env.Exists() {
			label = "Installed"
			if info, err := env.ReadInfo(); err == nil && info.Version != "" {
				label = fmt.Sprintf("Installed (Python %s)", info.Version)
			}
		}
		runOnUI(func() { statusLabel.SetText(label) })
	}

	refreshRequirements := func() {
		reqs, err := manifest.Load(manifestPath)
		if err != nil {
			logLine(logView, "Could not read manifest: %v", err)
			return
		}
		labels := make([]string, len(reqs))
		for i, r := range reqs {
			labels[i] = r.Raw
		}
		currentRequirements = labels
		runOnUI(func() { requirementsList.Refresh() })
		logLine(logView, "Manifest lists %d requirements.", len(reqs))
	}

	refreshPackages := func() {
		go func() {
			pkgs, err := env.InstalledPackages(context.Background(), run)
			if err != nil {
				currentPackages = nil
				runOnUI(func() { packagesList.Refresh() })
				return
			}
			labels := make([]string, len(pkgs))
			for i, p := range pkgs {
				labels[i] = fmt.Sprintf("%s %s", p.Name, p.Version)
			}
			currentPackages = labels
			runOnUI(func() { packagesList.Refresh() })
			logLine(logView, "Environment has %d installed packages.", len(pkgs))
		}()
	}

	refreshAll := func() {
		refreshStatus()
		refreshRequirements()
		refreshPackages()
	}

	bootstrap := func(extra ...pyenv.BootstrapOption) {
		go func() {
			runOnUI(func() { progress.SetValue(0); progress.Show() })
			defer runOnUI(func() { progress.Hide() })

			opts := append([]pyenv.BootstrapOption{
				pyenv.WithManifest(manifestPath),
				pyenv.WithProgress(func(p pyenv.Progress) {
					runOnUI(func() { progress.SetValue(float64(p.Index) / float64(p.Total)) })
					logLine(logView, "Step %d/%d: %s", p.Index+1, p.Total, p.Step)
				}),
			}, extra...)
			if cfg.BasePython != "" {
				opts = append(opts, pyenv.WithBasePython(cfg.BasePython))
			}

			if err := env.Bootstrap(context.Background(), run, opts...); err != nil {
				runOnUI(func() {
					dialog.ShowError(err, w)
					logLine(logView, "Setup failed: %v", err)
				})
				return
			}
			runOnUI(func() { progress.SetValue(1.0) })
			logLine(logView, "Environment ready at %s", env.Dir)
			refreshAll()
		}()
	}

	// Wiring
	refreshBtn.OnTapped = refreshAll

	setupBtn.OnTapped = func() { bootstrap() }

	recreateBtn.OnTapped = func() {
		if !env.Exists() {
			bootstrap()
			return
		}
		confirm := dialog.NewConfirm("Recreate Environment",
			fmt.Sprintf("Delete '%s' and rebuild it from the manifest?", env.Dir), func(ok bool) {
				if !ok {
					return
				}
				bootstrap(pyenv.WithRecreate())
			}, w)
		confirm.Show()
	}

	launchBtn.OnTapped = func() {
		go func() {
			logLine(logView, "Launching %s …", cfg.Entry)
			err := launch.Run(context.Background(), env, run, launch.Options{Entry: cfg.Entry})
			if err != nil {
				runOnUI(func() {
					dialog.ShowError(err, w)
					logLine(logView, "Launch failed: %v", err)
				})
				return
			}
			logLine(logView, "Application exited normally.")
		}()
	}

	syncBtn.OnTapped = func() {
		go func() {
			logLine(logView, "Syncing project to GitHub …")
			s := &gitsync.Syncer{
				Root:       env.Root,
				Remote:     cfg.Git.Remote,
				Branch:     cfg.Git.Branch,
				EnvDirName: cfg.EnvDir,
				Runner:     run,
				Log:        func(format string, args ...any) { logLine(logView, format, args...) },
			}
			if err := s.Sync(context.Background()); err != nil {
				runOnUI(func() {
					dialog.ShowError(err, w)
					logLine(logView, "Sync failed: %v", err)
				})
				return
			}
			logLine(logView, "Sync complete.")
		}()
	}

	// First load
	refreshAll()
}
