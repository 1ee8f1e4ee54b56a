package app

import (
	"fyne.io/fyne/v2"
	fynex "fyne.io/fyne/v2/app"

	"github.com/Sparda104/scholarone-launcher/internal/config"
	"github.com/Sparda104/scholarone-launcher/internal/pyenv"
	"github.com/Sparda104/scholarone-launcher/internal/ui"
)

// Run is the entry point used by the CLI when no subcommand is given.
func Run(cfg config.Config, env pyenv.Env) {
	a := fynex.NewWithID("com.sparda104.scholarone.launcher")

	w := a.NewWindow("ScholarOne Tools Launcher")
	w.Resize(fyne.NewSize(980, 640))

	// Build and mount the UI.
	ui.Build(w, cfg, env)

	w.ShowAndRun()
}
