// cmd/catalyst/main.go
//
// Entry point for the Catalyst terminal dashboard.
//
// Flow:
// 1. Load configuration from the environment (plus .env, if present)
// 2. Ensure the .catalyst data directory exists
// 3. Launch the TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/catalystgrid/catalyst/internal/config"
	"github.com/catalystgrid/catalyst/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitCatalystDir(cfg.HomeDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s directory: %v\n", config.CatalystDir, err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting Catalyst: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
