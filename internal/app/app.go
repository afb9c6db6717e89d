package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/jobs"
	"github.com/funddeck/funddeck/internal/logging"
	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/ui"
)

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	client := api.New(cfg.BaseURL)
	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("backend unreachable at %s: %w", cfg.BaseURL, err)
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 750 * time.Millisecond
	}
	watcher := jobs.NewWatcher(client, interval)
	defer watcher.Stop()

	model := ui.NewModel(ctx, client, cfg.Width, cfg.Height, cfg.ShowFooter, cfg.Verbose, watcher, cfg.RootTab, cfg.SearchDebounce)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}

	if cfg.QuitServer {
		if quitErr := client.Quit(ctx); quitErr != nil {
			logging.Error(quitErr)
		}
		events.App.Shutdown(true)
	} else {
		events.App.Shutdown(false)
	}
	return err
}
