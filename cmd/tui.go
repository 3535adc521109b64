package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/desertthunder/villagedex/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive villager browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/villagedex-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.ApplyLogLevel(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	collection, err := r.loadCollection(ctx)
	if err != nil {
		return err
	}
	theme, err := r.loadTheme(ctx)
	if err != nil {
		return err
	}

	opts := ui.Options{
		Loader:     r.loader(),
		Catalog:    tasks.NewCatalog(nil),
		Collection: collection,
		Theme:      theme,
		Logger:     fileLogger,
		Debounce:   r.config.Search.Debounce(),
	}
	if cmd.Bool("watch") {
		if r.config.Data.BundledPath == "" {
			return fmt.Errorf("%w: --watch needs data.bundled_path to point at a file", shared.ErrMissingConfig)
		}
		opts.WatchPath = r.config.Data.BundledPath
	}

	model := ui.NewModel(ctx, opts)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := model.Err(); err != nil {
		return fmt.Errorf("failed to load villagers: %w", err)
	}
	return nil
}
