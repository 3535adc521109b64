package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/villagedex/internal/server"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve runs the local JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	collection, err := r.loadCollection(ctx)
	if err != nil {
		return err
	}
	theme, err := r.loadTheme(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("watch") {
		watcher, err := r.watchDataset(ctx, catalog)
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := server.New(server.Options{
		Addr:           addr,
		Catalog:        catalog,
		Collection:     collection,
		Theme:          theme,
		Logger:         shared.WithLogger(r.logger, "component", "server"),
		MaxSuggestions: r.config.Search.MaxSuggestions,
	})

	r.writePlain("Serving %d villagers on http://%s (Ctrl+C to stop)\n", len(catalog.Records()), srv.Addr())
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// watchDataset reloads catalog whenever the configured dataset file changes.
func (r *Runner) watchDataset(ctx context.Context, catalog *tasks.Catalog) (*tasks.DatasetWatcher, error) {
	path := r.config.Data.BundledPath
	if path == "" {
		return nil, fmt.Errorf("%w: --watch needs data.bundled_path to point at a file", shared.ErrMissingConfig)
	}

	loader := r.loader()
	watcher := tasks.NewDatasetWatcher(path, r.config.Search.Debounce(), func() {
		result, err := catalog.Reload(ctx, loader, nil)
		if err != nil {
			r.logger.Error("reload failed, keeping previous roster", "error", err)
			return
		}
		r.logger.Info("roster reloaded", "source", result.Source, "villagers", len(result.Records))
	}, r.logger)

	if err := watcher.Start(ctx); err != nil {
		return nil, err
	}
	return watcher, nil
}
