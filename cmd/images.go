package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ImagesCheck sends a HEAD request for every poster and reports the broken and missing ones.
func (r *Runner) ImagesCheck(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}

	opts := tasks.ImageCheckOpts{
		Workers:   r.config.Images.Workers,
		RateLimit: r.config.Images.RateLimit,
		Timeout:   time.Duration(r.config.Images.TimeoutSeconds) * time.Second,
		Client:    r.httpClient,
	}
	if n := cmd.Int("workers"); n > 0 {
		opts.Workers = n
	}

	records := catalog.Records()
	progress := make(chan tasks.ProgressUpdate, len(records))
	go func() {
		for update := range progress {
			r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
		}
	}()

	r.logger.Info("checking poster images", "villagers", len(records), "workers", opts.Workers)
	result, err := tasks.CheckImages(ctx, progress, records, opts)
	close(progress)
	if err != nil {
		return fmt.Errorf("image check interrupted: %w", err)
	}

	statuses := result.Results
	if cmd.Bool("broken") {
		statuses = statuses[:0:0]
		for _, s := range result.Results {
			if !s.OK {
				statuses = append(statuses, s)
			}
		}
	}

	if cmd.Bool("json") {
		out := *result
		out.Results = statuses
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Poster Images: %d checked, %d available, %d broken, %d missing",
		result.Checked, result.Available, result.Broken, result.Missing))
	for _, s := range statuses {
		switch {
		case s.OK:
			r.writePlain("✓ %s\n", s.Name)
		case s.URL == "":
			r.writePlain("- %s (%s)\n", s.Name, s.Err)
		case s.Status != 0:
			r.writePlain("✗ %s (HTTP %d) %s\n", s.Name, s.Status, s.URL)
		default:
			r.writePlain("✗ %s (%s) %s\n", s.Name, s.Err, s.URL)
		}
	}
	return nil
}
