package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/villagedex/internal/formatter"
	"github.com/desertthunder/villagedex/internal/shared"
)

// BulkExportOpts contains configuration for exporting one roster in several formats.
type BulkExportOpts struct {
	Formats    []formatter.Format // Formats to write (default: all)
	OutputDir  string             // Base output directory (default: villagedex_export_{epoch})
	BaseName   string             // File name without extension (default: villagers)
	NumWorkers int                // Concurrent writers (default: 3)
}

// FileExportResult is the outcome for one format.
type FileExportResult struct {
	Format  formatter.Format `json:"format"`
	Path    string           `json:"path,omitempty"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
}

// BulkExportResult summarises a bulk export and is written as its manifest.
type BulkExportResult struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Villagers         int                `json:"villagers"`
	OutputDirectory   string             `json:"output_directory"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	Results           []FileExportResult `json:"results"`
	ManifestPath      string             `json:"-"`
}

// BulkExport writes export once per format using a small worker pool and
// records the outcome in export_manifest.json. A failed format does not stop
// the others.
func BulkExport(ctx context.Context, prog chan<- ProgressUpdate, export *formatter.Export, opts BulkExportOpts) (*BulkExportResult, error) {
	if export == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrNoData)
	}
	if len(opts.Formats) == 0 {
		opts.Formats = formatter.Formats
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("villagedex_export_%d", time.Now().Unix())
	}
	if opts.BaseName == "" {
		opts.BaseName = "villagers"
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		ID:              shared.GenerateID(),
		Title:           export.Title,
		Villagers:       export.Count(),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FileExportResult, 0, len(opts.Formats)),
	}

	jobs := make(chan formatter.Format, len(opts.Formats))
	results := make(chan FileExportResult, len(opts.Formats))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, export, opts)
	}

	for _, f := range opts.Formats {
		jobs <- f
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	total := len(opts.Formats)
	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res.Path))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, total, string(res.Format), fmt.Errorf("%s", res.Error)))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes formats from the jobs channel until it is drained or ctx ends.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan formatter.Format,
	results chan<- FileExportResult,
	export *formatter.Export,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for f := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := FileExportResult{Format: f}
		path := filepath.Join(opts.OutputDir, opts.BaseName+"."+f.Extension())
		if written, err := formatter.WriteExport(export, f, path); err != nil {
			res.Error = err.Error()
		} else {
			res.Path = written
			res.Success = true
		}
		results <- res
	}
}
