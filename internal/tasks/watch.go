package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/search"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/fsnotify/fsnotify"
)

// DatasetWatcher calls reload after the dataset file changes. Bursts of
// events (editors often write, chmod and rename in quick succession) are
// coalesced into one call.
type DatasetWatcher struct {
	path   string
	delay  time.Duration
	reload func()
	logger *log.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	debounce *search.Debouncer
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewDatasetWatcher creates a watcher for path. A non-positive delay uses [search.DefaultDebounce].
func NewDatasetWatcher(path string, delay time.Duration, reload func(), logger *log.Logger) *DatasetWatcher {
	if logger == nil {
		logger = log.Default()
	}
	if path != "" {
		path = filepath.Clean(path)
	}
	return &DatasetWatcher{path: path, delay: delay, reload: reload, logger: logger}
}

// Start begins watching. The parent directory is watched so replaced files are
// still seen. Watching stops when ctx ends or [DatasetWatcher.Stop] is called.
func (w *DatasetWatcher) Start(ctx context.Context) error {
	if w.path == "" {
		return fmt.Errorf("%w: dataset path", shared.ErrMissingArgument)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.watcher = watcher
	w.debounce = search.NewDebouncer(w.delay, w.reload)
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop(ctx, watcher, w.debounce, w.done)

	w.logger.Debug("watching dataset", "path", w.path)
	return nil
}

func (w *DatasetWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher, debounce *search.Debouncer, done <-chan struct{}) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug("dataset changed", "op", event.Op.String())
				debounce.Trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dataset watcher error", "error", err)
		}
	}
}

// Stop ends watching and cancels any pending reload. It is safe to call more
// than once, and the watcher may be started again afterwards.
func (w *DatasetWatcher) Stop() {
	w.mu.Lock()
	watcher, debounce, done := w.watcher, w.debounce, w.done
	w.watcher, w.debounce, w.done = nil, nil, nil
	w.mu.Unlock()

	if watcher == nil {
		return
	}
	debounce.Stop()
	close(done)
	w.wg.Wait()
	watcher.Close()
}
