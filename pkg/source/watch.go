package source

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/llmstream/pkg/observability"
)

// Watcher reports changes to one dataset file. Bursts of events (editors
// often write a file several times when saving) are coalesced into a single
// notification after a quiet period.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *log.Logger
}

// NewWatcher watches path. The parent directory is watched so that files
// replaced by rename are still seen.
func NewWatcher(path string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{fs: fs, path: abs, debounce: debounce, logger: logger}, nil
}

// Run calls fn after each burst of changes until ctx is done or the watcher
// is closed. fn runs on the watcher's goroutine.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("dataset changed", "path", w.path, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			observability.Source().OnChange(ctx, w.path)
			fn()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			// Log error but continue running
			w.logger.Warn("file watch error", "err", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
