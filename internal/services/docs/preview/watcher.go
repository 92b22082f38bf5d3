package preview

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/louisbranch/adp-docs/internal/platform/timeouts"
	"github.com/rs/zerolog"
)

// Watcher rebuilds the site when files under its root change.
type Watcher struct {
	root     string
	ignore   []string
	debounce time.Duration
	rebuild  func(context.Context) error
	logger   zerolog.Logger
}

// NewWatcher watches root recursively. Paths under any ignore directory, such
// as the export directory, never trigger a rebuild.
func NewWatcher(root string, ignore []string, rebuild func(context.Context) error, logger zerolog.Logger) *Watcher {
	cleaned := make([]string, 0, len(ignore))
	for _, dir := range ignore {
		if abs, err := filepath.Abs(dir); err == nil {
			cleaned = append(cleaned, abs)
		}
	}
	return &Watcher{
		root:     root,
		ignore:   cleaned,
		debounce: timeouts.RebuildDebounce,
		rebuild:  rebuild,
		logger:   logger,
	}
}

// Run blocks until ctx is done. Rebuilds run one at a time; a failed rebuild
// is logged and the previous export stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addTree(watcher, w.root); err != nil {
		return err
	}
	w.logger.Info().
		Str("event", "preview.watcher_started").
		Str("path", w.root).
		Msg("watching site for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "preview.watcher_stopped").Msg("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) || !relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", event.Name).Msg("watch new directory")
					}
				}
			}
			w.logger.Debug().
				Str("event", "preview.file_changed").
				Str("op", event.Op.String()).
				Str("path", event.Name).
				Msg("site file changed")
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := w.rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error().
					Err(err).
					Str("event", "preview.rebuild_failed").
					Msg("rebuild failed, keeping previous export")
				continue
			}
			w.logger.Info().Str("event", "preview.rebuild_success").Msg("site rebuilt")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Str("event", "preview.watcher_error").Msg("watcher error")
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (w.ignored(path) || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant drops chmod-only events and editor swap files.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return true
}
