package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/grouperdev/grouper/pkg/grouping"
)

// Watcher reloads a rule file whenever it changes on disk and swaps the
// result into a [grouping.Grouper]. A reload that fails validation is
// logged and discarded; the previously active rules stay in effect, so a
// broken edit never takes down evaluation.
type Watcher struct {
	grouper  *grouping.Grouper
	onReload func(*grouping.Config)
	path     string
}

// WatcherOpt configures a [Watcher].
type WatcherOpt func(*Watcher)

// WithOnReload registers a callback invoked after each successful swap.
func WithOnReload(fn func(*grouping.Config)) WatcherOpt {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher for the rule file at path.
func NewWatcher(g *grouping.Grouper, path string, opts ...WatcherOpt) *Watcher {
	w := &Watcher{
		grouper: g,
		path:    path,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Watch blocks until ctx is done, reloading on every write to the rule
// file. The parent directory is watched rather than the file itself, since
// most editors replace files on save.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		err := fw.Close()
		if err != nil {
			slog.Warn("close watcher", slog.Any("error", err))
		}
	}()

	err = fw.Add(filepath.Dir(w.path))
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	slog.Debug("watching rule file", slog.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}

			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			slog.Warn("watch error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) reload() {
	logger := slog.With(slog.String("path", w.path))

	l, err := NewLoaderFromFile(w.path)
	if err != nil {
		logger.Warn("reload failed, keeping active rules", slog.Any("error", err))

		return
	}

	err = l.Validate()
	if err != nil {
		logger.Warn("reload failed, keeping active rules", slog.Any("error", err))

		return
	}

	cfg, err := l.Load()
	if err != nil {
		logger.Warn("reload failed, keeping active rules", slog.Any("error", err))

		return
	}

	w.grouper.Swap(cfg)
	logger.Info("reloaded rules", slog.Int("rules", len(cfg.Rules)))

	if w.onReload != nil {
		w.onReload(cfg)
	}
}
