// Package watch rebuilds when a preset file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls OnChange once per settled burst of writes to one file.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(path string)

	w *fsnotify.Watcher
}

// New watches path. The parent directory is watched so that editors
// which save by rename keep triggering.
func New(path string, onChange func(string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{Path: abs, Debounce: DefaultDebounce, OnChange: onChange, w: fw}, nil
}

// Run blocks until ctx is done or the watcher fails.
func (wt *Watcher) Run(ctx context.Context) error {
	defer wt.w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case event, ok := <-wt.w.Events:
			if !ok {
				return nil
			}
			if !wt.relevant(event) {
				continue
			}
			slog.Debug("watch: event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(wt.Debounce)
			} else {
				timer.Reset(wt.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			wt.OnChange(wt.Path)
		case err, ok := <-wt.w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch: error", "err", err)
		}
	}
}

func (wt *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != wt.Path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
