package httpform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the form whenever the file at path is written or recreated,
// until ctx is done. The parent directory is watched since editors often
// replace files rather than write them in place.
func (h *Handler) Watch(ctx context.Context, path string) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("httpform: watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("httpform: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		_ = w.Close()
		return fmt.Errorf("httpform: watch %s: %w", path, err)
	}

	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				name, err := filepath.Abs(ev.Name)
				if err != nil || name != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := h.Reload(); err != nil {
					h.logger.Warn("httpform: reload failed", "path", path, "error", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				h.logger.Debug("httpform: watch error", "error", err)
			}
		}
	}()
	return nil
}
