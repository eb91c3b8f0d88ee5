package library

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to the library directory
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *slog.Logger
	done   chan struct{}
}

// Watch starts watching the library directory and invokes onChange
// whenever a WAV file is created, removed, renamed or rewritten
func (l *Library) Watch(onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create library watcher: %w", err)
	}

	if err := fsw.Add(l.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch library directory %s: %w", l.root, err)
	}

	w := &Watcher{
		fsw:    fsw,
		logger: l.logger,
		done:   make(chan struct{}),
	}

	go w.run(onChange)

	l.logger.Info("Library watcher started", slog.String("path", l.root))
	return w, nil
}

// Close stops the watcher
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run(onChange func()) {
	defer close(w.done)

	const relevantOps = fsnotify.Create | fsnotify.Remove | fsnotify.Rename | fsnotify.Write

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if !strings.EqualFold(filepath.Ext(event.Name), ".wav") {
				continue
			}

			if event.Op&relevantOps == 0 {
				continue
			}

			w.logger.Debug("Library change detected",
				slog.String("file", filepath.Base(event.Name)),
				slog.String("op", event.Op.String()),
			)
			onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Library watcher error", slog.String("error", err.Error()))
		}
	}
}
