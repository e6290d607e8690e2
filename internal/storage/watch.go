package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marco/moviedb/internal/debounce"
)

// ChangeHandler receives the new contents of a slot after it changed on disk.
type ChangeHandler func(data []byte)

// Watcher monitors a FileStorage slot for changes made by other processes.
type Watcher struct {
	storage  *FileStorage
	slot     string
	handler  ChangeHandler
	debounce *debounce.Debouncer
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for one slot of a FileStorage.
func NewWatcher(s *FileStorage, slot string, delay time.Duration, handler ChangeHandler, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		storage:  s,
		slot:     slot,
		handler:  handler,
		debounce: debounce.New(delay),
		watcher:  fsWatcher,
		logger:   logger.With("component", "storage_watcher", "slot", slot),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

// Start begins watching. The slot file is replaced by rename on every write,
// so the parent directory is watched rather than the file itself.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.storage.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.storage.dir, err)
	}
	go w.processEvents()

	w.logger.Info("slot watcher started", "path", w.storage.Path(w.slot))
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		<-w.doneChan
		w.debounce.Stop()
		err = w.watcher.Close()
	})
	return err
}

// Done is closed once the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneChan
}

func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	target := filepath.Base(w.storage.Path(w.slot))
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.logger.Debug("slot event detected", "event", event.Op.String())
			w.debounce.Schedule(w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("slot watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	data, found, err := w.storage.Get(w.slot)
	if err != nil {
		w.logger.Warn("failed to read slot after change", "error", err)
		return
	}
	if !found {
		data = nil
	}
	w.handler(data)
}
