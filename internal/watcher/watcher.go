// Package watcher signals when a new log artifact appears in the log
// directory.
package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/slowtop/slowtop/internal/logfile"
)

// Rotated logs usually land via rename, but copies trickle in as writes.
// Either way the artifact is only picked up once its name matches.
const debounceDelay = 500 * time.Millisecond

// Watcher watches one log directory and emits a signal whenever an artifact
// appears or changes. Consumers rerun the analyzer on each signal; the
// already-processed guard makes spurious signals harmless.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	signals   chan string
	done      chan struct{}
	log       *slog.Logger

	debounceMu sync.Mutex
	debounce   map[string]*time.Timer
}

// New creates a watcher for the given log directory. The logger may be nil.
func New(logDir string, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(logDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		signals:   make(chan string, 16),
		done:      make(chan struct{}),
		log:       logger,
		debounce:  make(map[string]*time.Timer),
	}
	go w.processEvents()

	return w, nil
}

// Signals returns the channel carrying the paths of changed artifacts.
func (w *Watcher) Signals() <-chan string {
	return w.signals
}

// Stop stops the watcher and releases the fsnotify handle.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsWatcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Warn("watch error", "error", err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Create covers fresh files, Rename covers atomic moves into the dir,
	// Write covers slow copies finishing up.
	if event.Op&(fsnotify.Create|fsnotify.Rename|fsnotify.Write) == 0 {
		return
	}
	if !logfile.MatchesArtifact(filepath.Base(event.Name)) {
		return
	}
	w.debounceEvent(event.Name)
}

// debounceEvent collapses bursts of events for the same path into one signal.
func (w *Watcher) debounceEvent(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(debounceDelay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()

		select {
		case w.signals <- path:
		case <-w.done:
		}
	})
}
