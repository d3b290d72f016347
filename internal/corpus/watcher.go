package corpus

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventOp describes what happened to a watched document.
type EventOp int

const (
	// OpChanged means a document was created or its contents changed.
	OpChanged EventOp = iota
	// OpRemoved means a document was deleted or renamed away.
	OpRemoved
)

// Event reports a change to one document in a watched corpus directory.
type Event struct {
	ID   string
	Path string
	Op   EventOp
}

// Watcher monitors a corpus directory for file changes and emits debounced
// events so callers can reload or re-embed incrementally.
type Watcher struct {
	watcher      *fsnotify.Watcher
	dir          string
	ext          string
	debounceTime time.Duration
	mu           sync.Mutex
	pending      map[string]EventOp
	events       chan Event
	done         chan struct{}
}

// NewWatcher creates a file system watcher for one corpus directory. An empty
// ext means DefaultExt.
func NewWatcher(dir, ext string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:      fsWatcher,
		dir:          filepath.Clean(expandPath(dir)),
		ext:          normalizeExt(ext),
		debounceTime: 500 * time.Millisecond,
		pending:      make(map[string]EventOp),
		events:       make(chan Event, 100),
		done:         make(chan struct{}),
	}, nil
}

// Events returns the channel on which document changes are delivered. It is
// closed when Start returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching for file changes. Blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		close(w.events) // no sender was started yet
		return err
	}

	// The debounce goroutine owns the events channel: it is the only sender,
	// so it closes the channel once it stops.
	go func() {
		w.debounceLoop(ctx)
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			close(w.done)
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				close(w.done)
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				close(w.done)
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// handleEvent queues a file system event for debounced delivery.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.mu.Lock()
		w.pending[event.Name] = OpChanged
		w.mu.Unlock()
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mu.Lock()
		w.pending[event.Name] = OpRemoved
		w.mu.Unlock()
	}
}

// debounceLoop periodically flushes pending changes as events.
func (w *Watcher) debounceLoop(ctx context.Context) {
	ticker := time.NewTicker(w.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// flushPending drains the pending map into the events channel. A path marked
// changed is re-checked against the filesystem: if it vanished in the
// meantime, it is reported as removed instead.
func (w *Watcher) flushPending(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]EventOp)
	w.mu.Unlock()

	for path, op := range batch {
		if op == OpChanged {
			if _, err := os.Stat(path); err != nil {
				op = OpRemoved
			}
		}

		ev := Event{
			ID:   strings.TrimSuffix(filepath.Base(path), w.ext),
			Path: path,
			Op:   op,
		}

		select {
		case w.events <- ev:
		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

// matches reports whether a path is a document this watcher cares about.
func (w *Watcher) matches(path string) bool {
	return filepath.Ext(path) == w.ext && filepath.Dir(path) == w.dir
}
