package logtail

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Tailer republishes the whole contents of a log file to subscribers on a
// fixed polling interval. The read model is deliberately "entire file at poll
// time" rather than an incremental cursor: the file is append-only and small,
// and the page replaces its output box wholesale.
//
// An fsnotify watch on the log directory wakes the loop between ticks so
// writes show up promptly, but the interval re-read always happens.
type Tailer struct {
	path     string
	interval time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	last string
	subs map[chan string]struct{}
}

// New builds a Tailer for the file at path, polling at the given interval.
func New(path string, interval time.Duration, logger *slog.Logger) *Tailer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Tailer{
		path:     path,
		interval: interval,
		logger:   logger,
		subs:     make(map[chan string]struct{}),
	}
}

// Snapshot returns the contents published by the most recent poll.
func (t *Tailer) Snapshot() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Subscribe registers a channel receiving each published snapshot. Slow
// consumers drop intermediate snapshots rather than block the poll loop.
func (t *Tailer) Subscribe() chan string {
	ch := make(chan string, 1)
	t.mu.Lock()
	t.subs[ch] = struct{}{}
	t.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel registered with Subscribe.
func (t *Tailer) Unsubscribe(ch chan string) {
	t.mu.Lock()
	delete(t.subs, ch)
	t.mu.Unlock()
}

// Run polls until ctx is cancelled. The watcher is best effort: if the log
// directory cannot be watched, the fixed interval alone drives the loop.
func (t *Tailer) Run(ctx context.Context) {
	var events chan fsnotify.Event
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(t.path)); err != nil {
			t.logger.Warn("log watch unavailable, polling only", "path", t.path, "error", err)
		} else {
			events = watcher.Events
		}
	} else {
		t.logger.Warn("fsnotify unavailable, polling only", "error", err)
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.poll()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Name == t.path && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				t.poll()
			}
		}
	}
}

// poll reads the whole file and publishes it. A missing file publishes the
// empty string; the external writer may not have created it yet.
func (t *Tailer) poll() {
	data, err := os.ReadFile(t.path)
	if err != nil && !os.IsNotExist(err) {
		t.logger.Warn("read log file", "path", t.path, "error", err)
		return
	}

	snapshot := string(data)

	t.mu.Lock()
	t.last = snapshot
	for ch := range t.subs {
		select {
		case ch <- snapshot:
		default:
			// Drop for slow consumers; the next poll supersedes this one.
		}
	}
	t.mu.Unlock()
}
