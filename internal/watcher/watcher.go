// Package watcher reports changes to a board directory, coalescing bursts of
// file events into a single callback.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long the directory must stay quiet before the callback fires.
const settle = 100 * time.Millisecond

// Watcher watches board directories and calls back after changes settle.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func()

	mu    sync.Mutex
	timer *time.Timer
}

// New watches dirs. onChange runs on its own goroutine after each burst of
// relevant events.
func New(dirs []string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return &Watcher{fsw: fsw, onChange: onChange}, nil
}

// Relevant reports whether a change to name can alter what a board shows.
// Lock files, atomic-write temporaries, and the activity log are ignored.
func Relevant(name string) bool {
	base := filepath.Base(name)
	switch {
	case base == ".lock", strings.HasSuffix(base, ".tmp"), strings.HasSuffix(base, ".jsonl"):
		return false
	case strings.HasSuffix(base, ".md"), strings.HasSuffix(base, ".yml"), strings.HasSuffix(base, ".yaml"):
		return true
	}
	return false
}

// Run dispatches events until ctx is done or the watcher is closed. Watch
// errors go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
				!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if Relevant(ev.Name) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(settle, w.onChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
