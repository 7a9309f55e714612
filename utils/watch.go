package utils

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period a file must stay unchanged before a
// watch callback fires.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls back when watched files change. Bursts of events for one
// file collapse into a single call after the debounce period.
type Watcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	pending   map[string]func(func())
	closed    bool
}

// NewWatcher creates a watcher with the given debounce period.
func NewWatcher(period time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		watcher:   watcher,
		callbacks: make(map[string]func(string)),
		debounce:  period,
		pending:   make(map[string]func(func())),
	}, nil
}

// Watch registers callback for files. The parent directories are watched
// so files replaced by rename keep being tracked.
func (w *Watcher) Watch(files []string, callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		dir := filepath.Dir(absPath)
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.callbacks[absPath] = callback
	}
	return nil
}

// Run dispatches events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.handleFileChange(filepath.Clean(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleFileChange(filePath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	callback, exists := w.callbacks[filePath]
	if !exists || w.closed {
		return
	}
	debounced, ok := w.pending[filePath]
	if !ok {
		debounced = debounce.New(w.debounce)
		w.pending[filePath] = debounced
	}
	debounced(func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			callback(filePath)
		}
	})
}

// Close drops pending callbacks and stops the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.pending = make(map[string]func(func()))
	w.mu.Unlock()
	return w.watcher.Close()
}

// RunWatch converts inPath to outPath once, then again every time inPath
// changes, until ctx is cancelled. Conversion errors are logged, not
// returned, so a half-written input does not end the watch.
func RunWatch(ctx context.Context, inPath, outPath string, cfg Config, period time.Duration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w, err := NewWatcher(period)
	if err != nil {
		return err
	}
	defer w.Close()

	var convertMu sync.Mutex
	convert := func(string) {
		convertMu.Lock()
		defer convertMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if err := Convert(inPath, outPath, cfg); err != nil {
			log.Printf("convert %s: %v", inPath, err)
			return
		}
		log.Printf("wrote %s", outPath)
	}

	if err := w.Watch([]string{inPath}, convert); err != nil {
		return err
	}
	convert(inPath)
	log.Printf("watching %s", inPath)
	return w.Run(ctx)
}
