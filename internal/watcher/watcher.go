// Package watcher establishes the recursive filesystem watch over the
// capture tree and forwards relevant change notifications to the debounce
// coalescer. fsnotify watches single directories, so the watcher walks the
// tree at startup and adds new subdirectories as they appear.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"squelch/internal/logging"
)

// Sink receives filtered watch notifications. Observe is called for create
// and write events, Forget for remove and rename events.
type Sink interface {
	Observe(path string)
	Forget(path string)
}

// Watcher owns the fsnotify watch set for one capture tree.
type Watcher struct {
	logger *slog.Logger
	root   string
	sink   Sink

	mu      sync.Mutex
	running bool
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds a watcher for root delivering events to sink.
func New(root string, sink Sink, logger *slog.Logger) *Watcher {
	return &Watcher{
		logger: logging.NewComponentLogger(logger, "watcher"),
		root:   filepath.Clean(root),
		sink:   sink,
	}
}

// Root returns the watched root directory.
func (w *Watcher) Root() string {
	return w.root
}

// Start establishes the recursive watch and begins forwarding events.
// Failure to establish the watch is fatal for the daemon.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch root %q is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(fsw, w.root); err != nil {
		_ = fsw.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(runCtx, fsw)

	w.logger.Info("watching capture tree", logging.String("root", w.root))
	return nil
}

// Stop tears down the watch and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	fsw := w.fsw
	w.running = false
	w.cancel = nil
	w.fsw = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if fsw != nil {
		_ = fsw.Close()
	}
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, event.Name); err != nil {
				w.logger.Warn("watch new directory", logging.String(logging.FieldPath, event.Name), logging.Error(err))
			}
			return
		}
		w.sink.Observe(event.Name)
	case event.Op.Has(fsnotify.Write):
		w.sink.Observe(event.Name)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.sink.Forget(event.Name)
	}
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Entries can disappear between the event and the walk.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %q: %w", path, err)
		}
		return nil
	})
}
