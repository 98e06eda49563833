package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"squelch/internal/logging"
	"squelch/internal/testsupport"
	"squelch/internal/watcher"
)

type recordingSink struct {
	mu        sync.Mutex
	observed  []string
	forgotten []string
}

func (s *recordingSink) Observe(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed = append(s.observed, path)
}

func (s *recordingSink) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgotten = append(s.forgotten, path)
}

func (s *recordingSink) sawObserved(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, candidate := range s.observed {
		if candidate == path {
			return true
		}
	}
	return false
}

func (s *recordingSink) sawForgotten(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, candidate := range s.forgotten {
		if candidate == path {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func startWatcher(t *testing.T, root string, sink watcher.Sink) *watcher.Watcher {
	t.Helper()
	w := watcher.New(root, sink, logging.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcherForwardsWritesInExistingSubdirectories(t *testing.T) {
	root := t.TempDir()
	site := filepath.Join(root, "site")
	if err := os.MkdirAll(site, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	sink := &recordingSink{}
	startWatcher(t, root, sink)

	target := filepath.Join(site, "capture.txt")
	testsupport.WriteFile(t, target, []byte("transcript"))

	waitFor(t, func() bool { return sink.sawObserved(target) })
}

func TestWatcherPicksUpNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	sink := &recordingSink{}
	startWatcher(t, root, sink)

	site := filepath.Join(root, "talkgroup_52189")
	if err := os.MkdirAll(site, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// The directory watch is established asynchronously from the create
	// event, so keep writing until an event lands.
	target := filepath.Join(site, "capture.txt")
	waitFor(t, func() bool {
		testsupport.WriteFile(t, target, []byte("transcript"))
		time.Sleep(20 * time.Millisecond)
		return sink.sawObserved(target)
	})
}

func TestWatcherForgetsRemovedPaths(t *testing.T) {
	root := t.TempDir()
	site := filepath.Join(root, "site")
	target := filepath.Join(site, "capture.txt")
	testsupport.WriteFile(t, target, []byte("transcript"))

	sink := &recordingSink{}
	startWatcher(t, root, sink)

	if err := os.Remove(target); err != nil {
		t.Fatalf("remove: %v", err)
	}

	waitFor(t, func() bool { return sink.sawForgotten(target) })
}

func TestStartFailsForMissingRoot(t *testing.T) {
	w := watcher.New(filepath.Join(t.TempDir(), "absent"), &recordingSink{}, logging.NewNop())
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected Start to fail for missing root")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w := watcher.New(root, &recordingSink{}, logging.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}
