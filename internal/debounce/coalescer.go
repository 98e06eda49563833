// Package debounce collapses bursts of filesystem events per path and
// releases a path for processing only after it has been quiet for a
// stabilization window. Recording and transcription tools write their output
// incrementally; acting on the first event would upload truncated files.
package debounce

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"squelch/internal/logging"
)

// Handler receives a path once it has stabilized.
type Handler func(ctx context.Context, path string)

// Coalescer owns the per-path debounce state. One stabilization goroutine is
// outstanding per active path; further events for that path only refresh its
// last-seen time. The wait self-extends, so a file written in bursts longer
// than the window is still only released once the writer goes quiet.
type Coalescer struct {
	logger  *slog.Logger
	window  time.Duration
	handler Handler

	mu       sync.Mutex
	lastSeen map[string]time.Time
	active   map[string]struct{}
	running  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCoalescer builds a coalescer releasing stable paths to handler after
// window of quiet.
func NewCoalescer(window time.Duration, handler Handler, logger *slog.Logger) *Coalescer {
	return &Coalescer{
		logger:   logging.NewComponentLogger(logger, "debounce"),
		window:   window,
		handler:  handler,
		lastSeen: make(map[string]time.Time),
		active:   make(map[string]struct{}),
	}
}

// Start prepares the coalescer for event intake.
func (c *Coalescer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return errors.New("coalescer already running")
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.running = true
	return nil
}

// Stop cancels outstanding stabilization waits and blocks until they exit.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.running = false
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// Observe records a change event for path. The first event for a quiet path
// starts a stabilization wait; subsequent events refresh the last-seen time
// without spawning a second wait. Observe never blocks on processing.
func (c *Coalescer) Observe(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.lastSeen[path] = time.Now()
	if _, outstanding := c.active[path]; outstanding {
		return
	}
	c.active[path] = struct{}{}
	c.wg.Add(1)
	go c.stabilize(c.ctx, path)
}

// Forget drops path from the debounce state. An outstanding stabilization
// wait for the path takes its abandoned exit without invoking the handler.
// Used when the path is removed or renamed away.
func (c *Coalescer) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lastSeen, path)
}

// Pending returns the number of paths with an outstanding stabilization wait.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

func (c *Coalescer) stabilize(ctx context.Context, path string) {
	defer c.wg.Done()

	timer := time.NewTimer(c.window)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			delete(c.active, path)
			delete(c.lastSeen, path)
			c.mu.Unlock()
			return
		case <-timer.C:
		}

		c.mu.Lock()
		last, present := c.lastSeen[path]
		if !present {
			delete(c.active, path)
			c.mu.Unlock()
			c.logger.Debug("stabilization abandoned", logging.String(logging.FieldPath, path))
			return
		}
		elapsed := time.Since(last)
		if elapsed >= c.window {
			delete(c.lastSeen, path)
			delete(c.active, path)
			c.mu.Unlock()
			c.logger.Debug("path stabilized",
				logging.String(logging.FieldPath, path),
				logging.Duration("quiet", elapsed),
			)
			c.handler(ctx, path)
			return
		}
		c.mu.Unlock()
		timer.Reset(c.window - elapsed)
	}
}
