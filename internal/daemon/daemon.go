// Package daemon wires the watcher, debounce coalescer, dedup ledger, and
// upload submitter into the long-running squelch process and enforces
// single-instance execution.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"squelch/internal/config"
	"squelch/internal/debounce"
	"squelch/internal/dedup"
	"squelch/internal/journal"
	"squelch/internal/logging"
	"squelch/internal/uploader"
	"squelch/internal/watcher"
)

// Daemon coordinates the capture upload pipeline.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	journal   *journal.Store
	ledger    *dedup.Ledger
	submitter *uploader.Submitter
	coalescer *debounce.Coalescer
	watch     *watcher.Watcher

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	WatchRoot      string
	PendingPaths   int
	HistoryEntries int
	InFlight       int
	JournalDBPath  string
	LockFilePath   string
}

// New constructs a daemon with initialized dependencies. The journal store
// may be nil to run without persistence of upload outcomes.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	ledger := dedup.NewLedger(cfg.Watcher.HistoryLimit)
	submitter := uploader.New(cfg, ledger, store, logger)
	coalescer := debounce.NewCoalescer(
		time.Duration(cfg.Watcher.SettleSeconds)*time.Second,
		submitter.HandleStable,
		logger,
	)
	watch := watcher.New(cfg.Paths.WatchDir, coalescer, logger)

	lockPath := filepath.Join(cfg.Paths.LogDir, "squelch.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		journal:   store,
		ledger:    ledger,
		submitter: submitter,
		coalescer: coalescer,
		watch:     watch,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the watch pipeline.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another squelch instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.coalescer.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start coalescer: %w", err)
	}
	if err := d.watch.Start(runCtx); err != nil {
		d.coalescer.Stop()
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start watcher: %w", err)
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("squelch daemon started",
		logging.String("watch_root", d.cfg.Paths.WatchDir),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop halts event intake, waits for outstanding stabilization goroutines,
// and releases the daemon lock. In-flight uploads are abandoned.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.watch.Stop()
	d.coalescer.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("squelch daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.journal != nil {
		return d.journal.Close()
	}
	return nil
}

// Submit uploads an existing pair directly, bypassing the watcher but not
// the dedup ledger. Used by the manual test-upload command.
func (d *Daemon) Submit(ctx context.Context, path string) error {
	d.submitter.HandleStable(ctx, path)
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	history, inflight := d.ledger.Stats()
	status := Status{
		Running:        d.running.Load(),
		WatchRoot:      d.cfg.Paths.WatchDir,
		PendingPaths:   d.coalescer.Pending(),
		HistoryEntries: history,
		InFlight:       inflight,
		LockFilePath:   d.lockPath,
	}
	if d.journal != nil {
		status.JournalDBPath = d.journal.Path()
	}
	return status
}
