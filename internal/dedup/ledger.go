// Package dedup tracks which capture transcripts have been uploaded and
// which are currently in flight, making uploads idempotent under duplicate
// and concurrent filesystem events.
package dedup

import (
	"sync"
	"time"
)

// Signature identifies one version of a transcript file. Any rewrite of the
// transcript, even with identical content length, changes the modified time
// and therefore counts as a new logical file.
type Signature struct {
	Stem     string
	Size     int64
	Modified time.Time
}

// Equal is structural over all three fields.
func (s Signature) Equal(other Signature) bool {
	return s.Stem == other.Stem && s.Size == other.Size && s.Modified.Equal(other.Modified)
}

// Ledger remembers recently uploaded signatures (bounded FIFO history) and
// signatures with an upload currently in progress. History is deliberately
// in-memory only; a restart forgets it and relies on the server's conflict
// response for files uploaded before the restart.
//
// The in-flight set is unbounded, unlike history. That asymmetry is
// intentional: in-flight entries live only for the duration of one upload
// attempt and their count is limited by concurrent uploads, not by time.
type Ledger struct {
	mu       sync.Mutex
	limit    int
	history  []Signature
	inflight []Signature
}

// DefaultHistoryLimit bounds the upload history when no limit is configured.
const DefaultHistoryLimit = 25

// NewLedger creates a ledger with the given history bound. A non-positive
// limit falls back to DefaultHistoryLimit.
func NewLedger(limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Ledger{limit: limit}
}

// IsProcessed reports whether an equal signature has already been committed.
func (l *Ledger) IsProcessed(sig Signature) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return containsSignature(l.history, sig)
}

// IsInFlight reports whether an equal signature has an upload in progress.
func (l *Ledger) IsInFlight(sig Signature) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return containsSignature(l.inflight, sig)
}

// Admit atomically claims sig for upload. It returns false when an equal
// signature is already in flight; only the caller that receives true may
// proceed, and that caller must Release the signature exactly once whatever
// the outcome.
func (l *Ledger) Admit(sig Signature) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if containsSignature(l.inflight, sig) {
		return false
	}
	l.inflight = append(l.inflight, sig)
	return true
}

// Release removes sig from the in-flight set. Releasing a signature that is
// not in flight is a no-op.
func (l *Ledger) Release(sig Signature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, candidate := range l.inflight {
		if candidate.Equal(sig) {
			l.inflight = append(l.inflight[:i], l.inflight[i+1:]...)
			return
		}
	}
}

// Commit records sig as uploaded, evicting the oldest history entry once the
// bound is exceeded.
func (l *Ledger) Commit(sig Signature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, sig)
	for len(l.history) > l.limit {
		l.history = l.history[1:]
	}
}

// Stats returns the current history and in-flight sizes for diagnostics.
func (l *Ledger) Stats() (history, inflight int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history), len(l.inflight)
}

func containsSignature(list []Signature, sig Signature) bool {
	for _, candidate := range list {
		if candidate.Equal(sig) {
			return true
		}
	}
	return false
}
