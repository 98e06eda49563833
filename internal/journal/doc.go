// Package journal persists the outcome of every completed upload attempt to
// a SQLite database for the status and history CLI views.
//
// The journal is observability only. Dedup decisions are made exclusively by
// the in-memory ledger; the journal is never consulted when deciding whether
// to upload, so clearing or deleting it cannot cause duplicate suppression or
// duplicate uploads.
package journal
