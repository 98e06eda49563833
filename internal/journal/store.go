package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"squelch/internal/config"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS upload_attempts (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    attempt_id      TEXT NOT NULL,
    stem            TEXT NOT NULL,
    talkgroup_id    TEXT,
    radio_id        TEXT,
    capture_time    TEXT,
    transcript_size INTEGER NOT NULL DEFAULT 0,
    outcome         TEXT NOT NULL,
    http_status     INTEGER NOT NULL DEFAULT 0,
    error_message   TEXT,
    created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_attempts_stem ON upload_attempts (stem);
CREATE INDEX IF NOT EXISTS idx_upload_attempts_created ON upload_attempts (created_at);
`

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database in the log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the journal database.
func (s *Store) Path() string {
	return s.path
}

// Record inserts one completed attempt and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	if entry.AttemptID == "" {
		return nil, errors.New("attempt id is required")
	}
	if entry.Stem == "" {
		return nil, errors.New("stem is required")
	}
	entry.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO upload_attempts (
            attempt_id, stem, talkgroup_id, radio_id, capture_time,
            transcript_size, outcome, http_status, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.AttemptID,
		entry.Stem,
		nullableString(entry.TalkgroupID),
		nullableString(entry.RadioID),
		nullableString(entry.CaptureTime),
		entry.TranscriptSize,
		string(entry.Outcome),
		entry.HTTPStatus,
		nullableString(entry.ErrorMessage),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// Recent returns the most recent entries, newest first, up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM upload_attempts ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ByStem returns all entries recorded for a capture stem, oldest first.
func (s *Store) ByStem(ctx context.Context, stem string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM upload_attempts WHERE stem = ? ORDER BY id`,
		stem,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts by stem: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Summarize returns a count of entries grouped by outcome.
func (s *Store) Summarize(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM upload_attempts GROUP BY outcome`)
	if err != nil {
		return Stats{}, fmt.Errorf("journal stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{}
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return Stats{}, err
		}
		stats.Total += count
		switch Outcome(outcome) {
		case OutcomeUploaded:
			stats.Uploaded += count
		case OutcomeConflict:
			stats.Conflict += count
		case OutcomeRejected:
			stats.Rejected += count
		case OutcomeFailed:
			stats.Failed += count
		}
	}
	return stats, rows.Err()
}

// Clear removes all journal entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM upload_attempts`)
	if err != nil {
		return 0, fmt.Errorf("clear journal: %w", err)
	}
	return res.RowsAffected()
}

const entryColumns = "id, attempt_id, stem, talkgroup_id, radio_id, capture_time, transcript_size, outcome, http_status, error_message, created_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id             int64
		attemptID      string
		stem           string
		talkgroupID    sql.NullString
		radioID        sql.NullString
		captureTime    sql.NullString
		transcriptSize int64
		outcome        string
		httpStatus     int
		errorMessage   sql.NullString
		createdRaw     string
	)

	if err := scanner.Scan(
		&id,
		&attemptID,
		&stem,
		&talkgroupID,
		&radioID,
		&captureTime,
		&transcriptSize,
		&outcome,
		&httpStatus,
		&errorMessage,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:             id,
		AttemptID:      attemptID,
		Stem:           stem,
		TalkgroupID:    talkgroupID.String,
		RadioID:        radioID.String,
		CaptureTime:    captureTime.String,
		TranscriptSize: transcriptSize,
		Outcome:        Outcome(outcome),
		HTTPStatus:     httpStatus,
		ErrorMessage:   errorMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
