package journal_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"squelch/internal/journal"
	"squelch/internal/testsupport"
)

func TestRecordAssignsIDAndTimestamps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	entry := journal.Entry{
		AttemptID:      "attempt-1",
		Stem:           "20241223_204051Site__TO_9999",
		TalkgroupID:    "9999",
		RadioID:        "123456",
		CaptureTime:    "20241223_204051",
		TranscriptSize: 128,
		Outcome:        journal.OutcomeUploaded,
		HTTPStatus:     200,
	}
	saved, err := store.Record(context.Background(), entry)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp")
	}

	loaded, err := store.ByStem(context.Background(), entry.Stem)
	if err != nil {
		t.Fatalf("ByStem: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(loaded))
	}
	got := loaded[0]
	if got.AttemptID != entry.AttemptID {
		t.Fatalf("unexpected attempt id: %q", got.AttemptID)
	}
	if got.TalkgroupID != entry.TalkgroupID || got.RadioID != entry.RadioID {
		t.Fatalf("unexpected identifiers: %+v", got)
	}
	if got.TranscriptSize != entry.TranscriptSize {
		t.Fatalf("unexpected transcript size: %d", got.TranscriptSize)
	}
	if got.Outcome != journal.OutcomeUploaded {
		t.Fatalf("unexpected outcome: %q", got.Outcome)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp round trip")
	}
}

func TestRecordRequiresAttemptIDAndStem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if _, err := store.Record(context.Background(), journal.Entry{Stem: "stem", Outcome: journal.OutcomeFailed}); err == nil {
		t.Fatal("expected error for missing attempt id")
	}
	if _, err := store.Record(context.Background(), journal.Entry{AttemptID: "a", Outcome: journal.OutcomeFailed}); err == nil {
		t.Fatal("expected error for missing stem")
	}
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	for i := 0; i < 5; i++ {
		_, err := store.Record(context.Background(), journal.Entry{
			AttemptID: fmt.Sprintf("attempt-%d", i),
			Stem:      fmt.Sprintf("stem-%d", i),
			Outcome:   journal.OutcomeUploaded,
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries, err := store.Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Stem != "stem-4" || entries[2].Stem != "stem-2" {
		t.Fatalf("unexpected order: %q, %q", entries[0].Stem, entries[2].Stem)
	}
}

func TestSummarizeCountsOutcomes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	outcomes := []journal.Outcome{
		journal.OutcomeUploaded,
		journal.OutcomeUploaded,
		journal.OutcomeConflict,
		journal.OutcomeRejected,
		journal.OutcomeFailed,
	}
	for i, outcome := range outcomes {
		_, err := store.Record(context.Background(), journal.Entry{
			AttemptID: fmt.Sprintf("attempt-%d", i),
			Stem:      "stem",
			Outcome:   outcome,
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	stats, err := store.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := journal.Stats{Total: 5, Uploaded: 2, Conflict: 1, Rejected: 1, Failed: 1}
	if stats != want {
		t.Fatalf("unexpected stats: got %+v want %+v", stats, want)
	}
}

func TestClearRemovesAllEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	for i := 0; i < 3; i++ {
		_, err := store.Record(context.Background(), journal.Entry{
			AttemptID: fmt.Sprintf("attempt-%d", i),
			Stem:      "stem",
			Outcome:   journal.OutcomeUploaded,
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	removed, err := store.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}

	stats, err := store.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("expected empty journal, got %+v", stats)
	}
}

func TestPathLivesInLogDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if store.Path() != filepath.Join(cfg.Paths.LogDir, "journal.db") {
		t.Fatalf("unexpected journal path: %q", store.Path())
	}
}
