package journal

import "time"

// Outcome classifies how an upload attempt ended.
type Outcome string

const (
	// OutcomeUploaded means the endpoint accepted the pair with a 2xx status.
	OutcomeUploaded Outcome = "uploaded"
	// OutcomeConflict means the endpoint answered 409; the server already
	// holds the capture and the signature was committed as processed.
	OutcomeConflict Outcome = "conflict"
	// OutcomeRejected means the endpoint answered an unexpected status; the
	// signature was not committed and remains eligible for retry.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means the request never completed (read or transport
	// failure); the signature remains eligible for retry.
	OutcomeFailed Outcome = "failed"
)

// Entry records one completed upload attempt.
type Entry struct {
	ID             int64
	AttemptID      string
	Stem           string
	TalkgroupID    string
	RadioID        string
	CaptureTime    string
	TranscriptSize int64
	Outcome        Outcome
	HTTPStatus     int
	ErrorMessage   string
	CreatedAt      time.Time
}

// Stats aggregates journal entries by outcome.
type Stats struct {
	Total    int
	Uploaded int
	Conflict int
	Rejected int
	Failed   int
}
