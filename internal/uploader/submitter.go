package uploader

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"squelch/internal/capture"
	"squelch/internal/config"
	"squelch/internal/dedup"
	"squelch/internal/journal"
	"squelch/internal/logging"
)

const (
	apiKeyHeader = "X-API-Key"
	userAgent    = "squelch/0.1.0"

	fieldTalkgroup  = "talkgroupId"
	fieldTimestamp  = "timestamp"
	fieldRadio      = "radioId"
	fieldAudio      = "mp3"
	fieldTranscript = "transcription"
)

// Submitter uploads capture pairs and owns the ledger reconciliation rules.
type Submitter struct {
	logger   *slog.Logger
	ledger   *dedup.Ledger
	journal  *journal.Store
	client   *http.Client
	endpoint string
	apiKey   string
	root     string
}

// New builds a submitter from configuration. The journal may be nil; journal
// write failures never affect upload outcomes.
func New(cfg *config.Config, ledger *dedup.Ledger, store *journal.Store, logger *slog.Logger) *Submitter {
	client := &http.Client{Timeout: time.Duration(cfg.Uploader.RequestTimeout) * time.Second}
	if cfg.Uploader.InsecureTLS {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		client.Transport = transport
	}

	return &Submitter{
		logger:   logging.NewComponentLogger(logger, "uploader"),
		ledger:   ledger,
		journal:  store,
		client:   client,
		endpoint: cfg.Uploader.APIURL,
		apiKey:   cfg.Uploader.APIKey,
		root:     cfg.Paths.WatchDir,
	}
}

// HandleStable processes one stabilized path end to end: eligibility,
// pairing, and submission. It is the debounce coalescer's handler and never
// returns an error; failures are logged and the capture stays eligible for a
// retry triggered by a later event.
func (s *Submitter) HandleStable(ctx context.Context, path string) {
	if !capture.Eligible(path, s.root) {
		s.logger.Debug("path not eligible", logging.String(logging.FieldPath, path))
		return
	}
	pair, complete := capture.Resolve(path)
	if !complete {
		// The missing half arrives with its own event shortly.
		s.logger.Debug("pair incomplete", logging.String(logging.FieldPath, path))
		return
	}
	if err := s.Submit(ctx, pair); err != nil {
		s.logger.Warn("upload attempt failed",
			logging.String(logging.FieldStem, pair.Stem),
			logging.Error(err),
		)
	}
}

// Submit uploads one complete capture pair, applying the dedup rules from
// the ledger. A nil return means the attempt ended in a decided state:
// uploaded, confirmed duplicate, or deliberately skipped.
func (s *Submitter) Submit(ctx context.Context, pair capture.Pair) error {
	info, err := os.Stat(pair.TranscriptPath)
	if err != nil {
		return wrap(ErrRead, "stat transcript", err)
	}
	if info.Size() == 0 {
		// Transcription not written yet; a later event retries.
		s.logger.Debug("transcript empty, skipping", logging.String(logging.FieldStem, pair.Stem))
		return nil
	}

	sig := dedup.Signature{Stem: pair.Stem, Size: info.Size(), Modified: info.ModTime()}
	if s.ledger.IsProcessed(sig) {
		s.logger.Debug("already uploaded, skipping", logging.String(logging.FieldStem, pair.Stem))
		return nil
	}
	if !s.ledger.Admit(sig) {
		s.logger.Debug("upload already in flight, skipping", logging.String(logging.FieldStem, pair.Stem))
		return nil
	}
	defer s.ledger.Release(sig)

	attemptID := uuid.NewString()
	ctx = logging.WithAttemptID(logging.WithStem(ctx, pair.Stem), attemptID)
	logger := logging.WithContext(ctx, s.logger)

	meta, matched := capture.ParseFilename(filepath.Base(pair.AudioPath))
	if !matched {
		logger.Debug("filename outside capture grammar, skipping",
			logging.String(logging.FieldPath, pair.AudioPath),
		)
		return nil
	}

	entry := journal.Entry{
		AttemptID:      attemptID,
		Stem:           pair.Stem,
		TalkgroupID:    meta.TalkgroupID,
		RadioID:        meta.RadioID,
		CaptureTime:    meta.Timestamp,
		TranscriptSize: sig.Size,
	}

	transcriptBytes, err := os.ReadFile(pair.TranscriptPath)
	if err != nil {
		s.record(ctx, logger, failedEntry(entry, err))
		return wrap(ErrRead, "read transcript", err)
	}
	audioBytes, err := os.ReadFile(pair.AudioPath)
	if err != nil {
		s.record(ctx, logger, failedEntry(entry, err))
		return wrap(ErrRead, "read recording", err)
	}

	body, contentType, err := buildForm(pair, meta, audioBytes, transcriptBytes)
	if err != nil {
		s.record(ctx, logger, failedEntry(entry, err))
		return fmt.Errorf("build multipart form: %w", err)
	}

	logger.Info("uploading capture",
		logging.String("talkgroup_id", meta.TalkgroupID),
		logging.String("radio_id", meta.RadioID),
		logging.String("capture_time", meta.Timestamp),
		logging.Int64("transcript_bytes", sig.Size),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		s.record(ctx, logger, failedEntry(entry, err))
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(apiKeyHeader, s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.record(ctx, logger, failedEntry(entry, err))
		return wrap(ErrTransport, "send upload", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	entry.HTTPStatus = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		s.ledger.Commit(sig)
		entry.Outcome = journal.OutcomeUploaded
		logger.Info("upload complete", logging.Int("status", resp.StatusCode))
	case resp.StatusCode == http.StatusConflict:
		// The server already holds this capture; treat as confirmation.
		s.ledger.Commit(sig)
		entry.Outcome = journal.OutcomeConflict
		logger.Info("capture already on server", logging.Int("status", resp.StatusCode))
	default:
		entry.Outcome = journal.OutcomeRejected
		logger.Warn("unexpected upload status",
			logging.Int("status", resp.StatusCode),
			logging.String(logging.FieldEventType, "upload_rejected"),
		)
	}
	s.record(ctx, logger, entry)
	return nil
}

func (s *Submitter) record(ctx context.Context, logger *slog.Logger, entry journal.Entry) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Record(ctx, entry); err != nil {
		logger.Warn("journal write failed", logging.Error(err))
	}
}

func failedEntry(entry journal.Entry, err error) journal.Entry {
	entry.Outcome = journal.OutcomeFailed
	if err != nil {
		entry.ErrorMessage = strings.TrimSpace(err.Error())
	}
	return entry
}

func buildForm(pair capture.Pair, meta capture.Metadata, audio, transcript []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := map[string]string{
		fieldTalkgroup: meta.TalkgroupID,
		fieldTimestamp: meta.Timestamp,
		fieldRadio:     meta.RadioID,
	}
	for _, name := range []string{fieldTalkgroup, fieldTimestamp, fieldRadio} {
		if err := form.WriteField(name, fields[name]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if err := writeFilePart(form, fieldAudio, filepath.Base(pair.AudioPath), "audio/mpeg", audio); err != nil {
		return nil, "", err
	}
	if err := writeFilePart(form, fieldTranscript, filepath.Base(pair.TranscriptPath), "text/plain", transcript); err != nil {
		return nil, "", err
	}

	if err := form.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return body, form.FormDataContentType(), nil
}

func writeFilePart(form *multipart.Writer, field, filename, contentType string, data []byte) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create part %s: %w", field, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", field, err)
	}
	return nil
}
