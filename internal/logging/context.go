package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPath is the standardized structured logging key for watched file paths.
	FieldPath = "path"
	// FieldStem is the standardized structured logging key for capture stems.
	FieldStem = "stem"
	// FieldAttemptID is the standardized structured logging key for upload attempt identifiers.
	FieldAttemptID = "attempt_id"
	// FieldEventType tags log lines with a machine-readable event classification.
	FieldEventType = "event_type"
)

type contextKey string

const (
	stemKey      contextKey = "stem"
	attemptIDKey contextKey = "attempt_id"
)

// WithStem annotates context with the capture stem being processed.
func WithStem(ctx context.Context, stem string) context.Context {
	if stem == "" {
		return ctx
	}
	return context.WithValue(ctx, stemKey, stem)
}

// StemFromContext returns the capture stem if present.
func StemFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stemKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAttemptID annotates context with an upload attempt correlation identifier.
func WithAttemptID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, attemptIDKey, id)
}

// AttemptIDFromContext extracts the attempt identifier if present.
func AttemptIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(attemptIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if stem, ok := StemFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStem, stem))
	}
	if id, ok := AttemptIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAttemptID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
