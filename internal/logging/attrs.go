package logging

import (
	"log/slog"
	"time"
)

// Attr is re-exported so callers only import this package for log fields.
type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error tags err under the "error" key. A nil error is rendered as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// File tags the media file a line refers to.
func File(path string) Attr { return slog.String(FieldFile, path) }

// TrackID tags the mkvmerge track ID a line refers to.
func TrackID(id int) Attr { return slog.Int(FieldTrackID, id) }

// Event tags a machine-friendly event name.
func Event(name string) Attr { return slog.String(FieldEventType, name) }

// Args converts attrs to the variadic form slog's level methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

func hasKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// WarnWithContext logs a warning that always carries event_type and
// error_hint so operators can grep for failures that need action.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	if !hasKey(attrs, FieldEventType) {
		attrs = append(attrs, Event(eventType))
	}
	if !hasKey(attrs, FieldErrorHint) {
		attrs = append(attrs, String(FieldErrorHint, "check logs for details"))
	}
	logger.Warn(msg, Args(attrs...)...)
}

// DecisionAttrs describes the outcome of a per-file decision.
func DecisionAttrs(decisionType, result, reason string, extra ...Attr) []any {
	attrs := []Attr{
		String(FieldDecisionType, decisionType),
		String(FieldDecisionResult, result),
	}
	if reason != "" {
		attrs = append(attrs, String(FieldDecisionReason, reason))
	}
	return Args(append(attrs, extra...)...)
}
