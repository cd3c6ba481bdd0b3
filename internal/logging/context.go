package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies every line emitted by a single scan run.
	FieldRunID = "run_id"
	// FieldEventType is the standardized key for machine-friendly event names.
	FieldEventType = "event_type"
	// FieldErrorHint carries a short next step for the operator.
	FieldErrorHint = "error_hint"
	// FieldDecisionType is the standardized key for decision log lines.
	FieldDecisionType = "decision_type"
	// FieldDecisionResult holds the chosen action of a decision.
	FieldDecisionResult = "decision_result"
	// FieldDecisionReason explains a decision when it is not self-evident.
	FieldDecisionReason = "decision_reason"
	// FieldFile is the media file a log line refers to.
	FieldFile = "file"
	// FieldTrackID is the mkvmerge track identifier a log line refers to.
	FieldTrackID = "track_id"
)

// WithRunID returns a logger that tags every line with the run identifier.
func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if runID == "" {
		return logger
	}
	return logger.With(String(FieldRunID, runID))
}
