package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"audiodefault/internal/language"
	"audiodefault/internal/media/ffprobe"
)

// RemuxableExtension is the only container whose default flags are rewritten.
const RemuxableExtension = ".mkv"

// Stream is the audio metadata the decision needs.
type Stream struct {
	// Index is the zero-based position among the file's audio streams.
	Index    int
	Language string
	Default  bool
}

// Action is the terminal step chosen for a file.
type Action int

const (
	// ActionSkip leaves the file untouched without reporting it.
	ActionSkip Action = iota
	// ActionWarn reports the file for manual review.
	ActionWarn
	// ActionRemux rewrites the file with Stream as default.
	ActionRemux
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionWarn:
		return "warn"
	case ActionRemux:
		return "remux"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision describes what to do with one file.
type Decision struct {
	Action Action
	// Reason explains a skip or a warning.
	Reason string
	// Stream is the target stream when Action is ActionRemux.
	Stream Stream
}

// Target describes the language that should own the default flag.
type Target struct {
	Code string
	Name string
}

// NewTarget builds a Target for an ISO 639-2 code.
func NewTarget(code string) Target {
	code = language.Normalize(code)
	return Target{Code: code, Name: language.DisplayName(code)}
}

// English is the default target.
var English = NewTarget("eng")

// NotMKVReason is reported for non-Matroska files that would need a fix.
func (t Target) NotMKVReason() string {
	return "Not MKV - cannot safely edit defaults"
}

// MultipleReason is reported when more than one stream matches the target.
func (t Target) MultipleReason() string {
	return fmt.Sprintf("Multiple %s audio tracks - manual review needed", t.Name)
}

// UnresolvedReason is reported when no mkvmerge track ID matches the stream.
func (t Target) UnresolvedReason() string {
	return fmt.Sprintf("Could not determine mkvmerge track ID for %s track", t.Name)
}

// MismatchReason is reported when mkvmerge lists a different language at the
// resolved position.
func (t Target) MismatchReason() string {
	return fmt.Sprintf("mkvmerge track order disagrees with ffprobe for %s track - manual review needed", t.Name)
}

// RemuxFailedReason is reported when the rewrite fails.
func (t Target) RemuxFailedReason() string {
	return "Failed to set default track"
}

// SuccessAction describes a successful rewrite.
func (t Target) SuccessAction() string {
	return fmt.Sprintf("Set %s track as default", t.Name)
}

// DryRunAction describes a rewrite that was validated but not performed.
func (t Target) DryRunAction() string {
	return fmt.Sprintf("Would set %s track as default (dry run)", t.Name)
}

// FromProbe converts ffprobe streams to Streams, numbering them in order.
// Language comes from the stream tags, then the stream-level field, then
// falls back to "und".
func FromProbe(streams []ffprobe.Stream) []Stream {
	result := make([]Stream, 0, len(streams))
	for i, stream := range streams {
		lang := language.ExtractFromTags(stream.Tags)
		if lang == "" {
			lang = stream.Language
		}
		result = append(result, Stream{
			Index:    i,
			Language: language.Normalize(lang),
			Default:  stream.IsDefault(),
		})
	}
	return result
}

// Decide maps one file's audio streams to an action.
func Decide(path string, streams []Stream, target Target) Decision {
	if len(streams) <= 1 {
		return Decision{Action: ActionSkip, Reason: "single or no audio stream"}
	}

	var matches []Stream
	for _, stream := range streams {
		if language.Matches(stream.Language, target.Code) {
			matches = append(matches, stream)
		}
	}
	if len(matches) == 0 {
		return Decision{Action: ActionSkip, Reason: "no " + target.Code + " audio stream"}
	}

	if !strings.EqualFold(filepath.Ext(path), RemuxableExtension) {
		return Decision{Action: ActionWarn, Reason: target.NotMKVReason()}
	}

	// Checked before defaults: several candidates are never auto-resolved.
	if len(matches) > 1 {
		return Decision{Action: ActionWarn, Reason: target.MultipleReason()}
	}

	match := matches[0]
	if match.Default {
		return Decision{Action: ActionSkip, Reason: "already default"}
	}
	return Decision{Action: ActionRemux, Stream: match}
}
