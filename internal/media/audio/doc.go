// Package audio decides whether a file's default audio track needs fixing.
//
// This package depends only on internal/media/ffprobe and internal/language.
//
// Streams are compared against a single target language (English by
// default) with an exact code match. A file is rewritten only when it is
// Matroska, carries exactly one target-language stream, and that stream is
// not already default. Every other combination is a silent skip or a
// warning for manual review; the package never guesses between candidates.
//
// Key types:
//   - Stream: probe-order index, language, and default flag
//   - Decision: skip, warn with a reason, or remux a given stream
//
// Primary entry points:
//   - FromProbe: converts ffprobe output to Streams
//   - Decide: maps one file's Streams to a Decision
package audio
