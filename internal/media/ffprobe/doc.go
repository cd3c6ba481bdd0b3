// Package ffprobe provides a typed wrapper around ffprobe JSON output for
// audio stream inspection.
//
// Key types:
//   - Result: parsed ffprobe output containing audio streams
//   - Stream: a single stream's index, language and disposition
//
// Primary entry point:
//   - InspectAudio: executes ffprobe restricted to audio streams
package ffprobe
