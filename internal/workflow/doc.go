// Package workflow drives a scan: it walks the root, probes each video file,
// decides whether its default audio track needs fixing, and records the
// outcome.
//
// Files are processed one at a time. Cancellation is honoured only between
// files so an in-flight rewrite always reaches a committed or rolled-back
// state. A panic while handling one file is recovered and reported as a
// warning for that file; the scan continues with the next one.
//
// The Runner owns no global state; Run returns a fresh report.Collector for
// each scan.
package workflow
