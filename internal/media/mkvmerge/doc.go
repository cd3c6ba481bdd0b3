// Package mkvmerge wraps the mkvmerge CLI for audio track identification and
// default-flag remuxing of Matroska files.
//
// Identify parses the text output of `mkvmerge --identify --verbose` and
// numbers audio tracks in the order they are listed, which is assumed to
// match the order ffprobe reports audio streams. Resolve maps such a
// probe-order index to the container track ID mkvmerge addresses tracks by.
package mkvmerge
