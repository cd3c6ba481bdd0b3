// Package language normalizes audio-track language tags and resolves display
// names for the configured target language.
//
// Track tags are compared as lowercased ISO 639-2 codes with no fallback
// between variants ("en" never matches "eng"); golang.org/x/text is only used
// to validate configured codes and to name them for humans.
package language
