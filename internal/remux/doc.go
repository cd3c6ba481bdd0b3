// Package remux rewrites a Matroska file so a chosen audio track becomes the
// only default one.
//
// The rewrite is staged so the original bytes always exist somewhere on disk:
// the source is renamed to a backup, mkvmerge rebuilds a temp file from the
// backup, and the temp file replaces the original only after mkvmerge
// succeeds. Any failure after the rename restores the backup. Callers receive
// a Result describing the final state rather than an error.
package remux
