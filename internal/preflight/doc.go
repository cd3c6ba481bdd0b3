// Package preflight provides readiness checks for the filesystem paths and
// external binaries audiodefault depends on.
//
// These checks run in two contexts:
//   - The remuxer calls CheckFreeSpace before staging a rewrite so a full
//     disk never leaves a file half-renamed.
//   - The CLI "audiodefault check" command calls RunAll to display whether a
//     scan could start.
package preflight
