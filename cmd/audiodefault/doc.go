// Command audiodefault scans a folder of video files and makes the English
// audio track the default one in Matroska files that have exactly one
// English track. Files that cannot be fixed safely are listed in a warnings
// report for manual review.
//
// Usage:
//
//	audiodefault [folder]
//	audiodefault check [folder]
//	audiodefault config init|validate
//
// When the folder argument is omitted the command prompts for it on stdin.
package main
