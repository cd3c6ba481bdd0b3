package fileutil

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// DirError reports a directory the walk could not read.
type DirError struct {
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *DirError) Unwrap() error { return e.Err }

// VideoFiles lazily yields every non-directory entry under root whose lowercased
// extension is in exts, in filepath.WalkDir order. An unreadable directory is
// yielded as a *DirError and the walk continues with its siblings.
func VideoFiles(root string, exts []string) iter.Seq2[string, error] {
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield("", &DirError{Path: path, Err: err}) {
					return filepath.SkipAll
				}
				// Root itself failing ends the walk; anything deeper is skipped.
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
