package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// scanProgress renders a bar on terminals and stays silent otherwise.
type scanProgress struct {
	bar *progressbar.ProgressBar
}

func newScanProgress(w io.Writer, total int) *scanProgress {
	if !isTerminal(w) || total <= 0 {
		return &scanProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scanning & fixing files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &scanProgress{bar: bar}
}

func (p *scanProgress) Step(path string) {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Describe(filepath.Base(path))
	_ = p.bar.Add(1)
}

func (p *scanProgress) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
