// Package report collects per-file outcomes of a scan and writes them as the
// success and warnings JSON files.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout formats the run time embedded in report file names.
const TimestampLayout = "20060102-150405"

// Success records a file whose default audio track was changed.
type Success struct {
	File    string `json:"file"`
	TrackID int    `json:"track_id"`
	Action  string `json:"action"`
}

// Warning records a file that needs manual review.
type Warning struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Collector accumulates outcomes in the order they are added.
type Collector struct {
	successes []Success
	warnings  []Warning
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddSuccess records a successful rewrite.
func (c *Collector) AddSuccess(file string, trackID int, action string) {
	c.successes = append(c.successes, Success{File: file, TrackID: trackID, Action: action})
}

// AddWarning records a file for manual review.
func (c *Collector) AddWarning(file, reason string) {
	c.warnings = append(c.warnings, Warning{File: file, Reason: reason})
}

// Successes returns a copy of the recorded successes.
func (c *Collector) Successes() []Success {
	return append([]Success{}, c.successes...)
}

// Warnings returns a copy of the recorded warnings.
func (c *Collector) Warnings() []Warning {
	return append([]Warning{}, c.warnings...)
}

// Counts returns the number of successes and warnings.
func (c *Collector) Counts() (successes, warnings int) {
	return len(c.successes), len(c.warnings)
}

// Paths names the files written by Write.
type Paths struct {
	Success  string
	Warnings string
}

// FileNames returns the report paths for a run started at ts.
func FileNames(dir string, ts time.Time) Paths {
	stamp := ts.Format(TimestampLayout)
	return Paths{
		Success:  filepath.Join(dir, "success-"+stamp+".json"),
		Warnings: filepath.Join(dir, "warnings-"+stamp+".json"),
	}
}

// Write serializes both lists into dir. Files from a run in the same second
// are overwritten. Empty lists are written as [].
func Write(dir string, ts time.Time, c *Collector) (Paths, error) {
	if c == nil {
		c = NewCollector()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create report directory: %w", err)
	}

	paths := FileNames(dir, ts)
	if err := writeJSON(paths.Success, c.Successes()); err != nil {
		return Paths{}, err
	}
	if err := writeJSON(paths.Warnings, c.Warnings()); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
