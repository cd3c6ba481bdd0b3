package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var runTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func TestWriteProducesBothFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewCollector()
	c.AddSuccess("/media/movie.mkv", 2, "Set English track as default")
	c.AddWarning("/media/clip.avi", "Not MKV - cannot safely edit defaults")
	c.AddWarning("/media/dual.mkv", "Multiple English audio tracks - manual review needed")

	paths, err := Write(dir, runTime, c)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(paths.Success) != "success-20240309-140507.json" {
		t.Fatalf("unexpected success name %s", paths.Success)
	}
	if filepath.Base(paths.Warnings) != "warnings-20240309-140507.json" {
		t.Fatalf("unexpected warnings name %s", paths.Warnings)
	}

	var successes []Success
	readJSON(t, paths.Success, &successes)
	if len(successes) != 1 || successes[0] != (Success{File: "/media/movie.mkv", TrackID: 2, Action: "Set English track as default"}) {
		t.Fatalf("unexpected successes: %+v", successes)
	}

	var warnings []Warning
	readJSON(t, paths.Warnings, &warnings)
	if len(warnings) != 2 || warnings[0].Reason != "Not MKV - cannot safely edit defaults" || warnings[1].File != "/media/dual.mkv" {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}

	raw, err := os.ReadFile(paths.Success)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "\n    \"file\": \"/media/movie.mkv\"") {
		t.Fatalf("expected two-space indentation, got:\n%s", raw)
	}
	if !strings.Contains(string(raw), `"track_id": 2`) {
		t.Fatalf("expected track_id key, got:\n%s", raw)
	}
}

func TestWriteEmptyListsAsArrays(t *testing.T) {
	dir := t.TempDir()
	paths, err := Write(dir, runTime, NewCollector())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, path := range []string{paths.Success, paths.Warnings} {
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(raw)) != "[]" {
			t.Fatalf("%s = %q, want []", filepath.Base(path), raw)
		}
	}
}

func TestWriteCreatesDirectoryAndKeepsSpecialCharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	c := NewCollector()
	c.AddSuccess("/media/Tom & Jerry <Café>.mkv", 1, "Set English track as default")

	paths, err := Write(dir, runTime, c)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(paths.Success)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "Tom & Jerry <Café>.mkv") {
		t.Fatalf("expected unescaped file name, got:\n%s", raw)
	}
}

func TestWriteSameSecondOverwrites(t *testing.T) {
	dir := t.TempDir()
	first := NewCollector()
	first.AddWarning("a.avi", "x")
	if _, err := Write(dir, runTime, first); err != nil {
		t.Fatal(err)
	}
	paths, err := Write(dir, runTime, NewCollector())
	if err != nil {
		t.Fatal(err)
	}
	var warnings []Warning
	readJSON(t, paths.Warnings, &warnings)
	if len(warnings) != 0 {
		t.Fatalf("expected overwrite, got %+v", warnings)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("expected exactly two report files, got %d", len(entries))
	}
}

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.AddSuccess("a.mkv", 1, "x")
	c.AddWarning("b.avi", "y")
	c.AddWarning("c.avi", "y")
	s, w := c.Counts()
	if s != 1 || w != 2 {
		t.Fatalf("counts = %d/%d", s, w)
	}

	got := c.Warnings()
	got[0].File = "mutated"
	if c.Warnings()[0].File != "b.avi" {
		t.Fatal("Warnings must return a copy")
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("invalid JSON in %s: %v", path, err)
	}
}
