package preflight

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audiodefault/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryReadable_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryReadable("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestFreeBytes(t *testing.T) {
	free, err := FreeBytes(t.TempDir())
	if err != nil {
		t.Fatalf("FreeBytes: %v", err)
	}
	if free == 0 {
		t.Skip("temp filesystem reports no free space")
	}
}

func TestFreeBytesMissingDir(t *testing.T) {
	if _, err := FreeBytes(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if err := CheckFreeSpace(dir, 1); err != nil {
		t.Fatalf("expected one byte to fit: %v", err)
	}
	err := CheckFreeSpace(dir, math.MaxUint64)
	if !errors.Is(err, ErrInsufficientSpace) {
		t.Fatalf("expected ErrInsufficientSpace, got %v", err)
	}
	if !strings.Contains(err.Error(), "EiB") {
		t.Fatalf("expected humanized size in message, got %q", err.Error())
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	root := t.TempDir()

	results := RunAll(cfg, root)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}

	results = RunAll(cfg, filepath.Join(root, "missing"))
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Scan root" {
		t.Fatalf("expected scan root failure, got %+v", failed)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if RunAll(nil, "") != nil {
		t.Fatal("expected nil results")
	}
}
