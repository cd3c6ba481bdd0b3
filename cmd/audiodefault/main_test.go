package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audiodefault/internal/report"
	"audiodefault/internal/testsupport"
)

const ffprobeStub = `eval "in=\${$#}"
cat <<'JSON'
{"streams":[{"index":1,"tags":{"language":"und"},"disposition":{"default":1}},{"index":2,"tags":{"language":"eng"},"disposition":{"default":0}}]}
JSON`

const mkvmergeStub = `if [ "$1" = "--identify" ]; then
  echo "Track ID 0: video (AVC/H.264/MPEG-4p10)"
  echo "Track ID 1: audio (AC-3) [language:und]"
  echo "Track ID 2: audio (AAC) [language:eng]"
  exit 0
fi
out="$2"
eval "in=\${$#}"
cp "$in" "$out"
printf ' fixed' >> "$out"`

type cliTestEnv struct {
	root       string
	reportDir  string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("TMPDIR", t.TempDir())

	base := t.TempDir()
	bin := filepath.Join(base, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}
	ffprobe := testsupport.WriteScript(t, bin, "ffprobe", ffprobeStub)
	mkvmerge := testsupport.WriteScript(t, bin, "mkvmerge", mkvmergeStub)

	root := filepath.Join(base, "media")
	testsupport.WriteContent(t, filepath.Join(root, "movie.mkv"), "original")
	testsupport.WriteContent(t, filepath.Join(root, "Extras", "clip.avi"), "avi")
	testsupport.WriteContent(t, filepath.Join(root, "notes.txt"), "ignored")

	env := &cliTestEnv{
		root:       root,
		reportDir:  filepath.Join(base, "reports"),
		configPath: filepath.Join(base, "config.toml"),
	}
	writeTestConfig(t, env.configPath, ffprobe, mkvmerge, env.reportDir)
	return env
}

func writeTestConfig(t *testing.T, path, ffprobe, mkvmerge, reportDir string) {
	t.Helper()
	content := fmt.Sprintf(`[tools]
ffprobe = %q
mkvmerge = %q

[output]
report_dir = %q

[remux]
check_free_space = false

[logging]
level = "error"
`, ffprobe, mkvmerge, reportDir)
	testsupport.WriteContent(t, path, content)
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func readReports(t *testing.T, dir string) ([]report.Success, []report.Warning) {
	t.Helper()
	successFiles, _ := filepath.Glob(filepath.Join(dir, "success-*.json"))
	warningFiles, _ := filepath.Glob(filepath.Join(dir, "warnings-*.json"))
	if len(successFiles) != 1 || len(warningFiles) != 1 {
		t.Fatalf("expected one report of each kind, got %v %v", successFiles, warningFiles)
	}
	var successes []report.Success
	var warnings []report.Warning
	for path, v := range map[string]any{successFiles[0]: &successes, warningFiles[0]: &warnings} {
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(raw, v); err != nil {
			t.Fatalf("invalid JSON in %s: %v", path, err)
		}
	}
	return successes, warnings
}

func TestScanFixesFilesAndWritesReports(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{env.root}, env.configPath, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Found 2 video files.")
	requireContains(t, out, "Updated 1 files.")
	requireContains(t, out, "Logged 1 warnings.")
	requireContains(t, out, "Not MKV - cannot safely edit defaults")

	successes, warnings := readReports(t, env.reportDir)
	if len(successes) != 1 || successes[0].File != filepath.Join(env.root, "movie.mkv") || successes[0].TrackID != 2 {
		t.Fatalf("unexpected successes: %+v", successes)
	}
	if successes[0].Action != "Set English track as default" {
		t.Fatalf("unexpected action: %q", successes[0].Action)
	}
	if len(warnings) != 1 || filepath.Base(warnings[0].File) != "clip.avi" {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	if got := testsupport.ReadContent(t, filepath.Join(env.root, "movie.mkv")); got != "original fixed" {
		t.Fatalf("movie.mkv = %q", got)
	}
}

func TestScanPromptsForFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, nil, env.configPath, "  "+env.root+"  \n")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Enter the folder path to scan: ")
	requireContains(t, out, "Found 2 video files.")
}

func TestScanPromptRejectsEmptyInput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, nil, env.configPath, "\n")
	if err == nil || !strings.Contains(err.Error(), "no folder given") {
		t.Fatalf("expected empty folder error, got %v", err)
	}
}

func TestScanDryRunLeavesFilesUntouched(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--dry-run", env.root}, env.configPath, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Would update 1 files.")
	if got := testsupport.ReadContent(t, filepath.Join(env.root, "movie.mkv")); got != "original" {
		t.Fatalf("dry run modified movie.mkv: %q", got)
	}
	successes, _ := readReports(t, env.reportDir)
	if len(successes) != 1 || successes[0].Action != "Would set English track as default (dry run)" {
		t.Fatalf("unexpected successes: %+v", successes)
	}
}

func TestScanReportDirFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	override := filepath.Join(t.TempDir(), "elsewhere")

	if _, _, err := runCLI(t, []string{"--report-dir", override, env.root}, env.configPath, ""); err != nil {
		t.Fatalf("scan: %v", err)
	}
	readReports(t, override)
}

func TestScanStartupErrors(t *testing.T) {
	env := setupCLITestEnv(t)

	t.Run("missing folder", func(t *testing.T) {
		_, _, err := runCLI(t, []string{filepath.Join(env.root, "nope")}, env.configPath, "")
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Fatalf("expected missing folder error, got %v", err)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		_, _, err := runCLI(t, []string{env.root}, filepath.Join(t.TempDir(), "absent.toml"), "")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("expected missing config error, got %v", err)
		}
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := runCLI(t, []string{"--log-level", "loud", env.root}, env.configPath, "")
		if err == nil {
			t.Fatal("expected invalid log level error")
		}
	})

	t.Run("missing binaries", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.toml")
		missing := filepath.Join(t.TempDir(), "mkvmerge")
		writeTestConfig(t, cfgPath, "ffprobe-not-installed-anywhere", missing, env.reportDir)
		_, _, err := runCLI(t, []string{env.root}, cfgPath, "")
		if err == nil || !strings.Contains(err.Error(), "missing required tools") {
			t.Fatalf("expected missing tools error, got %v", err)
		}
		if got := testsupport.ReadContent(t, filepath.Join(env.root, "movie.mkv")); got != "original" {
			t.Fatalf("file modified despite startup error: %q", got)
		}
	})
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.reportDir, 0o755); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"check", env.root}, env.configPath, "")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "mkvmerge")
	requireContains(t, out, "All checks passed")

	out, _, err = runCLI(t, []string{"check", filepath.Join(env.root, "missing")}, env.configPath, "")
	if err == nil {
		t.Fatal("expected check failure for missing folder")
	}
	requireContains(t, out, "FAIL")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Target language: eng")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected refusal to overwrite")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target, "")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}
