package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index       int               `json:"index"`
	Language    string            `json:"language"`
	Tags        map[string]string `json:"tags"`
	Disposition map[string]int    `json:"disposition"`
}

// IsDefault reports whether the stream's default disposition is set.
func (s Stream) IsDefault() bool {
	return s.Disposition != nil && s.Disposition["default"] == 1
}

// CommandRunner executes a binary and returns its standard output.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// AudioArgs returns the ffprobe arguments used to list audio streams of path.
func AudioArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index,language,disposition:stream_tags=language",
		"-of", "json",
		"-i", path,
	}
}

// InspectAudio executes ffprobe against the provided path and decodes the
// audio streams it reports. A non-zero exit or malformed JSON is an error.
func InspectAudio(ctx context.Context, binary string, path string) (Result, error) {
	return InspectAudioWith(ctx, DefaultRunner, binary, path)
}

// InspectAudioWith is InspectAudio with an injectable command runner.
func InspectAudioWith(ctx context.Context, run CommandRunner, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if run == nil {
		run = DefaultRunner
	}

	output, err := run(ctx, binary, AudioArgs(path)...)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes ffprobe JSON output.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DefaultRunner runs the command and returns stdout; stderr is folded into
// the error on failure.
func DefaultRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return output, nil
}
