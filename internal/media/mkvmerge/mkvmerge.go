package mkvmerge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Track maps a probe-order audio index to an mkvmerge track ID.
type Track struct {
	AudioIndex int
	ID         int
	// Language is the language property mkvmerge reported, empty when absent.
	Language string
}

// CommandRunner executes a binary and returns its combined output.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Option configures the client.
type Option func(*Client)

// WithCommandRunner injects a custom runner (primarily for tests).
func WithCommandRunner(run CommandRunner) Option {
	return func(c *Client) {
		if run != nil {
			c.run = run
		}
	}
}

// Client wraps mkvmerge CLI interactions.
type Client struct {
	binary string
	run    CommandRunner
}

// New constructs an mkvmerge client. An empty binary resolves to "mkvmerge".
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mkvmerge"
	}
	client := &Client{binary: binary, run: defaultCommandRunner}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Binary returns the executable the client invokes.
func (c *Client) Binary() string {
	return c.binary
}

// Identify lists the audio tracks of path in the order mkvmerge reports them.
func (c *Client) Identify(ctx context.Context, path string) ([]Track, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("mkvmerge identify: empty path")
	}
	output, err := c.run(ctx, c.binary, "--identify", "--verbose", path)
	if err != nil {
		return nil, fmt.Errorf("mkvmerge identify: %w", err)
	}
	return ParseIdentify(string(output)), nil
}

// Merge runs mkvmerge with the supplied arguments.
func (c *Client) Merge(ctx context.Context, args []string) error {
	if _, err := c.run(ctx, c.binary, args...); err != nil {
		return fmt.Errorf("mkvmerge: %w", err)
	}
	return nil
}

// ParseIdentify extracts audio tracks from verbose identify output. Lines
// mentioning both "Track ID" and "audio" are audio tracks; the token after
// "ID" (trailing colon stripped) is the track ID. Lines whose ID does not
// parse are ignored and do not consume an index.
func ParseIdentify(output string) []Track {
	var tracks []Track
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "Track ID") || !strings.Contains(line, "audio") {
			continue
		}
		id, ok := parseTrackID(line)
		if !ok {
			continue
		}
		tracks = append(tracks, Track{
			AudioIndex: len(tracks),
			ID:         id,
			Language:   parseLanguage(line),
		})
	}
	return tracks
}

func parseTrackID(line string) (int, bool) {
	fields := strings.Fields(line)
	for i, field := range fields {
		if field != "ID" || i+1 >= len(fields) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(fields[i+1], ":"))
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

func parseLanguage(line string) string {
	for _, field := range strings.Fields(line) {
		field = strings.Trim(field, "[]")
		if value, ok := strings.CutPrefix(field, "language:"); ok {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}

// Resolve returns the track whose probe-order index equals audioIndex.
func Resolve(tracks []Track, audioIndex int) (Track, bool) {
	for _, track := range tracks {
		if track.AudioIndex == audioIndex {
			return track, true
		}
	}
	return Track{}, false
}

// TrackIDs returns the track IDs in listed order.
func TrackIDs(tracks []Track) []int {
	ids := make([]int, 0, len(tracks))
	for _, track := range tracks {
		ids = append(ids, track.ID)
	}
	return ids
}

// DefaultAudioArgs builds the mkvmerge arguments that write input to output
// with target as the first and only default audio track. The remaining IDs
// keep their relative order.
func DefaultAudioArgs(output, input string, target int, ids []int) []string {
	order := []int{target}
	for _, id := range ids {
		if id != target {
			order = append(order, id)
		}
	}

	list := make([]string, 0, len(order))
	for _, id := range order {
		list = append(list, strconv.Itoa(id))
	}

	args := []string{"--output", output, "--audio-tracks", strings.Join(list, ",")}
	for _, id := range order {
		flag := "no"
		if id == target {
			flag = "yes"
		}
		args = append(args, "--default-track", fmt.Sprintf("%d:%s", id, flag))
	}
	return append(args, input)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%w: %s", err, lastLines(string(output), 3))
	}
	return output, nil
}

// lastLines keeps error messages short; mkvmerge prints progress before failing.
func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
