package remux

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"audiodefault/internal/logging"
	"audiodefault/internal/media/mkvmerge"
	"audiodefault/internal/preflight"
)

const (
	// TempName is the staging file written next to the source.
	TempName = ".__temp__.mkv"
	// BackupSuffix is appended to the source while it is being rebuilt.
	BackupSuffix = ".bak"
)

var (
	// ErrTempMissing is returned when mkvmerge exits cleanly without writing output.
	ErrTempMissing = errors.New("mkvmerge did not produce the temp file")
	// ErrBackupExists guards a pre-existing backup from being overwritten.
	ErrBackupExists = errors.New("backup path already exists")
)

// State is a stage of the rewrite.
type State int

const (
	StateOriginal State = iota
	StateRenamed
	StateRebuilt
	StateCommitted
	StateRolledBack
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateOriginal:
		return "original"
	case StateRenamed:
		return "renamed"
	case StateRebuilt:
		return "rebuilt"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Request names the file and the mkvmerge track IDs to rewrite.
type Request struct {
	Path     string
	TargetID int
	// TrackIDs lists every audio track ID in container order.
	TrackIDs []int
}

// Result reports where a rewrite ended.
type Result struct {
	State  State
	Err    error
	DryRun bool
}

// OK reports whether the file now has (or, in dry-run, would have) the
// requested default track.
func (r Result) OK() bool {
	if r.DryRun {
		return r.Err == nil
	}
	return r.State == StateCommitted
}

// Merger runs mkvmerge with the given arguments.
type Merger interface {
	Merge(ctx context.Context, args []string) error
}

// Option configures a Remuxer.
type Option func(*Remuxer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Remuxer) {
		r.logger = logging.NewComponentLogger(logger, "remux")
	}
}

// WithFreeSpaceCheck refuses to stage a rewrite when the file's directory
// cannot hold a second copy.
func WithFreeSpaceCheck(enabled bool) Option {
	return func(r *Remuxer) {
		r.checkFreeSpace = enabled
	}
}

// WithDryRun makes SetDefaultAudio validate the request without touching disk.
func WithDryRun(enabled bool) Option {
	return func(r *Remuxer) {
		r.dryRun = enabled
	}
}

// Remuxer performs staged default-track rewrites.
type Remuxer struct {
	merger         Merger
	logger         *slog.Logger
	checkFreeSpace bool
	dryRun         bool
	spaceCheck     func(dir string, need uint64) error
}

// New constructs a Remuxer around merger.
func New(merger Merger, opts ...Option) *Remuxer {
	r := &Remuxer{
		merger:     merger,
		logger:     logging.NewComponentLogger(logging.NewNop(), "remux"),
		spaceCheck: preflight.CheckFreeSpace,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DryRun reports whether the remuxer leaves files untouched.
func (r *Remuxer) DryRun() bool {
	return r != nil && r.dryRun
}

// SetDefaultAudio rewrites req.Path so req.TargetID is the first and only
// default audio track.
func (r *Remuxer) SetDefaultAudio(ctx context.Context, req Request) Result {
	if r == nil || r.merger == nil {
		return Result{State: StateOriginal, Err: errors.New("remuxer not initialized")}
	}

	op := &operation{
		Remuxer: r,
		req:     req,
		backup:  req.Path + BackupSuffix,
		temp:    filepath.Join(filepath.Dir(req.Path), TempName),
		logger:  r.logger.With(logging.File(req.Path), logging.TrackID(req.TargetID)),
	}

	if err := op.preflight(); err != nil {
		op.logger.Warn("remux preflight failed",
			logging.Error(err),
			logging.Event("remux_preflight_failed"),
		)
		return Result{State: StateOriginal, Err: err, DryRun: r.dryRun}
	}
	if r.dryRun {
		op.logger.Info("dry run: skipping rewrite",
			logging.Event("remux_dry_run"),
			logging.Any("mkvmerge_args", mkvmerge.DefaultAudioArgs(op.temp, op.backup, req.TargetID, req.TrackIDs)),
		)
		return Result{State: StateOriginal, DryRun: true}
	}

	state, err := op.run(ctx)
	if err == nil {
		op.logger.Info("default audio track set",
			logging.Event("remux_committed"),
		)
		return Result{State: state}
	}
	if state == StateOriginal {
		return Result{State: state, Err: err}
	}

	final := StateRolledBack
	if rbErr := op.rollback(); rbErr != nil {
		final = StateFailed
		logging.WarnWithContext(op.logger, "rollback failed", "remux_rollback_failed",
			logging.Error(rbErr),
			logging.String("failed_stage", state.String()),
			logging.String("backup", op.backup),
			logging.String(logging.FieldErrorHint, "restore the .bak file by hand"),
		)
	} else {
		op.logger.Warn("remux failed, original restored",
			logging.Error(err),
			logging.String("failed_stage", state.String()),
			logging.Event("remux_rolled_back"),
		)
	}
	return Result{State: final, Err: err}
}

type operation struct {
	*Remuxer
	req    Request
	backup string
	temp   string
	logger *slog.Logger
}

func (op *operation) preflight() error {
	info, err := os.Stat(op.req.Path)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", op.req.Path)
	}
	if _, err := os.Lstat(op.backup); err == nil {
		return fmt.Errorf("%w: %s", ErrBackupExists, op.backup)
	}
	if op.checkFreeSpace && op.spaceCheck != nil {
		if err := op.spaceCheck(filepath.Dir(op.req.Path), uint64(info.Size())); err != nil {
			return err
		}
		op.logger.Debug("free space ok",
			logging.String("file_size", humanize.IBytes(uint64(info.Size()))),
		)
	}
	return nil
}

// run advances through the stages and returns the last state reached. On
// error the state is the stage that was in effect when the step failed.
func (op *operation) run(ctx context.Context) (State, error) {
	if err := os.Rename(op.req.Path, op.backup); err != nil {
		return StateOriginal, fmt.Errorf("rename to backup: %w", err)
	}

	args := mkvmerge.DefaultAudioArgs(op.temp, op.backup, op.req.TargetID, op.req.TrackIDs)
	op.logger.Debug("executing mkvmerge", logging.Any("args", args))
	if err := op.merger.Merge(ctx, args); err != nil {
		return StateRenamed, fmt.Errorf("rebuild: %w", err)
	}
	if _, err := os.Stat(op.temp); err != nil {
		return StateRenamed, fmt.Errorf("%w: %w", ErrTempMissing, err)
	}

	if err := os.Rename(op.temp, op.req.Path); err != nil {
		return StateRebuilt, fmt.Errorf("replace original: %w", err)
	}
	if err := os.Remove(op.backup); err != nil {
		logging.WarnWithContext(op.logger, "could not remove backup", "backup_removal_failed",
			logging.Error(err),
			logging.String("backup", op.backup),
			logging.String(logging.FieldErrorHint, "delete the .bak file by hand"),
		)
	}
	return StateCommitted, nil
}

func (op *operation) rollback() error {
	if err := os.Remove(op.temp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove temp: %w", err)
	}
	if _, err := os.Lstat(op.backup); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("backup %s is gone", op.backup)
		}
		return fmt.Errorf("stat backup: %w", err)
	}
	if err := os.Rename(op.backup, op.req.Path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	return nil
}
