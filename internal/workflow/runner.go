package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"audiodefault/internal/config"
	"audiodefault/internal/fileutil"
	"audiodefault/internal/language"
	"audiodefault/internal/logging"
	"audiodefault/internal/media/audio"
	"audiodefault/internal/media/ffprobe"
	"audiodefault/internal/media/mkvmerge"
	"audiodefault/internal/remux"
	"audiodefault/internal/report"
)

// ProbeFunc lists the audio streams of a file.
type ProbeFunc func(ctx context.Context, path string) ([]ffprobe.Stream, error)

// Identifier maps audio streams to mkvmerge track IDs.
type Identifier interface {
	Identify(ctx context.Context, path string) ([]mkvmerge.Track, error)
}

// Remuxer rewrites the default audio track of a file.
type Remuxer interface {
	SetDefaultAudio(ctx context.Context, req remux.Request) remux.Result
}

// Progress is notified once per discovered file after it has been handled.
type Progress interface {
	Step(path string)
}

// Option configures a Runner.
type Option func(*Runner)

// WithProber replaces the ffprobe-backed prober.
func WithProber(probe ProbeFunc) Option {
	return func(r *Runner) {
		if probe != nil {
			r.probe = probe
		}
	}
}

// WithIdentifier replaces the mkvmerge-backed identifier.
func WithIdentifier(id Identifier) Option {
	return func(r *Runner) {
		if id != nil {
			r.identify = id
		}
	}
}

// WithRemuxer replaces the default remuxer.
func WithRemuxer(rm Remuxer) Option {
	return func(r *Runner) {
		if rm != nil {
			r.remux = rm
		}
	}
}

// WithProgress registers a progress observer.
func WithProgress(p Progress) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// WithDryRun builds the default remuxer in dry-run mode. It has no effect
// when WithRemuxer is also given.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) {
		r.dryRun = enabled
	}
}

// Runner scans a directory tree and fixes default audio tracks.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	target   audio.Target
	probe    ProbeFunc
	identify Identifier
	remux    Remuxer
	progress Progress
	dryRun   bool
}

// NewRunner wires a Runner from configuration. External tools are resolved
// from cfg.Tools unless replaced through options.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "workflow"),
		target: audio.NewTarget(cfg.Scan.TargetLanguage),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.probe == nil {
		binary := cfg.Tools.FFprobe
		r.probe = func(ctx context.Context, path string) ([]ffprobe.Stream, error) {
			result, err := ffprobe.InspectAudio(ctx, binary, path)
			if err != nil {
				return nil, err
			}
			return result.Streams, nil
		}
	}
	client := mkvmerge.New(cfg.Tools.Mkvmerge)
	if r.identify == nil {
		r.identify = client
	}
	if r.remux == nil {
		r.remux = remux.New(client,
			remux.WithLogger(logger),
			remux.WithFreeSpaceCheck(cfg.Remux.CheckFreeSpace),
			remux.WithDryRun(r.dryRun),
		)
	}
	return r
}

// Target returns the language being promoted.
func (r *Runner) Target() audio.Target {
	return r.target
}

// Run scans root and returns the outcomes. Root must be an existing
// directory. When ctx is cancelled the files handled so far are returned
// together with the context error.
func (r *Runner) Run(ctx context.Context, root string) (*report.Collector, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	collector := report.NewCollector()
	start := time.Now()
	scanned := 0
	r.logger.Info("scan started",
		logging.Event("scan_start"),
		logging.String("root", root),
		logging.String("target_language", r.target.Code),
		logging.Bool("dry_run", r.dryRun),
	)

	for path, walkErr := range fileutil.VideoFiles(root, r.cfg.Scan.Extensions) {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("scan interrupted",
				logging.Event("scan_interrupted"),
				logging.Int("files_scanned", scanned),
			)
			return collector, err
		}
		if walkErr != nil {
			r.recordDirError(collector, walkErr)
			continue
		}

		scanned++
		// A file in progress is always finished, even after cancellation.
		r.processFile(context.WithoutCancel(ctx), collector, path)
		if r.progress != nil {
			r.progress.Step(path)
		}
	}

	successes, warnings := collector.Counts()
	r.logger.Info("scan complete",
		logging.Event("scan_complete"),
		logging.Int("files_scanned", scanned),
		logging.Int("successes", successes),
		logging.Int("warnings", warnings),
		logging.Duration("elapsed", time.Since(start)),
	)
	return collector, nil
}

func (r *Runner) recordDirError(collector *report.Collector, err error) {
	path := ""
	var dirErr *fileutil.DirError
	if errors.As(err, &dirErr) {
		path = dirErr.Path
		err = dirErr.Err
	}
	logging.WarnWithContext(r.logger, "could not read directory", "directory_unreadable",
		logging.File(path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check directory permissions"),
	)
	collector.AddWarning(path, fmt.Sprintf("Could not read directory: %v", err))
}

func (r *Runner) processFile(ctx context.Context, collector *report.Collector, path string) {
	logger := r.logger.With(logging.File(path))
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("unexpected error while processing file",
				logging.Event("file_panic"),
				logging.Any("panic", rec),
			)
			collector.AddWarning(path, fmt.Sprintf("Unexpected error: %v", rec))
		}
	}()

	probed, err := r.probe(ctx, path)
	if err != nil {
		logger.Debug("ffprobe failed, skipping", logging.Error(err))
		probed = nil
	}
	streams := audio.FromProbe(probed)

	decision := audio.Decide(path, streams, r.target)
	logger.Debug("audio decision",
		logging.DecisionAttrs("default_audio", decision.Action.String(), decision.Reason,
			logging.Int("audio_streams", len(streams)))...,
	)

	switch decision.Action {
	case audio.ActionSkip:
		return
	case audio.ActionWarn:
		r.warn(logger, collector, path, decision.Reason)
		return
	}

	tracks, err := r.identify.Identify(ctx, path)
	if err != nil {
		logger.Warn("mkvmerge identify failed",
			logging.Error(err),
			logging.Event("identify_failed"),
		)
		tracks = nil
	}
	track, ok := mkvmerge.Resolve(tracks, decision.Stream.Index)
	if !ok {
		r.warn(logger, collector, path, r.target.UnresolvedReason())
		return
	}
	if track.Language != "" && !language.Matches(track.Language, r.target.Code) {
		logger.Debug("track language mismatch",
			logging.String("mkvmerge_language", track.Language),
			logging.Int("audio_index", decision.Stream.Index),
		)
		r.warn(logger, collector, path, r.target.MismatchReason())
		return
	}

	result := r.remux.SetDefaultAudio(ctx, remux.Request{
		Path:     path,
		TargetID: track.ID,
		TrackIDs: mkvmerge.TrackIDs(tracks),
	})
	if !result.OK() {
		logger.Debug("remux failed",
			logging.String("state", result.State.String()),
			logging.Error(result.Err),
		)
		r.warn(logger, collector, path, r.target.RemuxFailedReason())
		return
	}

	action := r.target.SuccessAction()
	if result.DryRun {
		action = r.target.DryRunAction()
	}
	logger.Info("default audio track updated",
		logging.Event("default_track_set"),
		logging.TrackID(track.ID),
		logging.Bool("dry_run", result.DryRun),
	)
	collector.AddSuccess(path, track.ID, action)
}

func (r *Runner) warn(logger *slog.Logger, collector *report.Collector, path, reason string) {
	logger.Info("file needs review",
		logging.Event("file_warning"),
		logging.String("reason", reason),
	)
	collector.AddWarning(path, reason)
}
