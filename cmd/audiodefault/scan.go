package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"audiodefault/internal/config"
	"audiodefault/internal/deps"
	"audiodefault/internal/fileutil"
	"audiodefault/internal/logging"
	"audiodefault/internal/report"
	"audiodefault/internal/runlock"
	"audiodefault/internal/workflow"
)

func runScan(cmd *cobra.Command, ctx *commandContext, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	root, err := resolveRoot(cmd, args)
	if err != nil {
		return err
	}

	if err := deps.RequireAll(deps.CheckBinaries(deps.ToolRequirements(cfg))); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, runID, err := ctx.newLogger(cfg)
	if err != nil {
		return err
	}

	lock, err := runlock.Acquire("", root)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release run lock", logging.Error(err))
		}
	}()

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	total := countVideoFiles(root, cfg.Scan.Extensions)
	fmt.Fprintf(out, "Found %d video files.\n\n", total)

	progress := newScanProgress(cmd.ErrOrStderr(), total)
	runner := workflow.NewRunner(cfg, logger,
		workflow.WithDryRun(ctx.dryRun()),
		workflow.WithProgress(progress),
	)
	logger.Debug("scan configured",
		logging.String("root", root),
		logging.String("config_path", ctx.configPath),
		logging.String("report_dir", cfg.Output.ReportDir),
		logging.String(logging.FieldRunID, runID),
	)

	collector, runErr := runner.Run(sigCtx, root)
	progress.Finish()
	if collector == nil {
		return runErr
	}

	paths, err := report.Write(cfg.Output.ReportDir, time.Now(), collector)
	if err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	printSummary(out, collector, paths, runner.Target().Name, ctx.dryRun())

	if runErr != nil {
		fmt.Fprintln(out, "Scan interrupted; reports cover the files processed so far.")
		return fmt.Errorf("scan interrupted: %w", runErr)
	}
	return nil
}

// resolveRoot takes the folder from args or prompts for it.
func resolveRoot(cmd *cobra.Command, args []string) (string, error) {
	var folder string
	if len(args) > 0 {
		folder = args[0]
	} else {
		prompted, err := promptFolder(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		folder = prompted
	}

	expanded, err := config.ExpandPath(folder)
	if err != nil {
		return "", fmt.Errorf("resolve folder: %w", err)
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("folder %s does not exist", expanded)
		}
		return "", fmt.Errorf("stat folder: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", expanded)
	}
	return expanded, nil
}

func countVideoFiles(root string, exts []string) int {
	count := 0
	for _, err := range fileutil.VideoFiles(root, exts) {
		if err == nil {
			count++
		}
	}
	return count
}

func printSummary(out io.Writer, collector *report.Collector, paths report.Paths, target string, dryRun bool) {
	successes, warnings := collector.Counts()

	verb := "Updated"
	if dryRun {
		verb = "Would update"
	}
	fmt.Fprintf(out, "%s %d files. Details in %s\n", verb, successes, paths.Success)
	fmt.Fprintf(out, "Logged %d warnings. Details in %s\n", warnings, paths.Warnings)

	if successes+warnings == 0 {
		return
	}

	rows := make([][]string, 0, successes+warnings)
	for _, s := range collector.Successes() {
		rows = append(rows, []string{"fixed", s.File, strconv.Itoa(s.TrackID), s.Action})
	}
	for _, w := range collector.Warnings() {
		rows = append(rows, []string{"review", w.File, "", w.Reason})
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Default %s audio summary\n", target)
	fmt.Fprintln(out, renderTable(
		[]string{"Result", "File", "Track", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
}
