package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"audiodefault/internal/config"
	"audiodefault/internal/logging"
)

type rootFlags struct {
	config    string
	reportDir string
	logLevel  string
	dryRun    bool
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if dir := strings.TrimSpace(c.flags.reportDir); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				c.configErr = fmt.Errorf("resolve report dir: %w", err)
				return
			}
			cfg.Output.ReportDir = expanded
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) dryRun() bool {
	return c.flags != nil && c.flags.dryRun
}

// newLogger builds the run logger tagged with a fresh run id.
func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, string, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	return logging.WithRunID(logger, runID), runID, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
