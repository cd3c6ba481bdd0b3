package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeScan()
	c.normalizeTools()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeScan() {
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	extensions := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		extensions = append(extensions, ext)
	}
	c.Scan.Extensions = extensions

	c.Scan.TargetLanguage = strings.ToLower(strings.TrimSpace(c.Scan.TargetLanguage))
	if c.Scan.TargetLanguage == "" {
		c.Scan.TargetLanguage = defaultTargetLanguage
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	c.Tools.Mkvmerge = strings.TrimSpace(c.Tools.Mkvmerge)
	if c.Tools.Mkvmerge == "" {
		c.Tools.Mkvmerge = defaultMkvmergeBinary
	}
}

func (c *Config) normalizeOutput() error {
	if strings.TrimSpace(c.Output.ReportDir) == "" {
		c.Output.ReportDir = defaultReportDir
	}
	var err error
	if c.Output.ReportDir, err = expandPath(c.Output.ReportDir); err != nil {
		return fmt.Errorf("output.report_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
