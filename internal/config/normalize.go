package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProcessing()
	c.normalizeExifTool()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeProcessing() {
	if c.Processing.ChunkSize <= 0 {
		c.Processing.ChunkSize = defaultChunkSize
	}
	c.Processing.ResultDir = strings.TrimSpace(c.Processing.ResultDir)
	if c.Processing.ResultDir == "" {
		c.Processing.ResultDir = defaultResultDir
	}
	if len(c.Processing.ExcludeDirs) > 0 {
		dirs := make([]string, 0, len(c.Processing.ExcludeDirs))
		seen := make(map[string]struct{}, len(c.Processing.ExcludeDirs))
		for _, dir := range c.Processing.ExcludeDirs {
			trimmed := strings.TrimSpace(dir)
			if trimmed == "" {
				continue
			}
			cleaned := filepath.Clean(trimmed)
			if _, exists := seen[cleaned]; exists {
				continue
			}
			seen[cleaned] = struct{}{}
			dirs = append(dirs, cleaned)
		}
		c.Processing.ExcludeDirs = dirs
	}
}

func (c *Config) normalizeExifTool() {
	c.ExifTool.Extractor = strings.ToLower(strings.TrimSpace(c.ExifTool.Extractor))
	if c.ExifTool.Extractor == "" {
		c.ExifTool.Extractor = defaultExtractor
	}
	if value, ok := os.LookupEnv("SHOTDATE_EXIFTOOL"); ok && strings.TrimSpace(value) != "" {
		c.ExifTool.Binary = strings.TrimSpace(value)
	}
	c.ExifTool.Binary = strings.TrimSpace(c.ExifTool.Binary)
	if c.ExifTool.Binary == "" {
		c.ExifTool.Binary = defaultExifToolBinary
	}
	if c.ExifTool.TimeoutSeconds <= 0 {
		c.ExifTool.TimeoutSeconds = defaultExifToolTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
