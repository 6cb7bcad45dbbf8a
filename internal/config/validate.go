package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateExifTool(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.ChunkSize <= 0 {
		return errors.New("processing.chunk_size must be positive")
	}
	dir := c.Processing.ResultDir
	if dir == "" {
		return errors.New("processing.result_dir must be set")
	}
	if filepath.IsAbs(dir) || strings.ContainsAny(dir, `/\`) || dir == "." || dir == ".." {
		return fmt.Errorf("processing.result_dir must be a single directory name, got %q", dir)
	}
	return nil
}

func (c *Config) validateExifTool() error {
	switch c.ExifTool.Extractor {
	case ExtractorExifTool, ExtractorNative:
	default:
		return fmt.Errorf("exiftool.extractor must be %q or %q, got %q", ExtractorExifTool, ExtractorNative, c.ExifTool.Extractor)
	}
	if c.ExifTool.Extractor == ExtractorExifTool && strings.TrimSpace(c.ExifTool.Binary) == "" {
		return errors.New("exiftool.binary must be set when exiftool.extractor is \"exiftool\"")
	}
	if c.ExifTool.TimeoutSeconds <= 0 {
		return errors.New("exiftool.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLedger() error {
	if c.Ledger.Enabled && strings.TrimSpace(c.Paths.LedgerPath) == "" {
		return errors.New("paths.ledger_path must be set when ledger.enabled is true")
	}
	if c.Ledger.KeepRuns < 0 {
		return errors.New("ledger.keep_runs must be >= 0")
	}
	return nil
}
