package pipeline

import (
	"log/slog"
	"time"

	"shotdate/internal/config"
	"shotdate/internal/extract"
)

// NewExtractor builds the configured metadata extractor wrapped in the
// bisecting retry policy.
func NewExtractor(cfg *config.Config, logger *slog.Logger) extract.Extractor {
	var inner extract.Extractor
	switch cfg.ExifTool.Extractor {
	case config.ExtractorNative:
		inner = extract.NewNative(logger)
	default:
		timeout := time.Duration(cfg.ExifTool.TimeoutSeconds) * time.Second
		inner = extract.NewExifTool(cfg.ExifToolBinary(), timeout)
	}
	return extract.NewBisect(inner, logger)
}
