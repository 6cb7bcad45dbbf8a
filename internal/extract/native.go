package extract

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"shotdate/internal/logging"
	"shotdate/internal/metadata"
)

// Native reads EXIF directly from image files without an external binary.
// It understands JPEG and TIFF based containers. Readable files without
// decodable EXIF (most videos, PNG, HEIC) get an empty tag map so they plan
// as "no capture date"; files that cannot be opened are left out.
type Native struct {
	logger *slog.Logger
}

// NewNative returns a Native extractor.
func NewNative(logger *slog.Logger) *Native {
	return &Native{logger: logging.NewComponentLogger(logger, "extract")}
}

var nativeFields = []struct {
	field exif.FieldName
	tag   string
}{
	{exif.DateTimeOriginal, metadata.TagDateTimeOriginal},
	{exif.DateTimeDigitized, metadata.TagCreateDate},
	{exif.Make, metadata.TagMake},
	{exif.Model, metadata.TagModel},
}

// Extract implements Extractor. It only fails when ctx ends.
func (n *Native) Extract(ctx context.Context, paths []string) (Result, error) {
	result := make(Result, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tags, err := readEXIF(path)
		if err != nil {
			n.logger.Debug("file unreadable", logging.String(logging.FieldSource, path), logging.Error(err))
			continue
		}
		if len(tags) == 0 {
			n.logger.Debug("no exif metadata", logging.String(logging.FieldSource, path))
		}
		result[Key(path)] = tags
	}
	return result, nil
}

func readEXIF(path string) (metadata.Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tags := metadata.Tags{}
	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return tags, nil
	}
	for _, nf := range nativeFields {
		tag, err := x.Get(nf.field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		if value = strings.TrimSpace(strings.TrimRight(value, "\x00")); value != "" {
			tags[nf.tag] = value
		}
	}
	return tags, nil
}
