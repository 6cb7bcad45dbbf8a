package extract

import (
	"context"
	"errors"
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"shotdate/internal/metadata"
)

// ErrExtractFailed marks a batch that produced no usable metadata.
var ErrExtractFailed = errors.New("metadata extraction failed")

// Result maps a resolved path key (see Key) to the raw tags of that file.
type Result map[string]metadata.Tags

// Extractor reads raw capture tags for a batch of files. A returned error
// applies to the whole batch.
type Extractor interface {
	Extract(ctx context.Context, paths []string) (Result, error)
}

// Func adapts a function to Extractor.
type Func func(ctx context.Context, paths []string) (Result, error)

// Extract calls f.
func (f Func) Extract(ctx context.Context, paths []string) (Result, error) {
	return f(ctx, paths)
}

// Key returns the lookup key for path: absolute, symlinks resolved where
// possible, and NFC normalized so decomposed names from other tools match.
func Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return norm.NFC.String(abs)
}
