package extract

import (
	"context"
	"log/slog"

	"shotdate/internal/logging"
)

// MaxBisectDepth bounds how many times a failing batch is halved.
const MaxBisectDepth = 2

// Bisect wraps an Extractor with halving retry. When a batch of more than one
// file fails and the depth bound allows, it is split at len/2 and each half is
// retried; halves that still fail are dropped so their files are simply
// absent from the result. A failing single file batch, or any failure once
// the depth bound is reached, returns the error.
type Bisect struct {
	inner  Extractor
	logger *slog.Logger
}

// NewBisect wraps inner.
func NewBisect(inner Extractor, logger *slog.Logger) *Bisect {
	return &Bisect{inner: inner, logger: logging.NewComponentLogger(logger, "extract")}
}

// Extract implements Extractor.
func (b *Bisect) Extract(ctx context.Context, paths []string) (Result, error) {
	return b.extract(ctx, paths, 0)
}

func (b *Bisect) extract(ctx context.Context, paths []string, depth int) (Result, error) {
	if len(paths) == 0 {
		return Result{}, nil
	}
	result, err := b.inner.Extract(ctx, paths)
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if len(paths) < 2 || depth >= MaxBisectDepth {
		return nil, err
	}

	b.logger.Debug("extraction batch failed; retrying halves",
		logging.Int("files", len(paths)),
		logging.Int("depth", depth+1),
		logging.Error(err),
	)
	mid := len(paths) / 2
	merged := Result{}
	for _, half := range [][]string{paths[:mid], paths[mid:]} {
		part, herr := b.extract(ctx, half, depth+1)
		if herr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.WarnWithContext(b.logger, "extraction sub-batch dropped", "extract_batch_dropped",
				logging.Int("files", len(half)),
				logging.Error(herr),
				logging.String(logging.FieldImpact, "files in this sub-batch are reported as missing metadata"),
			)
			continue
		}
		for k, v := range part {
			merged[k] = v
		}
	}
	return merged, nil
}
