package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"shotdate/internal/collision"
	"shotdate/internal/copier"
	"shotdate/internal/events"
	"shotdate/internal/extract"
	"shotdate/internal/ledger"
	"shotdate/internal/logging"
	"shotdate/internal/media"
	"shotdate/internal/metadata"
	"shotdate/internal/planner"
	"shotdate/internal/summary"
)

// processAll walks files in chunks. It reports whether the run stopped
// early because of cancellation.
func (s *runState) processAll(ctx context.Context, files []media.File) bool {
	r := s.runner
	chunkSize := max(r.cfg.Processing.ChunkSize, 1)
	total := len(files)
	s.sampler = logging.NewProgressSampler(10)
	done := 0

	for start, chunkIndex := 0, 1; start < total; start, chunkIndex = start+chunkSize, chunkIndex+1 {
		if r.stopRequested(ctx) {
			return true
		}
		chunk := files[start:min(start+chunkSize, total)]
		chunkLogger := s.logger.With(logging.Int(logging.FieldChunk, chunkIndex))

		paths := make([]string, len(chunk))
		for i, f := range chunk {
			paths[i] = f.Path
		}
		found, err := r.extractor.Extract(ctx, paths)
		if err != nil {
			if ctx.Err() != nil {
				return true
			}
			logging.WarnWithContext(chunkLogger, "metadata extraction failed for chunk", "chunk_extract_failed",
				logging.Int("files", len(chunk)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "every file in the chunk is counted as an error"),
				logging.String(logging.FieldErrorHint, "run shotdate check to verify exiftool"),
			)
			for _, f := range chunk {
				s.fail(ctx, f, planner.Plan{Source: f.Path}, extract.ErrExtractFailed.Error(), extractCause(err))
				done++
				s.progress(done, total)
			}
			continue
		}

		for _, f := range chunk {
			if r.stopRequested(ctx) {
				return true
			}
			s.processFile(ctx, f, found)
			done++
			s.progress(done, total)
		}
	}
	return false
}

func (s *runState) progress(current, total int) {
	s.emit(events.Progress(current, total))
	if s.sampler.ShouldLog(current, total) {
		s.logger.Info("progress",
			logging.String(logging.FieldEventType, "progress"),
			logging.Int("current", current),
			logging.Int("total", total),
		)
	}
}

func (s *runState) processFile(ctx context.Context, file media.File, found extract.Result) {
	tags, ok := found[extract.Key(file.Path)]
	if !ok {
		s.fail(ctx, file, planner.Plan{Source: file.Path}, "no metadata", "")
		return
	}
	rec := metadata.Normalize(file.Kind, tags)
	plan := planner.ForFile(file, rec)
	rel := s.rel(file.Path)

	if plan.IsSkip() {
		outcome := summary.OutcomeSkippedNotIMG
		if plan.SkipKind == planner.SkipNoDateTime {
			outcome = summary.OutcomeSkippedNoDateTime
		}
		s.sum.Record(outcome)
		s.emit(events.Logf("skipped (%s): %s", plan.Reason, rel))
		s.recordOutcome(ctx, plan, "", outcome, plan.Reason)
		return
	}

	resolution, err := collision.Resolve(file.Path, plan.DestPath(s.resultRoot))
	if err != nil {
		s.fail(ctx, file, plan, "resolve destination failed", err.Error())
		return
	}
	dest := resolution.Path
	if resolution.Existing {
		s.skippedExists(ctx, plan, rel, dest)
		return
	}

	result := s.runner.copier.Copy(file.Path, dest)
	switch result.Status {
	case copier.StatusCopied:
		if resolution.Collided() {
			s.sum.RecordCollision()
			s.emit(events.Logf("collision resolved: %s -> %s", plan.DestName, filepath.Base(dest)))
		}
		outcome := summary.OutcomeConverted
		verb := "converted"
		if plan.Action == planner.ActionCopyPass {
			outcome = summary.OutcomePassCopied
			verb = "pass copied"
		}
		s.sum.Record(outcome)
		s.emit(events.Logf("%s: %s -> %s", verb, rel, s.rel(dest)))
		s.recordOutcome(ctx, plan, dest, outcome, "")
	case copier.StatusSkippedExists:
		s.skippedExists(ctx, plan, rel, dest)
	default:
		s.fail(ctx, file, plan, "copy failed", result.Message)
	}
}

func (s *runState) skippedExists(ctx context.Context, plan planner.Plan, rel, dest string) {
	s.sum.Record(summary.OutcomeSkippedExists)
	s.emit(events.Logf("skipped (already exists): %s -> %s", rel, s.rel(dest)))
	s.recordOutcome(ctx, plan, dest, summary.OutcomeSkippedExists, "already exists")
}

// fail counts a per-file error, writes it to the error log and keeps going.
func (s *runState) fail(ctx context.Context, file media.File, plan planner.Plan, message, detail string) {
	s.sum.Record(summary.OutcomeError)
	text := fmt.Sprintf("error: %s: %s", s.rel(file.Path), message)
	var details []string
	if detail = strings.TrimSpace(detail); detail != "" {
		text += " (" + detail + ")"
		details = append(details, detail)
	}
	s.emit(events.Log(text))
	if err := s.errorLog.Record(file.Path, message, details...); err != nil {
		s.logger.Warn("error log write failed", logging.Error(err))
	}
	s.logger.Debug("file failed",
		logging.String(logging.FieldSource, file.Path),
		logging.String("reason", message),
		logging.String("detail", detail),
	)
	s.recordOutcome(ctx, plan, "", summary.OutcomeError, strings.TrimSpace(message+" "+detail))
}

// extractCause is the part of an extraction error after the
// ErrExtractFailed prefix, so error.log does not repeat the message.
func extractCause(err error) string {
	msg := err.Error()
	prefix := extract.ErrExtractFailed.Error()
	if !strings.HasPrefix(msg, prefix) {
		return msg
	}
	return strings.TrimLeft(strings.TrimPrefix(msg, prefix), ": ")
}

func (s *runState) rel(path string) string {
	if rel, err := filepath.Rel(s.sourceRoot, path); err == nil {
		return rel
	}
	return path
}

func (s *runState) beginHistory(ctx context.Context) {
	h := s.runner.history
	if h == nil {
		return
	}
	if err := h.BeginRun(ctx, s.id, s.sourceRoot, s.resultRoot, s.sum.Snapshot().StartedAt); err != nil {
		s.historyFailed(err)
		return
	}
	s.historyActive = true
}

func (s *runState) recordOutcome(ctx context.Context, plan planner.Plan, dest string, outcome summary.Outcome, reason string) {
	if !s.historyActive {
		return
	}
	action := string(plan.Action)
	if action == "" {
		action = "NONE"
	}
	err := s.runner.history.RecordOutcome(ctx, ledger.Outcome{
		RunID:      s.id,
		Source:     plan.Source,
		Action:     action,
		Dest:       dest,
		Outcome:    outcome.String(),
		Reason:     reason,
		RecordedAt: s.runner.now(),
	})
	if err != nil {
		s.historyFailed(err)
	}
}

func (s *runState) finishHistory(ctx context.Context, status ledger.RunStatus, snap summary.Snapshot, errMsg string) {
	if !s.historyActive {
		return
	}
	// Finalization must land even when the run context was cancelled.
	if err := s.runner.history.FinishRun(context.WithoutCancel(ctx), s.id, status, snap, errMsg); err != nil {
		s.historyFailed(err)
	}
}

// historyFailed disables ledger writes for the rest of the run.
func (s *runState) historyFailed(err error) {
	s.historyActive = false
	logging.WarnWithContext(s.logger, "ledger write failed; history disabled for this run", "ledger_write_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "run history will be incomplete"),
		logging.String(logging.FieldErrorHint, "check ledger_path permissions or disable the ledger"),
	)
}
