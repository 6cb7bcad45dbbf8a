package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"shotdate/internal/config"
	"shotdate/internal/copier"
	"shotdate/internal/events"
	"shotdate/internal/extract"
	"shotdate/internal/ledger"
	"shotdate/internal/logging"
	"shotdate/internal/preflight"
	"shotdate/internal/scan"
	"shotdate/internal/summary"
)

// LockFileName is created inside the result root while a run is active.
const LockFileName = ".shotdate.lock"

// Runner drives one source tree through scan, extraction, planning and
// copying on the calling goroutine, publishing events as it goes.
type Runner struct {
	cfg       *config.Config
	extractor extract.Extractor
	stream    *events.Stream
	logger    *slog.Logger
	history   History
	copier    *copier.Copier
	now       func() time.Time

	state     atomic.Int32
	running   atomic.Bool
	cancelled atomic.Bool
	runID     atomic.Value
}

// Option customizes a Runner.
type Option func(*Runner)

// WithHistory records runs and outcomes in h.
func WithHistory(h History) Option {
	return func(r *Runner) {
		r.history = h
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Runner. stream may be nil when nobody consumes events.
func New(cfg *config.Config, extractor extract.Extractor, stream *events.Stream, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:       cfg,
		extractor: extractor,
		stream:    stream,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		copier:    copier.New(cfg.Processing.VerifyCopies),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// RunID returns the identifier of the current or most recent run.
func (r *Runner) RunID() string {
	id, _ := r.runID.Load().(string)
	return id
}

// Cancel asks the active run to stop at the next file boundary. The run
// still finalizes and publishes COMPLETE with a partial summary.
func (r *Runner) Cancel() {
	r.cancelled.Store(true)
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
}

func (r *Runner) stopRequested(ctx context.Context) bool {
	return r.cancelled.Load() || ctx.Err() != nil
}

// Run processes sourceRoot. It returns the final summary and nil for
// completed or cancelled runs; validation failures and internal faults
// return an error after publishing an ERROR event.
func (r *Runner) Run(ctx context.Context, sourceRoot string) (summary.Snapshot, error) {
	if !r.running.CompareAndSwap(false, true) {
		return summary.Snapshot{}, ErrAlreadyRunning
	}
	defer r.running.Store(false)
	r.cancelled.Store(false)
	r.setState(StateIdle)

	runID := uuid.NewString()
	r.runID.Store(runID)
	ctx = logging.WithRunID(ctx, runID)

	run := &runState{
		runner: r,
		id:     runID,
		logger: logging.WithContext(ctx, r.logger),
		sum:    summary.New(),
	}
	run.sum.Start(r.now())

	if err := run.prepare(sourceRoot); err != nil {
		return run.abort(ctx, err)
	}
	defer run.release()

	snap, err := run.execute(ctx)
	if err != nil {
		return run.abort(ctx, err)
	}
	return snap, nil
}

// runState holds everything scoped to a single Run call.
type runState struct {
	runner *Runner
	id     string
	logger *slog.Logger
	sum    *summary.Summary

	sourceRoot string
	resultRoot string
	lock       *flock.Flock
	runLog     *logging.RunLog
	errorLog   *logging.ErrorLog

	historyActive bool
	sampler       *logging.ProgressSampler
}

// prepare validates the source and result roots, takes the run lock and
// opens the persisted logs. Nothing is written when the source is invalid.
func (s *runState) prepare(sourceRoot string) error {
	abs, err := filepath.Abs(sourceRoot)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceMissing, sourceRoot, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceMissing, abs)
	}
	s.sourceRoot = abs
	s.resultRoot = s.runner.cfg.ResultRoot(abs)

	if err := preflight.EnsureWritableDir(s.resultRoot); err != nil {
		return fmt.Errorf("%w: %v", ErrDestinationUnwritable, err)
	}

	lock := flock.New(filepath.Join(s.resultRoot, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: acquire lock: %v", ErrDestinationUnwritable, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, s.resultRoot)
	}
	s.lock = lock

	runLog, err := logging.OpenRunLog(filepath.Join(s.resultRoot, logging.RunLogName))
	if err != nil {
		s.release()
		return fmt.Errorf("%w: %v", ErrDestinationUnwritable, err)
	}
	s.runLog = runLog
	errorLog, err := logging.OpenErrorLog(filepath.Join(s.resultRoot, logging.ErrorLogName))
	if err != nil {
		s.release()
		return fmt.Errorf("%w: %v", ErrDestinationUnwritable, err)
	}
	s.errorLog = errorLog
	return nil
}

func (s *runState) release() {
	if s.runLog != nil {
		_ = s.runLog.Close()
		s.runLog = nil
	}
	if s.errorLog != nil {
		_ = s.errorLog.Close()
		s.errorLog = nil
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release run lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
			)
		}
		s.lock = nil
	}
}

// execute runs the scan and processing phases with panic recovery.
func (s *runState) execute(ctx context.Context) (snap summary.Snapshot, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, rec)
		}
	}()

	r := s.runner
	if err := s.runLog.Begin(s.id, s.sourceRoot); err != nil {
		s.logger.Warn("run log write failed", logging.Error(err))
	}
	s.beginHistory(ctx)
	s.logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("source_root", s.sourceRoot),
		logging.String("result_root", s.resultRoot),
	)

	r.setState(StateScanning)
	files, err := scan.Files(ctx, s.sourceRoot, scan.Options{
		ResultDir:   r.cfg.Processing.ResultDir,
		ExcludeDirs: r.cfg.Processing.ExcludeDirs,
	})
	cancelled := false
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return summary.Snapshot{}, err
		}
		cancelled = true
	}
	s.sum.SetTotal(len(files))
	s.emit(events.Logf("found %d media files in %s", len(files), s.sourceRoot))

	r.setState(StateProcessing)
	if !cancelled {
		cancelled = s.processAll(ctx, files)
	}

	r.setState(StateFinalizing)
	return s.finalize(ctx, cancelled), nil
}

func (s *runState) finalize(ctx context.Context, cancelled bool) summary.Snapshot {
	r := s.runner
	s.sum.Finish(r.now())
	if cancelled {
		s.sum.MarkCancelled()
		s.emit(events.Log("run cancelled; remaining files were not processed"))
	}
	snap := s.sum.Snapshot()
	s.emit(events.Complete(snap))

	status := ledger.RunCompleted
	if cancelled {
		status = ledger.RunCancelled
	}
	s.finishHistory(ctx, status, snap, "")

	s.logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("total", snap.Total),
		logging.Int("converted", snap.Converted),
		logging.Int("pass_copied", snap.PassCopied),
		logging.Int("skipped", snap.SkippedNoDateTime+snap.SkippedNotIMG+snap.SkippedExists),
		logging.Int("errors", snap.Errors),
		logging.Bool("cancelled", snap.Cancelled),
		logging.Duration("duration", snap.Duration()),
	)
	r.setState(StateComplete)
	return snap
}

// abort publishes the fatal ERROR event and moves the runner to Aborted.
func (s *runState) abort(ctx context.Context, err error) (summary.Snapshot, error) {
	s.sum.Finish(s.runner.now())
	s.emit(events.Error(err.Error()))
	logging.ErrorWithContext(s.logger, "run aborted", "run_aborted",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, abortHint(err)),
	)
	s.finishHistory(ctx, ledger.RunAborted, s.sum.Snapshot(), err.Error())
	s.runner.setState(StateAborted)
	return s.sum.Snapshot(), err
}

func abortHint(err error) string {
	switch {
	case errors.Is(err, ErrSourceMissing):
		return "check the source path"
	case errors.Is(err, ErrDestinationUnwritable):
		return "check permissions on the source directory"
	case errors.Is(err, ErrLocked):
		return "wait for the other run to finish"
	default:
		return "see the log file for details"
	}
}

// emit tags evt with the run id, appends it to the run log and publishes it.
func (s *runState) emit(evt events.Event) {
	evt.RunID = s.id
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.runner.now()
	}
	if s.runLog != nil {
		s.runLog.Append(evt)
	}
	if s.runner.stream != nil {
		s.runner.stream.Publish(evt)
	}
}
