package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"shotdate/internal/config"
	"shotdate/internal/events"
	"shotdate/internal/ledger"
	"shotdate/internal/logging"
	"shotdate/internal/pipeline"
	"shotdate/internal/summary"
)

type runOptions struct {
	quiet      bool
	noProgress bool
	eventsPath string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <source-dir>",
		Short: "Copy media under source-dir into <source-dir>/result by capture date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve source: %w", err)
			}
			logger, logPath, err := ctx.runLogger(cmd)
			if err != nil {
				return err
			}
			return executeRun(cmd, cfg, logger, logPath, source, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the final summary")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().StringVar(&opts.eventsPath, "events", "", "Also write every event as a JSON line to this file")
	return cmd
}

func executeRun(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, logPath, source string, opts runOptions) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	stream := events.NewStream(0)
	if opts.eventsPath != "" {
		closeEvents, err := attachEventFile(stream, opts.eventsPath)
		if err != nil {
			return err
		}
		defer closeEvents()
	}

	var runnerOpts []pipeline.Option
	if cfg.Ledger.Enabled {
		store, err := ledger.Open(cfg.Paths.LedgerPath)
		if err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "ledger_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in shotdate history"),
				logging.String(logging.FieldErrorHint, "check paths.ledger_path or set ledger.enabled = false"),
			)
		} else {
			defer store.Close()
			defer pruneHistory(store, cfg.Ledger.KeepRuns, logger)
			runnerOpts = append(runnerOpts, pipeline.WithHistory(store))
		}
	}

	runner := pipeline.New(cfg, pipeline.NewExtractor(cfg, logger), stream, logger, runnerOpts...)

	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	stopSignals := watchSignals(runner, cancel, stderr)
	defer stopSignals()

	var (
		snap   summary.Snapshot
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		snap, runErr = runner.Run(runCtx, source)
	}()

	view := newRunView(stdout, stderr, opts)
	consumeCtx, stopConsume := context.WithCancel(context.Background())
	defer stopConsume()
	go func() {
		<-done
		// The terminal event is already published; give the consumer one
		// more poll to drain it.
		time.AfterFunc(2*events.DefaultPollInterval, stopConsume)
	}()
	_ = events.Consume(consumeCtx, stream, events.DefaultPollInterval, events.DefaultBatchSize, view.handle)
	<-done

	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(stdout, "Run log: %s\n", filepath.Join(cfg.ResultRoot(source), logging.RunLogName))
	if snap.Errors > 0 {
		fmt.Fprintf(stdout, "Error log: %s\n", filepath.Join(cfg.ResultRoot(source), logging.ErrorLogName))
	}
	if logPath != "" {
		fmt.Fprintf(stdout, "Diagnostics: %s\n", logPath)
	}
	return nil
}

func pruneHistory(store *ledger.Store, keep int, logger *slog.Logger) {
	removed, err := store.PruneRuns(context.Background(), keep)
	if err != nil {
		logging.WarnWithContext(logger, "run history prune failed", "ledger_prune_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "old runs remain in history"),
		)
		return
	}
	if removed > 0 {
		logger.Debug("run history pruned", logging.Int("removed", int(removed)), logging.Int("keep", keep))
	}
}

// watchSignals turns the first interrupt into a graceful stop and the second
// into a hard cancel.
func watchSignals(runner *pipeline.Runner, cancel context.CancelFunc, stderr io.Writer) func() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	quit := make(chan struct{})
	go func() {
		graceful := true
		for {
			select {
			case <-quit:
				return
			case <-sigCh:
				if graceful {
					graceful = false
					fmt.Fprintln(stderr, "Stopping after the current file (press Ctrl+C again to abort)")
					runner.Cancel()
					continue
				}
				cancel()
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(quit)
	}
}

func attachEventFile(stream *events.Stream, path string) (func(), error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve events path: %w", err)
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	var mu sync.Mutex
	enc := json.NewEncoder(f)
	stream.AddSink(events.SinkFunc(func(evt events.Event) {
		mu.Lock()
		defer mu.Unlock()
		_ = enc.Encode(evt)
	}))
	return func() { _ = f.Close() }, nil
}

// runView renders events on the terminal: a progress bar when stderr is a
// terminal, per-file log lines unless quiet, and the summary table.
type runView struct {
	stdout io.Writer
	stderr io.Writer
	quiet  bool
	bar    *progressbar.ProgressBar
	useBar bool
}

func newRunView(stdout, stderr io.Writer, opts runOptions) *runView {
	return &runView{
		stdout: stdout,
		stderr: stderr,
		quiet:  opts.quiet,
		useBar: !opts.noProgress && isTerminal(stderr),
	}
}

func (v *runView) handle(evt events.Event) {
	switch evt.Kind {
	case events.KindLog:
		if v.quiet {
			return
		}
		if v.bar != nil {
			_ = v.bar.Clear()
		}
		fmt.Fprintln(v.stdout, evt.Text)
	case events.KindProgress:
		v.progress(evt.Current, evt.Total)
	case events.KindComplete:
		v.finishBar()
		if evt.Summary != nil {
			fmt.Fprintln(v.stdout, renderSummary(*evt.Summary))
		}
	case events.KindError:
		v.finishBar()
		fmt.Fprintf(v.stderr, "error: %s\n", evt.Text)
	}
}

func (v *runView) progress(current, total int) {
	if !v.useBar || total <= 0 {
		return
	}
	if v.bar == nil {
		v.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(v.stderr),
			progressbar.OptionSetDescription("Processing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(65*time.Millisecond),
		)
	}
	_ = v.bar.Set(current)
}

func (v *runView) finishBar() {
	if v.bar == nil {
		return
	}
	_ = v.bar.Finish()
	v.bar = nil
}

func renderSummary(snap summary.Snapshot) string {
	tbl := tableSpec{
		title:   "Summary",
		headers: []string{"Outcome", "Files"},
		aligns:  []columnAlignment{alignLeft, alignRight},
	}
	if snap.Cancelled {
		tbl.title = "Summary (cancelled, partial results)"
	}
	for _, row := range snap.Rows() {
		tbl.rows = append(tbl.rows, []string{row.Label, row.Value})
	}
	return tbl.render()
}
