package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"shotdate/internal/config"
	"shotdate/internal/logging"
	"shotdate/internal/logview"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		errLog bool
		match  string
	)

	cmd := &cobra.Command{
		Use:   "logs <source-dir>",
		Short: "Show the run log of a source directory's result tree",
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
			name := logging.RunLogName
			if errLog {
				name = logging.ErrorLogName
			}
			path := filepath.Join(cfg.ResultRoot(source), name)

			out := cmd.OutOrStdout()
			chunk, err := logview.Tail(path, logview.Options{Offset: -1, Limit: lines, Match: match})
			if err != nil {
				return err
			}
			if len(chunk.Lines) == 0 && !follow {
				fmt.Fprintf(out, "No log entries in %s\n", path)
				return nil
			}
			for _, line := range chunk.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return logview.Follow(followCtx, path, chunk.Offset, match, logview.DefaultPollInterval, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are appended")
	cmd.Flags().BoolVar(&errLog, "errors", false, "Show error.log instead of run.log")
	cmd.Flags().StringVar(&match, "grep", "", "Only show lines containing this text (case-insensitive)")
	return cmd
}
