package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shotdate/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent runs, or the per-file outcomes of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return errors.New("run history is disabled (ledger.enabled = false)")
			}
			store, err := ledger.Open(cfg.Paths.LedgerPath)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return printOutcomes(cmd, store, strings.TrimSpace(args[0]))
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func renderRuns(runs []ledger.Run) string {
	headers := []string{"Run", "Started", "Status", "Source", "Total", "Converted", "Pass", "Skipped", "Errors", "Duration"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		c := run.Counts
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(run.Status),
			run.SourceRoot,
			strconv.Itoa(c.Total),
			strconv.Itoa(c.Converted),
			strconv.Itoa(c.PassCopied),
			strconv.Itoa(c.SkippedNoDateTime + c.SkippedNotIMG + c.SkippedExists),
			strconv.Itoa(c.Errors),
			formatDuration(run.Duration()),
		})
	}
	return tableSpec{headers: headers, rows: rows, aligns: aligns}.render()
}

func printOutcomes(cmd *cobra.Command, store *ledger.Store, id string) error {
	runID, err := resolveRunID(cmd, store, id)
	if err != nil {
		return err
	}
	outcomes, err := store.Outcomes(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(outcomes) == 0 {
		fmt.Fprintf(out, "Run %s has no recorded outcomes\n", runID)
		return nil
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		detail := o.Dest
		if detail == "" {
			detail = o.Reason
		}
		rows = append(rows, []string{o.Source, o.Action, o.Outcome, detail})
	}
	fmt.Fprintln(out, tableSpec{
		title:     "Run " + runID,
		headers:   []string{"Source", "Action", "Outcome", "Destination / reason"},
		rows:      rows,
		maxWidths: map[int]int{0: 60, 3: 60},
	}.render())
	return nil
}

// resolveRunID accepts a full run id or a unique prefix of one.
func resolveRunID(cmd *cobra.Command, store *ledger.Store, id string) (string, error) {
	if run, err := store.GetRun(cmd.Context(), id); err == nil {
		return run.ID, nil
	} else if !errors.Is(err, ledger.ErrNoRun) {
		return "", err
	}
	runs, err := store.ListRuns(cmd.Context(), 0)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, run := range runs {
		if strings.HasPrefix(run.ID, id) {
			matches = append(matches, run.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ledger.ErrNoRun, id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run id prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}
