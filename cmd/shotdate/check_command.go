package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shotdate/internal/config"
	"shotdate/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [source-dir]",
		Short: "Verify paths and external tools before a run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := ""
			if len(args) == 1 {
				if source, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve source: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			results := preflight.RunAll(cmd.Context(), cfg, source)

			lines := renderSectionHeader("Configuration")
			configPath := ctx.configPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			lines = append(lines,
				fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Config file:", configPath),
				fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Extractor:", cfg.ExifTool.Extractor),
				fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Ledger:", yesNo(cfg.Ledger.Enabled)),
				"",
			)
			lines = append(lines, checkLines(results, colorize)...)
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}

// checkLines renders preflight results under a header with a pass count.
// Passing optional checks are shown as warnings.
func checkLines(results []preflight.Result, colorize bool) []string {
	failed := len(preflight.Failed(results))
	lines := renderSectionHeader("Checks")
	summaryKind := statusOK
	if failed > 0 {
		summaryKind = statusError
	}
	lines = append(lines, renderStatusLine("Summary", summaryKind,
		fmt.Sprintf("%d/%d passed", len(results)-failed, len(results)), colorize))
	for _, res := range results {
		kind := statusOK
		switch {
		case !res.Passed:
			kind = statusError
		case strings.HasSuffix(res.Detail, "(optional)"):
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(res.Name, kind, res.Detail, colorize))
	}
	return lines
}
