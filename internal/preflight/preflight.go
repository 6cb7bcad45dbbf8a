package preflight

import (
	"context"
	"fmt"

	"shotdate/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for cfg. When source is non-empty
// the source tree and its result directory are checked too.
func RunAll(ctx context.Context, cfg *config.Config, source string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if source != "" {
		results = append(results, CheckSourceRoot(source))
		results = append(results, CheckResultRoot(cfg.ResultRoot(source)))
	}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	for _, status := range CheckSystemDeps(ctx, cfg) {
		res := Result{Name: status.Name, Passed: status.Available}
		switch {
		case status.Available && status.Version != "":
			res.Detail = fmt.Sprintf("%s (version %s)", status.Command, status.Version)
		case status.Available:
			res.Detail = status.Command
		case status.Optional:
			res.Passed = true
			res.Detail = status.Detail + " (optional)"
		default:
			res.Detail = status.Detail
		}
		results = append(results, res)
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
