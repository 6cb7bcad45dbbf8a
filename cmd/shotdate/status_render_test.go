package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"shotdate/internal/preflight"
	"shotdate/internal/summary"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("ExifTool", statusError, "binary \"exiftool\" not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "ExifTool:", `[ERROR] binary "exiftool" not found`)
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Source", statusOK, "/photos (read ok)", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestCheckLines(t *testing.T) {
	results := []preflight.Result{
		{Name: "Source directory", Passed: true, Detail: "/photos (read ok)"},
		{Name: "ExifTool", Passed: true, Detail: `binary "exiftool" not found (optional)`},
		{Name: "Log directory", Passed: false, Detail: "/logs (error: does not exist)"},
	}
	lines := checkLines(results, false)
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %#v", len(lines), lines)
	}
	if !strings.Contains(lines[2], "Summary") || !strings.Contains(lines[2], "[ERROR] 2/3 passed") {
		t.Fatalf("unexpected summary line %q", lines[2])
	}
	if !strings.Contains(lines[3], "[OK]") {
		t.Fatalf("expected OK for source, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "[WARN]") {
		t.Fatalf("expected WARN for optional dependency, got %q", lines[4])
	}
	if !strings.Contains(lines[5], "[ERROR]") {
		t.Fatalf("expected ERROR for failed check, got %q", lines[5])
	}
}

func TestRenderSummaryTable(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	snap := summary.Snapshot{
		Total:              4,
		Converted:          2,
		PassCopied:         1,
		SkippedNotIMG:      1,
		CollisionsResolved: 1,
		StartedAt:          start,
		FinishedAt:         start.Add(2 * time.Second),
	}
	out := renderSummary(snap)
	for _, want := range []string{"Summary", "Total files", "Converted", "Collisions resolved", "2.00s"} {
		requireContains(t, out, want)
	}

	snap.Cancelled = true
	requireContains(t, renderSummary(snap), "cancelled, partial results")
}

func TestTableSpecPadsShortRows(t *testing.T) {
	out := tableSpec{
		headers: []string{"A", "B", "C"},
		rows:    [][]string{{"only-a"}},
	}.render()
	requireContains(t, out, "only-a")
	if (tableSpec{}).render() != "" {
		t.Fatal("expected empty render without headers")
	}
}
