package logview_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"shotdate/internal/logview"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func TestTailLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	writeLog(t, path, "a\nb\nc\n")

	chunk, err := logview.Tail(path, logview.Options{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if !reflect.DeepEqual(chunk.Lines, []string{"b", "c"}) {
		t.Fatalf("unexpected lines: %#v", chunk.Lines)
	}
	if chunk.Offset != 6 {
		t.Fatalf("expected offset 6, got %d", chunk.Offset)
	}
}

func TestTailFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	writeLog(t, path, "converted: a\nerror: b\nskipped (no capture date): c\nERROR: d\n")

	chunk, err := logview.Tail(path, logview.Options{Offset: -1, Limit: 10, Match: "error"})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if !reflect.DeepEqual(chunk.Lines, []string{"error: b", "ERROR: d"}) {
		t.Fatalf("unexpected lines: %#v", chunk.Lines)
	}
}

func TestTailFromOffsetLeavesPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	writeLog(t, path, "one\ntw")

	chunk, err := logview.Tail(path, logview.Options{Offset: 0})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if !reflect.DeepEqual(chunk.Lines, []string{"one"}) || chunk.Offset != 4 {
		t.Fatalf("unexpected chunk: %#v", chunk)
	}

	appendLog(t, path, "o\nthree\n")
	chunk, err = logview.Tail(path, logview.Options{Offset: chunk.Offset})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if !reflect.DeepEqual(chunk.Lines, []string{"two", "three"}) {
		t.Fatalf("unexpected lines: %#v", chunk.Lines)
	}
}

func TestTailHandlesMissingAndTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	chunk, err := logview.Tail(path, logview.Options{Offset: -1, Limit: 5})
	if err != nil || len(chunk.Lines) != 0 || chunk.Offset != 0 {
		t.Fatalf("missing file: chunk=%#v err=%v", chunk, err)
	}

	writeLog(t, path, "fresh\n")
	chunk, err = logview.Tail(path, logview.Options{Offset: 1000})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if !reflect.DeepEqual(chunk.Lines, []string{"fresh"}) {
		t.Fatalf("expected re-read after truncation, got %#v", chunk.Lines)
	}

	if _, err := logview.Tail(filepath.Dir(path), logview.Options{}); err == nil {
		t.Fatal("expected error for directory path")
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	writeLog(t, path, "before\n")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logview.Follow(ctx, path, 7, "", 10*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	appendLog(t, path, "later\n")
	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for followed line")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(got, []string{"later"}) {
		t.Fatalf("unexpected followed lines: %#v", got)
	}
}
