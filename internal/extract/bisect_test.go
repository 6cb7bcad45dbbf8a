package extract_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"shotdate/internal/extract"
	"shotdate/internal/logging"
	"shotdate/internal/metadata"
)

// fakeExtractor fails any batch containing a path in bad.
type fakeExtractor struct {
	bad   map[string]bool
	calls [][]string
}

func (f *fakeExtractor) Extract(_ context.Context, paths []string) (extract.Result, error) {
	f.calls = append(f.calls, slices.Clone(paths))
	out := extract.Result{}
	for _, p := range paths {
		if f.bad[p] {
			return nil, extract.ErrExtractFailed
		}
		out[p] = metadata.Tags{metadata.TagMake: "Canon"}
	}
	return out, nil
}

func TestBisectPassesThroughSuccess(t *testing.T) {
	inner := &fakeExtractor{}
	b := extract.NewBisect(inner, logging.NewNop())
	result, err := b.Extract(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(result) != 3 || len(inner.calls) != 1 {
		t.Fatalf("unexpected result %v after %d calls", result, len(inner.calls))
	}
}

func TestBisectRetriesHalves(t *testing.T) {
	inner := &fakeExtractor{bad: map[string]bool{}}
	calls := 0
	flaky := extract.Func(func(ctx context.Context, paths []string) (extract.Result, error) {
		calls++
		if calls == 1 {
			return nil, extract.ErrExtractFailed
		}
		return inner.Extract(ctx, paths)
	})
	result, err := extract.NewBisect(flaky, logging.NewNop()).Extract(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(result) != 2 {
		t.Fatalf("expected both files recovered, got %v", result)
	}
}

func TestBisectDropsFailingLeaf(t *testing.T) {
	inner := &fakeExtractor{bad: map[string]bool{"c": true}}
	paths := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	result, err := extract.NewBisect(inner, logging.NewNop()).Extract(context.Background(), paths)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	// depth 0 fails; [a b c d] fails; [a b] ok, [c d] fails at max depth and is dropped;
	// [e f g h] ok.
	want := []string{"a", "b", "e", "f", "g", "h"}
	for _, p := range want {
		if _, ok := result[p]; !ok {
			t.Fatalf("expected %s in result %v", p, result)
		}
	}
	if len(result) != len(want) {
		t.Fatalf("unexpected result size %d: %v", len(result), result)
	}
	if len(inner.calls) != 5 {
		t.Fatalf("expected 5 calls, got %d: %v", len(inner.calls), inner.calls)
	}
}

func TestBisectSingleFileFailureReturnsError(t *testing.T) {
	inner := &fakeExtractor{bad: map[string]bool{"a": true}}
	_, err := extract.NewBisect(inner, logging.NewNop()).Extract(context.Background(), []string{"a"})
	if !errors.Is(err, extract.ErrExtractFailed) {
		t.Fatalf("expected ErrExtractFailed, got %v", err)
	}
	if len(inner.calls) != 1 {
		t.Fatalf("expected single attempt, got %d", len(inner.calls))
	}
}

func TestBisectStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	failing := extract.Func(func(context.Context, []string) (extract.Result, error) {
		calls++
		cancel()
		return nil, extract.ErrExtractFailed
	})
	_, err := extract.NewBisect(failing, logging.NewNop()).Extract(ctx, []string{"a", "b", "c"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retries after cancel, got %d calls", calls)
	}
}
