package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shotdate/internal/config"
	"shotdate/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckSourceRoot(t *testing.T) {
	dir := t.TempDir()
	if res := CheckSourceRoot(dir); !res.Passed {
		t.Fatalf("expected pass, got %s", res.Detail)
	}
	f := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := CheckSourceRoot(f); res.Passed {
		t.Fatal("expected failure for file path")
	}
	if res := CheckSourceRoot(filepath.Join(dir, "missing")); res.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckResultRootDoesNotCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "result")
	res := CheckResultRoot(dir)
	if !res.Passed {
		t.Fatalf("expected pass for creatable dir, got %s", res.Detail)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected result dir not to be created, stat err=%v", err)
	}
}

func TestEnsureWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "result")
	if err := EnsureWritableDir(dir); err != nil {
		t.Fatalf("EnsureWritableDir failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected probe removed, found %d entries", len(entries))
	}

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureWritableDir(filepath.Join(blocker, "result")); err == nil {
		t.Fatal("expected error when parent is a file")
	}
}

func TestRunAllReportsMissingExifTool(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.ExifTool.Binary = "clearly-not-present-exiftool"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	source := t.TempDir()

	results := RunAll(context.Background(), cfg, source)
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "ExifTool" {
		t.Fatalf("expected only ExifTool to fail, got %#v", failed)
	}

	cfg.ExifTool.Extractor = config.ExtractorNative
	if failed := Failed(RunAll(context.Background(), cfg, source)); len(failed) != 0 {
		t.Fatalf("expected optional exiftool with native extractor, got %#v", failed)
	}
}

func TestRunAllWithStubbedExifTool(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, res := range RunAll(context.Background(), cfg, "") {
		if !res.Passed {
			t.Fatalf("unexpected failure: %#v", res)
		}
	}
}
