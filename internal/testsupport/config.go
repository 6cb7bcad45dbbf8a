package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"shotdate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// Logs and the ledger live under that directory; the source tree is left to
// the caller.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "state", "ledger.db")
	cfgVal.Processing.ChunkSize = 10

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithChunkSize overrides the extractor batch size.
func WithChunkSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.ChunkSize = n
	}
}

// WithExtractor selects the metadata extractor.
func WithExtractor(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ExifTool.Extractor = name
	}
}

// WithoutLedger disables run history for the test config.
func WithoutLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}

// WithVerifiedCopies turns on post-copy hash verification.
func WithVerifiedCopies() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.VerifyCopies = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, exiftool is stubbed with a script
// that prints an empty JSON array.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"exiftool"}
		}
		scripts := make(map[string]string, len(names))
		for _, name := range names {
			scripts[name] = "#!/bin/sh\necho '[]'\nexit 0\n"
		}
		installStubs(b.t, filepath.Join(b.baseDir, "bin"), scripts)
	}
}

// WithStubScript installs a single stub executable with the given shell body
// and points the exiftool binary setting at it.
func WithStubScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		installStubs(b.t, binDir, map[string]string{name: "#!/bin/sh\n" + body})
		b.cfg.ExifTool.Binary = filepath.Join(binDir, name)
	}
}

// StubBinary writes an executable shell script into dir and returns its path.
func StubBinary(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

func installStubs(t testing.TB, binDir string, scripts map[string]string) {
	t.Helper()
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, script := range scripts {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
