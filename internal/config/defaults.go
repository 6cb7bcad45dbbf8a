package config

const (
	defaultLogDir           = "~/.local/share/shotdate/logs"
	defaultLedgerPath       = "~/.local/share/shotdate/ledger.db"
	defaultLedgerKeepRuns   = 200
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultChunkSize        = 500
	defaultResultDir        = "result"
	defaultExtractor        = ExtractorExifTool
	defaultExifToolBinary   = "exiftool"
	defaultExifToolTimeout  = 300
)

// Extractor backends accepted by exiftool.extractor.
const (
	ExtractorExifTool = "exiftool"
	ExtractorNative   = "native"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedgerPath,
		},
		Processing: Processing{
			ChunkSize: defaultChunkSize,
			ResultDir: defaultResultDir,
		},
		ExifTool: ExifTool{
			Extractor:      defaultExtractor,
			Binary:         defaultExifToolBinary,
			TimeoutSeconds: defaultExifToolTimeout,
		},
		Ledger: Ledger{
			Enabled:  true,
			KeepRuns: defaultLedgerKeepRuns,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
