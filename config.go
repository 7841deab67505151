package corpus

import "github.com/goliatone/go-corpus/internal/runtimeconfig"

var (
	ErrIngestBasePathRequired       = runtimeconfig.ErrIngestBasePathRequired
	ErrIngestWorkersInvalid         = runtimeconfig.ErrIngestWorkersInvalid
	ErrArchiveDriverUnknown         = runtimeconfig.ErrArchiveDriverUnknown
	ErrArchiveDSNRequired           = runtimeconfig.ErrArchiveDSNRequired
	ErrAdvancedCacheRequiresArchive = runtimeconfig.ErrAdvancedCacheRequiresArchive
	ErrWatchDebounceInvalid         = runtimeconfig.ErrWatchDebounceInvalid
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
	ErrUnsupportedConfigFormat      = runtimeconfig.ErrUnsupportedConfigFormat
)

type (
	Config         = runtimeconfig.Config
	IngestConfig   = runtimeconfig.IngestConfig
	ArchiveConfig  = runtimeconfig.ArchiveConfig
	CacheConfig    = runtimeconfig.CacheConfig
	RenderConfig   = runtimeconfig.RenderConfig
	WatchConfig    = runtimeconfig.WatchConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML or TOML config file, overlaying it on defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
