package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrIngestBasePathRequired indicates the archive root was left empty.
var ErrIngestBasePathRequired = errors.New("corpus config: ingest base path is required")

// ErrIngestWorkersInvalid rejects negative worker counts.
var ErrIngestWorkersInvalid = errors.New("corpus config: ingest workers must be zero or positive")

// ErrArchiveDriverUnknown rejects storage drivers the module cannot build.
var ErrArchiveDriverUnknown = errors.New("corpus config: archive driver is invalid")

// ErrArchiveDSNRequired indicates a sqlite archive without a data source name.
var ErrArchiveDSNRequired = errors.New("corpus config: archive dsn is required for the sqlite driver")

// ErrAdvancedCacheRequiresArchive ensures the repository cache only wraps a real archive.
var ErrAdvancedCacheRequiresArchive = errors.New("corpus config: repository cache requires the sqlite archive driver")

// ErrWatchDebounceInvalid rejects negative debounce windows.
var ErrWatchDebounceInvalid = errors.New("corpus config: watch debounce must be zero or positive")

var ErrLoggingProviderRequired = errors.New("corpus config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("corpus config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("corpus config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("corpus config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the corpus module.
// Fields intentionally use simple types so host applications can extend them
// later.
type Config struct {
	Enabled  bool           `yaml:"enabled" toml:"enabled"`
	Ingest   IngestConfig   `yaml:"ingest" toml:"ingest"`
	Archive  ArchiveConfig  `yaml:"archive" toml:"archive"`
	Cache    CacheConfig    `yaml:"cache" toml:"cache"`
	Render   RenderConfig   `yaml:"render" toml:"render"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
	Commands CommandsConfig `yaml:"commands" toml:"commands"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Features Features       `yaml:"features" toml:"features"`
}

// IngestConfig captures filesystem discovery and validation behaviour.
type IngestConfig struct {
	BasePath  string `yaml:"base_path" toml:"base_path"`
	Pattern   string `yaml:"pattern" toml:"pattern"`
	Recursive bool   `yaml:"recursive" toml:"recursive"`
	Workers   int    `yaml:"workers" toml:"workers"`
	Strict    bool   `yaml:"strict" toml:"strict"`
}

// ArchiveConfig selects the durable record store.
type ArchiveConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" toml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl" toml:"default_ttl"`
}

// RenderConfig mirrors interfaces.RenderOptions for runtime configuration.
type RenderConfig struct {
	Enabled    bool     `yaml:"enabled" toml:"enabled"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps" toml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode" toml:"safe_mode"`
}

// WatchConfig controls continuous re-ingestion.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool          `yaml:"enabled" toml:"enabled"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// Features toggles module functionality.
type Features struct {
	Archive bool `yaml:"archive" toml:"archive"`
	Render  bool `yaml:"render" toml:"render"`
	Watch   bool `yaml:"watch" toml:"watch"`
	Logger  bool `yaml:"logger" toml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" toml:"provider"`
	Level     string   `yaml:"level" toml:"level"`
	Format    string   `yaml:"format" toml:"format"`
	AddSource bool     `yaml:"add_source" toml:"add_source"`
	Focus     []string `yaml:"focus" toml:"focus"`
}

// DefaultConfig returns opinionated defaults for a local archive layout.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Ingest: IngestConfig{
			BasePath:  "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Archive: ArchiveConfig{
			Driver: "memory",
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Render: RenderConfig{
			Extensions: []string{"gfm", "linkify"},
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Commands: CommandsConfig{
			Enabled: true,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Ingest.BasePath) == "" {
		return ErrIngestBasePathRequired
	}
	if cfg.Ingest.Workers < 0 {
		return ErrIngestWorkersInvalid
	}
	if cfg.Features.Archive {
		driver := normalizeDriver(cfg.Archive.Driver)
		switch driver {
		case "sqlite":
			if strings.TrimSpace(cfg.Archive.DSN) == "" {
				return ErrArchiveDSNRequired
			}
		case "memory", "":
		default:
			return fmt.Errorf("%w: %s", ErrArchiveDriverUnknown, driver)
		}
		if cfg.Cache.Enabled && driver != "sqlite" {
			return ErrAdvancedCacheRequiresArchive
		}
	}
	if cfg.Watch.Debounce < 0 {
		return ErrWatchDebounceInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
