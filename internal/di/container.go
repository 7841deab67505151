package di

import (
	"context"
	"database/sql"
	"fmt"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-corpus/internal/archive"
	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/internal/ingest"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/internal/logging/console"
	"github.com/goliatone/go-corpus/internal/logging/gologger"
	"github.com/goliatone/go-corpus/internal/record"
	"github.com/goliatone/go-corpus/internal/render"
	"github.com/goliatone/go-corpus/internal/runtimeconfig"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// Container wires module dependencies from runtime configuration. Options let
// hosts override any binding before the container is finalised.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsBunDB     bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	corpusIndex *index.Index
	validator   *record.Validator
	renderer    interfaces.MarkdownRenderer
	archiveRepo interfaces.ArchiveRepository
	ingestSvc   interfaces.IngestService
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logging provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an externally managed database handle for the archive.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithIndex overrides the default in-memory index binding.
func WithIndex(idx *index.Index) Option {
	return func(c *Container) {
		c.corpusIndex = idx
	}
}

// WithArchiveRepository overrides the archive built from configuration.
func WithArchiveRepository(repo interfaces.ArchiveRepository) Option {
	return func(c *Container) {
		c.archiveRepo = repo
	}
}

// WithRenderer overrides the Markdown renderer binding.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithIngestService overrides the ingest service binding.
func WithIngestService(svc interfaces.IngestService) Option {
	return func(c *Container) {
		c.ingestSvc = svc
	}
}

// NewContainer validates the configuration and builds every service the
// module exposes. Construction fails fast on configuration problems,
// including a missing archive root.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if c.corpusIndex == nil {
		c.corpusIndex = index.New()
	}
	if err := c.configureValidator(); err != nil {
		return nil, err
	}
	c.configureRenderer()
	if err := c.configureArchive(); err != nil {
		return nil, err
	}
	if err := c.configureIngest(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}

	logCfg := c.Config.Logging
	switch logCfg.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("corpus di: build gologger provider: %w", err)
		}
		c.loggerProvider = provider
	default:
		options := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			options.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(options)
	}
	return nil
}

func (c *Container) configureValidator() error {
	if c.validator != nil {
		return nil
	}
	validator, err := record.NewValidator(record.ValidatorConfig{
		Strict: c.Config.Ingest.Strict,
	})
	if err != nil {
		return fmt.Errorf("corpus di: build validator: %w", err)
	}
	c.validator = validator
	return nil
}

func (c *Container) configureRenderer() {
	if c.renderer != nil || !c.Config.Features.Render {
		return
	}
	c.renderer = render.NewGoldmarkRenderer(interfaces.RenderOptions{
		Extensions: c.Config.Render.Extensions,
		HardWraps:  c.Config.Render.HardWraps,
		SafeMode:   c.Config.Render.SafeMode,
	})
}

func (c *Container) configureArchive() error {
	if c.archiveRepo != nil || !c.Config.Features.Archive {
		return nil
	}

	switch c.Config.Archive.Driver {
	case "sqlite":
		if c.bunDB == nil {
			sqldb, err := sql.Open("sqlite3", c.Config.Archive.DSN)
			if err != nil {
				return fmt.Errorf("corpus di: open archive database: %w", err)
			}
			c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
			c.ownsBunDB = true
		}
		if err := archive.EnsureSchema(context.Background(), c.bunDB); err != nil {
			return err
		}
		c.configureCacheDefaults()
		c.archiveRepo = archive.NewBunArchiveRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		logging.ArchiveLogger(c.loggerProvider).Debug("archive ready",
			"driver", c.Config.Archive.Driver,
			"dsn", c.Config.Archive.DSN,
			"cache", c.cacheService != nil)
	default:
		c.archiveRepo = archive.NewMemoryArchiveRepository()
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureIngest() error {
	if c.ingestSvc != nil {
		return nil
	}

	svc, err := ingest.NewService(ingest.Config{
		BasePath:  c.Config.Ingest.BasePath,
		Pattern:   c.Config.Ingest.Pattern,
		Recursive: c.Config.Ingest.Recursive,
		Workers:   c.Config.Ingest.Workers,
		Strict:    c.Config.Ingest.Strict,
	}, ingest.Dependencies{
		Index:       c.corpusIndex,
		Validator:   c.validator,
		Archive:     c.archiveRepo,
		Renderer:    c.renderer,
		Logger:      logging.IngestLogger(c.loggerProvider),
		WatchLogger: logging.WatchLogger(c.loggerProvider),
	})
	if err != nil {
		return err
	}
	c.ingestSvc = svc
	return nil
}

// Close releases resources the container created itself. Databases supplied
// through WithBunDB stay open.
func (c *Container) Close() error {
	if c.ownsBunDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		c.ownsBunDB = false
		return err
	}
	return nil
}

// LoggerProvider exposes the logging provider for host integrations.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Index returns the shared corpus index.
func (c *Container) Index() *index.Index {
	return c.corpusIndex
}

// Validator returns the configured record validator.
func (c *Container) Validator() *record.Validator {
	return c.validator
}

// Renderer returns the configured Markdown renderer, nil when rendering is disabled.
func (c *Container) Renderer() interfaces.MarkdownRenderer {
	return c.renderer
}

// ArchiveRepository returns the durable record store, nil when archiving is disabled.
func (c *Container) ArchiveRepository() interfaces.ArchiveRepository {
	return c.archiveRepo
}

// IngestService returns the configured ingest service.
func (c *Container) IngestService() interfaces.IngestService {
	return c.ingestSvc
}

// BunDB exposes the archive database handle for schema tooling, nil when the
// archive runs in memory.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}
