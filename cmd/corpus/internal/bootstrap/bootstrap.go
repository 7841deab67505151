package bootstrap

import (
	"fmt"
	"strings"
	"time"

	corpus "github.com/goliatone/go-corpus"
	"github.com/goliatone/go-corpus/internal/commands/corpuscmd"
	"github.com/goliatone/go-corpus/internal/di"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// Options captures configuration for corpus CLI bootstraps. Flag values
// overlay the config file, which overlays the module defaults.
type Options struct {
	ConfigPath    string
	BasePath      string
	Pattern       string
	Recursive     *bool
	Workers       int
	Strict        *bool
	ArchiveDriver string
	ArchiveDSN    string
	RenderEnabled *bool
	// WatchFeature enables continuous watching; the watch binary sets it so
	// running the binary is itself the opt-in.
	WatchFeature   bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the corpus module and the bindings CLI entry points need.
type Module struct {
	Module  *corpus.Module
	Service interfaces.IngestService
	Index   interfaces.CorpusIndex
	Logger  interfaces.Logger
	Gates   corpuscmd.FeatureGates
	// CommandTimeout bounds ingest and export command execution. Watch
	// commands ignore it.
	CommandTimeout time.Duration
}

// BuildModule constructs a corpus module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if trimmed := strings.TrimSpace(opts.BasePath); trimmed != "" {
		cfg.Ingest.BasePath = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Ingest.Pattern = trimmed
	}
	if opts.Recursive != nil {
		cfg.Ingest.Recursive = *opts.Recursive
	}
	if opts.Workers > 0 {
		cfg.Ingest.Workers = opts.Workers
	}
	if opts.Strict != nil {
		cfg.Ingest.Strict = *opts.Strict
	}
	if trimmed := strings.TrimSpace(opts.ArchiveDriver); trimmed != "" {
		cfg.Features.Archive = true
		cfg.Archive.Driver = trimmed
	}
	if trimmed := strings.TrimSpace(opts.ArchiveDSN); trimmed != "" {
		cfg.Archive.DSN = trimmed
	}
	if opts.RenderEnabled != nil {
		cfg.Features.Render = *opts.RenderEnabled
	}
	if opts.WatchFeature {
		cfg.Features.Watch = true
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := corpus.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise corpus module: %w", err)
	}

	return &Module{
		Module:  module,
		Service: module.Ingest(),
		Index:   module.Index(),
		Logger:  logging.CommandLogger(module.Container().LoggerProvider(), "cli"),
		Gates: corpuscmd.FeatureGates{
			IngestEnabled: func() bool { return cfg.Enabled && cfg.Commands.Enabled },
			WatchEnabled:  func() bool { return cfg.Enabled && cfg.Commands.Enabled && cfg.Features.Watch },
		},
		CommandTimeout: cfg.Commands.Timeout,
	}, nil
}

// Close releases resources owned by the underlying module.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

func loadConfig(path string) (corpus.Config, error) {
	if strings.TrimSpace(path) == "" {
		return corpus.DefaultConfig(), nil
	}
	cfg, err := corpus.LoadConfig(path)
	if err != nil {
		return corpus.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
