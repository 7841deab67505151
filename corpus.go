package corpus

import (
	"github.com/goliatone/go-corpus/internal/di"
	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// IngestService exports the ingestion contract for consumers of the corpus package.
type IngestService = interfaces.IngestService

// CorpusIndex exports the read-only query surface over ingested records.
type CorpusIndex = interfaces.CorpusIndex

// ArchiveRepository exports the durable record store contract.
type ArchiveRepository = interfaces.ArchiveRepository

// MarkdownRenderer exports the Markdown-to-HTML contract.
type MarkdownRenderer = interfaces.MarkdownRenderer

// Record exports the validated article representation.
type Record = interfaces.Record

// IngestReport exports the per-run ingestion summary.
type IngestReport = interfaces.IngestReport

// IngestOptions exports the per-run ingestion tuning knobs.
type IngestOptions = interfaces.IngestOptions

// WatchOptions exports continuous ingestion tuning knobs.
type WatchOptions = interfaces.WatchOptions

// Module represents the top level corpus runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a corpus module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Ingest returns the configured ingest service.
func (m *Module) Ingest() IngestService {
	return m.container.IngestService()
}

// Index returns the corpus query surface.
func (m *Module) Index() CorpusIndex {
	return m.container.Index()
}

// RawIndex returns the concrete index for callers that need write access,
// such as snapshot restore tooling.
func (m *Module) RawIndex() *index.Index {
	return m.container.Index()
}

// Archive returns the durable record store, nil when archiving is disabled.
func (m *Module) Archive() ArchiveRepository {
	return m.container.ArchiveRepository()
}

// Renderer returns the configured Markdown renderer, nil when rendering is disabled.
func (m *Module) Renderer() MarkdownRenderer {
	return m.container.Renderer()
}

// Close releases resources owned by the module, such as an archive database
// it opened itself.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
