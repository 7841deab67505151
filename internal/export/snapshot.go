package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var ErrIndexRequired = errors.New("export: corpus index is required")

// Snapshot is the portable JSON projection of a corpus index. Records appear
// in the index's date order; the keyed sections list record ids so consumers
// can join without scanning the whole array.
type Snapshot struct {
	GeneratedAt time.Time            `json:"generated_at"`
	RecordCount int                  `json:"record_count"`
	Records     []*interfaces.Record `json:"records"`
	Tags        map[string][]string  `json:"tags"`
	Categories  map[string][]string  `json:"categories"`
	Domains     map[string][]string  `json:"domains"`
}

// Writer serializes an index into snapshot documents.
type Writer struct {
	index interfaces.CorpusIndex
	clock func() time.Time
}

func NewWriter(index interfaces.CorpusIndex) (*Writer, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	return &Writer{
		index: index,
		clock: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Build assembles the snapshot without writing it anywhere.
func (w *Writer) Build() *Snapshot {
	records := w.index.Records()

	snapshot := &Snapshot{
		GeneratedAt: w.clock(),
		RecordCount: len(records),
		Records:     records,
		Tags:        make(map[string][]string),
		Categories:  make(map[string][]string),
		Domains:     make(map[string][]string),
	}

	for _, rec := range records {
		id := rec.ID.String()
		for _, tag := range rec.Tags {
			snapshot.Tags[tag] = append(snapshot.Tags[tag], id)
		}
		if rec.Category != "" {
			snapshot.Categories[rec.Category] = append(snapshot.Categories[rec.Category], id)
		}
		if rec.Domain != "" {
			snapshot.Domains[rec.Domain] = append(snapshot.Domains[rec.Domain], id)
		}
	}
	return snapshot
}

// Write streams the snapshot as indented JSON.
func (w *Writer) Write(out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(w.Build()); err != nil {
		return fmt.Errorf("export: encode snapshot: %w", err)
	}
	return nil
}

// WriteFile writes the snapshot atomically: the document lands in a temp file
// next to the target and is renamed into place, so readers never observe a
// partial snapshot.
func (w *Writer) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("export: create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if err := w.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("export: close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("export: publish snapshot: %w", err)
	}
	return nil
}
