package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

const defaultWatchDebounce = 500 * time.Millisecond

// fileEvent describes one relevant filesystem change under the content root.
type fileEvent struct {
	Path string
	Op   fsnotify.Op
}

// watcher wraps fsnotify, filtering events down to Markdown files and
// emitting them over a channel until the context is cancelled.
type watcher struct {
	inner      *fsnotify.Watcher
	extensions []string
}

func newWatcher(extensions []string) (*watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ingest watcher: %w", err)
	}
	if len(extensions) == 0 {
		extensions = []string{".md", ".markdown"}
	}
	return &watcher{inner: inner, extensions: extensions}, nil
}

func (w *watcher) watch(ctx context.Context, dir string, recursive bool) (<-chan fileEvent, error) {
	if err := w.inner.Add(dir); err != nil {
		return nil, fmt.Errorf("ingest watcher add %s: %w", dir, err)
	}
	if recursive {
		// Directories present at start are registered; directories created
		// while watching are picked up on the next restart.
		err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || !entry.IsDir() || path == dir {
				return err
			}
			if err := w.inner.Add(path); err != nil {
				return fmt.Errorf("ingest watcher add %s: %w", path, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	events := make(chan fileEvent, 64)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.inner.Events:
				if !ok {
					return
				}
				if !w.isWatchedExtension(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case events <- fileEvent{Path: event.Name, Op: event.Op}:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.inner.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}

func (w *watcher) close() error {
	return w.inner.Close()
}

func (w *watcher) isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range w.extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Watch re-runs directory ingestion whenever matching files change under the
// configured base path. Bursts of events are debounced into a single pass.
// The method blocks until ctx is cancelled, which is the normal way to stop
// watching; the context error is swallowed in that case.
func (s *Service) Watch(ctx context.Context, opts interfaces.WatchOptions) error {
	w, err := newWatcher(nil)
	if err != nil {
		return err
	}
	defer w.close()

	events, err := w.watch(ctx, s.cfg.BasePath, s.cfg.Recursive)
	if err != nil {
		return err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}

	logger := logging.WithIngestContext(s.watchLogger, s.cfg.BasePath, opts.Pattern, "watch")
	logger.Info("ingest.watch.started", "debounce_ms", debounce.Milliseconds())

	// Initial pass so the index reflects the directory before any change.
	if _, err := s.IngestDirectory(ctx, ".", opts.IngestOptions); err != nil {
		return err
	}

	var timer *time.Timer
	var pending int
	fire := make(chan struct{}, 1)

	schedule := func() {
		pending++
		if timer == nil {
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("ingest.watch.event", "path", event.Path, "op", event.Op.String())
			schedule()
		case <-fire:
			count := pending
			pending = 0
			report, err := s.IngestDirectory(ctx, ".", opts.IngestOptions)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("ingest.watch.pass_failed", "error", err)
				continue
			}
			logger.Info("ingest.watch.pass_completed",
				"events", count,
				"files_seen", report.FilesSeen,
				"indexed", report.Indexed,
			)
		}
	}
}
