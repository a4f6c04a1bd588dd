// Package watcher analyzes documents dropped into watched directories.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"policyrag/internal/domain"
	"policyrag/internal/logger"
)

// Loader reads a file into a document.
type Loader interface {
	Supported(name string) bool
	Load(path string) (domain.Document, error)
}

// Ingester receives loaded documents.
type Ingester interface {
	Analyze(ctx context.Context, doc domain.Document) (domain.Analysis, error)
}

// Options configures a Watcher.
type Options struct {
	Dirs []string
	// Debounce delays ingestion until writes to a path have settled.
	// Zero ingests synchronously on the first event.
	Debounce time.Duration
}

// Watcher ingests each supported file in its directories once.
type Watcher struct {
	loader   Loader
	ingester Ingester
	opts     Options
	log      *logger.Logger

	mu      sync.Mutex
	seen    map[string]struct{}
	pending map[string]*time.Timer
}

func New(loader Loader, ingester Ingester, opts Options) *Watcher {
	return &Watcher{
		loader:   loader,
		ingester: ingester,
		opts:     opts,
		log:      logger.Named("watcher"),
		seen:     make(map[string]struct{}),
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches the configured directories until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.opts.Dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.log.Info().Str("dir", dir).Msg("watching")
	}

	defer w.stopPending()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	path := ev.Name
	if isHidden(filepath.Base(path)) || !w.loader.Supported(path) {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	if _, done := w.seen[path]; done {
		w.mu.Unlock()
		return
	}
	if w.opts.Debounce <= 0 {
		w.seen[path] = struct{}{}
		w.mu.Unlock()
		w.ingest(ctx, path)
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.opts.Debounce)
		w.mu.Unlock()
		return
	}
	w.pending[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.seen[path] = struct{}{}
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
	w.mu.Unlock()
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	doc, err := w.loader.Load(path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("load failed")
		return
	}
	res, err := w.ingester.Analyze(ctx, doc)
	if err != nil {
		w.log.Warn().Err(err).Str("doc_id", doc.ID).Msg("analyze failed")
		return
	}
	w.log.Info().Str("doc_id", res.DocID).Int("relevant", res.Relevant).Msg("ingested")
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
