// Package watch monitors a directory and anonymizes supported files as they
// appear, writing results into a destination directory.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/codec"
	"github.com/dataveil/dataveil/internal/logger"
	"github.com/dataveil/dataveil/internal/pipeline"
)

// defaultSettle is how long a newly created file gets to finish being
// written before it is read.
const defaultSettle = 200 * time.Millisecond

// anonymizedMark tags output files so they are never re-processed when the
// destination is the watched directory itself.
const anonymizedMark = "_anonymized"

// Watcher anonymizes files dropped into a directory, one at a time in
// arrival order. The pipeline can be swapped while the watcher runs, which
// is how configuration hot reload reaches files processed later.
type Watcher struct {
	mu       sync.Mutex
	pipeline *pipeline.Pipeline
	outDir   string
	settle   time.Duration
	logger   *logger.Logger
}

// New creates a watcher that writes anonymized copies into outDir
func New(p *pipeline.Pipeline, outDir string, log *logger.Logger) *Watcher {
	return &Watcher{
		pipeline: p,
		outDir:   outDir,
		settle:   defaultSettle,
		logger:   log,
	}
}

// Run watches dir until the context is canceled. Files with unsupported
// extensions are skipped with a warning rather than stopping the watch, and
// a failed file never prevents later ones from being processed.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("Watching directory",
		zap.String("dir", dir),
		zap.String("out_dir", w.outDir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			w.handle(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", zap.Error(err))
		}
	}
}

// SetPipeline replaces the pipeline used for files processed from now on
func (w *Watcher) SetPipeline(p *pipeline.Pipeline) {
	w.mu.Lock()
	w.pipeline = p
	w.mu.Unlock()
}

func (w *Watcher) currentPipeline() *pipeline.Pipeline {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pipeline
}

// handle anonymizes one newly created file
func (w *Watcher) handle(path string) {
	name := filepath.Base(path)
	if strings.Contains(name, anonymizedMark) {
		return
	}

	// let the writer finish before reading
	time.Sleep(w.settle)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	if _, err := w.currentPipeline().Run(path, w.outputPath(name)); err != nil {
		if errors.Is(err, codec.ErrUnsupportedFormat) {
			w.logger.Warn("Skipping unsupported file", zap.String("file", name))
			return
		}
		w.logger.Error("Anonymization failed", zap.String("file", name), zap.Error(err))
	}
}

// outputPath places the anonymized copy of name in the destination
// directory. Document names pass through untouched since the pipeline
// already rewrites them to a text filename.
func (w *Watcher) outputPath(name string) string {
	if codec.DetectFormat(name) == codec.FormatPDF {
		return filepath.Join(w.outDir, name)
	}
	ext := filepath.Ext(name)
	return filepath.Join(w.outDir, strings.TrimSuffix(name, ext)+anonymizedMark+ext)
}
