// Package watch re-analyses a file every time it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ruarcs/wc/internal/analyzer"
	"github.com/ruarcs/wc/internal/model"
)

// DefaultSettle is how long the file must stay quiet before it is re-read.
const DefaultSettle = 100 * time.Millisecond

// Handler receives each fresh result.
type Handler func(path string, res model.Result) error

// ErrStop may be returned by a Handler to end Run without an error.
var ErrStop = errors.New("stop watching")

// Options configures a Watcher.
type Options struct {
	MaxLineBytes int
	Settle       time.Duration
	Logger       *slog.Logger
}

// Watcher analyses a single file on start and after every change.
type Watcher struct {
	path    string
	opts    Options
	handler Handler
}

// New creates a Watcher for path.
func New(path string, handler Handler, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{path: abs, opts: opts, handler: handler}, nil
}

// Run blocks until ctx is done or the handler fails.
//
// The parent directory is watched rather than the file itself so editors
// that replace the file through a rename keep being followed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			w.opts.Logger.Warn("failed to close file watcher", "error", cerr)
		}
	}()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	if err := w.analyze(); err != nil {
		return stopOrFail(err)
	}

	settle := time.NewTimer(w.opts.Settle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.opts.Logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			settle.Reset(w.opts.Settle)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("file watcher error", "error", err)
		case <-settle.C:
			if err := w.analyze(); err != nil {
				return stopOrFail(err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// analyze reports read failures through the logger; only handler errors stop Run.
func (w *Watcher) analyze() error {
	res, err := analyzer.AnalyzeFile(w.path, w.opts.MaxLineBytes)
	if err != nil {
		w.opts.Logger.Warn("analysis failed", "path", w.path, "error", err)
		return nil
	}
	return w.handler(w.path, res)
}

func stopOrFail(err error) error {
	if errors.Is(err, ErrStop) {
		return nil
	}
	return fmt.Errorf("failed to handle result: %w", err)
}
