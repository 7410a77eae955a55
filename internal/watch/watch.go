// Package watch re-runs a pass whenever SQL files under a directory change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// RunFunc performs one pass.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	Dir        string
	Extensions []string // Lowercase, with leading dot
	Debounce   time.Duration
	Logger     *slog.Logger
}

// Watcher runs a pass once on start and again after each burst of changes.
//
// Passes never overlap. Any number of triggers arriving while a pass is in
// progress result in exactly one follow-up pass.
type Watcher struct {
	opts    Options
	run     RunFunc
	logger  *slog.Logger
	pending chan struct{}
	runs    atomic.Int64
}

// New creates a Watcher that calls run.
func New(opts Options, run RunFunc) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		opts:    opts,
		run:     run,
		logger:  logger,
		pending: make(chan struct{}, 1),
	}
}

// Trigger requests a pass. It never blocks.
func (w *Watcher) Trigger() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

// Runs returns the number of passes started so far.
func (w *Watcher) Runs() int64 { return w.runs.Load() }

// Run watches until ctx is done. Pass failures are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := w.watchDir(fsw, w.opts.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.opts.Dir, err)
	}
	w.logger.Info("watching for changes", "dir", w.opts.Dir, "debounce_ms", w.opts.Debounce.Milliseconds())

	w.Trigger()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.runLoop(gctx) })
	g.Go(func() error { return w.watchLoop(gctx, fsw) })

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runLoop executes pending passes one at a time.
func (w *Watcher) runLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.pending:
		}

		n := w.runs.Add(1)
		start := time.Now()
		if err := w.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("run failed", "run", n, "error", err.Error())
			continue
		}
		w.logger.Debug("run finished", "run", n, "duration_ms", time.Since(start).Milliseconds())
	}
}

// watchDir recursively adds a directory to the watcher.
func (w *Watcher) watchDir(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Skip hidden directories
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// watchLoop handles file system events.
func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher) error {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fsw, event) {
				continue
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.opts.Debounce, w.Trigger)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err.Error())
		}
	}
}

// relevant reports whether event should trigger a pass. New directories
// are added to the watch list and count as a change.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				return false
			}
			if err := w.watchDir(fsw, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err.Error())
			}
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return slices.Contains(w.opts.Extensions, ext)
}
