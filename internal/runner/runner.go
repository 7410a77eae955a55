// Package runner drives one orchestration pass: discover the SQL files,
// extract their field sets and path metadata, hand each record to a
// handler and finalize the handler with every result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/xoniq/internal/discovery"
	"github.com/leapstack-labs/xoniq/internal/state"
	"github.com/leapstack-labs/xoniq/pkg/core"
	"github.com/leapstack-labs/xoniq/pkg/fields"
)

// Config configures a Runner.
type Config struct {
	ProjectRoot string
	SQLDir      string
	// SQLRoot is the root stripped from record paths when resolving path
	// metadata, in the same form as record paths.
	SQLRoot     string
	Extensions  []string
	InputMarker string
	Concurrency int
	// Force re-parses every file even when the store has a current entry.
	Force bool
	// Store caches field sets and records runs. Nil disables both.
	Store  *state.SQLiteStore
	Logger *slog.Logger
}

// Runner executes orchestration passes with a fixed configuration.
type Runner struct {
	cfg    Config
	parser *fields.Parser
	logger *slog.Logger
}

// Summary describes a completed pass.
type Summary struct {
	RunID        string
	Paths        []string // Record paths in discovery order
	FilesTotal   int
	FilesParsed  int
	FilesSkipped int
	FilesDeleted int

	// Errors (non-fatal)
	Errors []discovery.Error

	Duration time.Duration
}

// HasErrors returns true if any non-fatal errors occurred.
func (s *Summary) HasErrors() bool {
	return len(s.Errors) > 0
}

// String returns a human-readable summary.
func (s *Summary) String() string {
	return fmt.Sprintf("Files: %d total (%d parsed, %d unchanged, %d removed) | Errors: %d | Duration: %s",
		s.FilesTotal, s.FilesParsed, s.FilesSkipped, s.FilesDeleted,
		len(s.Errors), s.Duration.Round(time.Millisecond))
}

// New creates a Runner. It fails with a *fields.ConfigurationError when the
// input marker cannot be compiled.
func New(cfg Config) (*Runner, error) {
	p, err := fields.NewParser(cfg.InputMarker)
	if err != nil {
		return nil, err
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{cfg: cfg, parser: p, logger: logger}, nil
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run performs one pass with handler h. ProcessRecord is called for every
// discovered file, concurrently up to the configured limit. Finalize is
// called once with the results in discovery order, and only if every
// ProcessRecord call succeeded.
func Run[R any](ctx context.Context, r *Runner, h core.Handler[R]) (*Summary, error) {
	start := time.Now()

	var run *state.Run
	if r.cfg.Store != nil {
		var err error
		if run, err = r.cfg.Store.CreateRun(ctx); err != nil {
			return nil, err
		}
	}

	summary, err := execute(ctx, r, h)
	if summary != nil {
		summary.Duration = time.Since(start)
	}

	if run != nil {
		summary.RunID = run.ID
		r.completeRun(run, summary, err)
	}
	if err != nil {
		return summary, err
	}

	r.logger.Info("run completed",
		"run_id", summary.RunID,
		"files_total", summary.FilesTotal,
		"files_parsed", summary.FilesParsed,
		"files_skipped", summary.FilesSkipped,
		"files_deleted", summary.FilesDeleted,
		"errors", len(summary.Errors),
		"duration_ms", summary.Duration.Milliseconds())
	return summary, nil
}

func execute[R any](ctx context.Context, r *Runner, h core.Handler[R]) (*Summary, error) {
	summary := &Summary{}

	found, err := discovery.Discover(ctx, discovery.Options{
		ProjectRoot: r.cfg.ProjectRoot,
		SQLDir:      r.cfg.SQLDir,
		Extensions:  r.cfg.Extensions,
		Logger:      r.logger,
	})
	if err != nil {
		return summary, fmt.Errorf("discovery failed: %w", err)
	}
	summary.Paths = found.Paths()
	summary.FilesTotal = len(found.Files)
	summary.Errors = append(summary.Errors, found.Errors...)

	var (
		parsed, skipped atomic.Int64
		errMu           sync.Mutex
	)
	addError := func(e discovery.Error) {
		errMu.Lock()
		summary.Errors = append(summary.Errors, e)
		errMu.Unlock()
	}

	results := make([]R, len(found.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, f := range found.Files {
		g.Go(func() error {
			fs, cached := r.fieldSet(gctx, f, addError)
			if cached {
				skipped.Add(1)
			} else {
				parsed.Add(1)
			}

			meta := f.Record.PathMetadata(r.cfg.SQLRoot)
			res, err := h.ProcessRecord(gctx, fs, meta)
			if err != nil {
				return fmt.Errorf("process %s: %w", f.Record.Path, err)
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	summary.FilesParsed = int(parsed.Load())
	summary.FilesSkipped = int(skipped.Load())
	if err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	summary.FilesDeleted = r.cleanupDeleted(ctx, summary.Paths)
	slices.SortStableFunc(summary.Errors, func(a, b discovery.Error) int {
		return strings.Compare(a.Path, b.Path)
	})

	if err := h.Finalize(ctx, results); err != nil {
		return summary, fmt.Errorf("finalize: %w", err)
	}
	return summary, nil
}

// fieldSet returns the field set of f and whether it came from the store.
func (r *Runner) fieldSet(ctx context.Context, f discovery.File, addError func(discovery.Error)) (core.FieldSet, bool) {
	store := r.cfg.Store
	if store != nil && !r.cfg.Force && f.Hash != "" {
		cached, err := store.GetFile(ctx, f.Record.Path)
		if err != nil {
			r.logger.Debug("state lookup failed", "path", f.Record.Path, "error", err.Error())
		} else if cached.Matches(f.Hash, r.parser.Marker()) {
			r.logger.Debug("skipping unchanged file", "path", f.Record.Path)
			return core.FieldSet{
				Input:  fields.ToFieldNames(cached.InputFields),
				Output: fields.ToFieldNames(cached.OutputFields),
			}, true
		}
	}

	fs := r.parser.FieldSet(f.Record.Content)
	r.logger.Debug("parsed file", "path", f.Record.Path,
		"inputs", len(fs.Input), "outputs", len(fs.Output))

	if store != nil && f.Hash != "" {
		if err := store.SaveFile(ctx, &state.FileState{
			Path:         f.Record.Path,
			ContentHash:  f.Hash,
			InputMarker:  r.parser.Marker(),
			InputFields:  fs.InputNames(),
			OutputFields: fs.OutputNames(),
		}); err != nil {
			addError(discovery.Error{Path: f.Record.Path, Type: "save", Message: err.Error()})
		}
	}
	return fs, false
}

// cleanupDeleted removes store entries for files that no longer exist.
func (r *Runner) cleanupDeleted(ctx context.Context, seen []string) int {
	if r.cfg.Store == nil {
		return 0
	}
	existing, err := r.cfg.Store.ListFiles(ctx)
	if err != nil {
		r.logger.Warn("failed to list cached files", "error", err.Error())
		return 0
	}

	deleted := 0
	for _, p := range existing {
		if _, ok := slices.BinarySearch(seen, p); ok {
			continue
		}
		if err := r.cfg.Store.DeleteFile(ctx, p); err != nil {
			r.logger.Warn("failed to remove cached file", "path", p, "error", err.Error())
			continue
		}
		deleted++
	}
	return deleted
}

func (r *Runner) completeRun(run *state.Run, summary *Summary, runErr error) {
	status := state.RunStatusCompleted
	switch {
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		status = state.RunStatusCancelled
	case runErr != nil:
		status = state.RunStatusFailed
	}
	run.FilesTotal = summary.FilesTotal
	run.FilesParsed = summary.FilesParsed
	run.FilesSkipped = summary.FilesSkipped
	run.FilesDeleted = summary.FilesDeleted

	// The pass context may already be cancelled.
	if err := r.cfg.Store.CompleteRun(context.Background(), run, status, runErr); err != nil {
		r.logger.Warn("failed to record run", "run_id", run.ID, "error", err.Error())
	}
}
