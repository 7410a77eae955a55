package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/xoniq/internal/cli/output"
	"github.com/leapstack-labs/xoniq/internal/config"
	"github.com/leapstack-labs/xoniq/internal/handlers"
	"github.com/leapstack-labs/xoniq/internal/runner"
	"github.com/leapstack-labs/xoniq/internal/state"
	"github.com/leapstack-labs/xoniq/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the config and logger stored
// by the root command. Without a stored config, one is loaded from the
// working directory.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		if cfg, err = config.Load("", nil); err != nil {
			return nil, err
		}
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// RunOptions controls how a pass uses the state store.
type RunOptions struct {
	Force   bool
	NoState bool
}

// NewRunner creates a runner for the configured SQL root. The returned
// cleanup function closes the state store and must always be called.
func (c *CommandContext) NewRunner(opts RunOptions) (*runner.Runner, func(), error) {
	if err := c.Cfg.ValidateDirectories(); err != nil {
		return nil, nil, err
	}

	var store *state.SQLiteStore
	cleanup := func() {}
	if !opts.NoState {
		var err error
		if store, err = state.OpenStore(c.Cfg.StatePath); err != nil {
			return nil, nil, fmt.Errorf("failed to open state database: %w", err)
		}
		cleanup = func() { _ = store.Close() }
	}

	r, err := runner.New(runner.Config{
		ProjectRoot: c.Cfg.ProjectRoot,
		SQLDir:      c.Cfg.SQLDir,
		SQLRoot:     c.Cfg.SQLRoot(),
		Extensions:  c.Cfg.Extensions,
		InputMarker: c.Cfg.InputMarker,
		Concurrency: c.Cfg.Concurrency,
		Force:       opts.Force,
		Store:       store,
		Logger:      c.Logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return r, cleanup, nil
}

// NewHandler returns the handler for a pass: a collector, tee'd into a
// manifest writer when a manifest path is configured.
func (c *CommandContext) NewHandler() (core.Handler[handlers.Entry], *handlers.Collector, error) {
	collector := handlers.NewCollector()
	if c.Cfg.ManifestPath == "" {
		return collector, collector, nil
	}
	m, err := handlers.NewManifest(c.Cfg.ManifestPath, c.Cfg.ManifestFormat, c.Cfg.SQLRoot(),
		handlers.WithLogger(c.Logger))
	if err != nil {
		return nil, nil, err
	}
	return handlers.Tee(collector, m), collector, nil
}
