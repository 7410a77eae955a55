package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/xoniq/internal/runner"
	"github.com/leapstack-labs/xoniq/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-scan the SQL directory whenever a SQL file changes",
		Long: `Scan the SQL directory once, then again after every burst of changes.

Scans never overlap: changes made while a scan is running cause exactly one
follow-up scan. Stop with Ctrl+C.`,
		Example: `  # Keep a JSON manifest up to date
  xoniq watch --manifest gen/fields.json

  # Wait longer for editors that save in several steps
  xoniq watch --watch-debounce 500ms`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Re-parse all files on the first scan")
	cmd.Flags().BoolVar(&opts.NoState, "no-state", false, "Do not read or write the state database")
	return cmd
}

func runWatch(cmd *cobra.Command, opts RunOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	rn, cleanup, err := cc.NewRunner(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	h, _, err := cc.NewHandler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cc.Renderer
	w := watch.New(watch.Options{
		Dir:        cc.Cfg.SQLDir,
		Extensions: cc.Cfg.Extensions,
		Debounce:   cc.Cfg.WatchDebounce,
		Logger:     cc.Logger,
	}, func(ctx context.Context) error {
		summary, err := runner.Run(ctx, rn, h)
		if err != nil {
			r.Error(err.Error())
			return err
		}
		for _, e := range summary.Errors {
			r.Warning(e.Error())
		}
		r.Success(summary.String())
		return nil
	})

	r.Muted("Watching " + cc.Cfg.SQLDir + " (Ctrl+C to stop)")
	return w.Run(ctx)
}
