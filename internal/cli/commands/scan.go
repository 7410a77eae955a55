package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/xoniq/internal/cli/output"
	"github.com/leapstack-labs/xoniq/internal/handlers"
	"github.com/leapstack-labs/xoniq/internal/runner"
)

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Extract fields from every SQL file under the SQL directory",
		Long: `Discover every SQL file under the SQL directory and extract its input
parameters, output fields and path metadata.

Unchanged files are served from the state database unless --force is set.
When a manifest path is configured the results are also written there.`,
		Example: `  # Scan the default sqls/ directory
  xoniq scan

  # Re-parse everything and write a YAML manifest
  xoniq scan --force --manifest gen/fields.yaml

  # Output as JSON
  xoniq scan --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Re-parse all files, ignoring cached content hashes")
	cmd.Flags().BoolVar(&opts.NoState, "no-state", false, "Do not read or write the state database")
	return cmd
}

func runScan(cmd *cobra.Command, opts RunOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	rn, cleanup, err := cc.NewRunner(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	h, collector, err := cc.NewHandler()
	if err != nil {
		return err
	}

	summary, err := runner.Run(cmd.Context(), rn, h)
	if err != nil {
		return err
	}

	r := cc.Renderer
	entries := collector.Entries()
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(handlers.Document{
			GeneratedAt: time.Now().UTC(),
			SQLRoot:     cc.Cfg.SQLRoot(),
			Files:       entries,
		})
	case output.ModeMarkdown:
		scanMarkdown(r, cc.Cfg.SQLRoot(), summary, entries)
	default:
		scanText(r, summary, entries)
	}

	for _, e := range summary.Errors {
		r.Warning(e.Error())
	}
	if cc.Cfg.ManifestPath != "" && r.EffectiveMode() != output.ModeJSON {
		r.Muted(fmt.Sprintf("Manifest written to %s", cc.Cfg.ManifestPath))
	}
	return nil
}

func scanText(r *output.Renderer, summary *runner.Summary, entries []handlers.Entry) {
	entriesTable(r, entries)
	r.Success(summary.String())
}

func scanMarkdown(r *output.Renderer, sqlRoot string, summary *runner.Summary, entries []handlers.Entry) {
	r.Println(output.FormatHeader(1, "Scan Results"))
	r.Println("")
	r.Println(output.FormatKeyValue("SQL Root", sqlRoot))
	r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", summary.FilesTotal)))
	r.Println(output.FormatKeyValue("Parsed", fmt.Sprintf("%d", summary.FilesParsed)))
	r.Println(output.FormatKeyValue("Unchanged", fmt.Sprintf("%d", summary.FilesSkipped)))
	r.Println(output.FormatKeyValue("Removed", fmt.Sprintf("%d", summary.FilesDeleted)))
	r.Println("")
	entriesTable(r, entries)
}
