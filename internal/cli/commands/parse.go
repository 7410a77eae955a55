package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/xoniq/internal/cli/output"
	"github.com/leapstack-labs/xoniq/internal/discovery"
	"github.com/leapstack-labs/xoniq/internal/handlers"
	"github.com/leapstack-labs/xoniq/pkg/sqlinfo"
)

// stdinPath is the record path used for content read from stdin.
const stdinPath = "stdin.sql"

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Extract input and output fields from SQL files",
		Long: `Extract the input parameters and output fields of individual SQL files.

Files are read as given, without discovery or state. With no arguments, or
with "-", the SQL is read from stdin.

Output adapts to environment:
  - Terminal: Styled field listing
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Parse one file
  xoniq parse sqls/users/get.sql

  # Parse from stdin with a custom marker
  echo "select a from t where id = @id" | xoniq parse --input-marker @

  # Output as JSON
  xoniq parse sqls/users/*.sql --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args)
		},
	}
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}

	entries := make([]handlers.Entry, 0, len(args))
	for _, arg := range args {
		rec, err := readRecord(cmd.InOrStdin(), cc.Cfg.ProjectRoot, arg)
		if err != nil {
			return err
		}
		fs, err := sqlinfo.ParseFieldSet(rec, sqlinfo.FieldConfig{InputMarker: cc.Cfg.InputMarker})
		if err != nil {
			return err
		}
		meta := sqlinfo.ParsePathMetadata(rec, sqlinfo.PathConfig{SQLRoot: cc.Cfg.SQLRoot()})
		entries = append(entries, handlers.NewEntry(fs, meta))
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(entries)
	}
	for i, e := range entries {
		if i > 0 {
			r.Println("")
		}
		entryDetail(r, e)
	}
	return nil
}

// readRecord loads arg as a record whose path is relative to projectRoot.
func readRecord(stdin io.Reader, projectRoot, arg string) (*sqlinfo.Record, error) {
	if arg == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return sqlinfo.NewRecord(stdinPath, string(content)), nil
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	content, err := os.ReadFile(abs) //nolint:gosec // G304: path is a user argument
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return sqlinfo.NewRecord(discovery.RelativePath(projectRoot, abs), string(content)), nil
}
