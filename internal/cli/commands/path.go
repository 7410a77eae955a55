package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/xoniq/internal/cli/output"
	"github.com/leapstack-labs/xoniq/pkg/core"
	"github.com/leapstack-labs/xoniq/pkg/pathmeta"
)

// NewPathCommand creates the path command.
func NewPathCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "path <path>...",
		Short: "Show the path metadata of SQL file paths",
		Long: `Show how paths are described to handlers: segments, extension, file name
and dot segments, relative to the SQL root.

The files do not need to exist.`,
		Example: `  xoniq path sqls/sub/my.query.sql

  xoniq path queries/a.sql --root queries --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd, args, root)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "SQL root to strip (default: configured sql_dir)")
	return cmd
}

func runPath(cmd *cobra.Command, args []string, root string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("root") {
		root = cc.Cfg.SQLRoot()
	}

	metas := make([]core.PathMetadata, 0, len(args))
	for _, arg := range args {
		metas = append(metas, pathmeta.Resolve(arg, root))
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(metas)
	}

	for i, m := range metas {
		if i > 0 {
			r.Println("")
		}
		pathDetail(r, m)
	}
	return nil
}

func pathDetail(r *output.Renderer, m core.PathMetadata) {
	rows := [][]string{
		{"full path", m.FullPath},
		{"path segments", strings.Join(m.PathSegments, " / ")},
		{"path segments desc", strings.Join(m.PathSegmentsDesc, " / ")},
		{"extension", m.Extension},
		{"file name", m.FileName.Full},
		{"without extension", m.FileName.WithoutExtension},
		{"dot segments", output.FormatList(m.FileName.DotSegments)},
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, m.FullPath))
		for _, row := range rows {
			r.Println(output.FormatKeyValue(output.Title(row[0]), row[1]))
		}
		return
	}

	r.Println(r.Styles().Path.Render(m.FullPath))
	for _, row := range rows[1:] {
		r.Printf("  %-20s %s\n", output.Title(row[0]), row[1])
	}
}
