package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/xoniq/internal/cli/output"
	"github.com/leapstack-labs/xoniq/internal/handlers"
	"github.com/leapstack-labs/xoniq/pkg/core"
)

// entriesTable writes one row per entry.
func entriesTable(r *output.Renderer, entries []handlers.Entry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Path,
			output.FormatList(e.Fields.InputNames()),
			output.FormatList(e.Fields.OutputNames()),
		})
	}
	r.Table([]string{"Path", "Inputs", "Outputs"}, rows)
}

// entryDetail writes every field of one entry with its detail segments.
func entryDetail(r *output.Renderer, e handlers.Entry) {
	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(2, e.Path))
	} else {
		r.Println(r.Styles().Path.Render(e.Path))
	}

	section := func(label string, names []core.FieldName, style func(...string) string) {
		if markdown {
			r.Println(output.FormatKeyValue(output.Title(label), fmt.Sprintf("%d", len(names))))
		} else {
			r.Printf("  %s (%d)\n", output.Title(label), len(names))
		}
		for _, n := range names {
			details := strings.Join(n.DetailsAsc, " > ")
			if markdown {
				r.Printf("- `%s` (%s)\n", n.Full, details)
			} else {
				r.Printf("    %s  %s\n", style(n.Full), r.Styles().Muted.Render(details))
			}
		}
	}
	section("input fields", e.Fields.Input, r.Styles().Input.Render)
	section("output fields", e.Fields.Output, r.Styles().Output.Render)
}
