package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Path      lipgloss.Style
	Input     lipgloss.Style
	Output    lipgloss.Style
}

// NewStyles creates styles bound to w. Color is disabled when w is not a
// terminal or NO_COLOR is set.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !isTTY || os.Getenv("NO_COLOR") != "" {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		SubHeader: lr.NewStyle().Bold(true),
		Success:   lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     lr.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:     lr.NewStyle().Foreground(lipgloss.Color("8")),
		Path:      lr.NewStyle().Foreground(lipgloss.Color("14")),
		Input:     lr.NewStyle().Foreground(lipgloss.Color("13")),
		Output:    lr.NewStyle().Foreground(lipgloss.Color("10")),
	}
}
