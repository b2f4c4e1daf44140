package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/grafana/docindex/internal/apiindex"
)

//nolint:gochecknoglobals // Terminal styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("208")).
			Padding(0, 1)
)

// Counts totals the entries of each index level.
type Counts struct {
	Versions int
	Sections int
	Pages    int
	Tabs     int
	Examples int
}

// CountIndex totals the entries of index.
func CountIndex(index *apiindex.ApiIndex) Counts {
	c := Counts{Versions: len(index.Versions)}
	for _, v := range index.Sections {
		c.Sections += len(v)
	}
	for _, v := range index.Pages {
		c.Pages += len(v)
	}
	for _, v := range index.Tabs {
		c.Tabs += len(v)
	}
	for _, v := range index.Examples {
		c.Examples += len(v)
	}
	return c
}

// BuildSummary describes a finished build.
type BuildSummary struct {
	Path     string
	Counts   Counts
	Duration time.Duration

	// WriteErr is set when the index could not be persisted.
	WriteErr error
}

// FormatBuildSummary renders the build summary box.
func FormatBuildSummary(w io.Writer, s BuildSummary) {
	status := successStyle.Render("WRITTEN")
	if s.WriteErr != nil {
		status = warnStyle.Render("NOT WRITTEN")
	}

	content := fmt.Sprintf("%s %s\n%s %s  %s\n%s %d  %s %d  %s %d  %s %d  %s %d\n%s %.2fs",
		titleStyle.Render("Content index"), status,
		dimStyle.Render("Path:"), s.Path, dimStyle.Render(errorText(s.WriteErr)),
		dimStyle.Render("Versions:"), s.Counts.Versions,
		dimStyle.Render("Sections:"), s.Counts.Sections,
		dimStyle.Render("Pages:"), s.Counts.Pages,
		dimStyle.Render("Tabs:"), s.Counts.Tabs,
		dimStyle.Render("Examples:"), s.Counts.Examples,
		dimStyle.Render("Duration:"), s.Duration.Seconds(),
	)

	_, _ = fmt.Fprintln(w, boxStyle.Render(content))
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
