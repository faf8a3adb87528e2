package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/gantt/internal/core/cycle"
	"github.com/colonyops/gantt/internal/core/styles"
)

// Markdown returns the snapshot as a markdown document: the task table and
// the per-resource totals.
func Markdown(snap cycle.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title)
	if len(snap.Tasks) > 0 {
		fmt.Fprintf(&b, "_%s to %s, %d days_\n\n",
			snap.Timeline.Start.Format("Jan 2, 2006"),
			snap.Timeline.Finish.Format("Jan 2, 2006"),
			snap.Timeline.Span())
	}

	b.WriteString("| " + strings.Join(tableColumns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(tableColumns)) + "\n")
	for _, t := range snap.Tasks {
		cells := TaskCells(t)
		for i, c := range cells {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	b.WriteString("\n## Resources\n\n")
	b.WriteString("| Resource | Tasks | Days | Share of days |\n")
	b.WriteString("| --- | ---: | ---: | ---: |\n")
	for i, g := range snap.Summary.Groups {
		fmt.Fprintf(&b, "| %s | %d | %d | %.0f%% |\n",
			escapeCell(g.Resource), g.TaskCount, g.TotalDurationDays, snap.Summary.DurationShare(i)*100)
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%d** | |\n", snap.Summary.TotalTasks(), snap.Summary.TotalDurationDays())

	return b.String()
}

func renderMarkdown(w io.Writer, snap cycle.Snapshot, opts Options) error {
	doc := Markdown(snap)
	if opts.Raw {
		_, err := io.WriteString(w, doc)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(opts.Width),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = io.WriteString(w, rendered)
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
