// Package report renders a published cycle snapshot as terminal text,
// markdown or JSON.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/gantt/internal/core/cycle"
	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/core/styles"
	"github.com/colonyops/gantt/pkg/iojson"
)

// Title heads every report.
const Title = "Project Time Line"

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 100

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the report renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the accepted format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatMarkdown), string(FormatJSON)}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
}

// Options configure Render.
type Options struct {
	Format Format
	Width  int
	// Raw skips glamour and prints markdown source.
	Raw bool
}

// Render writes snap to w. Encoding failures of the json format go to ew.
func Render(w, ew io.Writer, snap cycle.Snapshot, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	switch opts.Format {
	case FormatJSON:
		return iojson.WriteWith(w, ew, snap)
	case FormatMarkdown:
		return renderMarkdown(w, snap, opts)
	case FormatText, "":
		_, err := fmt.Fprintln(w, Text(snap, opts.Width))
		return err
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, opts.Format)
	}
}

var tableColumns = []string{"Task", "Days", "Resource", "Start", "End"}

// TaskCells returns the display cells of a record in table column order.
func TaskCells(t schedule.TaskRecord) []string {
	return []string{
		t.Name,
		strconv.Itoa(t.DurationDays),
		t.Resource,
		t.Start.Format(schedule.DateLayout),
		t.Finish.Format(schedule.DateLayout),
	}
}

// Text renders the task table, the timeline and the resource summary.
func Text(snap cycle.Snapshot, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(Title))
	b.WriteString("\n\n")
	b.WriteString(taskTable(snap.Tasks))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(GanttLines(snap.Timeline, width), "\n"))

	if summary := SummaryLines(snap.Summary, ResourceColors(snap.Timeline), width); len(summary) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(summary, "\n"))
	}

	return b.String()
}

func taskTable(tasks schedule.TaskList) string {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = TaskCells(t)
	}
	widths := ColumnWidths(tableColumns, rows)

	lines := make([]string, 0, len(rows)+1)
	header := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		header[i] = styles.TableHeaderStyle.Width(widths[i]).Render(col)
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := styles.CellStyle
			if i == len(row)-1 {
				style = styles.CellReadOnlyStyle
			}
			cells[i] = style.Width(widths[i]).Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

// ColumnWidths returns the rendered width of each column: the widest of
// header and cells plus the cell padding.
func ColumnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}
