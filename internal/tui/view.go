package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/gantt/internal/core/styles"
	"github.com/colonyops/gantt/internal/report"
)

const (
	defaultWidth = 80
	inputWidth   = 24
)

// View renders the editor.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	w := m.width
	if w == 0 {
		w = defaultWidth
	}

	sections := []string{
		styles.TitleStyle.Render(report.Title),
		m.renderTable(),
		m.renderStatus(),
		styles.DividerStyle.Render(strings.Repeat("─", w)),
		strings.Join(report.GanttLines(m.snap.Timeline, w), "\n"),
	}

	if summary := report.SummaryLines(m.snap.Summary, report.ResourceColors(m.snap.Timeline), w); len(summary) > 0 {
		sections = append(sections, "", strings.Join(summary, "\n"))
	}

	sections = append(sections, "", m.help.ShortHelpView(m.keys.ShortHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTable() string {
	tasks := m.snap.Tasks
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = report.TaskCells(t)
	}
	titles := columnTitles
	if m.sortCol >= 0 {
		titles[m.sortCol] += sortArrow(m.sortDesc)
	}
	widths := report.ColumnWidths(titles[:], rows)
	if m.state == stateEditing {
		widths[m.col] = max(widths[m.col], inputWidth+2)
	}

	lines := make([]string, 0, m.pageSize+2)

	header := make([]string, numColumns)
	for i, title := range titles {
		header[i] = styles.TableHeaderStyle.Width(widths[i]).Render(title)
	}
	lines = append(lines, "  "+lipgloss.JoinHorizontal(lipgloss.Top, header...))

	first, last := m.pageBounds()
	for r := first; r < last; r++ {
		cells := make([]string, numColumns)
		for c := range numColumns {
			cells[c] = m.renderCell(r, c, rows[r][c], widths[c])
		}

		marker := "  "
		if r == m.row {
			marker = styles.RowCursorStyle.Render(styles.GlyphCursor) + " "
		}
		lines = append(lines, marker+lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if pages := m.pageCount(); pages > 1 {
		lines = append(lines, styles.PageIndicatorStyle.Render(
			fmt.Sprintf("  page %d/%d, %d tasks", m.row/m.pageSize+1, pages, len(tasks))))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderCell(r, c int, text string, width int) string {
	selected := r == m.row && c == m.col
	switch {
	case selected && m.state == stateEditing:
		return styles.CellEditingStyle.Width(width).Render(m.input.View())
	case selected:
		return styles.CellSelectedStyle.Width(width).Render(text)
	case c == colEnd:
		return styles.CellReadOnlyStyle.Width(width).Render(text)
	default:
		return styles.CellStyle.Width(width).Render(text)
	}
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.StatusErrorStyle.Render("✗ " + m.status)
	}
	return styles.StatusOKStyle.Render("✓ " + m.status)
}

// pageBounds returns the half-open range of rows on the cursor's page.
func (m Model) pageBounds() (int, int) {
	first := (m.row / m.pageSize) * m.pageSize
	last := min(first+m.pageSize, len(m.snap.Tasks))
	return first, last
}

func (m Model) pageCount() int {
	return (len(m.snap.Tasks) + m.pageSize - 1) / m.pageSize
}

func sortArrow(desc bool) string {
	if desc {
		return " ▼"
	}
	return " ▲"
}
