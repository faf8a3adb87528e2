package report

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/gantt/internal/core/aggregate"
	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/core/styles"
	"github.com/colonyops/gantt/internal/core/timeline"
)

const (
	minLabelWidth = 4
	maxLabelWidth = 24
	minTrackWidth = 10
)

// GanttLines draws one row per bar, in view order, scaled so the whole
// view spans the given width. The last line is the date axis.
func GanttLines(view timeline.View, width int) []string {
	if len(view.Bars) == 0 {
		return []string{styles.HelpStyle.Render("no tasks")}
	}

	labelW := minLabelWidth
	for _, b := range view.Bars {
		labelW = max(labelW, ansi.StringWidth(b.Task))
	}
	labelW = min(labelW, maxLabelWidth)
	trackW := max(width-labelW-1, minTrackWidth)

	span := max(view.Span(), 1)
	lines := make([]string, 0, len(view.Bars)+1)
	for _, b := range view.Bars {
		offset := schedule.DaysBetween(view.Start, b.Start) * trackW / span
		length := b.Days() * trackW / span
		if b.Days() > 0 {
			length = max(length, 1)
		}
		offset = min(offset, trackW)
		length = min(length, trackW-offset)

		var track strings.Builder
		track.WriteString(styles.TrackStyle.Render(strings.Repeat(styles.GlyphTrack, offset)))
		track.WriteString(styles.BarStyle(b.Color).Render(strings.Repeat(styles.GlyphBar, length)))
		track.WriteString(styles.TrackStyle.Render(strings.Repeat(styles.GlyphTrack, trackW-offset-length)))

		lines = append(lines, pad(b.Task, labelW)+" "+track.String())
	}

	lines = append(lines, strings.Repeat(" ", labelW+1)+axis(view, trackW))
	return lines
}

func axis(view timeline.View, width int) string {
	from := view.Start.Format(schedule.DateLayout)
	to := view.Finish.Format(schedule.DateLayout)
	gap := width - len(from) - len(to)
	if gap < 1 {
		return styles.AxisStyle.Render(from)
	}
	return styles.AxisStyle.Render(from + strings.Repeat(" ", gap) + to)
}

// SummaryLines draws the two resource breakdowns: total days and task
// count per resource. Bars are colored like the timeline.
func SummaryLines(summary aggregate.View, colors map[string]string, width int) []string {
	if len(summary.Groups) == 0 {
		return nil
	}

	labelW := minLabelWidth
	for _, g := range summary.Groups {
		labelW = max(labelW, ansi.StringWidth(g.Resource))
	}
	labelW = min(labelW, maxLabelWidth)
	// label, space, bar, space, "  123 (100%)"
	barW := max(width-labelW-14, minTrackWidth)

	section := func(title string, value func(aggregate.Group) int, share func(int) float64) []string {
		out := []string{styles.SummaryLabelStyle.Render(title)}
		for i, g := range summary.Groups {
			n := int(share(i)*float64(barW) + 0.5)
			if value(g) > 0 {
				n = max(n, 1)
			}
			bar := styles.BarStyle(colors[g.Resource]).Render(strings.Repeat(styles.GlyphBar, n))
			stat := styles.SummaryValueStyle.Render(fmt.Sprintf("%5d (%3.0f%%)", value(g), share(i)*100))
			out = append(out, pad(g.Resource, labelW)+" "+bar+strings.Repeat(" ", barW-n+1)+stat)
		}
		return out
	}

	lines := section("Days per resource",
		func(g aggregate.Group) int { return g.TotalDurationDays }, summary.DurationShare)
	lines = append(lines, "")
	lines = append(lines, section("Tasks per resource",
		func(g aggregate.Group) int { return g.TaskCount }, summary.CountShare)...)
	return lines
}

// ResourceColors returns the color of every resource drawn in view.
func ResourceColors(view timeline.View) map[string]string {
	colors := make(map[string]string)
	for _, b := range view.Bars {
		colors[b.Resource] = b.Color
	}
	return colors
}

func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}
