// Package aggregate summarizes a task list per resource.
package aggregate

import (
	"slices"
	"strings"

	"github.com/colonyops/gantt/internal/core/schedule"
)

// Group is the summary for one resource.
type Group struct {
	Resource          string `json:"resource"`
	TaskCount         int    `json:"task_count"`
	TotalDurationDays int    `json:"total_duration_days"`
}

// View holds one group per distinct resource, sorted by resource label.
type View struct {
	Groups []Group `json:"groups"`
}

// Aggregate groups tasks by resource and sums counts and durations. The
// result depends only on the list contents, not on map iteration order.
func Aggregate(tasks schedule.TaskList) View {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, t := range tasks {
		i, ok := index[t.Resource]
		if !ok {
			i = len(groups)
			index[t.Resource] = i
			groups = append(groups, Group{Resource: t.Resource})
		}
		groups[i].TaskCount++
		groups[i].TotalDurationDays += t.DurationDays
	}

	slices.SortFunc(groups, func(a, b Group) int {
		return strings.Compare(a.Resource, b.Resource)
	})

	return View{Groups: groups}
}

// Lookup returns the group for resource.
func (v View) Lookup(resource string) (Group, bool) {
	for _, g := range v.Groups {
		if g.Resource == resource {
			return g, true
		}
	}
	return Group{}, false
}

// TotalTasks returns the number of tasks across all groups.
func (v View) TotalTasks() int {
	n := 0
	for _, g := range v.Groups {
		n += g.TaskCount
	}
	return n
}

// TotalDurationDays returns the summed duration across all groups.
func (v View) TotalDurationDays() int {
	n := 0
	for _, g := range v.Groups {
		n += g.TotalDurationDays
	}
	return n
}

// CountShare returns the fraction of tasks assigned to the group at i.
func (v View) CountShare(i int) float64 {
	return share(v.Groups[i].TaskCount, v.TotalTasks())
}

// DurationShare returns the fraction of total days assigned to the group at i.
func (v View) DurationShare(i int) float64 {
	return share(v.Groups[i].TotalDurationDays, v.TotalDurationDays())
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
