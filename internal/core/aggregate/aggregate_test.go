package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/gantt/internal/core/schedule"
)

func tasks(pairs ...any) schedule.TaskList {
	start := time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
	var out schedule.TaskList
	for i := 0; i < len(pairs); i += 2 {
		days := pairs[i+1].(int)
		out = append(out, schedule.TaskRecord{
			Name:         "t",
			Start:        start,
			DurationDays: days,
			Resource:     pairs[i].(string),
			Finish:       schedule.FinishDate(start, days),
		})
	}
	return out
}

func TestAggregate(t *testing.T) {
	view := Aggregate(tasks("A", 3, "A", 5, "B", 2))

	assert.Equal(t, []Group{
		{Resource: "A", TaskCount: 2, TotalDurationDays: 8},
		{Resource: "B", TaskCount: 1, TotalDurationDays: 2},
	}, view.Groups)
	assert.Equal(t, 3, view.TotalTasks())
	assert.Equal(t, 10, view.TotalDurationDays())
}

func TestAggregate_SortedRegardlessOfInputOrder(t *testing.T) {
	a := Aggregate(tasks("C", 1, "A", 2, "B", 3, "A", 4))
	b := Aggregate(tasks("A", 4, "B", 3, "C", 1, "A", 2))

	assert.Equal(t, a, b)
	require.Len(t, a.Groups, 3)
	assert.Equal(t, "A", a.Groups[0].Resource)
	assert.Equal(t, "C", a.Groups[2].Resource)
}

func TestAggregate_SingleResource(t *testing.T) {
	view := Aggregate(tasks("A", 0))

	require.Len(t, view.Groups, 1)
	assert.Equal(t, Group{Resource: "A", TaskCount: 1}, view.Groups[0])
	assert.InDelta(t, 1.0, view.CountShare(0), 1e-9)
	assert.InDelta(t, 0.0, view.DurationShare(0), 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	view := Aggregate(nil)
	assert.Empty(t, view.Groups)
	assert.NotNil(t, view.Groups)
	assert.Equal(t, 0, view.TotalTasks())
}

func TestAggregate_Idempotent(t *testing.T) {
	list := tasks("B", 1, "A", 2)
	assert.Equal(t, Aggregate(list), Aggregate(list))
}

func TestView_Shares(t *testing.T) {
	view := Aggregate(tasks("A", 3, "A", 5, "B", 2))

	assert.InDelta(t, 2.0/3.0, view.CountShare(0), 1e-9)
	assert.InDelta(t, 0.8, view.DurationShare(0), 1e-9)
	assert.InDelta(t, 0.2, view.DurationShare(1), 1e-9)

	g, ok := view.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, 2, g.TotalDurationDays)

	_, ok = view.Lookup("Z")
	assert.False(t, ok)
}
