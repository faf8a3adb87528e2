package timeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/gantt/internal/core/schedule"
)

func task(name, resource string, start time.Time, days int) schedule.TaskRecord {
	return schedule.TaskRecord{
		Name:         name,
		Start:        start,
		DurationDays: days,
		Resource:     resource,
		Finish:       schedule.FinishDate(start, days),
	}
}

var jan1 = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)

func newProjector(t *testing.T, palette Palette) *Projector {
	t.Helper()
	p, err := NewProjector(palette)
	require.NoError(t, err)
	return p
}

func TestProject_ReversesOrder(t *testing.T) {
	tasks := schedule.TaskList{
		task("T1", "A", jan1, 1),
		task("T2", "B", jan1.AddDate(0, 0, 1), 2),
		task("T3", "A", jan1.AddDate(0, 0, 3), 3),
	}

	view, err := newProjector(t, AlphabetPalette).Project(tasks)
	require.NoError(t, err)

	names := make([]string, len(view.Bars))
	for i, b := range view.Bars {
		names[i] = b.Task
	}
	assert.Equal(t, []string{"T3", "T2", "T1"}, names)
}

func TestProject_Intervals(t *testing.T) {
	tasks := schedule.TaskList{
		task("T1", "A", jan1, 4),
		task("T2", "B", jan1.AddDate(0, 0, 10), 2),
	}

	view, err := newProjector(t, AlphabetPalette).Project(tasks)
	require.NoError(t, err)

	require.Len(t, view.Bars, 2)
	assert.Equal(t, tasks[1].Start, view.Bars[0].Start)
	assert.Equal(t, tasks[1].Finish, view.Bars[0].Finish)
	assert.Equal(t, 4, view.Bars[1].Days())
	assert.Equal(t, jan1, view.Start)
	assert.Equal(t, jan1.AddDate(0, 0, 12), view.Finish)
	assert.Equal(t, 12, view.Span())
}

func TestProject_LongSpan(t *testing.T) {
	tasks := schedule.TaskList{
		task("T1", "A", jan1, 1_000_000),
		task("T2", "B", jan1, 10),
	}

	view, err := newProjector(t, AlphabetPalette).Project(tasks)
	require.NoError(t, err)

	assert.Equal(t, 1_000_000, view.Bars[1].Days())
	assert.Equal(t, 1_000_000, view.Span())
}

func TestProject_Empty(t *testing.T) {
	view, err := newProjector(t, AlphabetPalette).Project(nil)
	require.NoError(t, err)
	assert.Empty(t, view.Bars)
	assert.Equal(t, 0, view.Span())
}

func TestProject_Idempotent(t *testing.T) {
	tasks := schedule.TaskList{
		task("T1", "C", jan1, 1),
		task("T2", "A", jan1, 2),
		task("T3", "C", jan1, 3),
	}
	p := newProjector(t, AlphabetPalette)

	first, err := p.Project(tasks)
	require.NoError(t, err)
	second, err := p.Project(tasks)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProject_StableColorsAcrossRebuilds(t *testing.T) {
	p := newProjector(t, AlphabetPalette)

	before, err := p.Project(schedule.TaskList{task("x", "B", jan1, 1), task("y", "A", jan1, 1)})
	require.NoError(t, err)

	// A now comes first in the list and a new resource appears.
	after, err := p.Project(schedule.TaskList{task("y", "A", jan1, 1), task("z", "D", jan1, 1), task("x", "B", jan1, 1)})
	require.NoError(t, err)

	colorOf := func(v View, resource string) string {
		for _, b := range v.Bars {
			if b.Resource == resource {
				return b.Color
			}
		}
		return ""
	}

	assert.Equal(t, AlphabetPalette[0], colorOf(before, "B"))
	assert.Equal(t, AlphabetPalette[1], colorOf(before, "A"))
	assert.Equal(t, colorOf(before, "A"), colorOf(after, "A"))
	assert.Equal(t, colorOf(before, "B"), colorOf(after, "B"))
	assert.Equal(t, AlphabetPalette[2], colorOf(after, "D"))
}

func TestColorAssigner_Wraps(t *testing.T) {
	a, err := NewColorAssigner(Palette{"#111111", "#222222"})
	require.NoError(t, err)

	var got []string
	for i := range 5 {
		c, err := a.Color(fmt.Sprintf("r%d", i))
		require.NoError(t, err)
		got = append(got, c)
	}

	assert.Equal(t, []string{"#111111", "#222222", "#111111", "#222222", "#111111"}, got)
	assert.Equal(t, 5, a.Assigned())
}

func TestEmptyPalette(t *testing.T) {
	_, err := NewProjector(nil)
	require.ErrorIs(t, err, ErrEmptyResourcePalette)

	_, err = NewColorAssigner(Palette{})
	require.ErrorIs(t, err, ErrEmptyResourcePalette)

	var p *Projector
	_, err = p.Project(schedule.TaskList{task("x", "A", jan1, 1)})
	require.ErrorIs(t, err, ErrEmptyResourcePalette)
}

func TestNewColorAssigner_CopiesPalette(t *testing.T) {
	palette := Palette{"#111111"}
	a, err := NewColorAssigner(palette)
	require.NoError(t, err)

	palette[0] = "#999999"
	c, err := a.Color("A")
	require.NoError(t, err)
	assert.Equal(t, "#111111", c)
}
