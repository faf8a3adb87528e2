package tui

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/gantt/internal/core/cycle"
	"github.com/colonyops/gantt/internal/core/resolve"
	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/core/timeline"
	"github.com/colonyops/gantt/pkg/tuitest"
)

func seedRows() schedule.RawTable {
	return schedule.RawTable{
		{schedule.ColTask: "T1", schedule.ColStart: "2016-01-01", schedule.ColDuration: 3, schedule.ColResource: "A"},
		{schedule.ColTask: "T2", schedule.ColStart: "2016-01-04", schedule.ColDuration: 5, schedule.ColResource: "A"},
		{schedule.ColTask: "T3", schedule.ColStart: "2016-01-09", schedule.ColDuration: 2, schedule.ColResource: "B"},
	}
}

func newTestModel(t *testing.T, pageSize int) (Model, *cycle.Controller) {
	t.Helper()
	projector, err := timeline.NewProjector(timeline.AlphabetPalette)
	require.NoError(t, err)

	ctrl := cycle.New(resolve.Default(), projector, nil, zerolog.Nop())
	_, err = ctrl.Seed(context.Background(), seedRows())
	require.NoError(t, err)

	m := New(context.Background(), Options{
		Controller: ctrl,
		Resources:  schedule.DefaultResources,
		PageSize:   pageSize,
	})
	return m, ctrl
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// settle runs the cycle command returned by an edit and feeds its result
// back to the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	m, _ = step(t, m, cmd)
	return m
}

// step is settle that also returns the command produced by the result,
// which is non-nil when a queued key started another cycle.
func step(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd, "edit should start a cycle")
	done, ok := cycleResult(cmd())
	require.True(t, ok, "expected a cycle result")
	return send(t, m, done)
}

func cycleResult(msg tea.Msg) (cycleDoneMsg, bool) {
	switch msg := msg.(type) {
	case cycleDoneMsg:
		return msg, true
	case tea.BatchMsg:
		for _, cmd := range msg {
			if cmd == nil {
				continue
			}
			if done, ok := cycleResult(cmd()); ok {
				return done, true
			}
		}
	}
	return cycleDoneMsg{}, false
}

func names(m Model) []string {
	out := make([]string, len(m.Snapshot().Tasks))
	for i, task := range m.Snapshot().Tasks {
		out[i] = task.Name
	}
	return out
}

func plainView(m Model) string {
	return tuitest.StripANSI(m.render())
}

func TestModel_AddRowAppends(t *testing.T) {
	m, ctrl := newTestModel(t, 10)

	m, cmd := send(t, m, tuitest.KeyPress('a'))
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"T1", "T2", "T3", ""}, names(m))
	assert.Equal(t, 3, m.row, "cursor follows the new row")
	assert.Equal(t, ctrl.Current().Seq, m.Snapshot().Seq)
	assert.Contains(t, plainView(m), "task added")
}

func TestModel_EditDays(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, _ = send(t, m, tuitest.KeyRight(), tuitest.KeyEnter())
	require.Equal(t, stateEditing, m.state)
	assert.Equal(t, "3", m.input.Value())

	m, _ = send(t, m, tuitest.KeyBackspace())
	m, _ = send(t, m, tuitest.Type("7")...)
	m, cmd := send(t, m, tuitest.KeyEnter())
	m = settle(t, m, cmd)

	first := m.Snapshot().Tasks[0]
	assert.Equal(t, 7, first.DurationDays)
	assert.Equal(t, "2016-01-08", first.Finish.Format(schedule.DateLayout))
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_InvalidEditKeepsLastRows(t *testing.T) {
	m, ctrl := newTestModel(t, 10)
	before := m.Snapshot()

	m, _ = send(t, m, tuitest.KeyRight(), tuitest.KeyRight(), tuitest.KeyRight(), tuitest.KeyEnter())
	require.Equal(t, stateEditing, m.state)
	for range len("2016-01-01") {
		m, _ = send(t, m, tuitest.KeyBackspace())
	}
	m, _ = send(t, m, tuitest.Type("soon")...)
	m, cmd := send(t, m, tuitest.KeyEnter())
	m = settle(t, m, cmd)

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "invalid Start")
	assert.Equal(t, before, m.Snapshot(), "last published rows are re-presented")
	assert.Equal(t, before.Seq, ctrl.Current().Seq)

	view := plainView(m)
	assert.Contains(t, view, "invalid Start")
	assert.Contains(t, view, "2016-01-01")
}

func TestModel_EscCancelsEdit(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, _ = send(t, m, tuitest.KeyEnter())
	m, _ = send(t, m, tuitest.Type("zzz")...)
	m, cmd := send(t, m, tuitest.KeyEscape())

	assert.Nil(t, cmd)
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, []string{"T1", "T2", "T3"}, names(m))
}

func TestModel_ResourceCycles(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, _ = send(t, m, tuitest.KeyRight(), tuitest.KeyRight())
	m, cmd := send(t, m, tuitest.KeyEnter())
	m = settle(t, m, cmd)
	assert.Equal(t, "B", m.Snapshot().Tasks[0].Resource)

	// Wraps from the last resource to the first.
	m, _ = send(t, m, tuitest.KeyDown(), tuitest.KeyDown())
	for _, want := range []string{"C", "D", "A"} {
		var cmd tea.Cmd
		m, cmd = send(t, m, tuitest.KeyEnter())
		m = settle(t, m, cmd)
		assert.Equal(t, want, m.Snapshot().Tasks[2].Resource)
	}
}

func TestModel_EndColumnIsReadOnly(t *testing.T) {
	m, _ := newTestModel(t, 10)

	for range numColumns {
		m, _ = send(t, m, tuitest.KeyRight())
	}
	m, cmd := send(t, m, tuitest.KeyEnter())

	assert.Nil(t, cmd)
	assert.Equal(t, stateNormal, m.state)
	assert.Contains(t, m.status, "computed")
}

func TestModel_Delete(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, cmd := send(t, m, tuitest.KeyPress('d'))
	m = settle(t, m, cmd)
	assert.Equal(t, []string{"T2", "T3"}, names(m))

	m, cmd = send(t, m, tuitest.KeyPress('D'))
	m = settle(t, m, cmd)

	tasks := m.Snapshot().Tasks
	require.Len(t, tasks, 1, "deleting everything resets to one blank task")
	assert.Equal(t, "", tasks[0].Name)
	assert.Equal(t, schedule.DefaultStart, tasks[0].Start)
	assert.Equal(t, 0, m.row)
}

func TestModel_Sort(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, _ = send(t, m, tuitest.KeyRight())
	m, cmd := send(t, m, tuitest.KeyPress('s'))
	m = settle(t, m, cmd)
	assert.Equal(t, []string{"T3", "T1", "T2"}, names(m))
	assert.Contains(t, plainView(m), "Days ▲")

	m, cmd = send(t, m, tuitest.KeyPress('s'))
	m = settle(t, m, cmd)
	assert.Equal(t, []string{"T2", "T1", "T3"}, names(m))
	assert.Contains(t, plainView(m), "Days ▼")
}

func TestModel_Paging(t *testing.T) {
	m, _ := newTestModel(t, 2)

	view := plainView(m)
	assert.Contains(t, view, "page 1/2")

	m, _ = send(t, m, tuitest.KeyDown(), tuitest.KeyDown(), tuitest.KeyDown())
	assert.Equal(t, 2, m.row, "cursor stops at the last row")

	view = plainView(m)
	assert.Contains(t, view, "page 2/2")
	first, last := m.pageBounds()
	assert.Equal(t, 2, first)
	assert.Equal(t, 3, last)
}

func TestModel_ViewSections(t *testing.T) {
	m, _ := newTestModel(t, 10)
	m, _ = send(t, m, tuitest.WindowSize(72, 40))

	view := plainView(m)
	assert.Contains(t, view, "Project Time Line")
	assert.Contains(t, view, "Resource")
	assert.Contains(t, view, "Days per resource")
	assert.Contains(t, view, "Tasks per resource")
	assert.Contains(t, view, "2016-01-11")
	assert.True(t, m.View().AltScreen)
}

func TestModel_StaleResultIgnored(t *testing.T) {
	m, _ := newTestModel(t, 10)

	stale := m.Snapshot()
	m, cmd := send(t, m, tuitest.KeyPress('a'))
	m = settle(t, m, cmd)

	m, _ = send(t, m, cycleDoneMsg{action: "late", snap: cycle.Snapshot{Seq: stale.Seq - 1}})
	assert.Len(t, m.Snapshot().Tasks, 4)
}

func TestModel_KeysDuringCycleAreQueued(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want []string
	}{
		{"delete then add", "da", []string{"T2", "T3", ""}},
		{"two deletes", "dd", []string{"T3"}},
		{"add then sort", "as", []string{"", "T1", "T2", "T3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newTestModel(t, 10)

			var first tea.Cmd
			for i, r := range tt.keys {
				var cmd tea.Cmd
				m, cmd = send(t, m, tuitest.KeyPress(r))
				if i == 0 {
					first = cmd
					continue
				}
				assert.Nil(t, cmd, "key %q waits for the running cycle", r)
			}

			cmd := first
			for cmd != nil {
				m, cmd = step(t, m, cmd)
			}

			assert.Equal(t, tt.want, names(m))
			assert.Equal(t, ctrl.Current().Seq, m.Snapshot().Seq)
			assert.False(t, m.pending)
			assert.Empty(t, m.queued)
		})
	}
}

func TestModel_QueuedKeysSurviveRejectedCycle(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, _ = send(t, m, tuitest.KeyRight(), tuitest.KeyRight(), tuitest.KeyRight(), tuitest.KeyEnter())
	for range len("2016-01-01") {
		m, _ = send(t, m, tuitest.KeyBackspace())
	}
	m, _ = send(t, m, tuitest.Type("soon")...)
	m, cmd := send(t, m, tuitest.KeyEnter())
	m, queued := send(t, m, tuitest.KeyPress('d'))
	require.Nil(t, queued)

	m, cmd = step(t, m, cmd)
	assert.True(t, m.statusErr, "queued delete has not run yet")
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"T2", "T3"}, names(m))
	assert.False(t, m.statusErr)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m, cmd := send(t, m, tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
}

func TestNextResource(t *testing.T) {
	resources := []string{"A", "B"}
	assert.Equal(t, "B", nextResource(resources, "A"))
	assert.Equal(t, "A", nextResource(resources, "B"))
	assert.Equal(t, "A", nextResource(resources, "unknown"))
	assert.Equal(t, "x", nextResource(nil, "x"))
}
