// Package tui implements the interactive schedule editor.
package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/gantt/internal/core/cycle"
	"github.com/colonyops/gantt/internal/core/logging"
	"github.com/colonyops/gantt/internal/core/resolve"
	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/core/styles"
)

// Table columns in display order.
const (
	colTask = iota
	colDays
	colResource
	colStart
	colEnd
	numColumns
)

var columnTitles = [numColumns]string{"Task", "Days", "Resource", "Start", "End"}

// columnFields maps editable display columns to raw table fields. The End
// column is derived and has no field.
var columnFields = map[int]string{
	colTask:     schedule.ColTask,
	colDays:     schedule.ColDuration,
	colResource: schedule.ColResource,
	colStart:    schedule.ColStart,
}

// UIState represents the current state of the editor.
type UIState int

const (
	stateNormal UIState = iota
	stateEditing
)

// Options configures the editor.
type Options struct {
	Controller *cycle.Controller
	Resources  []string
	PageSize   int
}

// cycleDoneMsg carries the result of one cycle run for an edit.
type cycleDoneMsg struct {
	action string
	snap   cycle.Snapshot
	err    error
}

// Model is the Bubble Tea model of the editor. It renders the last
// published snapshot; every edit becomes one cycle on the controller.
type Model struct {
	ctx       context.Context
	ctrl      *cycle.Controller
	resources []string
	pageSize  int
	keys      keyMap
	help      help.Model

	snap      cycle.Snapshot
	state     UIState
	input     textinput.Model
	row, col  int
	sortCol   int
	sortDesc  bool
	status    string
	statusErr bool

	// pending is set while a cycle runs. Keys arriving meanwhile are
	// queued and replayed on the new snapshot.
	pending bool
	queued  []tea.KeyPressMsg

	width    int
	height   int
	quitting bool
}

// New returns an editor showing the controller's current snapshot.
func New(ctx context.Context, opts Options) Model {
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	return Model{
		ctx:       logging.WithSource(ctx, "tui"),
		ctrl:      opts.Controller,
		resources: opts.Resources,
		pageSize:  pageSize,
		keys:      defaultKeyMap(),
		help:      help.New(),
		snap:      opts.Controller.Current(),
		sortCol:   -1,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case cycleDoneMsg:
		return m.handleCycleDone(msg)
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.state == stateEditing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if m.pending {
		if keyStr == keyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		m.queued = append(m.queued, msg)
		return m, nil
	}

	if m.state == stateEditing {
		return m.handleEditKey(msg, keyStr)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.row = max(m.row-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.row = min(m.row+1, max(len(m.snap.Tasks)-1, 0))
	case key.Matches(msg, m.keys.Left):
		m.col = max(m.col-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.col = min(m.col+1, numColumns-1)
	case key.Matches(msg, m.keys.PageUp):
		m.row = max(m.row-m.pageSize, 0)
	case key.Matches(msg, m.keys.PageDown):
		m.row = min(m.row+m.pageSize, max(len(m.snap.Tasks)-1, 0))
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()
	case key.Matches(msg, m.keys.Add):
		cmd := m.runCycle("task added", resolve.EventRowAdded, m.rows())
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		return m.deleteRow()
	case key.Matches(msg, m.keys.DeleteAll):
		cmd := m.runCycle("all tasks deleted", resolve.EventTableChanged, schedule.RawTable{})
		return m, cmd
	case key.Matches(msg, m.keys.Sort):
		return m.sortRows()
	}

	return m, nil
}

// beginEdit opens the cell under the cursor. Resource cells cycle through
// the configured resources instead of taking free text.
func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	if len(m.snap.Tasks) == 0 {
		return m, nil
	}

	switch m.col {
	case colEnd:
		m.setStatus("End is computed from Start and Days", false)
		return m, nil
	case colResource:
		rows := m.rows()
		current := m.snap.Tasks[m.row].Resource
		rows[m.row][schedule.ColResource] = nextResource(m.resources, current)
		cmd := m.runCycle("resource changed", resolve.EventTableChanged, rows)
		return m, cmd
	}

	input := textinput.New()
	input.SetValue(cellText(m.snap.Tasks[m.row], m.col))
	input.Focus()
	input.Prompt = ""
	input.CharLimit = 128
	input.SetWidth(inputWidth)
	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	input.SetStyles(inputStyles)

	m.input = input
	m.state = stateEditing
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyPressMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case keyEsc:
		m.state = stateNormal
		return m, nil
	case keyEnter:
		m.state = stateNormal
		rows := m.rows()
		if m.row >= len(rows) {
			return m, nil
		}
		rows[m.row][columnFields[m.col]] = m.input.Value()
		cmd := m.runCycle(columnTitles[m.col]+" updated", resolve.EventTableChanged, rows)
		return m, cmd
	}

	// Forward to textinput
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) deleteRow() (tea.Model, tea.Cmd) {
	rows := m.rows()
	if len(rows) == 0 {
		return m, nil
	}
	rows = slices.Delete(rows, m.row, m.row+1)
	cmd := m.runCycle("task deleted", resolve.EventTableChanged, rows)
	return m, cmd
}

// sortRows orders the table by the cursor column. Sorting the same column
// again flips the direction.
func (m Model) sortRows() (tea.Model, tea.Cmd) {
	if m.sortCol == m.col {
		m.sortDesc = !m.sortDesc
	} else {
		m.sortCol = m.col
		m.sortDesc = false
	}

	tasks := m.snap.Tasks.Clone()
	col, desc := m.sortCol, m.sortDesc
	slices.SortStableFunc(tasks, func(a, b schedule.TaskRecord) int {
		c := compareColumn(a, b, col)
		if desc {
			return -c
		}
		return c
	})

	dir := "ascending"
	if desc {
		dir = "descending"
	}
	cmd := m.runCycle(fmt.Sprintf("sorted by %s, %s", columnTitles[col], dir), resolve.EventTableChanged, tasks.Rows())
	return m, cmd
}

func compareColumn(a, b schedule.TaskRecord, col int) int {
	switch col {
	case colDays:
		return cmp.Compare(a.DurationDays, b.DurationDays)
	case colResource:
		return strings.Compare(a.Resource, b.Resource)
	case colStart:
		return a.Start.Compare(b.Start)
	case colEnd:
		return a.Finish.Compare(b.Finish)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

// rows returns an editable copy of the published table.
func (m Model) rows() schedule.RawTable {
	return m.snap.Tasks.Rows()
}

// runCycle submits the next table to the controller off the update loop.
// Further keys wait until the result is back, since each edit is built
// from the snapshot on screen.
func (m *Model) runCycle(action string, kind resolve.EventKind, table schedule.RawTable) tea.Cmd {
	m.pending = true
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		snap, err := ctrl.RunCycle(ctx, resolve.Event{Kind: kind, Table: table})
		return cycleDoneMsg{action: action, snap: snap, err: err}
	}
}

func (m Model) handleCycleDone(msg cycleDoneMsg) (tea.Model, tea.Cmd) {
	m.pending = false

	switch {
	case msg.err != nil:
		log.Debug().Err(msg.err).Str("action", msg.action).Msg("edit rejected")
		// The controller kept the previous snapshot; keep showing it.
		m.setStatus(msg.err.Error(), true)
	case msg.snap.Seq >= m.snap.Seq:
		m.snap = msg.snap
		m.row = min(m.row, max(len(m.snap.Tasks)-1, 0))
		if msg.action == "task added" {
			m.row = len(m.snap.Tasks) - 1
		}
		m.setStatus(msg.action, false)
	}

	return m.replayQueued()
}

// replayQueued feeds queued keys back in order until one starts another
// cycle. The rest stay queued for the next result.
func (m Model) replayQueued() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for len(m.queued) > 0 && !m.pending && !m.quitting {
		next := m.queued[0]
		m.queued = m.queued[1:]

		updated, cmd := m.handleKey(next)
		m = updated.(Model)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// Snapshot returns the snapshot on screen.
func (m Model) Snapshot() cycle.Snapshot {
	return m.snap
}

func nextResource(resources []string, current string) string {
	if len(resources) == 0 {
		return current
	}
	i := slices.Index(resources, current)
	return resources[(i+1)%len(resources)]
}

func cellText(t schedule.TaskRecord, col int) string {
	switch col {
	case colTask:
		return t.Name
	case colDays:
		return strconv.Itoa(t.DurationDays)
	case colResource:
		return t.Resource
	case colStart:
		return t.Start.Format(schedule.DateLayout)
	default:
		return t.Finish.Format(schedule.DateLayout)
	}
}
