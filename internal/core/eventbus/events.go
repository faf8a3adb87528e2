// Package eventbus provides a typed publish/subscribe event bus used to
// announce the outcome of reactive cycles to observers outside the core.
package eventbus

import (
	"time"

	"github.com/colonyops/gantt/internal/core/resolve"
)

// Event names a kind of published event.
type Event string

const (
	// Keep list sorted A-Z
	EventCycleCompleted Event = "cycle.completed"
	EventCycleFailed    Event = "cycle.failed"
	EventTableReset     Event = "table.reset"
)

// Events lists every event type with its payload struct.
var Events = map[Event]any{
	EventCycleCompleted: CycleCompletedPayload{},
	EventCycleFailed:    CycleFailedPayload{},
	EventTableReset:     TableResetPayload{},
}

// CycleCompletedPayload is emitted after a cycle publishes a new snapshot.
type CycleCompletedPayload struct {
	CycleID string
	Seq     uint64
	Kind    resolve.EventKind
	Outcome resolve.Outcome
	Tasks   int
	Elapsed time.Duration
}

// CycleFailedPayload is emitted when a cycle is rejected. The previously
// published snapshot is still current.
type CycleFailedPayload struct {
	CycleID string
	Kind    resolve.EventKind
	Err     error
}

// TableResetPayload is emitted when an empty table was replaced by a single
// blank row.
type TableResetPayload struct {
	CycleID string
	Seq     uint64
}
