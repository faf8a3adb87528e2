// Package resolve decides the next row set of the schedule table from an
// edit event. It never coerces values; that is schedule.Compute's job.
package resolve

import (
	"errors"
	"fmt"

	"github.com/colonyops/gantt/internal/core/schedule"
)

// EventKind identifies what the user did.
type EventKind string

const (
	// EventTableChanged carries the table after a cell edit, row delete or
	// bulk delete.
	EventTableChanged EventKind = "table_state_changed"
	// EventRowAdded is raised by the "add task" action.
	EventRowAdded EventKind = "row_added"
)

// ErrUnknownEvent is returned for events whose kind is not recognized.
var ErrUnknownEvent = errors.New("unknown event kind")

// ParseEventKind maps the wire name of an event kind to its value.
func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w %q", ErrUnknownEvent, s)
	}
	return k, nil
}

// IsValid reports whether k is a known event kind.
func (k EventKind) IsValid() bool {
	switch k {
	case EventTableChanged, EventRowAdded:
		return true
	default:
		return false
	}
}

// Event is a single edit raised by the UI layer. Table is the raw table as
// the UI currently shows it; nil means the user removed every row.
type Event struct {
	Kind  EventKind
	Table schedule.RawTable
}

// Validate checks the event kind.
func (e Event) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w %q", ErrUnknownEvent, e.Kind)
	}
	return nil
}

// Outcome tells which transition rule produced a resolved table.
type Outcome string

const (
	OutcomeReset       Outcome = "reset"
	OutcomeAppended    Outcome = "appended"
	OutcomePassThrough Outcome = "pass_through"
)

// Resolver applies the table transition rules. The zero value is not
// usable; build one with New or Default.
type Resolver struct {
	blank schedule.RawRow
}

// New returns a resolver that uses blank as the template for reset and
// added rows.
func New(blank schedule.RawRow) *Resolver {
	return &Resolver{blank: blank.Clone()}
}

// Default returns a resolver using schedule.DefaultBlank.
func Default() *Resolver {
	return New(schedule.DefaultBlank())
}

// Blank returns a copy of the template row.
func (r *Resolver) Blank() schedule.RawRow {
	return r.blank.Clone()
}

// Resolve returns the next raw table. Rules, in priority order:
//
//  1. An empty or absent table resets to a single blank row.
//  2. EventRowAdded appends one blank row after the existing rows.
//  3. Anything else passes the table through unchanged.
//
// The returned table never aliases the event's rows.
func (r *Resolver) Resolve(ev Event) (schedule.RawTable, Outcome) {
	if ev.Table.Empty() {
		return schedule.RawTable{r.Blank()}, OutcomeReset
	}

	rows := ev.Table.Clone()
	if ev.Kind == EventRowAdded {
		return append(rows, r.Blank()), OutcomeAppended
	}

	return rows, OutcomePassThrough
}
