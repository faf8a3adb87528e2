// Package schedule defines the task data model and the coercion step that
// turns loosely typed editor rows into typed task records.
package schedule

import (
	"time"
)

// Column keys used by raw rows. They match the column ids of the editable
// table so rows can travel between the editor and the core unchanged.
const (
	ColTask     = "Task"
	ColStart    = "Start"
	ColDuration = "Duration"
	ColResource = "Resource"
	ColFinish   = "Finish"
)

// DateLayout is the text form of a calendar date.
const DateLayout = "2006-01-02"

// Defaults for the blank record used on reset and on "add row".
var (
	DefaultStart    = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultResource = "A"
)

// DefaultResources is the resource set offered by the editor when none is configured.
var DefaultResources = []string{"A", "B", "C", "D"}

// TaskRecord is one scheduled unit of work.
//
// Finish is derived from Start and DurationDays and is only ever set by
// Compute; it is never read back from a raw row.
type TaskRecord struct {
	Name         string    `json:"task"`
	Start        time.Time `json:"start"`
	DurationDays int       `json:"duration_days"`
	Resource     string    `json:"resource"`
	Finish       time.Time `json:"finish"`
}

// Raw converts the record back into an editable row. Dates are rendered in
// DateLayout.
func (r TaskRecord) Raw() RawRow {
	return RawRow{
		ColTask:     r.Name,
		ColStart:    r.Start.Format(DateLayout),
		ColDuration: r.DurationDays,
		ColResource: r.Resource,
		ColFinish:   r.Finish.Format(DateLayout),
	}
}

// TaskList is the ordered, authoritative collection of records. Order is
// display order.
type TaskList []TaskRecord

// Rows converts the list into a raw table suitable for the editor.
func (l TaskList) Rows() RawTable {
	rows := make(RawTable, len(l))
	for i, r := range l {
		rows[i] = r.Raw()
	}
	return rows
}

// Clone returns a copy of the list that shares no backing array with l.
func (l TaskList) Clone() TaskList {
	if l == nil {
		return nil
	}
	out := make(TaskList, len(l))
	copy(out, l)
	return out
}

// Blank returns the template row used when the table is reset and when a
// row is added.
func Blank(start time.Time, resource string) RawRow {
	s := start.Format(DateLayout)
	return RawRow{
		ColTask:     "",
		ColStart:    s,
		ColDuration: 0,
		ColResource: resource,
		ColFinish:   s,
	}
}

// DefaultBlank returns Blank with the package defaults.
func DefaultBlank() RawRow {
	return Blank(DefaultStart, DefaultResource)
}
