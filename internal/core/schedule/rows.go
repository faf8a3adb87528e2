package schedule

import "maps"

// RawRow is one row as delivered by the editor or a seed source. Values are
// loosely typed; see Compute for the accepted forms.
type RawRow map[string]any

// Clone returns a shallow copy of the row.
func (r RawRow) Clone() RawRow {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// RawTable is the full contents of the editable table. A nil or empty table
// means the user removed every row (or no data exists yet).
type RawTable []RawRow

// Empty reports whether the table is absent or has no rows.
func (t RawTable) Empty() bool {
	return len(t) == 0
}

// Clone deep-copies the table so the result shares no maps with t.
func (t RawTable) Clone() RawTable {
	if t == nil {
		return nil
	}
	out := make(RawTable, len(t))
	for i, r := range t {
		out[i] = r.Clone()
	}
	return out
}
