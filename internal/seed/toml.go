package seed

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/colonyops/gantt/internal/core/schedule"
)

// DecodeTOML reads an array of [[tasks]] tables. TOML dates arrive as
// time.Time and integers as int64; both coerce directly.
func DecodeTOML(r io.Reader) (schedule.RawTable, error) {
	var doc struct {
		Tasks []map[string]any `toml:"tasks"`
	}
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode toml: unexpected key %q", undecoded[0].String())
	}

	table := make(schedule.RawTable, 0, len(doc.Tasks))
	for _, in := range doc.Tasks {
		table = append(table, canonicalRow(in))
	}
	return table, nil
}
