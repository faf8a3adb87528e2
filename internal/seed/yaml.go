package seed

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/gantt/internal/core/schedule"
)

// DecodeYAML reads either a top-level list of rows or a mapping with a
// "tasks" list.
func DecodeYAML(r io.Reader) (schedule.RawTable, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return schedule.RawTable{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	var rows []map[string]any
	if err := node.Decode(&rows); err != nil {
		var doc struct {
			Tasks []map[string]any `yaml:"tasks"`
		}
		if docErr := node.Decode(&doc); docErr != nil {
			return nil, fmt.Errorf("decode yaml: expected a list of tasks or a tasks key: %w", err)
		}
		rows = doc.Tasks
	}

	table := make(schedule.RawTable, 0, len(rows))
	for _, in := range rows {
		table = append(table, canonicalRow(in))
	}
	return table, nil
}
