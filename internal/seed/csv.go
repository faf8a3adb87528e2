package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/colonyops/gantt/internal/core/schedule"
)

// DecodeCSV reads a headed CSV table. Cells stay text; coercion happens
// in the cycle.
func DecodeCSV(r io.Reader) (schedule.RawTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return schedule.RawTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]string, len(header))
	keep := make([]bool, len(header))
	for i, h := range header {
		columns[i], keep[i] = canonicalColumn(strings.TrimPrefix(h, "\ufeff"))
	}

	table := schedule.RawTable{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if blankRecord(rec) {
			continue
		}

		row := make(schedule.RawRow, len(columns))
		for i, cell := range rec {
			if i >= len(columns) || !keep[i] {
				continue
			}
			row[columns[i]] = cell
		}
		table = append(table, row)
	}

	return table, nil
}

func blankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
