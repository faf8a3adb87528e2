package seed

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/colonyops/gantt/internal/core/schedule"
)

// ErrUnsupportedFormat is returned for a seed file whose extension has no
// decoder.
var ErrUnsupportedFormat = errors.New("unsupported seed format")

// Decoder reads a raw task table from r.
type Decoder func(r io.Reader) (schedule.RawTable, error)

var decoders = map[string]Decoder{
	".csv":  DecodeCSV,
	".json": DecodeJSON,
	".yaml": DecodeYAML,
	".yml":  DecodeYAML,
	".toml": DecodeTOML,
}

// Formats returns the file extensions a seed may use.
func Formats() []string {
	return slices.Sorted(maps.Keys(decoders))
}

// DecoderFor picks a decoder by the extension of name. Names without an
// extension are read as CSV.
func DecoderFor(name string) (Decoder, error) {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return DecodeCSV, nil
	}
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return dec, nil
}

// columnAliases maps lower-cased source headers to table columns. An empty
// target drops the column; finish dates are always recomputed.
var columnAliases = map[string]string{
	"task":     schedule.ColTask,
	"name":     schedule.ColTask,
	"start":    schedule.ColStart,
	"duration": schedule.ColDuration,
	"days":     schedule.ColDuration,
	"resource": schedule.ColResource,
	"finish":   "",
	"end":      "",
}

// canonicalColumn returns the table column for a source header and whether
// the column is kept. Unknown headers are kept unchanged.
func canonicalColumn(header string) (string, bool) {
	col, ok := columnAliases[strings.ToLower(strings.TrimSpace(header))]
	if !ok {
		return header, true
	}
	return col, col != ""
}

func canonicalRow(in map[string]any) schedule.RawRow {
	row := make(schedule.RawRow, len(in))
	for k, v := range in {
		if col, keep := canonicalColumn(k); keep {
			row[col] = v
		}
	}
	return row
}
