package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/colonyops/gantt/internal/core/schedule"
)

//go:embed tasks.schema.json
var tasksSchemaJSON []byte

const tasksSchemaURL = "gantt://tasks.schema.json"

var loadTasksSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(tasksSchemaURL, bytes.NewReader(tasksSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add tasks schema: %w", err)
	}
	return compiler.Compile(tasksSchemaURL)
})

// DecodeJSON reads an array of row objects. Numbers keep their literal
// form as json.Number and the rows are normalized with Normalize.
func DecodeJSON(r io.Reader) (schedule.RawTable, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	return Normalize(rows)
}

// Normalize maps column aliases to canonical names and checks the rows
// against the tasks schema.
func Normalize(rows []map[string]any) (schedule.RawTable, error) {
	table := make(schedule.RawTable, 0, len(rows))
	doc := make([]any, 0, len(rows))
	for _, in := range rows {
		row := canonicalRow(in)
		table = append(table, row)
		doc = append(doc, map[string]any(row))
	}

	schema, err := loadTasksSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	return table, nil
}

// SchemaError reports rows that do not match the tasks schema. Row and
// Field locate the first problem; Row is -1 when it is not tied to a row.
type SchemaError struct {
	Row      int
	Field    string
	Problems []string
}

func (e *SchemaError) Error() string {
	return "rows do not match tasks schema: " + strings.Join(e.Problems, "; ")
}

// schemaError flattens a validation error into one line per failing
// location.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	var leaves []*jsonschema.ValidationError
	collectSchemaErrors(ve, &leaves)

	out := &SchemaError{Row: -1}
	for _, leaf := range leaves {
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out.Problems = append(out.Problems, fmt.Sprintf("%s: %s", loc, leaf.Message))
	}
	if len(leaves) > 0 {
		out.Row, out.Field = locate(leaves[0])
	}
	return out
}

func collectSchemaErrors(ve *jsonschema.ValidationError, leaves *[]*jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*leaves = append(*leaves, ve)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, leaves)
	}
}

// locate turns an instance location like /3/Duration into a row index and
// column. A missing required column is reported at the row, so the column
// is taken from the message.
func locate(ve *jsonschema.ValidationError) (int, string) {
	parts := strings.Split(strings.TrimPrefix(ve.InstanceLocation, "/"), "/")
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return -1, ""
	}
	if len(parts) > 1 {
		return row, parts[1]
	}
	if m := quotedName.FindStringSubmatch(ve.Message); m != nil {
		return row, m[1]
	}
	return row, ""
}

var quotedName = regexp.MustCompile(`'([^']+)'`)
