package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidField is matched by every *InvalidFieldError via errors.Is.
var ErrInvalidField = errors.New("invalid field")

// InvalidFieldError reports a row value that could not be coerced to its
// typed form.
type InvalidFieldError struct {
	Row   int    // zero-based row index in the table
	Field string // column key, e.g. ColStart
	Value any    // offending raw value
	Err   error  // parse cause, may be nil
}

func (e *InvalidFieldError) Error() string {
	msg := fmt.Sprintf("row %d: invalid %s %v", e.Row+1, e.Field, describe(e.Value))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFieldError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidField) succeed.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "(missing)"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
