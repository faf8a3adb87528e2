package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// startLayouts are tried in order when a start date arrives as text. Any
// time-of-day component is discarded.
var startLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

var (
	errNegative   = errors.New("must not be negative")
	errFractional = errors.New("must be a whole number of days")
	errType       = errors.New("unsupported value type")
	errMissing    = errors.New("value is required")
)

// Compute coerces every row of the table and derives the finish date of each
// record. It runs over the entire table on every call; no row is trusted to
// still be valid from a previous cycle.
//
// The first row that cannot be coerced aborts the computation with an
// *InvalidFieldError and no list is returned.
func Compute(table RawTable) (TaskList, error) {
	out := make(TaskList, 0, len(table))
	for i, row := range table {
		rec, err := Coerce(row)
		if err != nil {
			var fe *InvalidFieldError
			if errors.As(err, &fe) {
				fe.Row = i
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Coerce converts a single raw row into a typed record with its finish date
// set. The returned error is always an *InvalidFieldError with Row zero;
// Compute fills in the row index.
func Coerce(row RawRow) (TaskRecord, error) {
	start, err := coerceDate(row[ColStart])
	if err != nil {
		return TaskRecord{}, &InvalidFieldError{Field: ColStart, Value: row[ColStart], Err: err}
	}

	days, err := coerceDays(row[ColDuration])
	if err != nil {
		return TaskRecord{}, &InvalidFieldError{Field: ColDuration, Value: row[ColDuration], Err: err}
	}

	return TaskRecord{
		Name:         coerceText(row[ColTask]),
		Start:        start,
		DurationDays: days,
		Resource:     coerceText(row[ColResource]),
		Finish:       FinishDate(start, days),
	}, nil
}

// FinishDate returns start plus the given number of calendar days.
func FinishDate(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days)
}

// DaysBetween counts calendar days from one date to another. It works on
// Unix seconds, so spans past the time.Duration range stay exact.
func DaysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// ParseDate parses a calendar date in any of the accepted text layouts and
// returns it as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errMissing
	}

	var firstErr error
	for _, layout := range startLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return truncateDay(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func coerceDate(v any) (time.Time, error) {
	switch v := v.(type) {
	case nil:
		return time.Time{}, errMissing
	case time.Time:
		if v.IsZero() {
			return time.Time{}, errMissing
		}
		return truncateDay(v), nil
	case string:
		return ParseDate(v)
	default:
		return time.Time{}, fmt.Errorf("%w %T", errType, v)
	}
}

// truncateDay keeps the calendar date as seen in t's own location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func coerceDays(v any) (int, error) {
	var n int64
	switch v := v.(type) {
	case nil:
		return 0, errMissing
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		n = int64(v)
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%d is out of range", v)
		}
		n = int64(v)
	case float32:
		return floatDays(float64(v))
	case float64:
		return floatDays(v)
	case json.Number:
		return textDays(v.String())
	case string:
		return textDays(v)
	default:
		return 0, fmt.Errorf("%w %T", errType, v)
	}
	return checkDays(n)
}

func textDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errMissing
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return checkDays(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return floatDays(f)
}

func floatDays(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number")
	}
	if f != math.Trunc(f) {
		return 0, errFractional
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%v is out of range", f)
	}
	return checkDays(int64(f))
}

func checkDays(n int64) (int, error) {
	if n < 0 {
		return 0, errNegative
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%d is out of range", n)
	}
	return int(n), nil
}

func coerceText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
