package mars

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the plain calendar date accepted by ParseDate.
const DateLayout = "2006-01-02"

// ErrInvalidDateFormat matches any error returned by ParseDate.
var ErrInvalidDateFormat = errors.New("invalid date format")

// InvalidDateFormatError carries the errors from both accepted layouts.
type InvalidDateFormatError struct {
	Raw          string
	DateErr      error
	TimestampErr error
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("%q is neither YYYY-MM-DD (%v) nor RFC 3339 (%v)", e.Raw, e.DateErr, e.TimestampErr)
}

func (e *InvalidDateFormatError) Unwrap() []error {
	return []error{ErrInvalidDateFormat, e.DateErr, e.TimestampErr}
}

// ParseDate accepts either a calendar date, read as midnight UTC, or an RFC 3339
// timestamp with an offset. The calendar form is tried first.
func ParseDate(raw string) (time.Time, error) {
	d, dateErr := time.ParseInLocation(DateLayout, raw, time.UTC)
	if dateErr == nil {
		return d, nil
	}

	ts, tsErr := time.Parse(time.RFC3339, raw)
	if tsErr == nil {
		return ts.UTC(), nil
	}

	return time.Time{}, &InvalidDateFormatError{
		Raw:          raw,
		DateErr:      dateErr,
		TimestampErr: tsErr,
	}
}
