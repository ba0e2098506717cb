package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel parse errors returned by the normalizers.
var (
	ErrDateUnrecognized = errors.New("unrecognized date format")
	ErrTimeOnly         = errors.New("time-only value cannot become a calendar date")
	ErrNotNumeric       = errors.New("value is not numeric")
	ErrNonPositive      = errors.New("value must be positive")
)

// ErrorKind classifies a field-level failure.
type ErrorKind string

const (
	KindDateUnrecognized ErrorKind = "date_unrecognized"
	KindTimeOnly         ErrorKind = "time_only"
	KindNotNumeric       ErrorKind = "not_numeric"
	KindNonPositive      ErrorKind = "non_positive"
	KindEnumMismatch     ErrorKind = "enum_mismatch"
	KindRequiredMissing  ErrorKind = "required_missing"
)

// FieldError reports one constraint violation on one field of one row.
// Row indices are zero-based over the decoded data rows.
type FieldError struct {
	Row     int       `json:"row"`
	Field   Field     `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("Row %d: %s – %s", e.Row, e.Field, e.Message)
}

// Warning is a non-fatal observation about one or more rows. Rows is empty
// for dataset-level warnings such as classifier collisions.
type Warning struct {
	Rows    []int  `json:"rows,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if len(w.Rows) == 0 {
		return w.Message
	}
	parts := make([]string, len(w.Rows))
	for i, row := range w.Rows {
		parts[i] = strconv.Itoa(row)
	}
	return fmt.Sprintf("Rows %s: %s", strings.Join(parts, ", "), w.Message)
}

// Skip records a row dropped on purpose rather than failed.
type Skip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func kindFor(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrTimeOnly):
		return KindTimeOnly
	case errors.Is(err, ErrDateUnrecognized):
		return KindDateUnrecognized
	case errors.Is(err, ErrNonPositive):
		return KindNonPositive
	case errors.Is(err, ErrNotNumeric):
		return KindNotNumeric
	default:
		return KindRequiredMissing
	}
}
