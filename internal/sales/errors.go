package sales

import (
	"errors"
	"fmt"
)

// ErrMissingColumn reports that a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// ErrUnknownField reports a lookup of a field the dataset does not carry.
var ErrUnknownField = errors.New("unknown field")

// LoadError is returned when the sales file cannot be turned into a Table.
// Row is the 1-based line of the file (the header is row 1), zero when the
// failure is not tied to a row.
type LoadError struct {
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "loading sales"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(": row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	return msg + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
