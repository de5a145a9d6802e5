package models

import (
	"errors"
	"fmt"
)

// ErrNoData is returned by Source.Parse, with an empty table, when the source
// explicitly answers that there was no trading on the day.
var ErrNoData = errors.New("no data for date")

// InvalidRangeError reports a bad start/end date pair. Fatal to a run.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
	Err    error
}

func (e *InvalidRangeError) Error() string {
	msg := fmt.Sprintf("invalid date range %q..%q: %s", e.Start, e.End, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidRangeError) Unwrap() error { return e.Err }

// TransportError wraps a failure of the HTTP collaborator. Fails one task.
type TransportError struct {
	Task FetchTask
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Task, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a malformed body on a success status. Downgraded to an empty table.
type ParseError struct {
	Source SourceID
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownColumnError means a named-column source returned a label outside its
// known set. The upstream contract changed, so the run stops.
type UnknownColumnError struct {
	Source SourceID
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("%s: unknown column %q", e.Source, e.Column)
}

// SchemaValidationError rejects a single row.
type SchemaValidationError struct {
	Schema string
	Field  string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s: %v", e.Schema, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Schema, e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

// IsFatal reports whether err must terminate the whole run.
func IsFatal(err error) bool {
	var rangeErr *InvalidRangeError
	var colErr *UnknownColumnError
	return errors.As(err, &rangeErr) || errors.As(err, &colErr)
}
