package ingest

import (
	"fmt"
	"strings"
)

// ValidationError reports every offending field of a row, not just the
// first one found.
type ValidationError struct {
	Schema        string   // "campaign" or "business"
	MissingFields []string // required fields absent or empty
	InvalidValues []string // e.g. a platform outside the accepted set
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, fmt.Sprintf("missing required fields in %s data: %s",
			e.Schema, strings.Join(e.MissingFields, ", ")))
	}
	parts = append(parts, e.InvalidValues...)
	return strings.Join(parts, "; ")
}

// ParseError means the file itself is malformed (e.g. no header row or
// no data rows). It aborts the whole file's import.
type ParseError struct {
	File string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// ImportError wraps a failure after rows were already parsed, carrying
// how far the import got before it stopped.
type ImportError struct {
	File          string
	RowsProcessed int
	Err           error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import of %s failed after %d rows: %v", e.File, e.RowsProcessed, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
