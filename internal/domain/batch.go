package domain

import "fmt"

// RawBatch is one decoded raw file. Path is its stable identity within the
// lake; a batch is consumed, never mutated.
type RawBatch struct {
	Path    string
	Columns []string
	Rows    []map[string]string
}

// BatchParseError reports a raw batch that could not be decoded. The batch
// is excluded from the run and left uncommitted so a later run retries it.
type BatchParseError struct {
	Path string
	Err  error
}

func (e *BatchParseError) Error() string {
	return fmt.Sprintf("parse raw batch %s: %v", e.Path, e.Err)
}

func (e *BatchParseError) Unwrap() error { return e.Err }
