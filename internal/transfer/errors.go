package transfer

import (
	"errors"
	"fmt"
)

// ErrNotArray is returned when an import file's top-level value is not a
// JSON array.
var ErrNotArray = errors.New("top-level value is not an array")

// ErrNoTasks is returned when a mail message carries no task attachment.
var ErrNoTasks = errors.New("no task attachment found")

// ErrNoTaskParam is returned when a share link has no task parameter.
var ErrNoTaskParam = errors.New("missing task parameter")

// ParseError reports input that could not be decoded. State is never
// changed when one is returned.
type ParseError struct {
	// Source names what was being parsed, such as a file path or "share link".
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
