// Package csvio reads raw delimited sources into datasets and writes cleaned datasets back out.
package csvio

import (
	"errors"
	"fmt"
)

// Source and sink errors.
var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrParse            = errors.New("malformed source")
	ErrSinkUnwritable   = errors.New("sink unwritable")
)

// errEmptySource is reported when the source has no header line.
var errEmptySource = errors.New("no columns to parse")

// ParseError records where a source stopped being well-formed.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s:%d: %v", ErrParse, e.Path, e.Line, e.Err)
	}

	return fmt.Sprintf("%s: line %d: %v", ErrParse, e.Line, e.Err)
}

// Unwrap exposes both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
