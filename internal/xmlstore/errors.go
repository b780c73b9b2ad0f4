package xmlstore

import (
	"errors"
	"fmt"
)

// errNoRootElement covers markup that parses but contains no element.
var errNoRootElement = errors.New("document has no root element")

// MarkupParseError indicates that a node's markup was not well-formed. It
// carries the offending source text so the failure can be logged with full
// context before propagating up to the course-load boundary.
type MarkupParseError struct {
	Source string
	Err    error
}

func (e *MarkupParseError) Error() string {
	return fmt.Sprintf("unable to parse xml: %v", e.Err)
}

func (e *MarkupParseError) Unwrap() error {
	return e.Err
}
