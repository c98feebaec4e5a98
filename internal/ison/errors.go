package ison

import (
	"errors"
	"fmt"
)

// ParseError is the single error kind produced by ISON and ISONL parsing.
// Line is 1-based; zero means no line applies. The first error aborts the
// whole conversion; there is no partial-document result.
type ParseError struct {
	Message string
	Line    int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// NewParseError creates a ParseError carrying a 1-based line number.
func NewParseError(line int, message string) *ParseError {
	return &ParseError{Message: message, Line: line}
}

func newErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: line}
}

// ErrorLine extracts the 1-based line number from err if it is, or wraps,
// a ParseError that carries one.
func ErrorLine(err error) (int, bool) {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Line > 0 {
		return pe.Line, true
	}
	return 0, false
}
