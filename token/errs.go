package token

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel wrapped by every ParseError, so callers can
// errors.Is against parse failures without caring about the message.
var ErrParse = errors.New("parse error")

// ParseError is the one error kind produced while reading KDL text. Line
// and Col are 1-indexed.
type ParseError struct {
	Message string
	Line    int
	Col     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d col %d: %s", e.Line, e.Col, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Errf builds a ParseError positioned at the given byte offset of s.
func Errf(s *Source, off int, format string, args ...any) error {
	line, col := s.LineCol(off)
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Col:     col,
	}
}
