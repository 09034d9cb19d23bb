package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every error returned for malformed input.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes malformed comment or type-expression text.
type SyntaxError struct {
	Input  string // Type expression being parsed, if any
	Offset int    // Byte offset within Input
	Line   int    // Source line, if known
	Msg    string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Input != "":
		return fmt.Sprintf("syntax error in type %q at offset %d: %s", e.Input, e.Offset, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Msg)
	default:
		return "syntax error: " + e.Msg
	}
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }
