package compiler

import "fmt"

// LexError reports malformed source text: an unexpected character, a bad
// escape sequence, an unterminated string or block comment.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseError reports a structurally invalid program: wrong operands, an
// unresolved jump target, a duplicate name, inconsistent indentation.
// Snippet holds the offending source line when it is available.
type ParseError struct {
	Line    int
	Msg     string
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s\n  |> %s", e.Line, e.Msg, e.Snippet)
}
