package lexer

import (
	"fmt"
)

// TokenizeError reports a source line position that matches no token pattern.
type TokenizeError struct {
	Line   int
	Reason string
}

func (e *TokenizeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("bad token at line %d", e.Line)
	}
	return fmt.Sprintf("%s at line %d", e.Reason, e.Line)
}

// ParseError reports a token that a grammar element could not accept.
type ParseError struct {
	Token    *Token
	Expected string // Optional hint, e.g. `")" expected`
}

// NewParseError creates a parse error for the offending token.
func NewParseError(tok *Token, expected string) *ParseError {
	return &ParseError{Token: tok, Expected: expected}
}

func (e *ParseError) Error() string {
	msg := "syntax error around " + location(e.Token)
	if e.Expected != "" {
		msg += ", " + e.Expected
	}
	return msg
}

func location(tok *Token) string {
	if tok == nil || tok.IsEOF() {
		return "the last line"
	}
	return "\"" + tok.Text() + "\"at line " + fmt.Sprint(tok.Line())
}
