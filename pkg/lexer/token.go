package lexer

import (
	"encoding/json"
	"strconv"
)

// Kind represents the different kinds of tokens.
type Kind string

const (
	Identifier Kind = "id"  // Names, keywords, operators and punctuation
	Number     Kind = "num" // Integer literals
	String     Kind = "str" // Decoded string literals
	EndOfLine  Kind = "eol" // Marker appended after every source line
	EndOfFile  Kind = "eof" // The EOF sentinel
)

// EOL is the text of the end-of-line marker token.
const EOL = "\n"

// EOF is the single end-of-file sentinel. It is returned forever once the
// input is exhausted and is compared by identity.
var EOF = &Token{kind: EndOfFile, line: -1}

// Token is a single lexical unit. Tokens are immutable once created.
type Token struct {
	kind   Kind
	text   string
	number int
	line   int
}

// NewIdentifier creates an identifier-class token.
func NewIdentifier(line int, text string) *Token {
	return &Token{kind: Identifier, text: text, line: line}
}

// NewNumber creates an integer literal token.
func NewNumber(line int, value int) *Token {
	return &Token{kind: Number, number: value, text: strconv.Itoa(value), line: line}
}

// NewStringLiteral creates a string literal token holding the decoded value.
func NewStringLiteral(line int, value string) *Token {
	return &Token{kind: String, text: value, line: line}
}

// NewEOL creates the end-of-line marker for the given line.
func NewEOL(line int) *Token {
	return &Token{kind: EndOfLine, text: EOL, line: line}
}

// Kind returns the token kind.
func (t *Token) Kind() Kind { return t.kind }

// Text returns the identifier text, the decimal rendering of a number, the
// decoded value of a string, EOL for line markers and "" for EOF.
func (t *Token) Text() string { return t.text }

// Line returns the 1-based source line, or -1 for EOF.
func (t *Token) Line() int { return t.line }

// Number returns the value of a number token. It panics for other kinds.
func (t *Token) Number() int {
	if t.kind != Number {
		panic("lexer: Number called on " + string(t.kind) + " token")
	}
	return t.number
}

// IsIdentifier reports whether the token is identifier-class. End-of-line
// markers count as identifiers so that grammars can match EOL as a literal.
func (t *Token) IsIdentifier() bool {
	return t.kind == Identifier || t.kind == EndOfLine
}

// IsNumber reports whether the token is an integer literal.
func (t *Token) IsNumber() bool { return t.kind == Number }

// IsString reports whether the token is a string literal.
func (t *Token) IsString() bool { return t.kind == String }

// IsEOL reports whether the token is an end-of-line marker.
func (t *Token) IsEOL() bool { return t.kind == EndOfLine }

// IsEOF reports whether the token is the EOF sentinel.
func (t *Token) IsEOF() bool { return t == EOF }

func (t *Token) String() string {
	if t.IsEOF() {
		return "EOF"
	}
	if t.IsEOL() {
		return "EOL"
	}
	return strconv.Quote(t.text)
}

// MarshalJSON implements custom JSON marshaling for Token.
func (t *Token) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  Kind   `json:"kind"`
		Text  string `json:"text"`
		Line  int    `json:"line"`
		Value *int   `json:"value,omitempty"`
	}{
		Kind: t.kind,
		Text: t.text,
		Line: t.line,
	}
	if t.kind == Number {
		n := t.number
		out.Value = &n
	}
	return json.Marshal(out)
}
