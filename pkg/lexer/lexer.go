package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern is anchor-matched against the remainder of a line. After the
// optional leading whitespace the alternatives are tried in priority order:
// line comment, integer, string literal, identifier, two-character operator,
// single punctuation character. Whitespace is Java's \s set.
var tokenPattern = regexp.MustCompile(
	`^[ \t\n\x0B\f\r]*((//.*)|([0-9]+)|("(\\"|\\\\|\\n|[^"])*")` +
		`|[A-Z_a-z][A-Z_a-z0-9]*|==|<=|>=|&&|\|\||[[:punct:]])?`)

// Submatch groups of tokenPattern.
const (
	groupToken   = 1
	groupComment = 2
	groupNumber  = 3
	groupString  = 4
)

// Lexer turns line-oriented text into a lookahead queue of tokens. Lines are
// read and tokenised lazily, only as far as Read or Peek require.
//
// A Lexer holds per-session state and must not be shared between goroutines.
type Lexer struct {
	reader  *bufio.Reader
	lineNo  int
	hasMore bool
	queue   []*Token
	logger  *slog.Logger
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger sets the logger used for debug tracing of tokenised lines.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a lexer reading source text from r.
func New(r io.Reader, opts ...Option) *Lexer {
	l := &Lexer{
		reader:  bufio.NewReader(r),
		hasMore: true,
		queue:   make([]*Token, 0),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewString creates a lexer over an in-memory source text.
func NewString(src string, opts ...Option) *Lexer {
	return New(strings.NewReader(src), opts...)
}

// Read removes and returns the next token, or EOF once the input is exhausted.
func (l *Lexer) Read() (*Token, error) {
	ok, err := l.fillQueue(0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return EOF, nil
	}
	tok := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return tok, nil
}

// Peek returns the token i positions ahead without consuming it, or EOF if
// the input ends before that. A negative i is an error.
func (l *Lexer) Peek(i int) (*Token, error) {
	if i < 0 {
		return nil, fmt.Errorf("lexer: negative peek offset %d", i)
	}
	ok, err := l.fillQueue(i)
	if err != nil {
		return nil, err
	}
	if !ok {
		return EOF, nil
	}
	return l.queue[i], nil
}

// Tokens reads every remaining token up to, but not including, EOF.
func (l *Lexer) Tokens() ([]*Token, error) {
	var tokens []*Token
	for {
		tok, err := l.Read()
		if err != nil {
			return tokens, err
		}
		if tok.IsEOF() {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// fillQueue reads lines until the queue holds at least i+1 tokens. It returns
// false if the input ran out first.
func (l *Lexer) fillQueue(i int) (bool, error) {
	for i >= len(l.queue) {
		if !l.hasMore {
			return false, nil
		}
		if err := l.readLine(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// readLine tokenises the next line. A line ends at "\n", "\r\n" or a bare "\r".
func (l *Lexer) readLine() error {
	var line strings.Builder
	for {
		c, err := l.reader.ReadByte()
		if err != nil {
			l.hasMore = false
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("read line %d: %w", l.lineNo+1, err)
			}
			if line.Len() == 0 {
				return nil
			}
			break
		}
		if c == '\n' {
			break
		}
		if c == '\r' {
			if next, err := l.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = l.reader.ReadByte()
			}
			break
		}
		line.WriteByte(c)
	}
	l.lineNo++
	return l.tokenizeLine(l.lineNo, line.String())
}

// tokenizeLine appends the tokens of one line, followed by its EOL marker.
func (l *Lexer) tokenizeLine(lineNo int, line string) error {
	before := len(l.queue)
	pos := 0
	for pos < len(line) {
		m := tokenPattern.FindStringSubmatchIndex(line[pos:])
		if m == nil || m[1] == 0 {
			return &TokenizeError{Line: lineNo}
		}
		if err := l.addToken(lineNo, line[pos:], m); err != nil {
			return err
		}
		pos += m[1]
	}
	l.queue = append(l.queue, NewEOL(lineNo))
	l.logger.Debug("tokenised line", "line", lineNo, "tokens", len(l.queue)-before)
	return nil
}

// addToken appends the token, if any, described by one match of tokenPattern.
func (l *Lexer) addToken(lineNo int, rest string, m []int) error {
	group := func(n int) (string, bool) {
		if m[2*n] < 0 {
			return "", false
		}
		return rest[m[2*n]:m[2*n+1]], true
	}

	text, ok := group(groupToken)
	if !ok {
		return nil
	}
	if _, isComment := group(groupComment); isComment {
		return nil
	}

	var tok *Token
	if _, isNumber := group(groupNumber); isNumber {
		value, err := strconv.Atoi(text)
		if err != nil {
			return &TokenizeError{Line: lineNo, Reason: "integer literal out of range"}
		}
		tok = NewNumber(lineNo, value)
	} else if _, isString := group(groupString); isString {
		tok = NewStringLiteral(lineNo, decodeStringLiteral(text))
	} else {
		tok = NewIdentifier(lineNo, text)
	}
	l.queue = append(l.queue, tok)
	return nil
}
