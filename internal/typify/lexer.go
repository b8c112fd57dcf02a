package typify

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Lexer splits grammar text into tokens.
type Lexer struct {
	src  string
	pos  int // byte offset of the next unread character
	line int
	col  int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize lexes all of src. The trailing EOF token is not included.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// peek returns the byte n places ahead, or 0 past the end.
func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	b := l.src[l.pos]
	l.pos++
	switch {
	case b == '\n':
		l.line++
		l.col = 1
	case b&0xC0 != 0x80:
		l.col++
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.advance()
		default:
			return
		}
	}
}

// Next returns the next token, or a TokenEOF token at the end of input.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	pos := l.position()
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	c := l.src[l.pos]
	switch {
	case isPunctuator(c):
		l.advance()
		s := string(c)
		return Token{Kind: TokenPunctuator, Value: s, Raw: s, Pos: pos}, nil
	case c == '"':
		return l.readString(pos)
	case isDigit(c) || (c == '-' && isDigit(l.peek(1))):
		return l.readNumber(pos)
	case isIdentifierChar(c):
		return l.readIdentifier(pos), nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return Token{}, &LexError{
		Code:    ErrCodeUnexpectedChar,
		Message: fmt.Sprintf("unexpected character %q", r),
		Pos:     pos,
	}
}

func (l *Lexer) readString(pos Position) (Token, error) {
	start := l.pos
	l.advance()

	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, &LexError{Code: ErrCodeUnterminatedString, Message: "unterminated string", Pos: pos}
		}
		switch l.src[l.pos] {
		case '"':
			l.advance()
			return Token{Kind: TokenString, Value: b.String(), Raw: l.src[start:l.pos], Pos: pos}, nil
		case '\\':
			if err := l.readEscape(&b, pos); err != nil {
				return Token{}, err
			}
		default:
			run := l.pos
			for l.pos < len(l.src) && l.src[l.pos] != '"' && l.src[l.pos] != '\\' {
				l.advance()
			}
			b.WriteString(l.src[run:l.pos])
		}
	}
}

var simpleEscapes = map[byte]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// readEscape decodes one backslash escape. A \u escape holding a high
// surrogate is joined with a following low surrogate escape; an unpaired
// surrogate decodes to U+FFFD.
func (l *Lexer) readEscape(b *strings.Builder, strPos Position) error {
	escPos := l.position()
	l.advance()
	if l.pos >= len(l.src) {
		return &LexError{Code: ErrCodeUnterminatedString, Message: "unterminated string", Pos: strPos}
	}

	c := l.src[l.pos]
	if r, ok := simpleEscapes[c]; ok {
		b.WriteByte(r)
		l.advance()
		return nil
	}
	if c != 'u' {
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		return &LexError{Code: ErrCodeInvalidEscape, Message: fmt.Sprintf("invalid escape sequence \\%c", r), Pos: escPos}
	}
	l.advance()

	r1, err := l.readHex4(escPos)
	if err != nil {
		return err
	}
	if utf16.IsSurrogate(r1) && l.peek(0) == '\\' && l.peek(1) == 'u' {
		saved := *l
		l.advance()
		l.advance()
		if r2, err := l.readHex4(escPos); err == nil {
			if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
				b.WriteRune(r)
				return nil
			}
		}
		*l = saved
	}
	b.WriteRune(r1)
	return nil
}

func (l *Lexer) readHex4(escPos Position) (rune, error) {
	if l.pos+4 > len(l.src) {
		return 0, &LexError{Code: ErrCodeInvalidEscape, Message: "invalid unicode escape sequence", Pos: escPos}
	}
	n, err := strconv.ParseUint(l.src[l.pos:l.pos+4], 16, 32)
	if err != nil {
		return 0, &LexError{Code: ErrCodeInvalidEscape, Message: "invalid unicode escape sequence", Pos: escPos}
	}
	for range 4 {
		l.advance()
	}
	return rune(n), nil
}

// readNumber lexes -?digits(.digits)?([eE][+-]?digits)? or a big integer
// -?digits followed by n.
func (l *Lexer) readNumber(pos Position) (Token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.advance()
	}
	if l.peek(0) == '0' && isDigit(l.peek(1)) {
		return Token{}, &LexError{Code: ErrCodeInvalidNumber, Message: "illegal octal literal", Pos: pos}
	}
	l.digits()

	if l.peek(0) == 'n' {
		digits := l.src[start:l.pos]
		l.advance()
		n, ok := new(big.Int).SetString(digits, 10)
		if !ok {
			return Token{}, &LexError{Code: ErrCodeInvalidNumber, Message: fmt.Sprintf("invalid big integer %q", digits), Pos: pos}
		}
		return Token{Kind: TokenBigInt, Value: n, Raw: l.src[start:l.pos], Pos: pos}, nil
	}

	if l.peek(0) == '.' {
		l.advance()
		if l.digits() == 0 {
			return Token{}, &LexError{Code: ErrCodeInvalidNumber, Message: "illegal trailing decimal", Pos: pos}
		}
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		l.advance()
		if c := l.peek(0); c == '+' || c == '-' {
			l.advance()
		}
		if l.digits() == 0 {
			return Token{}, &LexError{Code: ErrCodeInvalidNumber, Message: "illegal empty exponent", Pos: pos}
		}
	}

	raw := l.src[start:l.pos]
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Token{}, &LexError{Code: ErrCodeInvalidNumber, Message: fmt.Sprintf("invalid number %q", raw), Pos: pos}
	}
	return Token{Kind: TokenNumber, Value: f, Raw: raw, Pos: pos}, nil
}

func (l *Lexer) digits() int {
	n := 0
	for isDigit(l.peek(0)) {
		l.advance()
		n++
	}
	return n
}

func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentifierChar(l.src[l.pos]) {
		l.advance()
	}
	raw := l.src[start:l.pos]

	switch raw {
	case "NaN":
		return Token{Kind: TokenNumber, Value: math.NaN(), Raw: raw, Pos: pos}
	case "Infinity":
		return Token{Kind: TokenNumber, Value: math.Inf(1), Raw: raw, Pos: pos}
	case "-Infinity":
		return Token{Kind: TokenNumber, Value: math.Inf(-1), Raw: raw, Pos: pos}
	case "true":
		return Token{Kind: TokenBoolean, Value: true, Raw: raw, Pos: pos}
	case "false":
		return Token{Kind: TokenBoolean, Value: false, Raw: raw, Pos: pos}
	case "null":
		return Token{Kind: TokenNull, Raw: raw, Pos: pos}
	case "undefined":
		return Token{Kind: TokenUndefined, Raw: raw, Pos: pos}
	}
	return Token{Kind: TokenIdentifier, Value: raw, Raw: raw, Pos: pos}
}

func isPunctuator(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')', ':', ',':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentifierChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) || c == '-' || c == '_'
}
