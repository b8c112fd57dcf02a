package typify

import "fmt"

// TokenKind is the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenPunctuator
	TokenString
	TokenNumber
	TokenBigInt
	TokenBoolean
	TokenNull
	TokenUndefined
	TokenIdentifier
)

var tokenNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenPunctuator: "punctuator",
	TokenString:     "string",
	TokenNumber:     "number",
	TokenBigInt:     "bigint",
	TokenBoolean:    "boolean",
	TokenNull:       "null",
	TokenUndefined:  "undefined",
	TokenIdentifier: "identifier",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Position is a location in source text.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column, counted in runes
}

// Token is one lexical unit.
//
// Value holds the decoded literal: string for strings, identifiers and
// punctuators, float64 for numbers, *big.Int for big integers, bool for
// booleans and nil for null, undefined and EOF. Raw is the source text.
type Token struct {
	Kind  TokenKind
	Value any
	Raw   string
	Pos   Position
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Raw)
}

func (t Token) isPunct(p string) bool {
	return t.Kind == TokenPunctuator && t.Raw == p
}
