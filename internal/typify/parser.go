package typify

import (
	"fmt"
	"math/big"
)

// parser is a recursive-descent parser with one token of lookahead
// beyond the current token.
type parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// ParseProgram parses grammar text into a syntax tree.
func ParseProgram(src string) (*Program, error) {
	p := &parser{lexer: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	prog := &Program{PosVal: p.cur.Pos}
	if p.cur.Kind == TokenEOF {
		return prog, nil
	}
	n, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	prog.Body = append(prog.Body, n)

	if p.cur.Kind != TokenEOF {
		return nil, p.unexpected("after top-level value")
	}
	return prog, nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *parser) unexpected(context string) *ParseError {
	if p.cur.Kind == TokenEOF {
		return &ParseError{Code: ErrCodeUnexpectedEOF, Message: "unexpected end of input " + context, Token: p.cur}
	}
	return &ParseError{Code: ErrCodeUnexpectedToken, Message: fmt.Sprintf("unexpected %s %s", p.cur, context), Token: p.cur}
}

func (p *parser) unclosed(open Token, closer string) *ParseError {
	return &ParseError{
		Code:    ErrCodeUnclosed,
		Message: fmt.Sprintf("%q opened at line %d, column %d is never closed with %q", open.Raw, open.Pos.Line, open.Pos.Column, closer),
		Token:   p.cur,
	}
}

// literal consumes the current token and returns n.
func (p *parser) literal(n Node) (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseValue() (Node, error) {
	tok := p.cur
	switch tok.Kind {
	case TokenUndefined:
		return p.literal(&UndefinedLiteral{PosVal: tok.Pos})
	case TokenNull:
		return p.literal(&NullLiteral{PosVal: tok.Pos})
	case TokenBoolean:
		return p.literal(&BooleanLiteral{PosVal: tok.Pos, Value: tok.Value.(bool)})
	case TokenString:
		return p.literal(&StringLiteral{PosVal: tok.Pos, Value: tok.Value.(string)})
	case TokenNumber:
		return p.literal(&NumberLiteral{PosVal: tok.Pos, Value: tok.Value.(float64), Raw: tok.Raw})
	case TokenBigInt:
		return p.literal(&BigIntLiteral{PosVal: tok.Pos, Value: tok.Value.(*big.Int)})
	case TokenIdentifier:
		return p.parseIdentifier()
	case TokenPunctuator:
		switch tok.Raw {
		case "[":
			return p.parseArray()
		case "{":
			return p.parseObject()
		}
	}
	return nil, p.unexpected("where a value was expected")
}

// parseArray parses [v, v, ...]. Commas between elements are optional and
// a trailing comma is allowed.
func (p *parser) parseArray() (Node, error) {
	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	arr := &ArrayExpression{PosVal: open.Pos}
	for !p.cur.isPunct("]") {
		if p.cur.Kind == TokenEOF {
			return nil, p.unclosed(open, "]")
		}
		el, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, el)
		if err := p.skipComma(); err != nil {
			return nil, err
		}
	}
	return arr, p.advance()
}

func (p *parser) parseObject() (Node, error) {
	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	obj := &ObjectExpression{PosVal: open.Pos}
	for !p.cur.isPunct("}") {
		if p.cur.Kind == TokenEOF {
			return nil, p.unclosed(open, "}")
		}
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if !p.cur.isPunct(":") {
			return nil, p.unexpected("after object key, expected \":\"")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, &ObjectProperty{PosVal: key.Pos(), Key: key, Value: value})
		if err := p.skipComma(); err != nil {
			return nil, err
		}
	}
	return obj, p.advance()
}

// parseKey accepts a string literal or a call expression such as
// Symbol("k").
func (p *parser) parseKey() (Node, error) {
	tok := p.cur
	switch {
	case tok.Kind == TokenString:
		return p.literal(&StringLiteral{PosVal: tok.Pos, Value: tok.Value.(string)})
	case tok.Kind == TokenIdentifier && p.peek.isPunct("("):
		return p.parseIdentifier()
	}
	return nil, &ParseError{
		Code:    ErrCodeInvalidKey,
		Message: fmt.Sprintf("object key must be a string or a call expression, got %s", tok),
		Token:   tok,
	}
}

func (p *parser) parseIdentifier() (Node, error) {
	tok := p.cur
	id := &Identifier{PosVal: tok.Pos, Name: tok.Value.(string)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if !p.cur.isPunct("(") {
		return id, nil
	}

	open := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	call := &CallExpression{PosVal: tok.Pos, Callee: id}
	for !p.cur.isPunct(")") {
		if p.cur.Kind == TokenEOF {
			return nil, p.unclosed(open, ")")
		}
		arg, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if err := p.skipComma(); err != nil {
			return nil, err
		}
	}
	return call, p.advance()
}

func (p *parser) skipComma() error {
	if p.cur.isPunct(",") {
		return p.advance()
	}
	return nil
}
