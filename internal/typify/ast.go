package typify

import "math/big"

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
	Kind() string
	node()
}

// Program is the root of a parsed document. Body holds at most one value;
// an empty body stands for absent input.
type Program struct {
	PosVal Position
	Body   []Node
}

type UndefinedLiteral struct{ PosVal Position }

type NullLiteral struct{ PosVal Position }

type BooleanLiteral struct {
	PosVal Position
	Value  bool
}

// NumberLiteral holds a float, including NaN and the infinities.
type NumberLiteral struct {
	PosVal Position
	Value  float64
	Raw    string
}

type BigIntLiteral struct {
	PosVal Position
	Value  *big.Int
}

type StringLiteral struct {
	PosVal Position
	Value  string
}

// Identifier is a bare name. It is only meaningful as a callee.
type Identifier struct {
	PosVal Position
	Name   string
}

// CallExpression is Name(arg, ...): a constructor or one of the special
// forms Ref, Symbol, SymbolFor, SymbolReg, ClassJson and ClassReg.
type CallExpression struct {
	PosVal Position
	Callee *Identifier
	Args   []Node
}

type ArrayExpression struct {
	PosVal   Position
	Elements []Node
}

type ObjectExpression struct {
	PosVal     Position
	Properties []*ObjectProperty
}

// ObjectProperty is one key: value entry. Key is a *StringLiteral or a
// *CallExpression.
type ObjectProperty struct {
	PosVal Position
	Key    Node
	Value  Node
}

func (n *Program) Pos() Position          { return n.PosVal }
func (n *UndefinedLiteral) Pos() Position { return n.PosVal }
func (n *NullLiteral) Pos() Position      { return n.PosVal }
func (n *BooleanLiteral) Pos() Position   { return n.PosVal }
func (n *NumberLiteral) Pos() Position    { return n.PosVal }
func (n *BigIntLiteral) Pos() Position    { return n.PosVal }
func (n *StringLiteral) Pos() Position    { return n.PosVal }
func (n *Identifier) Pos() Position       { return n.PosVal }
func (n *CallExpression) Pos() Position   { return n.PosVal }
func (n *ArrayExpression) Pos() Position  { return n.PosVal }
func (n *ObjectExpression) Pos() Position { return n.PosVal }
func (n *ObjectProperty) Pos() Position   { return n.PosVal }

func (*Program) Kind() string          { return "Program" }
func (*UndefinedLiteral) Kind() string { return "UndefinedLiteral" }
func (*NullLiteral) Kind() string      { return "NullLiteral" }
func (*BooleanLiteral) Kind() string   { return "BooleanLiteral" }
func (*NumberLiteral) Kind() string    { return "NumberLiteral" }
func (*BigIntLiteral) Kind() string    { return "BigIntLiteral" }
func (*StringLiteral) Kind() string    { return "StringLiteral" }
func (*Identifier) Kind() string       { return "Identifier" }
func (*CallExpression) Kind() string   { return "CallExpression" }
func (*ArrayExpression) Kind() string  { return "ArrayExpression" }
func (*ObjectExpression) Kind() string { return "ObjectExpression" }
func (*ObjectProperty) Kind() string   { return "ObjectProperty" }

func (*Program) node()          {}
func (*UndefinedLiteral) node() {}
func (*NullLiteral) node()      {}
func (*BooleanLiteral) node()   {}
func (*NumberLiteral) node()    {}
func (*BigIntLiteral) node()    {}
func (*StringLiteral) node()    {}
func (*Identifier) node()       {}
func (*CallExpression) node()   {}
func (*ArrayExpression) node()  {}
func (*ObjectExpression) node() {}
func (*ObjectProperty) node()   {}
