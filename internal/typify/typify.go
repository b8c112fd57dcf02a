// Package typify implements the text codec: a superset of plain data
// literals with constructor call syntax.
//
//	undefined null true 1.5 NaN -Infinity 12n "text"
//	[1,2] {"a": 1,Symbol("k"): 2}
//	Set([1,2]) Map([["k",1]]) Date("2024-01-02T03:04:05.000Z")
//	RegExp({"source": "a+","flags": "g"}) Uint8Array([1,2])
//	Ref("#/[0]") SymbolFor("app") SymbolReg("id")
//	ClassJson("Point", "1,2") ClassReg("Point", {"x": 1})
//
// Text is lexed, parsed into a Program and transformed into a value.
// Shared and cyclic references are written once; later occurrences become
// Ref(path) calls. Paths start at "#" and grow by "/[i]" for array
// elements, "/[i,0]" and "/[i,1]" for object keys and values and
// "/<Constructor>" for a constructor's argument.
package typify

import (
	"fmt"
	"log/slog"

	"github.com/roach88/jsonx/internal/registry"
)

// RootPath is the path of the top-level value.
const RootPath = "#"

// Codec stringifies and parses values against a set of registries. It
// holds no per-call state and is safe for concurrent use.
type Codec struct {
	reg    *registry.Registries
	logger *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Codec. A nil reg gets fresh empty registries.
func New(reg *registry.Registries, opts ...Option) *Codec {
	if reg == nil {
		reg = registry.New()
	}
	c := &Codec{reg: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registries returns the registries the codec resolves identifiers with.
func (c *Codec) Registries() *registry.Registries {
	return c.reg
}

// Parse lexes, parses and transforms text. Empty or blank input yields
// ir.Undefined.
func (c *Codec) Parse(text string) (any, error) {
	prog, err := ParseProgram(text)
	if err != nil {
		return nil, err
	}
	return c.Transform(prog)
}

func index(i int) string     { return fmt.Sprintf("[%d]", i) }
func keySlot(i int) string   { return fmt.Sprintf("[%d,0]", i) }
func valueSlot(i int) string { return fmt.Sprintf("[%d,1]", i) }

func join(path, segment string) string {
	return path + "/" + segment
}

